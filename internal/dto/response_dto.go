package dto

import "time"

type EvaluateResponse struct {
	Feedback   string `json:"feedback"`
	ResponseID uint   `json:"response_id"`
}

type QuestionDetailsResponse struct {
	Title        string  `json:"title"`
	QuestionText string  `json:"question_text"`
	ImageSrc     *string `json:"image_src"`
}

// ProblemSummary feeds the dashboard filter menu.
type ProblemSummary struct {
	PromptID string `json:"prompt_id"`
	Title    string `json:"title"`
}

type QuestionResponse struct {
	PromptID     string    `json:"prompt_id"`
	Title        string    `json:"title"`
	QuestionText string    `json:"question_text"`
	AIPrompt     string    `json:"ai_prompt"`
	ImageURL     *string   `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
}

type FeedbackResponse struct {
	ID               uint      `json:"id"`
	StudentID        string    `json:"student_id"`
	Question         string    `json:"question"`
	StudentAnswer    string    `json:"student_answer"`
	AIFeedback       string    `json:"ai_feedback"`
	Timestamp        time.Time `json:"timestamp"`
	Rating           *int      `json:"rating"`
	FeedbackComment  *string   `json:"feedback_comment"`
	IsAIGenerated    bool      `json:"is_ai_generated"`
	PerformanceGrade *string   `json:"performance_grade"`
}

type SummaryResponse struct {
	Summary string `json:"summary"`
}

// StatusResponse is the generic admin-action result envelope.
type StatusResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
	PromptID string `json:"prompt_id,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
