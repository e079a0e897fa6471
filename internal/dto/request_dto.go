package dto

// EvaluateRequest is the public submission payload. PromptID is the only
// hard requirement; StudentID falls back to the anonymous sentinel.
type EvaluateRequest struct {
	Answer    string `json:"answer"`
	PromptID  string `json:"prompt_id" binding:"required"`
	StudentID string `json:"student_id"`
}

type RateFeedbackRequest struct {
	ResponseID uint   `json:"response_id" binding:"required"`
	Rating     int    `json:"rating" binding:"required"`
	Comment    string `json:"comment"`
}

// QuestionFormRequest carries the multipart form fields for question create
// and update. The optional image file is read from the request separately.
type QuestionFormRequest struct {
	Title        string `form:"title"`
	QuestionText string `form:"question_text"`
	AIPrompt     string `form:"ai_prompt"`
}

type ClearProblemFeedbackRequest struct {
	PromptID string `json:"prompt_id" binding:"required"`
}
