package model

import (
	"time"
)

// Response is one student submission plus the model's verdict on it.
// Question holds the prompt_id it answers; it is a soft reference, kept as a
// plain string so historical rows survive catalog edits.
type Response struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	StudentID        string    `json:"student_id" gorm:"size:100;default:'anonymous'"`
	Question         string    `json:"question" gorm:"type:text;not null;index"`
	StudentAnswer    string    `json:"student_answer" gorm:"type:text;not null"`
	AIFeedback       string    `json:"ai_feedback" gorm:"type:text;not null"`
	Timestamp        time.Time `json:"timestamp" gorm:"autoCreateTime"`
	Rating           *int      `json:"rating,omitempty"`
	FeedbackComment  *string   `json:"feedback_comment,omitempty" gorm:"type:text"`
	IsAIGenerated    bool      `json:"is_ai_generated" gorm:"not null;default:false"`
	PerformanceGrade *string   `json:"performance_grade,omitempty" gorm:"size:50"`
}
