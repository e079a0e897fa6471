package model

import (
	"time"
)

// Question is an instructor-authored evaluation prompt. PromptID is the
// stable identifier Response rows reference.
type Question struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	PromptID     string    `json:"prompt_id" gorm:"uniqueIndex;size:100;not null"`
	Title        string    `json:"title" gorm:"size:255;not null"`
	QuestionText string    `json:"question_text" gorm:"type:text;not null"`
	AIPrompt     string    `json:"ai_prompt" gorm:"type:text;not null"` // grading rubric passed verbatim to the model
	ImageURL     *string   `json:"image_url,omitempty" gorm:"size:255"`
	CreatedAt    time.Time `json:"created_at"`
}
