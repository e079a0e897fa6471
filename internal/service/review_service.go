package service

import (
	"context"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Axolotls/internal/dto"
	"github.com/lshigami/Axolotls/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SummaryNoData is returned without touching the model when there are no
// human-written responses to summarize.
const SummaryNoData = "Not enough data to generate a summary."

// The dashboard filter menu sends this instead of an empty prompt_id.
const summaryFilterAll = "all"

// ReviewService backs the admin dashboard: browsing submissions, generating
// class summaries, and bulk-clearing feedback data.
type ReviewService interface {
	ListFeedback(promptID string) ([]dto.FeedbackResponse, error)
	GetSummary(ctx context.Context, promptID string) (string, error)
	ClearProblemFeedback(promptID string) error
	ClearAllFeedback() error
}

type reviewService struct {
	responseRepo repository.ResponseRepository
	llm          GeminiLLMService
	db           *gorm.DB
}

func NewReviewService(responseRepo repository.ResponseRepository, llm GeminiLLMService, db *gorm.DB) ReviewService {
	return &reviewService{responseRepo: responseRepo, llm: llm, db: db}
}

func (s *reviewService) ListFeedback(promptID string) ([]dto.FeedbackResponse, error) {
	responses, err := s.responseRepo.FindAll(promptID)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	out := make([]dto.FeedbackResponse, 0, len(responses))
	for _, r := range responses {
		var item dto.FeedbackResponse
		copier.Copy(&item, &r)
		out = append(out, item)
	}
	return out, nil
}

// GetSummary summarizes human-written answers only; AI-flagged submissions
// would skew the class picture.
func (s *reviewService) GetSummary(ctx context.Context, promptID string) (string, error) {
	if promptID == summaryFilterAll {
		promptID = ""
	}

	answers, err := s.responseRepo.FindHumanAnswers(promptID)
	if err != nil {
		return "", fmt.Errorf("failed to collect answers for summary: %w", err)
	}
	if len(answers) == 0 {
		return SummaryNoData, nil
	}
	return s.llm.SummarizeAnswers(ctx, answers), nil
}

func (s *reviewService) ClearProblemFeedback(promptID string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.responseRepo.DeleteByQuestionTx(tx, promptID)
	})
	if err != nil {
		log.Error().Err(err).Str("promptID", promptID).Msg("ClearProblemFeedback: transaction rolled back")
		return fmt.Errorf("failed to clear feedback for %s: %w", promptID, err)
	}
	return nil
}

func (s *reviewService) ClearAllFeedback() error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.responseRepo.DeleteAllTx(tx)
	})
	if err != nil {
		log.Error().Err(err).Msg("ClearAllFeedback: transaction rolled back")
		return fmt.Errorf("failed to clear all feedback: %w", err)
	}
	return nil
}
