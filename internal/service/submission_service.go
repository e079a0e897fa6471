package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lshigami/Axolotls/internal/dto"
	"github.com/lshigami/Axolotls/internal/model"
	"github.com/lshigami/Axolotls/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const AnonymousStudentID = "anonymous"

// Surfaceed instead of real feedback when the submitted prompt_id does not
// match any Question. The submission is still recorded.
const FeedbackPromptNotFound = "Error: The requested prompt (question) could not be found."

// SubmissionService handles the student-facing flows: submitting an answer
// for evaluation and rating the feedback afterwards.
type SubmissionService interface {
	SubmitAnswer(ctx context.Context, req dto.EvaluateRequest) (*dto.EvaluateResponse, error)
	RateFeedback(ctx context.Context, req dto.RateFeedbackRequest) error
}

type submissionService struct {
	questionRepo repository.QuestionRepository
	responseRepo repository.ResponseRepository
	llm          GeminiLLMService
	mirror       SheetMirrorService
}

func NewSubmissionService(
	questionRepo repository.QuestionRepository,
	responseRepo repository.ResponseRepository,
	llm GeminiLLMService,
	mirror SheetMirrorService,
) SubmissionService {
	return &submissionService{
		questionRepo: questionRepo,
		responseRepo: responseRepo,
		llm:          llm,
		mirror:       mirror,
	}
}

// SubmitAnswer runs the authorship classifier and the feedback engine, then
// records exactly one Response row. Model failures never fail the request;
// they degrade to the fixed sentinel feedback per the engine contracts.
func (s *submissionService) SubmitAnswer(ctx context.Context, req dto.EvaluateRequest) (*dto.EvaluateResponse, error) {
	studentID := req.StudentID
	if studentID == "" {
		studentID = AnonymousStudentID
	}

	isAI := s.llm.ClassifyAuthorship(ctx, req.Answer)

	var feedback, grade string
	question, err := s.questionRepo.FindByPromptID(req.PromptID)
	switch {
	case err == nil:
		feedback, grade = s.llm.EvaluateAnswer(ctx, question.AIPrompt, req.Answer)
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Warn().Str("promptID", req.PromptID).Msg("SubmitAnswer: unknown prompt_id, recording error feedback")
		feedback, grade = FeedbackPromptNotFound, GradeError
	default:
		log.Error().Err(err).Str("promptID", req.PromptID).Msg("SubmitAnswer: question lookup failed")
		return nil, fmt.Errorf("failed to look up question %s: %w", req.PromptID, err)
	}

	response := model.Response{
		StudentID:        studentID,
		Question:         req.PromptID,
		StudentAnswer:    req.Answer,
		AIFeedback:       feedback,
		IsAIGenerated:    isAI,
		PerformanceGrade: &grade,
	}
	if err := s.responseRepo.Create(&response); err != nil {
		log.Error().Err(err).Str("promptID", req.PromptID).Msg("SubmitAnswer: failed to persist response")
		return nil, fmt.Errorf("failed to save response: %w", err)
	}

	s.mirror.MirrorResponse(ctx, &response)

	return &dto.EvaluateResponse{Feedback: feedback, ResponseID: response.ID}, nil
}

// RateFeedback overwrites the rating and comment on an existing response.
// Repeated ratings replace earlier values rather than appending.
func (s *submissionService) RateFeedback(ctx context.Context, req dto.RateFeedbackRequest) error {
	response, err := s.responseRepo.FindByID(req.ResponseID)
	if err != nil {
		return err
	}

	rating := req.Rating
	comment := req.Comment
	response.Rating = &rating
	response.FeedbackComment = &comment

	if err := s.responseRepo.Update(response); err != nil {
		log.Error().Err(err).Uint("responseID", req.ResponseID).Msg("RateFeedback: failed to update response")
		return fmt.Errorf("failed to save rating: %w", err)
	}

	s.mirror.MirrorRating(ctx, response)
	return nil
}
