package service

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Axolotls/internal/dto"
	"github.com/lshigami/Axolotls/internal/model"
	"github.com/lshigami/Axolotls/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// QuestionService manages the instructor-authored question catalog.
type QuestionService interface {
	CreateQuestion(ctx context.Context, form dto.QuestionFormRequest, image io.Reader) (*dto.QuestionResponse, error)
	UpdateQuestion(ctx context.Context, promptID string, form dto.QuestionFormRequest, image io.Reader) (*dto.QuestionResponse, error)
	// DeleteQuestion removes the question together with every Response that
	// references its prompt_id, in one transaction.
	DeleteQuestion(promptID string) error
	GetQuestionDetails(promptID string) (*dto.QuestionDetailsResponse, error)
	ListProblems() ([]dto.ProblemSummary, error)
	ListQuestions() ([]dto.QuestionResponse, error)
}

type questionService struct {
	questionRepo repository.QuestionRepository
	responseRepo repository.ResponseRepository
	uploader     ImageUploadService
	db           *gorm.DB
}

func NewQuestionService(
	questionRepo repository.QuestionRepository,
	responseRepo repository.ResponseRepository,
	uploader ImageUploadService,
	db *gorm.DB,
) QuestionService {
	return &questionService{
		questionRepo: questionRepo,
		responseRepo: responseRepo,
		uploader:     uploader,
		db:           db,
	}
}

var slugCleanRe = regexp.MustCompile(`[^a-z0-9-]+`)

// newPromptID derives a stable identifier from the title plus a timestamp so
// re-creating a question with the same title never collides.
func newPromptID(title string) string {
	base := slugCleanRe.ReplaceAllString(strings.ReplaceAll(strings.ToLower(title), " ", "-"), "")
	return fmt.Sprintf("%s-%d", base, time.Now().Unix())
}

func (s *questionService) CreateQuestion(ctx context.Context, form dto.QuestionFormRequest, image io.Reader) (*dto.QuestionResponse, error) {
	question := model.Question{
		PromptID:     newPromptID(form.Title),
		Title:        form.Title,
		QuestionText: form.QuestionText,
		AIPrompt:     form.AIPrompt,
	}

	if image != nil {
		url, err := s.uploader.UploadImage(ctx, image)
		if err != nil {
			log.Error().Err(err).Msg("CreateQuestion: image upload failed")
			return nil, err
		}
		question.ImageURL = &url
	}

	if err := s.questionRepo.Create(&question); err != nil {
		log.Error().Err(err).Str("promptID", question.PromptID).Msg("CreateQuestion: database write failed")
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	var resp dto.QuestionResponse
	copier.Copy(&resp, &question)
	return &resp, nil
}

// UpdateQuestion overwrites the provided form fields; empty fields keep their
// current value. A new image replaces the stored URL.
func (s *questionService) UpdateQuestion(ctx context.Context, promptID string, form dto.QuestionFormRequest, image io.Reader) (*dto.QuestionResponse, error) {
	question, err := s.questionRepo.FindByPromptID(promptID)
	if err != nil {
		return nil, err
	}

	if form.Title != "" {
		question.Title = form.Title
	}
	if form.QuestionText != "" {
		question.QuestionText = form.QuestionText
	}
	if form.AIPrompt != "" {
		question.AIPrompt = form.AIPrompt
	}
	if image != nil {
		url, err := s.uploader.UploadImage(ctx, image)
		if err != nil {
			log.Error().Err(err).Str("promptID", promptID).Msg("UpdateQuestion: image upload failed")
			return nil, err
		}
		question.ImageURL = &url
	}

	if err := s.questionRepo.Update(question); err != nil {
		log.Error().Err(err).Str("promptID", promptID).Msg("UpdateQuestion: database write failed")
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	var resp dto.QuestionResponse
	copier.Copy(&resp, question)
	return &resp, nil
}

func (s *questionService) DeleteQuestion(promptID string) error {
	if _, err := s.questionRepo.FindByPromptID(promptID); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.responseRepo.DeleteByQuestionTx(tx, promptID); err != nil {
			return fmt.Errorf("failed to delete responses for %s: %w", promptID, err)
		}
		if err := s.questionRepo.DeleteTx(tx, promptID); err != nil {
			return fmt.Errorf("failed to delete question %s: %w", promptID, err)
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("promptID", promptID).Msg("DeleteQuestion: transaction rolled back")
	}
	return err
}

func (s *questionService) GetQuestionDetails(promptID string) (*dto.QuestionDetailsResponse, error) {
	question, err := s.questionRepo.FindByPromptID(promptID)
	if err != nil {
		return nil, err
	}
	return &dto.QuestionDetailsResponse{
		Title:        question.Title,
		QuestionText: question.QuestionText,
		ImageSrc:     question.ImageURL,
	}, nil
}

func (s *questionService) ListProblems() ([]dto.ProblemSummary, error) {
	questions, err := s.questionRepo.FindAll()
	if err != nil {
		return nil, err
	}
	problems := make([]dto.ProblemSummary, 0, len(questions))
	for _, q := range questions {
		problems = append(problems, dto.ProblemSummary{PromptID: q.PromptID, Title: q.Title})
	}
	return problems, nil
}

func (s *questionService) ListQuestions() ([]dto.QuestionResponse, error) {
	questions, err := s.questionRepo.FindAll()
	if err != nil {
		return nil, err
	}
	resp := make([]dto.QuestionResponse, 0, len(questions))
	for _, q := range questions {
		var item dto.QuestionResponse
		copier.Copy(&item, &q)
		resp = append(resp, item)
	}
	return resp, nil
}
