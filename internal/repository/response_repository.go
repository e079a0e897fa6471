package repository

import (
	"github.com/lshigami/Axolotls/internal/model"
	"gorm.io/gorm"
)

type ResponseRepository interface {
	Create(response *model.Response) error
	FindByID(id uint) (*model.Response, error)
	// FindAll returns responses newest-first, optionally restricted to one
	// prompt_id.
	FindAll(promptID string) ([]model.Response, error)
	// FindHumanAnswers returns the answers of non-AI-flagged responses,
	// optionally restricted to one prompt_id, in submission order.
	FindHumanAnswers(promptID string) ([]string, error)
	Update(response *model.Response) error
	DeleteByQuestionTx(tx *gorm.DB, promptID string) error
	DeleteAllTx(tx *gorm.DB) error
}

type responseRepository struct {
	db *gorm.DB
}

func NewResponseRepository(db *gorm.DB) ResponseRepository {
	return &responseRepository{db: db}
}

func (r *responseRepository) Create(response *model.Response) error {
	return r.db.Create(response).Error
}

func (r *responseRepository) FindByID(id uint) (*model.Response, error) {
	var response model.Response
	if err := r.db.First(&response, id).Error; err != nil {
		return nil, err
	}
	return &response, nil
}

func (r *responseRepository) FindAll(promptID string) ([]model.Response, error) {
	var responses []model.Response
	query := r.db.Order("timestamp desc")
	if promptID != "" {
		query = query.Where("question = ?", promptID)
	}
	if err := query.Find(&responses).Error; err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *responseRepository) FindHumanAnswers(promptID string) ([]string, error) {
	var responses []model.Response
	query := r.db.Where("is_ai_generated = ?", false).Order("timestamp asc")
	if promptID != "" {
		query = query.Where("question = ?", promptID)
	}
	if err := query.Find(&responses).Error; err != nil {
		return nil, err
	}
	answers := make([]string, 0, len(responses))
	for _, resp := range responses {
		answers = append(answers, resp.StudentAnswer)
	}
	return answers, nil
}

func (r *responseRepository) Update(response *model.Response) error {
	return r.db.Save(response).Error
}

func (r *responseRepository) DeleteByQuestionTx(tx *gorm.DB, promptID string) error {
	return tx.Where("question = ?", promptID).Delete(&model.Response{}).Error
}

func (r *responseRepository) DeleteAllTx(tx *gorm.DB) error {
	return tx.Where("1 = 1").Delete(&model.Response{}).Error
}
