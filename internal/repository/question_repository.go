package repository

import (
	"github.com/lshigami/Axolotls/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(question *model.Question) error
	FindByPromptID(promptID string) (*model.Question, error)
	FindAll() ([]model.Question, error)
	Update(question *model.Question) error
	// DeleteTx removes the question inside the caller's transaction so the
	// cascade over Responses commits or rolls back with it.
	DeleteTx(tx *gorm.DB, promptID string) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.Question) error {
	return r.db.Create(question).Error
}

func (r *questionRepository) FindByPromptID(promptID string) (*model.Question, error) {
	var question model.Question
	if err := r.db.Where("prompt_id = ?", promptID).First(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindAll() ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.Order("created_at desc").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) Update(question *model.Question) error {
	return r.db.Save(question).Error
}

func (r *questionRepository) DeleteTx(tx *gorm.DB, promptID string) error {
	return tx.Where("prompt_id = ?", promptID).Delete(&model.Question{}).Error
}
