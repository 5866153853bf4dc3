package repository

import (
	"quizhub_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// CreateWithOptions inserts the question and its option set atomically.
func (r *QuestionRepository) CreateWithOptions(question *model.Question) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		options := question.Options
		question.Options = nil
		if err := tx.Create(question).Error; err != nil {
			return err
		}
		for i := range options {
			options[i].QuestionID = question.ID
			if err := tx.Create(&options[i]).Error; err != nil {
				return err
			}
		}
		question.Options = options
		return nil
	})
}

func (r *QuestionRepository) FindByID(id string) (*model.Question, error) {
	var q model.Question
	err := r.DB.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("options.created_at asc, options.id asc")
	}).First(&q, "id = ?", id).Error
	return &q, err
}

// ListByQuiz returns the quiz's questions with options, in creation order so
// repeated fetches are stable within a learner session.
func (r *QuestionRepository) ListByQuiz(quizID string) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("options.created_at asc, options.id asc")
	}).Where("quiz_id = ?", quizID).
		Order("created_at asc, id asc").
		Find(&qs).Error
	return qs, err
}

// ReplaceOptions updates the question row and swaps its full option set in a
// single transaction, so a concurrent read never observes a question with
// zero options.
func (r *QuestionRepository) ReplaceOptions(question *model.Question, options []model.Option) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		question.Options = nil
		if err := tx.Save(question).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("question_id = ?", question.ID).Delete(&model.Option{}).Error; err != nil {
			return err
		}
		for i := range options {
			options[i].QuestionID = question.ID
			if err := tx.Create(&options[i]).Error; err != nil {
				return err
			}
		}
		question.Options = options
		return nil
	})
}

// Delete soft-deletes the question and hard-deletes its options. Options are
// owned rows with no life of their own; they are always removed physically,
// here and in ReplaceOptions.
func (r *QuestionRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("question_id = ?", id).Delete(&model.Option{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Question{}, "id = ?", id).Error
	})
}
