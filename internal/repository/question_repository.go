package repository

import (
	"context"
	"errors"
	"fmt"

	"quiz_backend/internal/model"
	"quiz_backend/internal/util"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) WithTx(tx *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: tx}
}

// FindInSubject loads a question only when it belongs to the subject.
func (r *QuestionRepository) FindInSubject(ctx context.Context, subjectID, questionID uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.WithContext(ctx).
		Where("id = ? AND subject_id = ?", questionID, subjectID).
		First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("question %d in subject %d: %w", questionID, subjectID, util.ErrQuestionNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// FindFirst returns the lowest-id question of the subject, or nil when it has none.
func (r *QuestionRepository) FindFirst(ctx context.Context, subjectID uint) (*model.Question, error) {
	return r.findOne(r.DB.WithContext(ctx).Where("subject_id = ?", subjectID))
}

// FindNext returns the question following afterID in id order, or nil at the end.
func (r *QuestionRepository) FindNext(ctx context.Context, subjectID, afterID uint) (*model.Question, error) {
	return r.findOne(r.DB.WithContext(ctx).Where("subject_id = ? AND id > ?", subjectID, afterID))
}

func (r *QuestionRepository) findOne(query *gorm.DB) (*model.Question, error) {
	var questions []model.Question
	if err := query.Order("id ASC").Limit(1).Find(&questions).Error; err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, nil
	}
	return &questions[0], nil
}

func (r *QuestionRepository) CountBySubject(ctx context.Context, subjectID uint) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).Model(&model.Question{}).
		Where("subject_id = ?", subjectID).
		Count(&total).Error
	return total, err
}

// Position is the 1-based index of the question within its subject.
func (r *QuestionRepository) Position(ctx context.Context, subjectID, questionID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Question{}).
		Where("subject_id = ? AND id <= ?", subjectID, questionID).
		Count(&n).Error
	return n, err
}

func (r *QuestionRepository) ListOptions(ctx context.Context, questionID uint) ([]model.Option, error) {
	var options []model.Option
	err := r.DB.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("id ASC").
		Find(&options).Error
	return options, err
}

// FindExplanation returns nil when the question has no explanation.
func (r *QuestionRepository) FindExplanation(ctx context.Context, questionID uint) (*model.Explanation, error) {
	var explanations []model.Explanation
	err := r.DB.WithContext(ctx).
		Where("question_id = ?", questionID).
		Limit(1).
		Find(&explanations).Error
	if err != nil || len(explanations) == 0 {
		return nil, err
	}
	return &explanations[0], nil
}
