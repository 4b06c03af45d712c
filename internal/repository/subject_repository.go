package repository

import (
	"context"
	"errors"
	"fmt"

	"quiz_backend/internal/model"
	"quiz_backend/internal/util"

	"gorm.io/gorm"
)

type SubjectRepository struct {
	DB *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{DB: db}
}

// List returns every subject ordered by id.
func (r *SubjectRepository) List(ctx context.Context) ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&subjects).Error
	return subjects, err
}

func (r *SubjectRepository) FindByID(ctx context.Context, id uint) (*model.Subject, error) {
	var subject model.Subject
	err := r.DB.WithContext(ctx).First(&subject, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("subject %d: %w", id, util.ErrSubjectNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

type subjectCount struct {
	SubjectID uint
	Total     int64
}

// QuestionCounts maps subject id to its number of questions. Subjects without
// questions are absent from the map.
func (r *SubjectRepository) QuestionCounts(ctx context.Context) (map[uint]int64, error) {
	var rows []subjectCount
	err := r.DB.WithContext(ctx).Model(&model.Question{}).
		Select("subject_id, COUNT(*) AS total").
		Group("subject_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.SubjectID] = row.Total
	}
	return counts, nil
}

func (r *SubjectRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&model.Subject{}, id).Error
}
