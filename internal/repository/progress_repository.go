package repository

import (
	"context"
	"fmt"
	"time"

	"quiz_backend/internal/model"
	"quiz_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) WithTx(tx *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: tx}
}

// GetOrCreate returns the (user, question) row, inserting a zeroed one first when
// missing. Concurrent callers race on the unique index; the loser's insert is a
// no-op and both read the same row. Inside a transaction the row is locked for
// update on drivers that support it.
func (r *ProgressRepository) GetOrCreate(ctx context.Context, userID, subjectID, questionID uint) (*model.UserProgress, error) {
	db := r.DB.WithContext(ctx)

	fresh := model.UserProgress{
		UserID:     userID,
		SubjectID:  subjectID,
		QuestionID: questionID,
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil {
		return nil, fmt.Errorf("insert progress: %w", err)
	}

	var progress model.UserProgress
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		First(&progress).Error
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	return &progress, nil
}

// AnswerUpdate is the new answering state written by RecordAnswer.
type AnswerUpdate struct {
	Attempts          int
	AnsweredCorrectly bool
	SelectedOptionID  *uint
}

// RecordAnswer writes upd only if the row still holds the attempts value seen in
// current and is unresolved. Otherwise nothing is written and ErrProgressConflict
// is returned.
func (r *ProgressRepository) RecordAnswer(ctx context.Context, current *model.UserProgress, upd AnswerUpdate) error {
	res := r.DB.WithContext(ctx).Model(&model.UserProgress{}).
		Where("id = ? AND attempts = ? AND answered_correctly = ?", current.ID, current.Attempts, false).
		Updates(map[string]interface{}{
			"attempts":           upd.Attempts,
			"answered_correctly": upd.AnsweredCorrectly,
			"selected_option_id": upd.SelectedOptionID,
			"updated_at":         time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("progress %d: %w", current.ID, util.ErrProgressConflict)
	}

	current.Attempts = upd.Attempts
	current.AnsweredCorrectly = upd.AnsweredCorrectly
	current.SelectedOptionID = upd.SelectedOptionID
	return nil
}

// MarkHintUsed sets hint_used once; later calls leave the row untouched.
func (r *ProgressRepository) MarkHintUsed(ctx context.Context, current *model.UserProgress) error {
	err := r.DB.WithContext(ctx).Model(&model.UserProgress{}).
		Where("id = ? AND hint_used = ?", current.ID, false).
		Updates(map[string]interface{}{
			"hint_used":  true,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return err
	}
	current.HintUsed = true
	return nil
}

// ListForUserSubject returns the user's rows in the subject with their questions,
// ordered by question id.
func (r *ProgressRepository) ListForUserSubject(ctx context.Context, userID, subjectID uint) ([]model.UserProgress, error) {
	var rows []model.UserProgress
	err := r.DB.WithContext(ctx).
		Preload("Question").
		Where("user_id = ? AND subject_id = ?", userID, subjectID).
		Order("question_id ASC").
		Find(&rows).Error
	return rows, err
}
