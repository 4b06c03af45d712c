package model

import (
	"fmt"

	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionText  QuestionType = "text"
	QuestionImage QuestionType = "image"
)

// swagger:model Question
type Question struct {
	BaseModel
	SubjectID    uint         `gorm:"not null;index" json:"subjectId"`
	Subject      *Subject     `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	QuestionType QuestionType `gorm:"size:10;not null;default:'text'" json:"questionType"`
	TextContent  string       `gorm:"type:text" json:"textContent"`
	ImageContent string       `gorm:"size:255" json:"imageContent"`
	Hint         string       `gorm:"type:text" json:"hint"`
}

func (Question) TableName() string {
	return "quiz_question"
}

func (q *Question) BeforeSave(tx *gorm.DB) error {
	if q.QuestionType == "" {
		q.QuestionType = QuestionText
	}
	switch q.QuestionType {
	case QuestionText, QuestionImage:
		return nil
	default:
		return fmt.Errorf("unknown question type %q", q.QuestionType)
	}
}

// swagger:model Option
type Option struct {
	BaseModel
	QuestionID   uint      `gorm:"not null;index" json:"questionId"`
	Question     *Question `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	TextContent  string    `gorm:"type:text" json:"textContent"`
	ImageContent string    `gorm:"size:255" json:"imageContent"`
	IsCorrect    bool      `gorm:"default:false" json:"-"`
}

func (Option) TableName() string {
	return "quiz_option"
}

// Explanation is shown once a question is resolved.
// swagger:model Explanation
type Explanation struct {
	BaseModel
	QuestionID   uint      `gorm:"not null;uniqueIndex" json:"questionId"`
	Question     *Question `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	TextContent  string    `gorm:"type:text" json:"textContent"`
	ImageContent string    `gorm:"size:255" json:"imageContent"`
}

func (Explanation) TableName() string {
	return "quiz_explanation"
}
