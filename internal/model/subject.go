package model

import (
	"fmt"
	"unicode/utf8"

	"gorm.io/gorm"
)

const SubjectDescriptionMaxLen = 200

// Subject groups the questions of one quiz topic.
// swagger:model Subject
type Subject struct {
	BaseModel
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:200" json:"description"`
	LogoImage   string `gorm:"size:255" json:"logoImage"`
}

func (Subject) TableName() string {
	return "quiz_subject"
}

func (s *Subject) BeforeSave(tx *gorm.DB) error {
	if n := utf8.RuneCountInString(s.Description); n > SubjectDescriptionMaxLen {
		return fmt.Errorf("subject description must be under %d characters, got %d", SubjectDescriptionMaxLen, n)
	}
	return nil
}
