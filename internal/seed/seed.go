// Package seed loads quiz reference data from YAML fixtures.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"quiz_backend/internal/model"
	"quiz_backend/pkg/logger"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type File struct {
	Subjects []Subject `yaml:"subjects"`
}

type Subject struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	LogoImage   string     `yaml:"logo_image"`
	Questions   []Question `yaml:"questions"`
}

type Question struct {
	Type             string   `yaml:"type"`
	Text             string   `yaml:"text"`
	Image            string   `yaml:"image"`
	Hint             string   `yaml:"hint"`
	Options          []Option `yaml:"options"`
	Explanation      string   `yaml:"explanation"`
	ExplanationImage string   `yaml:"explanation_image"`
}

type Option struct {
	Text    string `yaml:"text"`
	Image   string `yaml:"image"`
	Correct bool   `yaml:"correct"`
}

func Parse(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &f, f.Validate()
}

func ParseFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return Parse(fh)
}

// Validate rejects fixtures the answering flow would refuse to serve.
func (f *File) Validate() error {
	for _, s := range f.Subjects {
		if s.Name == "" {
			return errors.New("subject without a name")
		}
		for i, q := range s.Questions {
			correct := 0
			for _, o := range q.Options {
				if o.Correct {
					correct++
				}
			}
			if correct != 1 {
				return fmt.Errorf("subject %q question %d: %d correct options, need exactly 1", s.Name, i+1, correct)
			}
		}
	}
	return nil
}

type Report struct {
	Created  int
	Skipped  int
	Replaced int
}

// Apply writes the fixture in one transaction. Subjects that already exist by
// name are skipped, or deleted and recreated when replace is set.
func Apply(ctx context.Context, db *gorm.DB, f *File, replace bool) (Report, error) {
	var report Report
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, s := range f.Subjects {
			var existing []model.Subject
			if err := tx.Where("name = ?", s.Name).Limit(1).Find(&existing).Error; err != nil {
				return err
			}
			if len(existing) > 0 {
				if !replace {
					report.Skipped++
					continue
				}
				if err := tx.Delete(&existing[0]).Error; err != nil {
					return fmt.Errorf("delete subject %q: %w", s.Name, err)
				}
				report.Replaced++
			} else {
				report.Created++
			}

			if err := createSubject(tx, s); err != nil {
				return fmt.Errorf("subject %q: %w", s.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return Report{}, err
	}

	logger.Log.Info("Seed applied",
		zap.Int("created", report.Created),
		zap.Int("replaced", report.Replaced),
		zap.Int("skipped", report.Skipped),
	)
	return report, nil
}

func createSubject(tx *gorm.DB, s Subject) error {
	subject := model.Subject{Name: s.Name, Description: s.Description, LogoImage: s.LogoImage}
	if err := tx.Create(&subject).Error; err != nil {
		return err
	}

	for _, q := range s.Questions {
		question := model.Question{
			SubjectID:    subject.ID,
			QuestionType: model.QuestionType(q.Type),
			TextContent:  q.Text,
			ImageContent: q.Image,
			Hint:         q.Hint,
		}
		if err := tx.Create(&question).Error; err != nil {
			return err
		}

		for _, o := range q.Options {
			option := model.Option{
				QuestionID:   question.ID,
				TextContent:  o.Text,
				ImageContent: o.Image,
				IsCorrect:    o.Correct,
			}
			if err := tx.Create(&option).Error; err != nil {
				return err
			}
		}

		if q.Explanation != "" || q.ExplanationImage != "" {
			e := model.Explanation{QuestionID: question.ID, TextContent: q.Explanation, ImageContent: q.ExplanationImage}
			if err := tx.Create(&e).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
