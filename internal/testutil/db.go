// Package testutil builds throwaway databases for package tests.
package testutil

import (
	"testing"

	"quiz_backend/internal/model"
	"quiz_backend/pkg/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a migrated in-memory sqlite database private to t.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(database.SQLiteDSN(":memory:")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every connection to :memory: is a new database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Fixture is a subject with its questions, in id order.
type Fixture struct {
	Subject   model.Subject
	Questions []SeededQuestion
}

type SeededQuestion struct {
	Question    model.Question
	Options     []model.Option
	Correct     model.Option
	Explanation *model.Explanation
}

// SeedSubject creates a subject with n questions, each with three options where the
// second one is correct, and an explanation on every other question.
func SeedSubject(t *testing.T, db *gorm.DB, name string, n int) Fixture {
	t.Helper()

	f := Fixture{Subject: model.Subject{Name: name, Description: name + " questions"}}
	if err := db.Create(&f.Subject).Error; err != nil {
		t.Fatalf("create subject: %v", err)
	}

	for i := 0; i < n; i++ {
		q := model.Question{
			SubjectID:   f.Subject.ID,
			TextContent: name + " question",
		}
		if i%2 == 0 {
			q.Hint = "think about it"
		}
		if err := db.Create(&q).Error; err != nil {
			t.Fatalf("create question: %v", err)
		}

		sq := SeededQuestion{Question: q}
		for j, text := range []string{"alpha", "beta", "gamma"} {
			opt := model.Option{QuestionID: q.ID, TextContent: text, IsCorrect: j == 1}
			if err := db.Create(&opt).Error; err != nil {
				t.Fatalf("create option: %v", err)
			}
			sq.Options = append(sq.Options, opt)
			if opt.IsCorrect {
				sq.Correct = opt
			}
		}

		if i%2 == 0 {
			e := model.Explanation{QuestionID: q.ID, TextContent: "because beta"}
			if err := db.Create(&e).Error; err != nil {
				t.Fatalf("create explanation: %v", err)
			}
			sq.Explanation = &e
		}
		f.Questions = append(f.Questions, sq)
	}
	return f
}

// Wrong returns an incorrect option of the question.
func (q SeededQuestion) Wrong() model.Option {
	for _, o := range q.Options {
		if !o.IsCorrect {
			return o
		}
	}
	return model.Option{}
}
