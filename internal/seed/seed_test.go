package seed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quiz_backend/internal/model"
	"quiz_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `
subjects:
  - name: Math
    description: Numbers
    questions:
      - text: "2 + 2?"
        hint: even
        options:
          - text: "3"
          - text: "4"
            correct: true
        explanation: two pairs
      - type: image
        image: q/shapes.png
        options:
          - text: square
            correct: true
          - text: circle
`

func TestParseAndApply(t *testing.T) {
	f, err := Parse(strings.NewReader(fixture))
	require.NoError(t, err)
	require.Len(t, f.Subjects, 1)

	db := testutil.NewTestDB(t)
	ctx := context.Background()

	report, err := Apply(ctx, db, f, false)
	require.NoError(t, err)
	assert.Equal(t, Report{Created: 1}, report)

	var questions []model.Question
	require.NoError(t, db.Order("id").Find(&questions).Error)
	require.Len(t, questions, 2)
	assert.Equal(t, model.QuestionText, questions[0].QuestionType)
	assert.Equal(t, model.QuestionImage, questions[1].QuestionType)

	var explanations int64
	require.NoError(t, db.Model(&model.Explanation{}).Count(&explanations).Error)
	assert.EqualValues(t, 1, explanations)

	report, err = Apply(ctx, db, f, false)
	require.NoError(t, err)
	assert.Equal(t, Report{Skipped: 1}, report)

	report, err = Apply(ctx, db, f, true)
	require.NoError(t, err)
	assert.Equal(t, Report{Replaced: 1}, report)

	var options int64
	require.NoError(t, db.Model(&model.Option{}).Count(&options).Error)
	assert.EqualValues(t, 4, options)
}

func TestValidateRejectsAmbiguousQuestion(t *testing.T) {
	_, err := Parse(strings.NewReader(`
subjects:
  - name: Broken
    questions:
      - text: pick
        options:
          - text: a
            correct: true
          - text: b
            correct: true
`))
	assert.ErrorContains(t, err, "2 correct options")
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse(strings.NewReader("subjects:\n  - name: X\n    colour: red\n"))
	assert.Error(t, err)
}

func TestBundledFixtureIsValid(t *testing.T) {
	path := filepath.Join("..", "..", "configs", "seed.yaml")
	if _, err := os.Stat(path); err != nil {
		t.Skip("no bundled fixture")
	}
	f, err := ParseFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, f.Subjects)
}
