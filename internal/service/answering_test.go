package service

import (
	"testing"

	"quiz_backend/internal/model"
	"quiz_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDefaultHint = "No hint available for this question."

func sampleQuestion() (model.Question, []model.Option, *model.Explanation) {
	q := model.Question{BaseModel: model.BaseModel{ID: 10}, SubjectID: 1, TextContent: "2 + 2?", Hint: "even"}
	opts := []model.Option{
		{BaseModel: model.BaseModel{ID: 101}, QuestionID: 10, TextContent: "3"},
		{BaseModel: model.BaseModel{ID: 102}, QuestionID: 10, TextContent: "4", IsCorrect: true},
		{BaseModel: model.BaseModel{ID: 103}, QuestionID: 10, TextContent: "5"},
	}
	e := &model.Explanation{QuestionID: 10, TextContent: "two pairs"}
	return q, opts, e
}

func uintPtr(v uint) *uint { return &v }

func submit(id uint) AnswerInput {
	return AnswerInput{Submitted: true, SelectedOptionID: uintPtr(id)}
}

// apply persists an outcome the way the service does.
func apply(p model.UserProgress, out *Outcome) model.UserProgress {
	if out.MarkHint {
		p.HintUsed = true
	}
	if out.Update != nil {
		p.Attempts = out.Update.Attempts
		p.AnsweredCorrectly = out.Update.AnsweredCorrectly
		p.SelectedOptionID = out.Update.SelectedOptionID
	}
	return p
}

func TestStateOf(t *testing.T) {
	tests := []struct {
		name string
		p    model.UserProgress
		want ProgressState
	}{
		{"fresh", model.UserProgress{}, StateUnanswered},
		{"one wrong", model.UserProgress{Attempts: 1}, StateOneWrongAttempt},
		{"correct first", model.UserProgress{Attempts: 1, AnsweredCorrectly: true}, StateResolvedCorrect},
		{"correct second", model.UserProgress{Attempts: 2, AnsweredCorrectly: true}, StateResolvedCorrect},
		{"exhausted", model.UserProgress{Attempts: 2}, StateResolvedExhausted},
		{"over cap", model.UserProgress{Attempts: 5}, StateResolvedExhausted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StateOf(tt.p))
		})
	}
}

func TestCorrectOnFirstAttempt(t *testing.T) {
	q, opts, e := sampleQuestion()

	out, err := EvaluateAnswer(model.UserProgress{}, q, opts, e, submit(102), testDefaultHint)
	require.NoError(t, err)

	assert.Equal(t, StateResolvedCorrect, out.State)
	assert.True(t, out.Advance)
	assert.Equal(t, OutcomeCorrect, out.Label)
	require.NotNil(t, out.Update)
	assert.Equal(t, 1, out.Update.Attempts)
	assert.True(t, out.Update.AnsweredCorrectly)
	assert.Equal(t, uint(102), *out.Update.SelectedOptionID)
	assert.Equal(t, FeedbackSuccess, out.Feedback.Type)
	assert.Equal(t, "two pairs", out.Feedback.Explanation)
	assert.Same(t, e, out.Explanation)
}

func TestCorrectOnSecondAttempt(t *testing.T) {
	q, opts, e := sampleQuestion()

	out, err := EvaluateAnswer(model.UserProgress{Attempts: 1}, q, opts, e, submit(102), testDefaultHint)
	require.NoError(t, err)
	assert.Equal(t, StateResolvedCorrect, out.State)
	assert.Equal(t, 2, out.Update.Attempts)
	assert.True(t, out.Advance)
}

func TestTwoWrongAnswersExhaust(t *testing.T) {
	q, opts, e := sampleQuestion()
	p := model.UserProgress{}

	first, err := EvaluateAnswer(p, q, opts, e, submit(101), testDefaultHint)
	require.NoError(t, err)
	assert.Equal(t, StateOneWrongAttempt, first.State)
	assert.Equal(t, "Wrong Answer", first.Feedback.Title)
	assert.True(t, first.ShowHintOption)
	assert.Equal(t, []uint{101}, first.WrongOptionIDs)
	assert.False(t, first.Advance)
	assert.Nil(t, first.CorrectOption)
	p = apply(p, first)

	second, err := EvaluateAnswer(p, q, opts, e, submit(103), testDefaultHint)
	require.NoError(t, err)
	assert.Equal(t, StateResolvedExhausted, second.State)
	assert.Equal(t, "Attempts Completed", second.Feedback.Title)
	assert.Equal(t, "The correct answer is: 4", second.Feedback.Message)
	assert.Equal(t, "two pairs", second.Feedback.Explanation)
	assert.ElementsMatch(t, []uint{101, 103}, second.WrongOptionIDs)
	assert.True(t, second.HighlightCorrect)
	assert.True(t, second.HighlightWrong)
	assert.True(t, second.Advance)
	require.NotNil(t, second.CorrectOption)
	assert.Equal(t, uint(102), second.CorrectOption.ID)
	p = apply(p, second)
	assert.Equal(t, 2, p.Attempts)

	third, err := EvaluateAnswer(p, q, opts, e, submit(102), testDefaultHint)
	require.NoError(t, err)
	assert.Nil(t, third.Update)
	assert.True(t, third.Locked)
	assert.True(t, third.Advance)
	assert.Equal(t, "Answer Locked", third.Feedback.Title)
	assert.Equal(t, OutcomeLocked, third.Label)
	assert.Equal(t, 2, apply(p, third).Attempts)
}

func TestResolvedCorrectLocks(t *testing.T) {
	q, opts, e := sampleQuestion()
	p := model.UserProgress{Attempts: 1, AnsweredCorrectly: true, SelectedOptionID: uintPtr(102)}

	out, err := EvaluateAnswer(p, q, opts, e, submit(101), testDefaultHint)
	require.NoError(t, err)
	assert.Nil(t, out.Update)
	assert.Equal(t, StateResolvedCorrect, out.State)
	assert.Equal(t, 1, out.Attempts)
	assert.Equal(t, uint(102), *out.SelectedOptionID)
}

func TestEmptySubmissionKeepsAttempts(t *testing.T) {
	q, opts, e := sampleQuestion()

	for _, attempts := range []int{0, 1} {
		p := model.UserProgress{Attempts: attempts}
		out, err := EvaluateAnswer(p, q, opts, e, AnswerInput{Submitted: true}, testDefaultHint)
		require.NoError(t, err)

		assert.Nil(t, out.Update)
		assert.Equal(t, attempts, out.Attempts)
		assert.Equal(t, FeedbackWarning, out.Feedback.Type)
		assert.Equal(t, "No Answer Selected", out.Feedback.Title)
		assert.Equal(t, OutcomeEmpty, out.Label)
		assert.Equal(t, attempts, apply(p, out).Attempts)
	}
}

func TestHintIsMarkedOnce(t *testing.T) {
	q, opts, e := sampleQuestion()
	p := model.UserProgress{}

	first, err := EvaluateAnswer(p, q, opts, e, AnswerInput{RevealHint: true}, testDefaultHint)
	require.NoError(t, err)
	assert.True(t, first.MarkHint)
	assert.Equal(t, "even", first.Hint)
	assert.Equal(t, StateUnanswered, first.State)
	p = apply(p, first)
	assert.True(t, p.HintUsed)

	again, err := EvaluateAnswer(p, q, opts, e, AnswerInput{RevealHint: true}, testDefaultHint)
	require.NoError(t, err)
	assert.False(t, again.MarkHint)
	assert.Nil(t, again.Update)
	assert.Equal(t, "even", again.Hint)

	// a plain view keeps showing the revealed hint
	view, err := EvaluateAnswer(p, q, opts, e, AnswerInput{}, testDefaultHint)
	require.NoError(t, err)
	assert.Equal(t, "even", view.Hint)
}

func TestHintAfterWrongAnswer(t *testing.T) {
	q, opts, e := sampleQuestion()

	out, err := EvaluateAnswer(model.UserProgress{Attempts: 1}, q, opts, e, AnswerInput{RevealHint: true}, testDefaultHint)
	require.NoError(t, err)
	assert.True(t, out.MarkHint)
	assert.Equal(t, 1, out.Attempts)
}

func TestHintOnResolvedQuestionDoesNotMutate(t *testing.T) {
	q, opts, e := sampleQuestion()

	out, err := EvaluateAnswer(model.UserProgress{Attempts: 2}, q, opts, e, AnswerInput{RevealHint: true}, testDefaultHint)
	require.NoError(t, err)
	assert.False(t, out.MarkHint)
	assert.False(t, out.HintUsed)
	assert.Equal(t, "even", out.Hint)
}

func TestDefaultHint(t *testing.T) {
	q, opts, e := sampleQuestion()
	q.Hint = ""

	out, err := EvaluateAnswer(model.UserProgress{}, q, opts, e, AnswerInput{RevealHint: true}, testDefaultHint)
	require.NoError(t, err)
	assert.Equal(t, testDefaultHint, out.Hint)
}

func TestUnknownOption(t *testing.T) {
	q, opts, e := sampleQuestion()

	_, err := EvaluateAnswer(model.UserProgress{}, q, opts, e, submit(999), testDefaultHint)
	assert.ErrorIs(t, err, util.ErrOptionNotFound)
}

func TestInvalidQuestion(t *testing.T) {
	q, opts, e := sampleQuestion()

	twoCorrect := append([]model.Option(nil), opts...)
	twoCorrect[0].IsCorrect = true
	_, err := EvaluateAnswer(model.UserProgress{}, q, twoCorrect, e, submit(102), testDefaultHint)
	assert.ErrorIs(t, err, util.ErrInvalidQuestion)

	noneCorrect := append([]model.Option(nil), opts...)
	noneCorrect[1].IsCorrect = false
	_, err = EvaluateAnswer(model.UserProgress{}, q, noneCorrect, e, AnswerInput{}, testDefaultHint)
	assert.ErrorIs(t, err, util.ErrInvalidQuestion)

	_, err = EvaluateAnswer(model.UserProgress{}, q, nil, e, AnswerInput{}, testDefaultHint)
	assert.ErrorIs(t, err, util.ErrInvalidQuestion)
}

func TestViewOfExhaustedQuestion(t *testing.T) {
	q, opts, _ := sampleQuestion()

	out, err := EvaluateAnswer(model.UserProgress{Attempts: 2}, q, opts, nil, AnswerInput{}, testDefaultHint)
	require.NoError(t, err)
	assert.Nil(t, out.Feedback)
	assert.True(t, out.Locked)
	assert.True(t, out.Advance)
	assert.Nil(t, out.Explanation)
	assert.ElementsMatch(t, []uint{101, 103}, out.WrongOptionIDs)
}

func TestUnresolvedViewDoesNotAdvance(t *testing.T) {
	q, opts, e := sampleQuestion()

	out, err := EvaluateAnswer(model.UserProgress{}, q, opts, e, AnswerInput{}, testDefaultHint)
	require.NoError(t, err)
	assert.False(t, out.Advance)
	assert.False(t, out.Locked)
	assert.Nil(t, out.Explanation)
	assert.Equal(t, OutcomeView, out.Label)
}

func TestCorrectWithoutExplanation(t *testing.T) {
	q, opts, _ := sampleQuestion()

	out, err := EvaluateAnswer(model.UserProgress{}, q, opts, nil, submit(102), testDefaultHint)
	require.NoError(t, err)
	assert.Empty(t, out.Feedback.Explanation)
	assert.Nil(t, out.Explanation)
}
