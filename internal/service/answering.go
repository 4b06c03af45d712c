package service

import (
	"fmt"

	"quiz_backend/internal/model"
	"quiz_backend/internal/repository"
	"quiz_backend/internal/util"
)

// ProgressState is where a user stands on one question.
type ProgressState int

const (
	StateUnanswered ProgressState = iota
	StateOneWrongAttempt
	StateResolvedCorrect
	StateResolvedExhausted
)

func (s ProgressState) String() string {
	switch s {
	case StateUnanswered:
		return "unanswered"
	case StateOneWrongAttempt:
		return "one_wrong_attempt"
	case StateResolvedCorrect:
		return "resolved_correct"
	case StateResolvedExhausted:
		return "resolved_exhausted"
	default:
		return fmt.Sprintf("ProgressState(%d)", int(s))
	}
}

// Resolved states lock the question against further answers.
func (s ProgressState) Resolved() bool {
	return s == StateResolvedCorrect || s == StateResolvedExhausted
}

func StateOf(p model.UserProgress) ProgressState {
	switch {
	case p.AnsweredCorrectly:
		return StateResolvedCorrect
	case p.Attempts >= model.MaxAttempts:
		return StateResolvedExhausted
	case p.Attempts == 1:
		return StateOneWrongAttempt
	default:
		return StateUnanswered
	}
}

type FeedbackType string

const (
	FeedbackSuccess FeedbackType = "success"
	FeedbackError   FeedbackType = "error"
	FeedbackWarning FeedbackType = "warning"
)

type Feedback struct {
	Type        FeedbackType `json:"type"`
	Icon        string       `json:"icon"`
	Title       string       `json:"title"`
	Message     string       `json:"message"`
	Explanation string       `json:"explanation,omitempty"`
}

// AnswerInput is what the client sent along with a question request.
type AnswerInput struct {
	Submitted        bool
	SelectedOptionID *uint
	RevealHint       bool
}

// Outcome labels for quiz_answers_total.
const (
	OutcomeView      = "view"
	OutcomeHint      = "hint"
	OutcomeEmpty     = "empty"
	OutcomeCorrect   = "correct"
	OutcomeWrong     = "wrong"
	OutcomeExhausted = "exhausted"
	OutcomeLocked    = "locked"
)

// Outcome is the result of evaluating one request against a progress row.
// Update and MarkHint describe the writes the caller must persist.
type Outcome struct {
	State            ProgressState
	Attempts         int
	HintUsed         bool
	SelectedOptionID *uint
	Label            string

	Feedback         *Feedback
	Hint             string
	ShowHintOption   bool
	HighlightCorrect bool
	HighlightWrong   bool
	WrongOptionIDs   []uint
	CorrectOption    *model.Option
	Explanation      *model.Explanation
	Advance          bool
	Locked           bool

	Update   *repository.AnswerUpdate
	MarkHint bool
}

// CorrectOption returns the single correct option, or ErrInvalidQuestion when
// there are none or several.
func CorrectOption(options []model.Option) (*model.Option, error) {
	var correct *model.Option
	for i := range options {
		if !options[i].IsCorrect {
			continue
		}
		if correct != nil {
			return nil, fmt.Errorf("%w: more than one correct option", util.ErrInvalidQuestion)
		}
		correct = &options[i]
	}
	if correct == nil {
		return nil, fmt.Errorf("%w: no correct option", util.ErrInvalidQuestion)
	}
	return correct, nil
}

func HintText(q model.Question, defaultHint string) string {
	if q.Hint != "" {
		return q.Hint
	}
	return defaultHint
}

// EvaluateAnswer runs the answering state machine. It does not modify progress;
// the writes it decides on are returned in the outcome.
func EvaluateAnswer(progress model.UserProgress, question model.Question, options []model.Option,
	explanation *model.Explanation, in AnswerInput, defaultHint string) (*Outcome, error) {

	correct, err := CorrectOption(options)
	if err != nil {
		return nil, err
	}

	state := StateOf(progress)
	out := &Outcome{
		State:            state,
		Attempts:         progress.Attempts,
		HintUsed:         progress.HintUsed,
		SelectedOptionID: progress.SelectedOptionID,
		Label:            OutcomeView,
	}

	if in.RevealHint {
		out.Hint = HintText(question, defaultHint)
		out.Label = OutcomeHint
		if !progress.HintUsed && !state.Resolved() {
			out.MarkHint = true
			out.HintUsed = true
		}
	} else if progress.HintUsed {
		out.Hint = HintText(question, defaultHint)
	}

	if !in.Submitted {
		describeState(out, state, options, correct, explanation)
		return out, nil
	}

	if state.Resolved() {
		describeState(out, state, options, correct, explanation)
		out.Label = OutcomeLocked
		out.Feedback = &Feedback{
			Type:    FeedbackWarning,
			Icon:    "lock",
			Title:   "Answer Locked",
			Message: "This question is already resolved. Continue to the next question.",
		}
		return out, nil
	}

	if in.SelectedOptionID == nil {
		out.Label = OutcomeEmpty
		out.ShowHintOption = state == StateOneWrongAttempt
		out.Feedback = &Feedback{
			Type:    FeedbackWarning,
			Icon:    "exclamation-triangle",
			Title:   "No Answer Selected",
			Message: "Please select an option before submitting.",
		}
		return out, nil
	}

	selected := findOption(options, *in.SelectedOptionID)
	if selected == nil {
		return nil, fmt.Errorf("option %d: %w", *in.SelectedOptionID, util.ErrOptionNotFound)
	}
	selectedID := selected.ID
	out.Attempts = progress.Attempts + 1
	out.SelectedOptionID = &selectedID

	if selected.IsCorrect {
		out.Update = &repository.AnswerUpdate{Attempts: out.Attempts, AnsweredCorrectly: true, SelectedOptionID: &selectedID}
		out.State = StateResolvedCorrect
		out.Label = OutcomeCorrect
		out.Feedback = &Feedback{
			Type:        FeedbackSuccess,
			Icon:        "check-circle",
			Title:       "Correct!",
			Message:     "Well done, that's the right answer.",
			Explanation: explanationText(explanation),
		}
		out.Explanation = explanation
		out.HighlightCorrect = true
		out.CorrectOption = correct
		out.Advance = true
		return out, nil
	}

	out.Update = &repository.AnswerUpdate{Attempts: out.Attempts, SelectedOptionID: &selectedID}
	if out.Attempts < model.MaxAttempts {
		out.State = StateOneWrongAttempt
		out.Label = OutcomeWrong
		out.Feedback = &Feedback{
			Type:    FeedbackError,
			Icon:    "times-circle",
			Title:   "Wrong Answer",
			Message: "That's not correct. Try again or use a hint.",
		}
		out.ShowHintOption = true
		out.WrongOptionIDs = []uint{selectedID}
		return out, nil
	}

	out.State = StateResolvedExhausted
	out.Label = OutcomeExhausted
	out.Feedback = &Feedback{
		Type:        FeedbackError,
		Icon:        "times-circle",
		Title:       "Attempts Completed",
		Message:     "The correct answer is: " + correct.TextContent,
		Explanation: explanationText(explanation),
	}
	revealExhausted(out, options, correct, explanation)
	return out, nil
}

// describeState fills the view of a question that is only being looked at.
func describeState(out *Outcome, state ProgressState, options []model.Option, correct *model.Option, explanation *model.Explanation) {
	switch state {
	case StateOneWrongAttempt:
		out.ShowHintOption = true
	case StateResolvedCorrect:
		out.Locked = true
		out.Advance = true
		out.HighlightCorrect = true
		out.CorrectOption = correct
		out.Explanation = explanation
	case StateResolvedExhausted:
		out.Locked = true
		revealExhausted(out, options, correct, explanation)
	}
}

func revealExhausted(out *Outcome, options []model.Option, correct *model.Option, explanation *model.Explanation) {
	out.HighlightCorrect = true
	out.HighlightWrong = true
	out.CorrectOption = correct
	out.Explanation = explanation
	out.Advance = true
	out.WrongOptionIDs = make([]uint, 0, len(options)-1)
	for _, o := range options {
		if !o.IsCorrect {
			out.WrongOptionIDs = append(out.WrongOptionIDs, o.ID)
		}
	}
}

func findOption(options []model.Option, id uint) *model.Option {
	for i := range options {
		if options[i].ID == id {
			return &options[i]
		}
	}
	return nil
}

func explanationText(e *model.Explanation) string {
	if e == nil {
		return ""
	}
	return e.TextContent
}
