package service

import (
	"fmt"
	"time"
)

type SubjectView struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	LogoImage     string    `json:"logoImage,omitempty"`
	QuestionCount int64     `json:"questionCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

type QuestionView struct {
	ID           uint   `json:"id"`
	SubjectID    uint   `json:"subjectId"`
	QuestionType string `json:"questionType"`
	TextContent  string `json:"textContent"`
	ImageContent string `json:"imageContent,omitempty"`
}

type OptionView struct {
	ID           uint   `json:"id"`
	TextContent  string `json:"textContent"`
	ImageContent string `json:"imageContent,omitempty"`
	Selected     bool   `json:"selected"`
}

type ExplanationView struct {
	TextContent  string `json:"textContent"`
	ImageContent string `json:"imageContent,omitempty"`
}

// StartView answers a subject entry request. NextURL is empty when the subject
// has no questions.
type StartView struct {
	Subject         SubjectView `json:"subject"`
	HasQuestions    bool        `json:"hasQuestions"`
	FirstQuestionID uint        `json:"firstQuestionId,omitempty"`
	NextURL         string      `json:"nextUrl,omitempty"`
}

// QuestionDetailView is everything a renderer needs to draw one question.
type QuestionDetailView struct {
	Subject  SubjectView  `json:"subject"`
	Question QuestionView `json:"question"`
	Options  []OptionView `json:"options"`

	State            string           `json:"state"`
	Feedback         *Feedback        `json:"feedback,omitempty"`
	Hint             string           `json:"hint,omitempty"`
	ShowHintOption   bool             `json:"showHintOption"`
	HighlightCorrect bool             `json:"highlightCorrect"`
	HighlightWrong   bool             `json:"highlightWrong"`
	WrongOptionIDs   []uint           `json:"wrongOptionIds"`
	CorrectOptionID  *uint            `json:"correctOptionId,omitempty"`
	Explanation      *ExplanationView `json:"explanation,omitempty"`
	Locked           bool             `json:"locked"`

	Attempts    int  `json:"attempts"`
	MaxAttempts int  `json:"maxAttempts"`
	HintUsed    bool `json:"hintUsed"`

	Advance        bool   `json:"advance"`
	NextQuestionID *uint  `json:"nextQuestionId,omitempty"`
	NextURL        string `json:"nextUrl"`
	NextIsFinish   bool   `json:"nextIsFinish"`
	QuestionNumber int64  `json:"questionNumber"`
	TotalQuestions int64  `json:"totalQuestions"`
}

type ResultsView struct {
	Subject SubjectView `json:"subject"`
	ResultSummary
}

func QuestionPath(subjectID, questionID uint) string {
	return fmt.Sprintf("/subject/%d/question/%d/", subjectID, questionID)
}

func ResultsPath(subjectID uint) string {
	return fmt.Sprintf("/subject/%d/results/", subjectID)
}
