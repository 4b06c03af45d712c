package service

import (
	"sort"

	"quiz_backend/internal/model"
)

type ResultStatus string

const (
	StatusCorrect    ResultStatus = "Correct"
	StatusIncorrect  ResultStatus = "Incorrect"
	StatusIncomplete ResultStatus = "Incomplete"
)

const unnamedQuestion = "Unnamed Question"

type ResultEntry struct {
	QuestionID   uint         `json:"questionId"`
	QuestionText string       `json:"questionText"`
	Attempts     int          `json:"attempts"`
	HintsUsed    bool         `json:"hintsUsed"`
	Status       ResultStatus `json:"status"`
}

type ResultSummary struct {
	Results         []ResultEntry `json:"results"`
	TotalQuestions  int64         `json:"totalQuestions"`
	CorrectAnswers  int           `json:"correctAnswers"`
	ScorePercentage int           `json:"scorePercentage"`
}

func StatusOf(p model.UserProgress) ResultStatus {
	switch {
	case p.AnsweredCorrectly:
		return StatusCorrect
	case p.Attempts >= model.MaxAttempts:
		return StatusIncorrect
	default:
		return StatusIncomplete
	}
}

// Score is floor(100*correct/total), and 0 for an empty subject.
func Score(correct int, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(int64(correct) * 100 / total)
}

// AggregateResults summarizes a user's rows for one subject. Rows are reported in
// question id order whatever order they arrive in.
func AggregateResults(rows []model.UserProgress, totalQuestions int64) ResultSummary {
	sorted := make([]model.UserProgress, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].QuestionID < sorted[j].QuestionID
	})

	summary := ResultSummary{
		Results:        make([]ResultEntry, 0, len(sorted)),
		TotalQuestions: totalQuestions,
	}
	for _, p := range sorted {
		text := unnamedQuestion
		if p.Question != nil && p.Question.TextContent != "" {
			text = p.Question.TextContent
		}
		if p.AnsweredCorrectly {
			summary.CorrectAnswers++
		}
		summary.Results = append(summary.Results, ResultEntry{
			QuestionID:   p.QuestionID,
			QuestionText: text,
			Attempts:     p.Attempts,
			HintsUsed:    p.HintUsed,
			Status:       StatusOf(p),
		})
	}
	summary.ScorePercentage = Score(summary.CorrectAnswers, totalQuestions)
	return summary
}
