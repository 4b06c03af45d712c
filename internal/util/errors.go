package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRegistered     = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrSubjectNotFound     = errors.New("subject not found")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrOptionNotFound      = errors.New("option not found")
	ErrInvalidQuestion     = errors.New("question must have exactly one correct option")
	ErrProgressConflict    = errors.New("progress changed concurrently")
	ErrDuplicateSubmission = errors.New("answer submission already in progress")
)
