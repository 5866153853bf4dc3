package util

import "errors"

var (
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrNoQuestions      = errors.New("quiz has no questions")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnknownAnswerRef = errors.New("answer references a question outside this quiz")
)
