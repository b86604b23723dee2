package model

import "strings"

// QuestionID uniquely identifies a trivia question in the catalog
type QuestionID string

// QuestionType distinguishes open answers from multiple choice
type QuestionType string

const (
	QuestionOpen           QuestionType = "open"
	QuestionMultipleChoice QuestionType = "multiple-choice"
)

// Difficulty grades a question
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question is a single trivia item
type Question struct {
	ID         QuestionID   `json:"id"`
	Text       string       `json:"question"`
	Type       QuestionType `json:"type"`
	Answer     string       `json:"answer"`
	Options    []string     `json:"options,omitempty"` // multiple choice only
	Category   Category     `json:"category"`
	Difficulty Difficulty   `json:"difficulty"`
}

// WrongOptions returns the options that are not the canonical answer
func (q *Question) WrongOptions() []string {
	var wrong []string
	for _, opt := range q.Options {
		if !strings.EqualFold(opt, q.Answer) {
			wrong = append(wrong, opt)
		}
	}
	return wrong
}
