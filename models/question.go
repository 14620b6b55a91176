// Package models defines data structures used across the application.
// File: models/question.go
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ----------------------- difficulty -----------------------

// Question difficulty levels.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Difficulties lists the valid difficulty values in display order.
var Difficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Placeholder content for a freshly added question, opened directly in edit
// mode by the console.
const (
	PlaceholderQuestionText = "New question (click to edit)"
	DefaultCategory         = "General"
	DefaultAverageTime      = "0s"
)

// ----------------------- question model -----------------------

// Question is one entry in the question bank. IDs are integers, locally
// unique and monotonically assigned by the console (max existing id + 1).
type Question struct {
	ID                int     `json:"id"`
	Text              string  `json:"text"`
	Category          string  `json:"category"`
	Difficulty        string  `json:"difficulty"`
	CorrectPercentage float64 `json:"correctPercentage"`
	AverageTime       string  `json:"averageTime"`
}

// QuestionSearchFields are the fields free-text search matches on the
// question bank screen.
var QuestionSearchFields = []string{"text", "category"}

// DecodeQuestion turns a raw question document into a typed Question with
// defaults applied. CorrectPercentage is clamped into [0,100] on the way in
// so a malformed remote value can never render out of range.
func DecodeQuestion(d Doc) (Question, error) {
	id := d.GetInt("id", 0)
	if id == 0 {
		return Question{}, ErrMissingID
	}
	return Question{
		ID:                id,
		Text:              d.GetString("text", PlaceholderQuestionText),
		Category:          d.GetString("category", DefaultCategory),
		Difficulty:        d.GetString("difficulty", DifficultyEasy),
		CorrectPercentage: ClampPercentage(d.GetFloat("correctPercentage", 0)),
		AverageTime:       d.GetString("averageTime", DefaultAverageTime),
	}, nil
}

// Doc converts the question back into its document form. The id is stored as
// its decimal string since the store keys every collection by a string id.
func (q Question) Doc() Doc {
	return Doc{
		"id":                strconv.Itoa(q.ID),
		"text":              q.Text,
		"category":          q.Category,
		"difficulty":        q.Difficulty,
		"correctPercentage": q.CorrectPercentage,
		"averageTime":       q.AverageTime,
	}
}

// ClampPercentage bounds a correct-answer percentage to [0,100].
func ClampPercentage(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// NextQuestionID assigns the id for a newly added question: one more than the
// highest id present, or 1 for an empty collection. Gaps left by deletions
// are not reused.
func NextQuestionID(items []Doc) int {
	max := 0
	for _, d := range items {
		if id := d.GetInt("id", 0); id > max {
			max = id
		}
	}
	return max + 1
}

// NewPlaceholderQuestion builds the optimistic placeholder inserted into the
// cache when the admin clicks "Add Question".
func NewPlaceholderQuestion(id int) Question {
	return Question{
		ID:                id,
		Text:              PlaceholderQuestionText,
		Category:          DefaultCategory,
		Difficulty:        DifficultyEasy,
		CorrectPercentage: 0,
		AverageTime:       DefaultAverageTime,
	}
}

// QuestionFields maps editable question fields to their parsers.
var QuestionFields = map[string]FieldParser{
	"text":       stringField,
	"category":   stringField,
	"difficulty": enumField(Difficulties...),
	"correctPercentage": func(raw string) (interface{}, error) {
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("correctPercentage %q is not a number", raw)
		}
		return ClampPercentage(f), nil
	},
	"averageTime": stringField,
}
