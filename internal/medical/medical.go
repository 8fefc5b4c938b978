// Package medical holds the medical questionnaire of the application.
package medical

import (
	"fmt"
	"strings"

	dErrors "intake/pkg/domain-errors"
)

// Question is one yes/no question. A yes answer requires details.
type Question struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// DefaultQuestionnaire is the standard underwriting questionnaire.
var DefaultQuestionnaire = []Question{
	{ID: "heart", Text: "Have you ever been diagnosed with or treated for a heart condition?"},
	{ID: "cancer", Text: "Have you ever been diagnosed with or treated for cancer?"},
	{ID: "diabetes", Text: "Have you ever been diagnosed with diabetes?"},
	{ID: "hospital", Text: "Have you been hospitalized in the last five years?"},
	{ID: "medication", Text: "Are you currently taking any prescription medication?"},
}

// Answer is the response to one question.
type Answer struct {
	Value   string `json:"value"`
	Details string `json:"details,omitempty"`
}

const (
	AnswerYes = "yes"
	AnswerNo  = "no"
)

// Answers is keyed by question id.
type Answers map[string]Answer

// Set records an answer for a known question.
func (a Answers) Set(questions []Question, questionID, value, details string) error {
	if !hasQuestion(questions, questionID) {
		return dErrors.New(dErrors.CodeInvalidInput, "unknown medical question: "+questionID)
	}
	value = strings.ToLower(strings.TrimSpace(value))
	if value != AnswerYes && value != AnswerNo {
		return dErrors.New(dErrors.CodeInvalidInput, "answer must be yes or no")
	}
	if value == AnswerNo {
		details = ""
	}
	a[questionID] = Answer{Value: value, Details: strings.TrimSpace(details)}
	return nil
}

// Validate returns errors keyed by question id.
func (a Answers) Validate(questions []Question) map[string]string {
	errs := map[string]string{}
	for _, q := range questions {
		ans, ok := a[q.ID]
		switch {
		case !ok || ans.Value == "":
			errs[q.ID] = "An answer is required"
		case ans.Value == AnswerYes && ans.Details == "":
			errs[q.ID] = fmt.Sprintf("Provide details for %q", q.Text)
		}
	}
	return errs
}

// IsComplete reports whether every question is answered.
func (a Answers) IsComplete(questions []Question) bool {
	return len(a.Validate(questions)) == 0
}

func hasQuestion(questions []Question, questionID string) bool {
	for _, q := range questions {
		if q.ID == questionID {
			return true
		}
	}
	return false
}
