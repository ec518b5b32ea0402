package service

import (
	"strings"

	"formpulse/internal/model"
)

// ValidateSubmission checks raw answers against the form's questions and
// returns one Answer per question, in form order. It stops at the first
// failing question. The caller must have already rejected inactive forms.
func ValidateSubmission(form *model.Form, raw []model.RawAnswer) ([]model.Answer, error) {
	byID := make(map[string]model.RawAnswer, len(raw))
	for _, r := range raw {
		if _, seen := byID[r.QuestionID]; seen {
			continue // first occurrence wins
		}
		byID[r.QuestionID] = r
	}

	answers := make([]model.Answer, 0, len(form.Questions))
	for _, q := range form.Questions {
		r, ok := byID[q.ID]
		if ok && r.Malformed {
			return nil, &ValidationError{
				Kind:         ErrMalformedAnswer,
				QuestionID:   q.ID,
				QuestionText: q.Text,
			}
		}
		value := r.Value
		if !ok || strings.TrimSpace(value) == "" {
			if q.Required {
				return nil, &ValidationError{
					Kind:         ErrMissingRequiredAnswer,
					QuestionID:   q.ID,
					QuestionText: q.Text,
				}
			}
			value = ""
		} else if q.Type == model.QuestionTypeMultipleChoice && !q.HasOption(value) {
			return nil, &ValidationError{
				Kind:         ErrInvalidOption,
				QuestionID:   q.ID,
				QuestionText: q.Text,
				Value:        value,
			}
		}

		answers = append(answers, model.Answer{
			QuestionID:   q.ID,
			QuestionText: q.Text,
			Kind:         q.AnswerKind(),
			Value:        value,
		})
	}
	return answers, nil
}
