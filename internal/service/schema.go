package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"formpulse/internal/model"
)

var validate = validator.New()

// FormInput is a creator's proposed form definition
type FormInput struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	Questions   []QuestionInput `json:"questions" validate:"min=3,max=5,dive"`
	IsActive    *bool           `json:"isActive,omitempty"`
}

// QuestionInput is one proposed question; ID is kept on update when it matches
type QuestionInput struct {
	ID       string             `json:"id,omitempty"`
	Text     string             `json:"text" validate:"required"`
	Type     model.QuestionType `json:"type" validate:"required,oneof=text multiple-choice"`
	Options  []string           `json:"options"`
	Required *bool              `json:"required,omitempty"`
}

// normalize trims text, drops blank options and clears options on text questions
func (in *FormInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	for i := range in.Questions {
		q := &in.Questions[i]
		q.Text = strings.TrimSpace(q.Text)
		if q.Type != model.QuestionTypeMultipleChoice {
			q.Options = nil
			continue
		}
		opts := make([]string, 0, len(q.Options))
		for _, o := range q.Options {
			if o = strings.TrimSpace(o); o != "" {
				opts = append(opts, o)
			}
		}
		q.Options = opts
	}
}

// validateFormInput normalizes in and checks it against the form invariants
func validateFormInput(in *FormInput) error {
	in.normalize()

	if err := validate.Struct(in); err != nil {
		return requestError(err)
	}

	for i, q := range in.Questions {
		if q.Type == model.QuestionTypeMultipleChoice && len(q.Options) < model.MinOptions {
			return &SchemaError{
				Field:   fmt.Sprintf("questions[%d].options", i),
				Message: "Multiple-choice questions must have at least 2 options",
			}
		}
	}
	return nil
}

// requestError reports the first struct validation failure as a SchemaError
func requestError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return schemaErrorFor(verrs[0])
	}
	return &SchemaError{Message: err.Error()}
}

func schemaErrorFor(fe validator.FieldError) *SchemaError {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch {
	case fe.StructField() == "Questions" && (fe.Tag() == "min" || fe.Tag() == "max"):
		return &SchemaError{Field: "questions", Message: fmt.Sprintf("A form must have between %d and %d questions", model.MinQuestions, model.MaxQuestions)}
	case fe.Tag() == "required":
		return &SchemaError{Field: field, Message: "is required"}
	case fe.Tag() == "oneof":
		return &SchemaError{Field: field, Message: "must be one of: " + fe.Param()}
	case fe.Tag() == "max":
		return &SchemaError{Field: field, Message: "must be at most " + fe.Param() + " characters"}
	case fe.Tag() == "min":
		return &SchemaError{Field: field, Message: "must be at least " + fe.Param() + " characters"}
	case fe.Tag() == "email":
		return &SchemaError{Field: field, Message: "must be a valid email address"}
	}
	return &SchemaError{Field: field, Message: "failed " + fe.Tag() + " check"}
}

// buildQuestions converts validated input into stored questions, reusing ids
// from previous when the input names one of them
func buildQuestions(in []QuestionInput, previous []model.Question) []model.Question {
	known := make(map[string]bool, len(previous))
	for _, q := range previous {
		known[q.ID] = true
	}

	questions := make([]model.Question, 0, len(in))
	used := make(map[string]bool, len(in))
	for _, qi := range in {
		id := qi.ID
		if id == "" || !known[id] || used[id] {
			id = uuid.NewString()
		}
		used[id] = true

		required := true
		if qi.Required != nil {
			required = *qi.Required
		}
		options := qi.Options
		if options == nil {
			options = []string{}
		}

		questions = append(questions, model.Question{
			ID:       id,
			Text:     qi.Text,
			Type:     qi.Type,
			Options:  options,
			Required: required,
		})
	}
	return questions
}
