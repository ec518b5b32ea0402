package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formpulse/internal/model"
)

func TestValidateFormInput(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *FormInput)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(in *FormInput) {},
		},
		{
			name:    "blank title",
			mutate:  func(in *FormInput) { in.Title = "   " },
			wantErr: "Title: is required",
		},
		{
			name: "too many questions",
			mutate: func(in *FormInput) {
				for i := 0; i < 3; i++ {
					in.Questions = append(in.Questions, QuestionInput{Text: "extra", Type: model.QuestionTypeText})
				}
			},
			wantErr: "questions: A form must have between 3 and 5 questions",
		},
		{
			name:    "unknown type",
			mutate:  func(in *FormInput) { in.Questions[1].Type = "rating" },
			wantErr: "Questions[1].Type: must be one of: text multiple-choice",
		},
		{
			name:    "blank question text",
			mutate:  func(in *FormInput) { in.Questions[2].Text = " " },
			wantErr: "Questions[2].Text: is required",
		},
		{
			name:    "title too long",
			mutate:  func(in *FormInput) { in.Title = strings.Repeat("x", 201) },
			wantErr: "Title: must be at most 200 characters",
		},
		{
			name:    "choice without options",
			mutate:  func(in *FormInput) { in.Questions[0].Options = nil },
			wantErr: "questions[0].options: Multiple-choice questions must have at least 2 options",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sampleInput()
			tt.mutate(&in)
			err := validateFormInput(&in)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			var serr *SchemaError
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, tt.wantErr, serr.Error())
		})
	}
}

func TestBuildQuestions(t *testing.T) {
	previous := []model.Question{{ID: "keep"}, {ID: "other"}}
	in := []QuestionInput{
		{ID: "keep", Text: "a", Type: model.QuestionTypeText},
		{ID: "keep", Text: "b", Type: model.QuestionTypeText},
		{Text: "c", Type: model.QuestionTypeMultipleChoice, Options: []string{"x", "y"}, Required: boolPtr(false)},
	}

	questions := buildQuestions(in, previous)
	require.Len(t, questions, 3)
	assert.Equal(t, "keep", questions[0].ID)
	assert.NotEqual(t, "keep", questions[1].ID, "an id is reused at most once")
	assert.NotEmpty(t, questions[2].ID)
	assert.True(t, questions[0].Required)
	assert.False(t, questions[2].Required)
	assert.NotNil(t, questions[0].Options)
}
