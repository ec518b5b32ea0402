package model

// QuestionType defines the type of question
type QuestionType string

const (
	QuestionTypeText           QuestionType = "text"            // Free text
	QuestionTypeMultipleChoice QuestionType = "multiple-choice" // Single pick from Options
)

const (
	MinQuestions = 3
	MaxQuestions = 5
	MinOptions   = 2
)

// Valid reports whether t is a known question type
func (t QuestionType) Valid() bool {
	return t == QuestionTypeText || t == QuestionTypeMultipleChoice
}

// Question is embedded in a Form, in display order
type Question struct {
	ID       string       `json:"id" bson:"id"`
	Text     string       `json:"text" bson:"text"`
	Type     QuestionType `json:"type" bson:"type"`
	Options  []string     `json:"options" bson:"options"` // multiple-choice only
	Required bool         `json:"required" bson:"required"`
}

// HasOption reports whether value equals one of the declared options (case-sensitive)
func (q Question) HasOption(value string) bool {
	for _, opt := range q.Options {
		if opt == value {
			return true
		}
	}
	return false
}

// AnswerKind is the variant tag stored alongside an answer value
func (q Question) AnswerKind() AnswerKind {
	if q.Type == QuestionTypeMultipleChoice {
		return AnswerKindChoice
	}
	return AnswerKindText
}
