package model

import "time"

// AnswerKind tags an Answer value as free text or a chosen option
type AnswerKind string

const (
	AnswerKindText   AnswerKind = "text"
	AnswerKindChoice AnswerKind = "choice"
)

// Answer is one validated answer, embedded in a Response
type Answer struct {
	QuestionID   string     `json:"questionId" bson:"questionId"`
	QuestionText string     `json:"questionText" bson:"questionText"` // snapshot at submission time
	Kind         AnswerKind `json:"kind" bson:"kind"`
	Value        string     `json:"value" bson:"value"`
}

// IsEmpty reports whether an optional question was left blank
func (a Answer) IsEmpty() bool {
	return a.Value == ""
}

// RawAnswer is an unvalidated (questionId, value) pair from a respondent.
// Malformed marks a value that arrived as something other than a string.
type RawAnswer struct {
	QuestionID string
	Value      string
	Malformed  bool
}

// Response is an anonymous submission to a form
type Response struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	FormID        string    `json:"formId" bson:"formId"`
	Answers       []Answer  `json:"answers" bson:"answers"`
	SubmittedAt   time.Time `json:"submittedAt" bson:"submittedAt"`
	SourceAddress string    `json:"ipAddress,omitempty" bson:"ipAddress,omitempty"`
}

// Answer returns the answer for questionID, if the response carries one
func (r *Response) Answer(questionID string) (Answer, bool) {
	for _, a := range r.Answers {
		if a.QuestionID == questionID {
			return a, true
		}
	}
	return Answer{}, false
}
