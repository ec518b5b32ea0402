package model

// OptionTally counts how often one option was chosen
type OptionTally struct {
	Option     string `json:"option"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// QuestionSummary aggregates a multiple-choice question across responses
type QuestionSummary struct {
	QuestionID   string        `json:"questionId"`
	QuestionText string        `json:"questionText"`
	Total        int           `json:"total"` // responses that answered this question
	Options      []OptionTally `json:"options"`
}

// FormSummary is the creator dashboard payload
type FormSummary struct {
	FormID         string            `json:"formId"`
	TotalResponses int               `json:"totalResponses"`
	Questions      []QuestionSummary `json:"questions"`
}
