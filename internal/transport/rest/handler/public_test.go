package handler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formpulse/internal/model"
	"formpulse/internal/service"
)

func TestDecodeAnswers(t *testing.T) {
	raw, err := decodeAnswers(json.RawMessage(`[
		{"questionId":"q1","value":"yes"},
		{"questionId":"q2","answer":"legacy"},
		{"questionId":"q3","value":null},
		{"questionId":"q4","value":["a","b"]},
		{"questionId":"q5","value":3}
	]`))
	require.NoError(t, err)
	assert.Equal(t, []model.RawAnswer{
		{QuestionID: "q1", Value: "yes"},
		{QuestionID: "q2", Value: "legacy"},
		{QuestionID: "q3"},
		{QuestionID: "q4", Malformed: true},
		{QuestionID: "q5", Malformed: true},
	}, raw)

	raw, err = decodeAnswers(nil)
	require.NoError(t, err)
	assert.Empty(t, raw)

	_, err = decodeAnswers(json.RawMessage(`{"q1":"yes"}`))
	assert.ErrorIs(t, err, service.ErrMalformedAnswer)
}
