package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formpulse/internal/model"
)

func choice(qid, text, value string) model.Answer {
	return model.Answer{QuestionID: qid, QuestionText: text, Kind: model.AnswerKindChoice, Value: value}
}

func TestSummarize(t *testing.T) {
	form := retroForm()
	responses := []*model.Response{
		{Answers: []model.Answer{choice("q1", "Did the sprint go well?", "no")}},
		{Answers: []model.Answer{choice("q1", "Did the sprint go well?", "yes")}},
		{Answers: []model.Answer{choice("q1", "Did the sprint go well?", "no")}},
	}

	summaries := Summarize(form, responses)
	require.Len(t, summaries, 1, "text questions are not summarized")

	s := summaries[0]
	assert.Equal(t, "q1", s.QuestionID)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, []model.OptionTally{
		{Option: "no", Count: 2, Percentage: 67},
		{Option: "yes", Count: 1, Percentage: 33},
	}, s.Options, "options follow first-seen order")
}

func TestSummarize_SkipsBlankAnswers(t *testing.T) {
	form := retroForm()
	form.Questions[0].Required = false
	responses := []*model.Response{
		{Answers: []model.Answer{choice("q1", "Did the sprint go well?", "yes")}},
		{Answers: []model.Answer{choice("q1", "Did the sprint go well?", "")}},
		{Answers: nil},
	}

	s := Summarize(form, responses)[0]
	assert.Equal(t, 1, s.Total)
	assert.Equal(t, []model.OptionTally{{Option: "yes", Count: 1, Percentage: 100}}, s.Options)
}

func TestSummarize_NoResponses(t *testing.T) {
	summaries := Summarize(retroForm(), nil)
	require.Len(t, summaries, 1)
	assert.Zero(t, summaries[0].Total)
	assert.Empty(t, summaries[0].Options)
	assert.NotNil(t, summaries[0].Options)
}

func TestExportCSV_Empty(t *testing.T) {
	_, err := ExportCSV(retroForm(), nil)
	assert.ErrorIs(t, err, ErrEmptyExport)
}

func TestExportCSV_SingleResponse(t *testing.T) {
	at := time.Date(2026, 3, 4, 5, 6, 7, 8_000_000, time.UTC)
	responses := []*model.Response{{
		SubmittedAt:   at,
		SourceAddress: "10.0.0.1",
		Answers:       []model.Answer{{QuestionID: "q1", QuestionText: "Q1", Value: "yes"}},
	}}

	data, err := ExportCSV(&model.Form{Title: "T"}, responses)
	require.NoError(t, err)
	assert.Equal(t, "Submitted At,IP Address,Q1\n2026-03-04T05:06:07.008Z,10.0.0.1,yes\n", string(data))
}

func TestExportCSV_QuotingAndMissingValues(t *testing.T) {
	at := time.Date(2026, 3, 4, 0, 0, 0, 0, time.FixedZone("X", 3600))
	responses := []*model.Response{
		{
			SubmittedAt: at,
			Answers: []model.Answer{
				{QuestionText: "Why?", Value: "because, \"reasons\""},
			},
		},
		{
			SubmittedAt:   at,
			SourceAddress: "::1",
			Answers: []model.Answer{
				{QuestionText: "Renamed question", Value: "line1\nline2"},
			},
		},
	}

	data, err := ExportCSV(&model.Form{Title: "T"}, responses)
	require.NoError(t, err)
	want := "Submitted At,IP Address,Why?,Renamed question\n" +
		"2026-03-03T23:00:00.000Z,N/A,\"because, \"\"reasons\"\"\",\n" +
		"2026-03-03T23:00:00.000Z,::1,,\"line1\nline2\"\n"
	assert.Equal(t, want, string(data))
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "Team Retro-responses.csv", ExportFilename(&model.Form{Title: "Team Retro"}))
	assert.Equal(t, "text/csv", ExportContentType())
}
