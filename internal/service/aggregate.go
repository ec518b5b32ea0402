package service

import (
	"bytes"
	"encoding/csv"
	"math"

	"formpulse/internal/model"
)

const (
	csvSubmittedAtHeader = "Submitted At"
	csvAddressHeader     = "IP Address"
	csvAddressMissing    = "N/A"
	csvTimeLayout        = "2006-01-02T15:04:05.000Z07:00"
	csvContentType       = "text/csv"
)

// Summarize tallies every multiple-choice question of form across responses.
// Options appear in the order they were first seen while walking responses,
// not in the form's declared option order.
func Summarize(form *model.Form, responses []*model.Response) []model.QuestionSummary {
	summaries := []model.QuestionSummary{}
	for _, q := range form.Questions {
		if q.Type != model.QuestionTypeMultipleChoice {
			continue
		}

		var order []string
		counts := make(map[string]int)
		total := 0
		for _, r := range responses {
			a, ok := r.Answer(q.ID)
			if !ok || a.IsEmpty() {
				continue
			}
			total++
			if _, seen := counts[a.Value]; !seen {
				order = append(order, a.Value)
			}
			counts[a.Value]++
		}

		tallies := make([]model.OptionTally, 0, len(order))
		for _, opt := range order {
			tallies = append(tallies, model.OptionTally{
				Option:     opt,
				Count:      counts[opt],
				Percentage: percentage(counts[opt], total),
			})
		}

		summaries = append(summaries, model.QuestionSummary{
			QuestionID:   q.ID,
			QuestionText: q.Text,
			Total:        total,
			Options:      tallies,
		})
	}
	return summaries
}

func percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

// ExportCSV writes one row per response, in the order given. Question
// columns are the union of question texts across all responses, so
// columns from earlier versions of an edited form survive.
func ExportCSV(form *model.Form, responses []*model.Response) ([]byte, error) {
	if len(responses) == 0 {
		return nil, ErrEmptyExport
	}

	var columns []string
	index := make(map[string]int)
	for _, r := range responses {
		for _, a := range r.Answers {
			if _, ok := index[a.QuestionText]; !ok {
				index[a.QuestionText] = len(columns)
				columns = append(columns, a.QuestionText)
			}
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := append([]string{csvSubmittedAtHeader, csvAddressHeader}, columns...)
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, r := range responses {
		row := make([]string, len(header))
		row[0] = r.SubmittedAt.UTC().Format(csvTimeLayout)
		row[1] = r.SourceAddress
		if row[1] == "" {
			row[1] = csvAddressMissing
		}
		for _, a := range r.Answers {
			row[2+index[a.QuestionText]] = a.Value
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportFilename is the suggested download name for a form's CSV
func ExportFilename(form *model.Form) string {
	return form.Title + "-responses.csv"
}

// ExportContentType is the MIME type of ExportCSV output
func ExportContentType() string {
	return csvContentType
}
