package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"formpulse/internal/model"
	"formpulse/internal/service"
	"formpulse/internal/transport/rest/middleware"
)

// PublicHandler serves forms to anonymous respondents
type PublicHandler struct {
	formSvc     *service.FormService
	responseSvc *service.ResponseService
}

// NewPublicHandler creates a new public handler
func NewPublicHandler(formSvc *service.FormService, responseSvc *service.ResponseService) *PublicHandler {
	return &PublicHandler{
		formSvc:     formSvc,
		responseSvc: responseSvc,
	}
}

// SubmitRequest is the body of a public submission
type SubmitRequest struct {
	Answers json.RawMessage `json:"answers" swaggertype:"array,object"`
}

// SubmitResponse acknowledges a stored submission
type SubmitResponse struct {
	Message    string `json:"message"`
	ResponseID string `json:"responseId"`
}

// Get godoc
// @Summary      Returns an active form by its public slug
// @Tags         public
// @Produce      json
// @Param        slug  path      string  true  "Public slug"
// @Success      200   {object}  model.PublicForm
// @Failure      404   {object}  ErrorResponse
// @Router       /forms/public/{slug} [get]
func (h *PublicHandler) Get(w http.ResponseWriter, r *http.Request) {
	form, err := h.formSvc.GetPublic(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, form.Public())
}

// Submit godoc
// @Summary      Submits an anonymous response
// @Tags         public
// @Accept       json
// @Produce      json
// @Param        slug  path      string         true  "Public slug"
// @Param        body  body      SubmitRequest  true  "Answers"
// @Success      201   {object}  SubmitResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      429   {object}  ErrorResponse
// @Router       /forms/public/{slug}/submit [post]
func (h *PublicHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	raw, err := decodeAnswers(req.Answers)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response, err := h.responseSvc.Submit(r.Context(), mux.Vars(r)["slug"], raw, middleware.ClientIP(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, SubmitResponse{
		Message:    "Response submitted successfully",
		ResponseID: response.ID,
	})
}

type wireAnswer struct {
	QuestionID string          `json:"questionId"`
	Value      json.RawMessage `json:"value"`
	Answer     json.RawMessage `json:"answer"`
}

// decodeAnswers accepts [{questionId, value}] where value may also arrive under
// "answer". Values that are not a JSON string (or null) are flagged malformed.
func decodeAnswers(data json.RawMessage) ([]model.RawAnswer, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}

	var items []wireAnswer
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &service.ValidationError{Kind: service.ErrMalformedAnswer}
	}

	raw := make([]model.RawAnswer, 0, len(items))
	for _, item := range items {
		value := item.Value
		if len(value) == 0 {
			value = item.Answer
		}

		answer := model.RawAnswer{QuestionID: item.QuestionID}
		if len(value) > 0 && string(value) != "null" {
			if err := json.Unmarshal(value, &answer.Value); err != nil {
				answer.Malformed = true
			}
		}
		raw = append(raw, answer)
	}
	return raw, nil
}
