package handler

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"formpulse/internal/log"
	"formpulse/internal/service"
	"formpulse/internal/transport/rest/middleware"
)

// ResponseHandler serves collected responses to the form's creator
type ResponseHandler struct {
	responseSvc *service.ResponseService
}

// NewResponseHandler creates a new response handler
func NewResponseHandler(responseSvc *service.ResponseService) *ResponseHandler {
	return &ResponseHandler{responseSvc: responseSvc}
}

// List godoc
// @Summary      Lists a form's responses, most recent first
// @Tags         responses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Form ID"
// @Success      200  {array}   model.Response
// @Failure      404  {object}  ErrorResponse
// @Router       /forms/{id}/responses [get]
func (h *ResponseHandler) List(w http.ResponseWriter, r *http.Request) {
	responses, err := h.responseSvc.List(r.Context(), middleware.GetCreatorID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, responses)
}

// Summary godoc
// @Summary      Tallies a form's multiple-choice answers
// @Tags         responses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Form ID"
// @Success      200  {object}  model.FormSummary
// @Failure      404  {object}  ErrorResponse
// @Router       /forms/{id}/summary [get]
func (h *ResponseHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.responseSvc.Summary(r.Context(), middleware.GetCreatorID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Export godoc
// @Summary      Downloads a form's responses as CSV
// @Tags         responses
// @Produce      text/csv
// @Security     BearerAuth
// @Param        id   path      string  true  "Form ID"
// @Success      200  {file}    file
// @Failure      404  {object}  ErrorResponse
// @Router       /forms/{id}/export [get]
func (h *ResponseHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, filename, err := h.responseSvc.Export(r.Context(), middleware.GetCreatorID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", service.ExportContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Warnf("write export: %v", err)
	}
}
