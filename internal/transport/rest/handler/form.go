package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"formpulse/internal/service"
	"formpulse/internal/transport/rest/middleware"
)

// FormHandler handles creator form endpoints
type FormHandler struct {
	formSvc *service.FormService
}

// NewFormHandler creates a new form handler
func NewFormHandler(formSvc *service.FormService) *FormHandler {
	return &FormHandler{formSvc: formSvc}
}

// Create godoc
// @Summary      Creates a form
// @Tags         forms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      service.FormInput  true  "Form definition"
// @Success      201   {object}  model.Form
// @Failure      400   {object}  ErrorResponse
// @Router       /forms [post]
func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.FormInput
	if err := decodeBody(r, &in); err != nil {
		writeServiceError(w, r, err)
		return
	}

	form, err := h.formSvc.Create(r.Context(), middleware.GetCreatorID(r.Context()), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, form)
}

// List godoc
// @Summary      Lists the creator's forms, newest first
// @Tags         forms
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  model.FormWithStats
// @Router       /forms [get]
func (h *FormHandler) List(w http.ResponseWriter, r *http.Request) {
	forms, err := h.formSvc.List(r.Context(), middleware.GetCreatorID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, forms)
}

// Get godoc
// @Summary      Returns one of the creator's forms
// @Tags         forms
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Form ID"
// @Success      200  {object}  model.FormWithStats
// @Failure      404  {object}  ErrorResponse
// @Router       /forms/{id} [get]
func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	form, err := h.formSvc.Get(r.Context(), middleware.GetCreatorID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, form)
}

// Update godoc
// @Summary      Replaces a form definition
// @Tags         forms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Form ID"
// @Param        body  body      service.FormInput  true  "Form definition"
// @Success      200   {object}  model.Form
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /forms/{id} [put]
func (h *FormHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in service.FormInput
	if err := decodeBody(r, &in); err != nil {
		writeServiceError(w, r, err)
		return
	}

	form, err := h.formSvc.Update(r.Context(), middleware.GetCreatorID(r.Context()), mux.Vars(r)["id"], in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, form)
}

// Delete godoc
// @Summary      Deletes a form and all of its responses
// @Tags         forms
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Form ID"
// @Success      200
// @Failure      404  {object}  ErrorResponse
// @Router       /forms/{id} [delete]
func (h *FormHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.formSvc.Delete(r.Context(), middleware.GetCreatorID(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Form deleted successfully"})
}
