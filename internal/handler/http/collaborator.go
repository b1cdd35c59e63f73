package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pontohub/ponto-backend-go/internal/domain/collaborator"
	"github.com/pontohub/ponto-backend-go/internal/handler/http/response"
)

type CollaboratorHandler struct {
	collaboratorService collaborator.Service
}

func NewCollaboratorHandler(collaboratorService collaborator.Service) *CollaboratorHandler {
	return &CollaboratorHandler{collaboratorService: collaboratorService}
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// List returns every collaborator ordered by name.
func (h *CollaboratorHandler) List(w http.ResponseWriter, r *http.Request) {
	collaborators, err := h.collaboratorService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, collaborators)
}

func (h *CollaboratorHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		response.BadRequest(w, "Invalid collaborator ID", nil)
		return
	}

	found, err := h.collaboratorService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, found)
}

func (h *CollaboratorHandler) GetByReg(w http.ResponseWriter, r *http.Request) {
	found, err := h.collaboratorService.GetByReg(r.Context(), chi.URLParam(r, "reg"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, found)
}

// GetByCPF matches punctuation-insensitively, so both formatted and bare
// CPFs resolve to the same row.
func (h *CollaboratorHandler) GetByCPF(w http.ResponseWriter, r *http.Request) {
	found, err := h.collaboratorService.GetByCPF(r.Context(), chi.URLParam(r, "cpf"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, found)
}

func (h *CollaboratorHandler) BatchByCPF(w http.ResponseWriter, r *http.Request) {
	var req collaborator.BatchCPFRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	collaborators, err := h.collaboratorService.BatchByCPF(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, collaborators)
}

func (h *CollaboratorHandler) ByCompany(w http.ResponseWriter, r *http.Request) {
	collaborators, err := h.collaboratorService.ByCompany(r.Context(), chi.URLParam(r, "empresa"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, collaborators)
}

func (h *CollaboratorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req collaborator.CreateCollaboratorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	created, err := h.collaboratorService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Collaborator created successfully", created)
}

func (h *CollaboratorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		response.BadRequest(w, "Invalid collaborator ID", nil)
		return
	}

	var req collaborator.UpdateCollaboratorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	updated, err := h.collaboratorService.Update(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Collaborator updated successfully", updated)
}

func (h *CollaboratorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		response.BadRequest(w, "Invalid collaborator ID", nil)
		return
	}

	if err := h.collaboratorService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Collaborator deleted successfully", nil)
}
