package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pontohub/ponto-backend-go/internal/domain/attachment"
	"github.com/pontohub/ponto-backend-go/internal/handler/http/response"
)

type AttachmentHandler struct {
	attachmentService attachment.Service
}

func NewAttachmentHandler(attachmentService attachment.Service) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService}
}

// Upload stores a justification image in the blob container and upserts
// its metadata row.
func (h *AttachmentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req attachment.UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.attachmentService.Upload(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Attachment uploaded successfully", resp)
}

// GetByDate lists attachments for a date. Rows with empresa_id 0 belong
// to every company and are always included.
func (h *AttachmentHandler) GetByDate(w http.ResponseWriter, r *http.Request) {
	companyID, err := strconv.Atoi(chi.URLParam(r, "empresaID"))
	if err != nil {
		response.BadRequest(w, "Invalid company ID", nil)
		return
	}

	attachments, err := h.attachmentService.GetByDate(r.Context(), chi.URLParam(r, "data"), companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, attachments)
}

func (h *AttachmentHandler) GetByReg(w http.ResponseWriter, r *http.Request) {
	found, err := h.attachmentService.GetByReg(r.Context(), chi.URLParam(r, "reg"), chi.URLParam(r, "data"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, found)
}

// UpdateQuestions upserts the HR question set for one (cpf, date) pair.
func (h *AttachmentHandler) UpdateQuestions(w http.ResponseWriter, r *http.Request) {
	var req attachment.UpdateQuestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.attachmentService.UpdateQuestions(r.Context(), chi.URLParam(r, "cpf"), chi.URLParam(r, "data"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Questions saved successfully", resp)
}

func (h *AttachmentHandler) BatchPeriod(w http.ResponseWriter, r *http.Request) {
	var req attachment.BatchPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.attachmentService.BatchPeriod(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *AttachmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		response.BadRequest(w, "Invalid attachment ID", nil)
		return
	}

	if err := h.attachmentService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attachment deleted successfully", nil)
}

// SaveJustification creates a placeholder row idempotently on the
// (reg, data, empresa_id) key.
func (h *AttachmentHandler) SaveJustification(w http.ResponseWriter, r *http.Request) {
	var req attachment.JustificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.attachmentService.SaveJustification(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *AttachmentHandler) SaveJustificationBatch(w http.ResponseWriter, r *http.Request) {
	var req attachment.BatchJustificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.attachmentService.SaveJustificationBatch(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *AttachmentHandler) LookupIDs(w http.ResponseWriter, r *http.Request) {
	var req attachment.LookupIDsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.attachmentService.LookupIDs(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// Stats reports justification totals, per-company breakdown and a daily
// time series for the period.
func (h *AttachmentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	dateStart := r.URL.Query().Get("dataInicio")
	dateEnd := r.URL.Query().Get("dataFim")

	resp, err := h.attachmentService.Stats(r.Context(), dateStart, dateEnd)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}
