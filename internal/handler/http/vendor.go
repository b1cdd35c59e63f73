package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/pontohub/ponto-backend-go/internal/domain/vendor"
	"github.com/pontohub/ponto-backend-go/internal/handler/http/response"
	"github.com/pontohub/ponto-backend-go/internal/pkg/validator"
	"github.com/pontohub/ponto-backend-go/internal/service/directory"
)

// DirectoryService is the slice of the directory service the vendor
// proxy routes need.
type DirectoryService interface {
	Banks(ctx context.Context) ([]vendor.Bank, error)
	Companies(ctx context.Context) ([]directory.Company, error)
	AllEmployees(ctx context.Context) ([]vendor.Employee, error)
	EmployeesByBank(ctx context.Context, bankID int) ([]vendor.Employee, error)
	Departments(ctx context.Context) ([]vendor.Department, error)
	ClockEvents(ctx context.Context, bankID int, cpf, dateStart, dateEnd string) ([]vendor.ClockEvent, error)
}

type VendorHandler struct {
	directoryService DirectoryService
}

func NewVendorHandler(directoryService DirectoryService) *VendorHandler {
	return &VendorHandler{directoryService: directoryService}
}

func (h *VendorHandler) Banks(w http.ResponseWriter, r *http.Request) {
	banks, err := h.directoryService.Banks(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, banks)
}

// Companies returns the banks decorated with employee counts.
func (h *VendorHandler) Companies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.directoryService.Companies(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, companies)
}

// Employees lists every active employee, or one bank's when bancoId is
// given.
func (h *VendorHandler) Employees(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("bancoId"); raw != "" {
		bankID, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "Invalid bancoId", nil)
			return
		}
		employees, err := h.directoryService.EmployeesByBank(r.Context(), bankID)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.Success(w, employees)
		return
	}

	employees, err := h.directoryService.AllEmployees(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, employees)
}

func (h *VendorHandler) Departments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.directoryService.Departments(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, departments)
}

// ClockEvents proxies the raw punches for one employee in a date range.
func (h *VendorHandler) ClockEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	cpf := query.Get("cpf")
	bankID, err := strconv.Atoi(query.Get("bancoId"))
	if validator.IsEmpty(cpf) || err != nil {
		response.BadRequest(w, "cpf and bancoId are required", nil)
		return
	}

	dateStart, okStart := validator.NormalizeDate(query.Get("dataInicio"))
	dateEnd, okEnd := validator.NormalizeDate(query.Get("dataFim"))
	if !okStart || !okEnd {
		response.BadRequest(w, "dataInicio and dataFim must be valid dates", nil)
		return
	}

	events, err := h.directoryService.ClockEvents(r.Context(), bankID, cpf, dateStart, dateEnd)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, events)
}
