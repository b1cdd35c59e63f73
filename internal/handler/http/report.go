package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/pontohub/ponto-backend-go/internal/domain/report"
	"github.com/pontohub/ponto-backend-go/internal/handler/http/response"
	"github.com/pontohub/ponto-backend-go/internal/pkg/validator"
)

// ReportService is the slice of the aggregation service the report
// routes need.
type ReportService interface {
	OvertimeByCompany(ctx context.Context, dateStart, dateEnd string, bankID int) (report.CompanyReport, error)
	OvertimeByPerson(ctx context.Context, dateStart, dateEnd string, bankID int) (report.PersonReport, error)
	OvertimeByCPF(ctx context.Context, bankID int, cpf, dateStart, dateEnd string) (report.PersonOvertime, error)
	MachineMonitor(ctx context.Context, bankID int, dateStart, dateEnd string) (report.MachineReport, error)
	PresenceDashboard(ctx context.Context, bankID int, date string) (report.DashboardSummary, error)
}

type ReportHandler struct {
	reportService ReportService
}

func NewReportHandler(reportService ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// parsePeriod reads and normalizes the dataInicio/dataFim query params.
func parsePeriod(r *http.Request) (string, string, bool) {
	dateStart, okStart := validator.NormalizeDate(r.URL.Query().Get("dataInicio"))
	dateEnd, okEnd := validator.NormalizeDate(r.URL.Query().Get("dataFim"))
	return dateStart, dateEnd, okStart && okEnd
}

// parseBankFilter reads the optional bancoId query param; zero means all
// banks.
func parseBankFilter(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("bancoId")
	if raw == "" {
		return 0, true
	}
	bankID, err := strconv.Atoi(raw)
	return bankID, err == nil
}

// OvertimeByCPF summarizes one employee's overtime over the period.
func (h *ReportHandler) OvertimeByCPF(w http.ResponseWriter, r *http.Request) {
	cpf := r.URL.Query().Get("cpf")
	bankID, okBank := parseBankFilter(r)
	if validator.IsEmpty(cpf) || !okBank {
		response.BadRequest(w, "cpf and bancoId are required", nil)
		return
	}
	dateStart, dateEnd, ok := parsePeriod(r)
	if !ok {
		response.BadRequest(w, "dataInicio and dataFim must be valid dates", nil)
		return
	}

	person, err := h.reportService.OvertimeByCPF(r.Context(), bankID, cpf, dateStart, dateEnd)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, person)
}

func (h *ReportHandler) OvertimeByCompany(w http.ResponseWriter, r *http.Request) {
	dateStart, dateEnd, ok := parsePeriod(r)
	if !ok {
		response.BadRequest(w, "dataInicio and dataFim must be valid dates", nil)
		return
	}
	bankID, ok := parseBankFilter(r)
	if !ok {
		response.BadRequest(w, "Invalid bancoId", nil)
		return
	}

	companyReport, err := h.reportService.OvertimeByCompany(r.Context(), dateStart, dateEnd, bankID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, companyReport)
}

func (h *ReportHandler) OvertimeByPerson(w http.ResponseWriter, r *http.Request) {
	dateStart, dateEnd, ok := parsePeriod(r)
	if !ok {
		response.BadRequest(w, "dataInicio and dataFim must be valid dates", nil)
		return
	}
	bankID, ok := parseBankFilter(r)
	if !ok {
		response.BadRequest(w, "Invalid bancoId", nil)
		return
	}

	personReport, err := h.reportService.OvertimeByPerson(r.Context(), dateStart, dateEnd, bankID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, personReport)
}

// MachineMonitor reports punch-clock device activity for one bank.
func (h *ReportHandler) MachineMonitor(w http.ResponseWriter, r *http.Request) {
	bankID, err := strconv.Atoi(r.URL.Query().Get("bancoId"))
	if err != nil {
		response.BadRequest(w, "bancoId is required", nil)
		return
	}
	dateStart, dateEnd, ok := parsePeriod(r)
	if !ok {
		response.BadRequest(w, "dataInicio and dataFim must be valid dates", nil)
		return
	}

	machineReport, err := h.reportService.MachineMonitor(r.Context(), bankID, dateStart, dateEnd)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, machineReport)
}

// Dashboard summarizes presence for a single date, defaulting to today.
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("data")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	normalized, ok := validator.NormalizeDate(date)
	if !ok {
		response.BadRequest(w, "data must be a valid date", nil)
		return
	}
	bankID, ok := parseBankFilter(r)
	if !ok {
		response.BadRequest(w, "Invalid bancoId", nil)
		return
	}

	summary, err := h.reportService.PresenceDashboard(r.Context(), bankID, normalized)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, summary)
}
