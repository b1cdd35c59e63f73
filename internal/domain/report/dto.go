package report

import "github.com/pontohub/ponto-backend-go/internal/domain/attendance"

type Period struct {
	Start string `json:"dataInicio"`
	End   string `json:"dataFim"`
}

// CompanyOvertime is one bank's aggregate for the period.
type CompanyOvertime struct {
	BankID               int     `json:"bancoId"`
	BankName             string  `json:"banco"`
	EmployeeCount        int     `json:"totalFuncionarios"`
	TotalOvertimeMinutes int     `json:"totalMinutosExtras"`
	MeanOvertimeMinutes  float64 `json:"mediaMinutosExtras"`
}

type CompanyReport struct {
	Period    Period            `json:"periodo"`
	Companies []CompanyOvertime `json:"empresas"`
	Skipped   int               `json:"ignorados"`
}

// PersonOvertime is one employee's overtime total for the period.
type PersonOvertime struct {
	Name                 string                     `json:"nome"`
	CPF                  string                     `json:"cpf"`
	BankName             string                     `json:"banco"`
	TotalOvertimeMinutes int                        `json:"totalMinutosExtras"`
	ComputableDays       int                        `json:"diasComputados"`
	Days                 []attendance.DayAttendance `json:"dias,omitempty"`
}

type PersonReport struct {
	Period  Period           `json:"periodo"`
	People  []PersonOvertime `json:"funcionarios"`
	Skipped int              `json:"ignorados"`
}

// MachineStatus is one punch-clock device with its last recorded event.
type MachineStatus struct {
	EquipmentID int    `json:"equipamentoId"`
	Name        string `json:"nome"`
	IPAddress   string `json:"enderecoIP"`
	EventCount  int    `json:"totalEventos"`
	LastSync    string `json:"ultimaSincronizacao,omitempty"`
}

type MachineReport struct {
	Machines []MachineStatus `json:"equipamentos"`
	Skipped  int             `json:"ignorados"`
}

// PresenceRow is one employee's punch activity for a single date.
type PresenceRow struct {
	Name       string `json:"nome"`
	CPF        string `json:"cpf"`
	BankName   string `json:"banco"`
	PunchCount int    `json:"totalBatidas"`
	Present    bool   `json:"presente"`
}

type DashboardSummary struct {
	Date           string        `json:"data"`
	TotalEmployees int           `json:"totalFuncionarios"`
	Present        int           `json:"presentes"`
	Absent         int           `json:"ausentes"`
	Rows           []PresenceRow `json:"funcionarios"`
	Skipped        int           `json:"ignorados"`
}
