package report

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pontohub/ponto-backend-go/internal/domain/attendance"
	"github.com/pontohub/ponto-backend-go/internal/domain/report"
	"github.com/pontohub/ponto-backend-go/internal/domain/vendor"
)

// Directory is the slice of the directory service the reports need.
type Directory interface {
	AllEmployees(ctx context.Context) ([]vendor.Employee, error)
	ClockEvents(ctx context.Context, bankID int, cpf, dateStart, dateEnd string) ([]vendor.ClockEvent, error)
	Equipment(ctx context.Context, bankID int) ([]vendor.Equipment, error)
	EquipmentEvents(ctx context.Context, bankID, equipmentID int, dateStart, dateEnd string) ([]vendor.ClockEvent, error)
}

// Service rolls per-employee attendance into company, person, machine
// and presence reports. Per-employee fan-out runs on a bounded worker
// pool; an employee whose fetch or reconciliation fails contributes zero
// and bumps the report's skipped count, never aborting the request.
type Service struct {
	dir        Directory
	reconciler attendance.Reconciler
	workers    int
	logger     *slog.Logger
}

func NewService(dir Directory, reconciler attendance.Reconciler, workers int, logger *slog.Logger) *Service {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{dir: dir, reconciler: reconciler, workers: workers, logger: logger}
}

type personRow struct {
	employee vendor.Employee
	summary  attendance.Summary
	failed   bool
}

// collect fans out one ClockEvents+Summarize pass per employee. The
// returned slice is index-aligned with the input so ordering stays
// deterministic regardless of scheduling.
func (s *Service) collect(ctx context.Context, employees []vendor.Employee, dateStart, dateEnd string) []personRow {
	rows := make([]personRow, len(employees))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, emp := range employees {
		g.Go(func() error {
			events, err := s.dir.ClockEvents(gctx, emp.BankID, emp.CPF, dateStart, dateEnd)
			if err != nil {
				s.logger.Warn("employee skipped in report",
					"cpf", emp.CPF, "bank", emp.BankID, "error", err)
				rows[i] = personRow{employee: emp, failed: true}
				return nil
			}
			rows[i] = personRow{employee: emp, summary: s.reconciler.Summarize(events)}
			return nil
		})
	}
	g.Wait()
	return rows
}

func filterByBank(employees []vendor.Employee, bankID int) []vendor.Employee {
	if bankID == 0 {
		return employees
	}
	filtered := make([]vendor.Employee, 0, len(employees))
	for _, emp := range employees {
		if emp.BankID == bankID {
			filtered = append(filtered, emp)
		}
	}
	return filtered
}

// OvertimeByCompany sums overtime minutes per bank over the period.
func (s *Service) OvertimeByCompany(ctx context.Context, dateStart, dateEnd string, bankID int) (report.CompanyReport, error) {
	employees, err := s.dir.AllEmployees(ctx)
	if err != nil {
		return report.CompanyReport{}, err
	}
	employees = filterByBank(employees, bankID)

	rows := s.collect(ctx, employees, dateStart, dateEnd)

	totals := make(map[int]*report.CompanyOvertime)
	skipped := 0
	for _, row := range rows {
		company, ok := totals[row.employee.BankID]
		if !ok {
			company = &report.CompanyOvertime{
				BankID:   row.employee.BankID,
				BankName: row.employee.BankName,
			}
			totals[row.employee.BankID] = company
		}
		company.EmployeeCount++
		if row.failed {
			skipped++
			continue
		}
		company.TotalOvertimeMinutes += row.summary.OvertimeMinutes
	}

	companies := make([]report.CompanyOvertime, 0, len(totals))
	for _, company := range totals {
		if company.EmployeeCount > 0 {
			company.MeanOvertimeMinutes = float64(company.TotalOvertimeMinutes) / float64(company.EmployeeCount)
		}
		companies = append(companies, *company)
	}
	sort.Slice(companies, func(i, j int) bool {
		if companies[i].TotalOvertimeMinutes != companies[j].TotalOvertimeMinutes {
			return companies[i].TotalOvertimeMinutes > companies[j].TotalOvertimeMinutes
		}
		return companies[i].BankID < companies[j].BankID
	})

	return report.CompanyReport{
		Period:    report.Period{Start: dateStart, End: dateEnd},
		Companies: companies,
		Skipped:   skipped,
	}, nil
}

// OvertimeByPerson produces one row per employee over the period.
func (s *Service) OvertimeByPerson(ctx context.Context, dateStart, dateEnd string, bankID int) (report.PersonReport, error) {
	employees, err := s.dir.AllEmployees(ctx)
	if err != nil {
		return report.PersonReport{}, err
	}
	employees = filterByBank(employees, bankID)

	rows := s.collect(ctx, employees, dateStart, dateEnd)

	people := make([]report.PersonOvertime, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		person := report.PersonOvertime{
			Name:     row.employee.Name,
			CPF:      row.employee.CPF,
			BankName: row.employee.BankName,
		}
		if row.failed {
			skipped++
		} else {
			person.TotalOvertimeMinutes = row.summary.OvertimeMinutes
			person.ComputableDays = row.summary.ComputableDays
			person.Days = row.summary.Days
		}
		people = append(people, person)
	}
	sort.Slice(people, func(i, j int) bool {
		if people[i].TotalOvertimeMinutes != people[j].TotalOvertimeMinutes {
			return people[i].TotalOvertimeMinutes > people[j].TotalOvertimeMinutes
		}
		return people[i].Name < people[j].Name
	})

	return report.PersonReport{
		Period:  report.Period{Start: dateStart, End: dateEnd},
		People:  people,
		Skipped: skipped,
	}, nil
}

// OvertimeByCPF summarizes one employee's overtime over the period.
func (s *Service) OvertimeByCPF(ctx context.Context, bankID int, cpf, dateStart, dateEnd string) (report.PersonOvertime, error) {
	events, err := s.dir.ClockEvents(ctx, bankID, cpf, dateStart, dateEnd)
	if err != nil {
		return report.PersonOvertime{}, err
	}
	summary := s.reconciler.Summarize(events)
	return report.PersonOvertime{
		CPF:                  cpf,
		TotalOvertimeMinutes: summary.OvertimeMinutes,
		ComputableDays:       summary.ComputableDays,
		Days:                 summary.Days,
	}, nil
}

// MachineMonitor reports each device's event count and last recorded
// event in the period. A device whose event fetch fails yields a zeroed
// row.
func (s *Service) MachineMonitor(ctx context.Context, bankID int, dateStart, dateEnd string) (report.MachineReport, error) {
	equipment, err := s.dir.Equipment(ctx, bankID)
	if err != nil {
		return report.MachineReport{}, err
	}

	machines := make([]report.MachineStatus, len(equipment))
	var skipped int
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, eq := range equipment {
		g.Go(func() error {
			status := report.MachineStatus{
				EquipmentID: eq.ID,
				Name:        equipmentName(eq),
				IPAddress:   eq.IPAddress,
			}
			events, err := s.dir.EquipmentEvents(gctx, bankID, eq.ID, dateStart, dateEnd)
			if err != nil {
				s.logger.Warn("equipment skipped in machine monitor",
					"equipment", eq.ID, "error", err)
				mu.Lock()
				skipped++
				mu.Unlock()
			} else {
				status.EventCount = len(events)
				status.LastSync = lastEventTimestamp(events)
			}
			machines[i] = status
			return nil
		})
	}
	g.Wait()

	return report.MachineReport{Machines: machines, Skipped: skipped}, nil
}

// PresenceDashboard summarizes who punched on a single date.
func (s *Service) PresenceDashboard(ctx context.Context, bankID int, date string) (report.DashboardSummary, error) {
	employees, err := s.dir.AllEmployees(ctx)
	if err != nil {
		return report.DashboardSummary{}, err
	}
	employees = filterByBank(employees, bankID)

	rows := s.collect(ctx, employees, date, date)

	summary := report.DashboardSummary{
		Date:           date,
		TotalEmployees: len(employees),
		Rows:           make([]report.PresenceRow, 0, len(rows)),
	}
	for _, row := range rows {
		presence := report.PresenceRow{
			Name:     row.employee.Name,
			CPF:      row.employee.CPF,
			BankName: row.employee.BankName,
		}
		if row.failed {
			summary.Skipped++
		} else {
			for _, day := range row.summary.Days {
				presence.PunchCount += day.PunchCount
			}
			presence.Present = presence.PunchCount > 0
		}
		if presence.Present {
			summary.Present++
		} else {
			summary.Absent++
		}
		summary.Rows = append(summary.Rows, presence)
	}
	return summary, nil
}

func equipmentName(eq vendor.Equipment) string {
	if eq.Description != "" {
		return eq.Description
	}
	return eq.Name
}

// lastEventTimestamp returns the lexicographically greatest ISO
// timestamp, which is also the most recent.
func lastEventTimestamp(events []vendor.ClockEvent) string {
	last := ""
	for _, ev := range events {
		ts := ev.DateTime
		if ts == "" {
			ts = ev.Date
		}
		if ts > last {
			last = ts
		}
	}
	return last
}
