package report

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	attendancesvc "github.com/pontohub/ponto-backend-go/internal/service/attendance"

	"github.com/pontohub/ponto-backend-go/internal/domain/vendor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	employees []vendor.Employee
	events    map[string][]vendor.ClockEvent // keyed by cpf
	failCPFs  map[string]bool
	equipment []vendor.Equipment
	eqEvents  map[int][]vendor.ClockEvent
	failEqIDs map[int]bool

	mu         sync.Mutex
	inFlight   int
	maxInFlite int
}

func (f *fakeDirectory) AllEmployees(ctx context.Context) ([]vendor.Employee, error) {
	return f.employees, nil
}

func (f *fakeDirectory) ClockEvents(ctx context.Context, bankID int, cpf, dateStart, dateEnd string) ([]vendor.ClockEvent, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlite {
		f.maxInFlite = f.inFlight
	}
	f.mu.Unlock()
	time.Sleep(5 * time.Millisecond)
	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.failCPFs[cpf] {
		return nil, errors.New("upstream failure")
	}
	return f.events[cpf], nil
}

func (f *fakeDirectory) Equipment(ctx context.Context, bankID int) ([]vendor.Equipment, error) {
	return f.equipment, nil
}

func (f *fakeDirectory) EquipmentEvents(ctx context.Context, bankID, equipmentID int, dateStart, dateEnd string) ([]vendor.ClockEvent, error) {
	if f.failEqIDs[equipmentID] {
		return nil, errors.New("device unreachable")
	}
	return f.eqEvents[equipmentID], nil
}

func overtimeDay(date string, entry, exit string) []vendor.ClockEvent {
	return []vendor.ClockEvent{
		{DateTime: date + "T" + entry + ":00"},
		{DateTime: date + "T" + exit + ":00"},
	}
}

func newFixture() *fakeDirectory {
	return &fakeDirectory{
		employees: []vendor.Employee{
			{Name: "Ana", CPF: "111", BankID: 1, BankName: "Alfa"},
			{Name: "Bia", CPF: "222", BankID: 1, BankName: "Alfa"},
			{Name: "Caio", CPF: "333", BankID: 2, BankName: "Beta"},
		},
		events: map[string][]vendor.ClockEvent{
			"111": overtimeDay("2025-10-03", "08:00", "17:30"), // 90 extra
			"222": overtimeDay("2025-10-03", "08:00", "18:00"), // 120 extra
			"333": overtimeDay("2025-10-03", "09:00", "17:00"), // none
		},
	}
}

func newService(dir Directory, workers int) *Service {
	return NewService(dir, attendancesvc.NewService(480, nil), workers, nil)
}

func TestOvertimeByCompany_TotalsAndOrdering(t *testing.T) {
	dir := newFixture()
	svc := newService(dir, 4)

	got, err := svc.OvertimeByCompany(context.Background(), "2025-10-01", "2025-10-05", 0)
	require.NoError(t, err)
	require.Len(t, got.Companies, 2)
	assert.Equal(t, 0, got.Skipped)

	alfa := got.Companies[0]
	assert.Equal(t, "Alfa", alfa.BankName)
	assert.Equal(t, 210, alfa.TotalOvertimeMinutes, "company total is the exact sum of member totals")
	assert.Equal(t, 2, alfa.EmployeeCount)
	assert.InDelta(t, 105.0, alfa.MeanOvertimeMinutes, 0.0001)

	beta := got.Companies[1]
	assert.Equal(t, 0, beta.TotalOvertimeMinutes)
}

func TestOvertimeByCompany_FailedEmployeeContributesZero(t *testing.T) {
	dir := newFixture()
	dir.failCPFs = map[string]bool{"222": true}
	svc := newService(dir, 4)

	got, err := svc.OvertimeByCompany(context.Background(), "2025-10-01", "2025-10-05", 0)
	require.NoError(t, err, "a failing employee must not abort the report")
	assert.Equal(t, 1, got.Skipped)

	alfa := got.Companies[0]
	assert.Equal(t, 90, alfa.TotalOvertimeMinutes)
	assert.Equal(t, 2, alfa.EmployeeCount)
}

func TestOvertimeByCompany_Idempotent(t *testing.T) {
	dir := newFixture()
	svc := newService(dir, 4)

	first, err := svc.OvertimeByCompany(context.Background(), "2025-10-01", "2025-10-05", 0)
	require.NoError(t, err)
	second, err := svc.OvertimeByCompany(context.Background(), "2025-10-01", "2025-10-05", 0)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestOvertimeByPerson_SortedDescending(t *testing.T) {
	dir := newFixture()
	svc := newService(dir, 4)

	got, err := svc.OvertimeByPerson(context.Background(), "2025-10-01", "2025-10-05", 0)
	require.NoError(t, err)
	require.Len(t, got.People, 3)
	assert.Equal(t, "Bia", got.People[0].Name)
	assert.Equal(t, 120, got.People[0].TotalOvertimeMinutes)
	assert.Equal(t, "Ana", got.People[1].Name)
	assert.Equal(t, 1, got.People[0].ComputableDays)
}

func TestOvertimeByPerson_BankFilter(t *testing.T) {
	dir := newFixture()
	svc := newService(dir, 4)

	got, err := svc.OvertimeByPerson(context.Background(), "2025-10-01", "2025-10-05", 2)
	require.NoError(t, err)
	require.Len(t, got.People, 1)
	assert.Equal(t, "Caio", got.People[0].Name)
}

func TestOvertimeByCPF(t *testing.T) {
	dir := newFixture()
	svc := newService(dir, 4)

	got, err := svc.OvertimeByCPF(context.Background(), 1, "111", "2025-10-01", "2025-10-05")
	require.NoError(t, err)
	assert.Equal(t, "111", got.CPF)
	assert.Equal(t, 90, got.TotalOvertimeMinutes)
	assert.Equal(t, 1, got.ComputableDays)
	require.Len(t, got.Days, 1)
	assert.Equal(t, "2025-10-03", got.Days[0].Date)
}

func TestCollect_RespectsWorkerLimit(t *testing.T) {
	dir := newFixture()
	svc := newService(dir, 1)

	_, err := svc.OvertimeByPerson(context.Background(), "2025-10-01", "2025-10-05", 0)
	require.NoError(t, err)

	dir.mu.Lock()
	defer dir.mu.Unlock()
	assert.LessOrEqual(t, dir.maxInFlite, 1, "fan-out must not exceed the configured worker count")
}

func TestMachineMonitor_FailedDeviceYieldsZeroedRow(t *testing.T) {
	dir := newFixture()
	dir.equipment = []vendor.Equipment{
		{ID: 1, Description: "Portaria"},
		{ID: 2, Description: "Fábrica"},
	}
	dir.eqEvents = map[int][]vendor.ClockEvent{
		1: {{DateTime: "2025-10-03T08:00:00"}, {DateTime: "2025-10-03T17:00:00"}},
	}
	dir.failEqIDs = map[int]bool{2: true}
	svc := newService(dir, 4)

	got, err := svc.MachineMonitor(context.Background(), 1, "2025-10-01", "2025-10-05")
	require.NoError(t, err)
	require.Len(t, got.Machines, 2)
	assert.Equal(t, 1, got.Skipped)

	assert.Equal(t, 2, got.Machines[0].EventCount)
	assert.Equal(t, "2025-10-03T17:00:00", got.Machines[0].LastSync)
	assert.Equal(t, 0, got.Machines[1].EventCount)
	assert.Empty(t, got.Machines[1].LastSync)
}

func TestPresenceDashboard(t *testing.T) {
	dir := newFixture()
	dir.events["333"] = nil // no punches on the date
	svc := newService(dir, 4)

	got, err := svc.PresenceDashboard(context.Background(), 0, "2025-10-03")
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalEmployees)
	assert.Equal(t, 2, got.Present)
	assert.Equal(t, 1, got.Absent)
}
