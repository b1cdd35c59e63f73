package attendance

import "github.com/pontohub/ponto-backend-go/internal/domain/vendor"

// Reconciler turns raw clock events into per-day attendance.
type Reconciler interface {
	Reconcile(events []vendor.ClockEvent) []DayAttendance
	Summarize(events []vendor.ClockEvent) Summary
}
