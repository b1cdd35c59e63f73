package attendance

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/pontohub/ponto-backend-go/internal/domain/attendance"
	"github.com/pontohub/ponto-backend-go/internal/domain/vendor"
)

const minutesPerDay = 24 * 60

type Service struct {
	shiftMinutes int
	logger       *slog.Logger
}

func NewService(shiftMinutes int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{shiftMinutes: shiftMinutes, logger: logger}
}

// Reconcile implements attendance.Reconciler. Events are partitioned by
// calendar date; within a date the first punch is the entry and the last
// the exit, with intermediate punches counted but not paired. Punch order
// within a date is the vendor's chronological order, which is what lets a
// shift crossing midnight (exit clock earlier than entry clock) be
// recognized and advanced by one day. Fewer than two punches yields a
// zeroed day flagged as having no computable pair.
func (s *Service) Reconcile(events []vendor.ClockEvent) []attendance.DayAttendance {
	byDate := make(map[string][]punch)
	for _, ev := range events {
		p, ok := s.parse(ev)
		if !ok {
			continue
		}
		byDate[p.date] = append(byDate[p.date], p)
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	days := make([]attendance.DayAttendance, 0, len(dates))
	for _, date := range dates {
		punches := byDate[date]

		day := attendance.DayAttendance{
			Date:       date,
			PunchCount: len(punches),
		}

		if len(punches) < 2 {
			day.NoComputablePair = true
			if len(punches) == 1 {
				day.EntryTime = punches[0].clock
			}
			days = append(days, day)
			continue
		}

		entry := punches[0]
		exit := punches[len(punches)-1]
		worked := exit.minutes - entry.minutes
		if worked < 0 {
			worked += minutesPerDay
		}

		day.EntryTime = entry.clock
		day.ExitTime = exit.clock
		day.WorkedMinutes = worked
		day.OvertimeMinutes = max(0, worked-s.shiftMinutes)
		days = append(days, day)
	}
	return days
}

// Summarize implements attendance.Reconciler.
func (s *Service) Summarize(events []vendor.ClockEvent) attendance.Summary {
	days := s.Reconcile(events)
	summary := attendance.Summary{Days: days}
	for _, day := range days {
		summary.WorkedMinutes += day.WorkedMinutes
		summary.OvertimeMinutes += day.OvertimeMinutes
		if !day.NoComputablePair {
			summary.ComputableDays++
		}
	}
	return summary
}

type punch struct {
	date    string // YYYY-MM-DD
	clock   string // HH:MM
	minutes int    // minutes since midnight
}

// parse extracts date and time-of-day from either the combined DataHora
// form or the split Data/Hora pair. Malformed events are skipped with a
// warning, never fatal.
func (s *Service) parse(ev vendor.ClockEvent) (punch, bool) {
	raw := ev.DateTime
	if raw == "" && ev.Date != "" && ev.Time != "" {
		raw = strings.TrimSuffix(ev.Date, "T00:00:00") + "T" + ev.Time
	}
	if raw == "" {
		s.logger.Warn("clock event without timestamp skipped")
		return punch{}, false
	}

	t, err := parseTimestamp(raw)
	if err != nil {
		s.logger.Warn("malformed clock event skipped", "timestamp", raw)
		return punch{}, false
	}
	return punch{
		date:    t.Format("2006-01-02"),
		clock:   t.Format("15:04"),
		minutes: t.Hour()*60 + t.Minute(),
	}, true
}

func parseTimestamp(raw string) (time.Time, error) {
	layouts := []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		time.RFC3339,
	}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
