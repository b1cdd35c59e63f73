package attendance

// DayAttendance is the reconciled picture of one employee-day: earliest
// punch is the entry, latest is the exit, intermediate punches only
// contribute to PunchCount.
type DayAttendance struct {
	Date             string `json:"date"`
	EntryTime        string `json:"entryTime,omitempty"`
	ExitTime         string `json:"exitTime,omitempty"`
	PunchCount       int    `json:"punchCount"`
	WorkedMinutes    int    `json:"workedMinutes"`
	OvertimeMinutes  int    `json:"overtimeMinutes"`
	NoComputablePair bool   `json:"noComputablePair,omitempty"`
}

// Summary accumulates reconciled days for one employee.
type Summary struct {
	Days            []DayAttendance `json:"days"`
	WorkedMinutes   int             `json:"workedMinutes"`
	OvertimeMinutes int             `json:"overtimeMinutes"`
	ComputableDays  int             `json:"computableDays"`
}
