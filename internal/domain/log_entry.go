package domain

import "time"

// LogRecord is the stored row behind both time entries and PTO requests.
// Both kinds share one id space so a log id addresses either.
type LogRecord struct {
	ID                int64
	Type              EntryType
	Date              time.Time
	StartTime         string
	EndTime           string
	DurationSec       int64
	DurationFormatted string
	Description       string
	Status            Status
	Email             string
	SubmittedOn       time.Time // PTO only
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TimeEntry views the record as a time entry.
func (r LogRecord) TimeEntry() TimeEntry {
	return TimeEntry{
		ID:                r.ID,
		Date:              r.Date,
		Type:              r.Type,
		StartTime:         r.StartTime,
		EndTime:           r.EndTime,
		DurationSec:       r.DurationSec,
		DurationFormatted: r.DurationFormatted,
		Description:       r.Description,
		Status:            r.Status,
		Email:             r.Email,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// PTORequest views the record as a PTO request.
func (r LogRecord) PTORequest() PTORequest {
	return PTORequest{
		ID:          r.ID,
		PTODate:     r.Date,
		SubmittedOn: r.SubmittedOn,
		Reason:      r.Description,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// LogQuery filters stored records. An empty Type matches both kinds.
type LogQuery struct {
	Type  EntryType
	Range DateRange
}

// LogEntry is one item of the combined WORK/PTO timeline.
type LogEntry struct {
	ID                int64
	Date              time.Time
	Type              EntryType
	StartTime         string
	EndTime           string
	DurationSec       int64
	DurationFormatted string
	Description       string
	Status            Status
}

// TimerState is the persisted state of the work timer.
type TimerState struct {
	TotalSeconds int64      `json:"totalTimeWorked"`
	Running      bool       `json:"isTimerRunning"`
	Paused       bool       `json:"isPaused"`
	ClockIn      *time.Time `json:"clockInTime"`
	ClockOut     *time.Time `json:"clockOutTime"`
	ResumedAt    *time.Time `json:"resumedAt,omitempty"`
}
