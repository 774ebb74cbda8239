package domain

import "time"

// EntryType distinguishes worked time from paid time off in the shared log.
type EntryType string

const (
	TypeWork EntryType = "WORK"
	TypePTO  EntryType = "PTO"
)

// Valid reports whether t is a known entry type.
func (t EntryType) Valid() bool {
	return t == TypeWork || t == TypePTO
}

// Status is the review state of a time entry or PTO request.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusApproved  Status = "Approved"
	StatusRejected  Status = "Rejected"
	StatusCompleted Status = "Completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// TimeEntry represents a block of worked time in the domain.
type TimeEntry struct {
	ID                int64
	Date              time.Time // Calendar day, UTC midnight
	Type              EntryType
	StartTime         string // HH:MM:SS wall clock
	EndTime           string
	DurationSec       int64
	DurationFormatted string
	Description       string
	Status            Status
	Email             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Record converts the entry into its persisted form.
func (e TimeEntry) Record() LogRecord {
	return LogRecord{
		ID:                e.ID,
		Type:              TypeWork,
		Date:              e.Date,
		StartTime:         e.StartTime,
		EndTime:           e.EndTime,
		DurationSec:       e.DurationSec,
		DurationFormatted: e.DurationFormatted,
		Description:       e.Description,
		Status:            e.Status,
		Email:             e.Email,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

// DateRange is an inclusive range of calendar days. Zero bounds are open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether day falls inside the range.
func (r DateRange) Contains(day time.Time) bool {
	if !r.From.IsZero() && day.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && day.After(r.To) {
		return false
	}
	return true
}

// Day truncates t to its calendar day in UTC, keeping t's own year/month/day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
