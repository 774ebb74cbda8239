package ports

import (
	"context"

	"techtreck/internal/domain"
)

// LogStore persists time entries and PTO requests in a shared log.
// Get, Update and Delete return ErrNotFound for unknown ids.
type LogStore interface {
	Insert(ctx context.Context, rec domain.LogRecord) (domain.LogRecord, error)
	Update(ctx context.Context, rec domain.LogRecord) (domain.LogRecord, error)
	Get(ctx context.Context, id int64) (domain.LogRecord, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, q domain.LogQuery) ([]domain.LogRecord, error)
}

// TimeEntrySource lists time entries, either from storage or from the API.
type TimeEntrySource interface {
	ListTimeEntries(ctx context.Context, r domain.DateRange) ([]domain.TimeEntry, error)
}

// PTOSource lists PTO requests, either from storage or from the API.
type PTOSource interface {
	ListPTODays(ctx context.Context, r domain.DateRange) ([]domain.PTORequest, error)
}

// EntryCreator accepts a finished time entry.
type EntryCreator interface {
	CreateTimeEntry(ctx context.Context, e domain.TimeEntry) (domain.TimeEntry, error)
}

// TimerStateStore loads and saves the work timer state between runs.
// Load returns a zero state and no error when nothing was saved yet.
type TimerStateStore interface {
	Load() (domain.TimerState, error)
	Save(domain.TimerState) error
}

// InstantAnswerer queries an instant-answer search API.
type InstantAnswerer interface {
	Instant(ctx context.Context, query string, skipDisambig bool) (domain.InstantAnswer, error)
}

// Encyclopedia looks up article summaries.
// Summary returns ErrNotFound when no article matches title.
type Encyclopedia interface {
	Summary(ctx context.Context, title string) (string, error)
	Search(ctx context.Context, query string) ([]string, error)
}
