package usecase

import (
	"context"
	"log/slog"
	"time"

	"techtreck/internal/domain"
	"techtreck/internal/ports"
	"techtreck/internal/timefmt"
)

// EntryService manages time entries in the shared log.
type EntryService struct {
	Log   *slog.Logger
	Store ports.LogStore
}

// CreateTimeEntry validates e, fills defaults and stores it.
func (s *EntryService) CreateTimeEntry(ctx context.Context, e domain.TimeEntry) (domain.TimeEntry, error) {
	if e.Date.IsZero() {
		return domain.TimeEntry{}, invalid("date is required")
	}
	if e.Type == "" {
		e.Type = domain.TypeWork
	}
	if e.Type != domain.TypeWork {
		return domain.TimeEntry{}, invalid("time entries must have type %s", domain.TypeWork)
	}
	if e.Status == "" {
		e.Status = domain.StatusPending
	}
	if !e.Status.Valid() {
		return domain.TimeEntry{}, invalid("unknown status %q", e.Status)
	}
	if e.DurationSec < 0 {
		return domain.TimeEntry{}, invalid("duration must not be negative")
	}
	if err := checkClock(e.StartTime, e.EndTime); err != nil {
		return domain.TimeEntry{}, err
	}
	if e.DurationFormatted == "" {
		e.DurationFormatted = timefmt.Clock(e.DurationSec)
	}
	e.Date = domain.Day(e.Date)

	rec, err := s.Store.Insert(ctx, e.Record())
	if err != nil {
		return domain.TimeEntry{}, err
	}
	s.Log.Info("time entry created",
		slog.Int64("id", rec.ID),
		slog.String("date", timefmt.Date(rec.Date)),
		slog.String("duration", rec.DurationFormatted),
	)
	return rec.TimeEntry(), nil
}

// UpdateTimeEntry edits the start and end of an entry and recomputes its
// duration. Date, description, status and email are kept from the stored
// entry when left empty in e.
func (s *EntryService) UpdateTimeEntry(ctx context.Context, id int64, e domain.TimeEntry) (domain.TimeEntry, error) {
	if e.StartTime == "" || e.EndTime == "" {
		return domain.TimeEntry{}, invalid("please enter both start and end times")
	}
	duration, err := timefmt.Span(e.StartTime, e.EndTime)
	if err != nil {
		return domain.TimeEntry{}, invalid("%v", err)
	}
	if duration < 0 {
		return domain.TimeEntry{}, invalid("end time must be after start time")
	}
	if e.Status != "" && !e.Status.Valid() {
		return domain.TimeEntry{}, invalid("unknown status %q", e.Status)
	}

	current, err := s.GetTimeEntry(ctx, id)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	next := current
	next.StartTime = normalizeClock(e.StartTime)
	next.EndTime = normalizeClock(e.EndTime)
	next.DurationSec = duration
	next.DurationFormatted = timefmt.Clock(duration)
	if !e.Date.IsZero() {
		next.Date = domain.Day(e.Date)
	}
	if e.Description != "" {
		next.Description = e.Description
	}
	if e.Status != "" {
		next.Status = e.Status
	}
	if e.Email != "" {
		next.Email = e.Email
	}

	rec, err := s.Store.Update(ctx, next.Record())
	if err != nil {
		return domain.TimeEntry{}, storeErr(err, "time entry", id)
	}
	s.Log.Info("time entry updated", slog.Int64("id", id), slog.String("duration", rec.DurationFormatted))
	return rec.TimeEntry(), nil
}

// GetTimeEntry loads a WORK entry by id.
func (s *EntryService) GetTimeEntry(ctx context.Context, id int64) (domain.TimeEntry, error) {
	rec, err := s.Store.Get(ctx, id)
	if err != nil {
		return domain.TimeEntry{}, storeErr(err, "time entry", id)
	}
	if rec.Type != domain.TypeWork {
		return domain.TimeEntry{}, storeErr(ports.ErrNotFound, "time entry", id)
	}
	return rec.TimeEntry(), nil
}

// DeleteTimeEntry removes a WORK entry by id.
func (s *EntryService) DeleteTimeEntry(ctx context.Context, id int64) error {
	if _, err := s.GetTimeEntry(ctx, id); err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, id); err != nil {
		return storeErr(err, "time entry", id)
	}
	s.Log.Info("time entry deleted", slog.Int64("id", id))
	return nil
}

// ListTimeEntries returns WORK entries inside r.
func (s *EntryService) ListTimeEntries(ctx context.Context, r domain.DateRange) ([]domain.TimeEntry, error) {
	recs, err := s.Store.List(ctx, domain.LogQuery{Type: domain.TypeWork, Range: r})
	if err != nil {
		return nil, err
	}
	out := make([]domain.TimeEntry, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.TimeEntry())
	}
	return out, nil
}

func checkClock(values ...string) error {
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, err := timefmt.ParseClock(v); err != nil {
			return invalid("%v", err)
		}
	}
	return nil
}

// normalizeClock rewrites HH:MM as HH:MM:SS.
func normalizeClock(v string) string {
	secs, err := timefmt.ParseClock(v)
	if err != nil {
		return v
	}
	return timefmt.Clock(secs)
}

// today returns the calendar day of now in its own location.
func today(now func() time.Time) time.Time {
	if now == nil {
		now = time.Now
	}
	return domain.Day(now())
}
