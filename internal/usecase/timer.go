package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"techtreck/internal/domain"
	"techtreck/internal/ports"
	"techtreck/internal/timefmt"
)

// Timer is the work clock. Elapsed time derives from timestamps, so a
// running timer keeps counting while the process is not alive.
type Timer struct {
	log     *slog.Logger
	store   ports.TimerStateStore
	entries ports.EntryCreator
	now     func() time.Time
	state   domain.TimerState
}

// NewTimer restores the saved state from store.
func NewTimer(log *slog.Logger, store ports.TimerStateStore, entries ports.EntryCreator, now func() time.Time) (*Timer, error) {
	if store == nil {
		return nil, errors.New("timer: state store is required")
	}
	if now == nil {
		now = time.Now
	}
	st, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("restore timer state: %w", err)
	}
	if st.TotalSeconds < 0 {
		st.TotalSeconds = 0
	}
	// State files without resumedAt start counting again from restore.
	if st.Running && st.ResumedAt == nil {
		n := now()
		st.ResumedAt = &n
	}
	return &Timer{log: log, store: store, entries: entries, now: now, state: st}, nil
}

// State returns a copy of the current state.
func (t *Timer) State() domain.TimerState { return t.state }

// Elapsed returns the worked seconds including the running stretch.
func (t *Timer) Elapsed() int64 {
	total := t.state.TotalSeconds
	if t.state.Running && t.state.ResumedAt != nil {
		if d := t.now().Sub(*t.state.ResumedAt); d > 0 {
			total += int64(d / time.Second)
		}
	}
	return total
}

// Start clocks in and discards any previous session.
func (t *Timer) Start() error {
	now := t.now()
	t.state = domain.TimerState{
		Running:   true,
		ClockIn:   &now,
		ResumedAt: &now,
	}
	t.log.Info("timer started", slog.Time("clock_in", now))
	return t.save()
}

// Stop pauses the timer and records the clock-out time.
func (t *Timer) Stop() error {
	if !t.state.Running {
		return fmt.Errorf("%w: timer is not running", ErrConflict)
	}
	now := t.now()
	t.state.TotalSeconds = t.Elapsed()
	t.state.Running = false
	t.state.Paused = true
	t.state.ClockOut = &now
	t.state.ResumedAt = nil
	t.log.Info("timer stopped", slog.String("worked", timefmt.Clock(t.state.TotalSeconds)))
	return t.save()
}

// Resume continues a paused session.
func (t *Timer) Resume() error {
	if t.state.Running {
		return fmt.Errorf("%w: timer is already running", ErrConflict)
	}
	if t.state.ClockIn == nil {
		return fmt.Errorf("%w: timer has not been started", ErrConflict)
	}
	now := t.now()
	t.state.Running = true
	t.state.Paused = false
	t.state.ClockOut = nil
	t.state.ResumedAt = &now
	t.log.Info("timer resumed", slog.String("worked", timefmt.Clock(t.state.TotalSeconds)))
	return t.save()
}

// Reset clears the session.
func (t *Timer) Reset() error {
	t.state = domain.TimerState{}
	t.log.Info("timer reset")
	return t.save()
}

// Save submits the session as a pending WORK entry for today and resets the
// timer once the entry has been accepted.
func (t *Timer) Save(ctx context.Context) (domain.TimeEntry, error) {
	if t.entries == nil {
		return domain.TimeEntry{}, errors.New("timer: entry creator is required")
	}
	if t.state.ClockIn == nil {
		return domain.TimeEntry{}, invalid("timer has no recorded time")
	}
	if err := t.save(); err != nil {
		return domain.TimeEntry{}, err
	}
	worked := t.Elapsed()
	formatted := timefmt.Clock(worked)
	entry := domain.TimeEntry{
		Date:              domain.Day(t.now()),
		Type:              domain.TypeWork,
		StartTime:         timefmt.TimeOfDay(t.state.ClockIn),
		EndTime:           timefmt.TimeOfDay(t.state.ClockOut),
		DurationSec:       worked,
		DurationFormatted: formatted,
		Description:       "Worked for " + formatted,
		Status:            domain.StatusPending,
	}
	created, err := t.entries.CreateTimeEntry(ctx, entry)
	if err != nil {
		t.log.Error("error saving time entry", slog.String("error", err.Error()))
		return domain.TimeEntry{}, fmt.Errorf("failed to save time entry: %w", err)
	}
	if err := t.Reset(); err != nil {
		return created, err
	}
	return created, nil
}

func (t *Timer) save() error {
	if err := t.store.Save(t.state); err != nil {
		return fmt.Errorf("save timer state: %w", err)
	}
	return nil
}
