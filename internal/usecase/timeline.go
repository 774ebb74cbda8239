package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"techtreck/internal/domain"
	"techtreck/internal/ports"
	"techtreck/internal/timefmt"
)

// Order is the date ordering of a timeline.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ParseOrder accepts asc or desc; empty means asc.
func ParseOrder(v string) (Order, error) {
	switch Order(strings.ToLower(strings.TrimSpace(v))) {
	case "", OrderAsc:
		return OrderAsc, nil
	case OrderDesc:
		return OrderDesc, nil
	}
	return "", invalid("order must be %s or %s", OrderAsc, OrderDesc)
}

// PTODaySeconds is the work day a PTO request stands for.
const PTODaySeconds int64 = 8 * 3600

// ErrFetchLogs wraps any source failure while building a timeline.
var ErrFetchLogs = errors.New("error fetching logs from server")

// TimelineUseCase merges time entries and PTO requests into one log.
type TimelineUseCase struct {
	Log     *slog.Logger
	Entries ports.TimeEntrySource
	PTO     ports.PTOSource
}

// RequireBounds rejects ranges missing either bound.
func RequireBounds(r domain.DateRange) error {
	if r.From.IsZero() || r.To.IsZero() {
		return invalid("please select both start and end dates")
	}
	return nil
}

// Run fetches both sources concurrently and returns the merged timeline
// sorted by date. Items sharing a date keep source order, entries first.
func (uc *TimelineUseCase) Run(ctx context.Context, r domain.DateRange, order Order) ([]domain.LogEntry, error) {
	if uc.Entries == nil || uc.PTO == nil {
		return nil, errors.New("usecase not initialized: missing dependencies")
	}
	var (
		entries []domain.TimeEntry
		ptoDays []domain.PTORequest
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = uc.Entries.ListTimeEntries(gctx, r)
		return err
	})
	g.Go(func() error {
		var err error
		ptoDays, err = uc.PTO.ListPTODays(gctx, r)
		return err
	})
	if err := g.Wait(); err != nil {
		uc.Log.Error("error loading timeline", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrFetchLogs, err)
	}

	// Older servers ignore the range query and return everything.
	merged := make([]domain.LogEntry, 0, len(entries)+len(ptoDays))
	for _, e := range entries {
		if r.Contains(e.Date) {
			merged = append(merged, workItem(e))
		}
	}
	for _, p := range ptoDays {
		if r.Contains(p.PTODate) {
			merged = append(merged, ptoItem(p))
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if order == OrderDesc {
			return merged[i].Date.After(merged[j].Date)
		}
		return merged[i].Date.Before(merged[j].Date)
	})
	uc.Log.Debug("timeline built",
		slog.Int("entries", len(entries)),
		slog.Int("pto", len(ptoDays)),
		slog.String("order", string(order)),
	)
	return merged, nil
}

func workItem(e domain.TimeEntry) domain.LogEntry {
	status := e.Status
	if status == "" {
		status = domain.StatusCompleted
	}
	return domain.LogEntry{
		ID:                e.ID,
		Date:              e.Date,
		Type:              domain.TypeWork,
		StartTime:         e.StartTime,
		EndTime:           e.EndTime,
		DurationSec:       e.DurationSec,
		DurationFormatted: e.DurationFormatted,
		Description:       e.Description,
		Status:            status,
	}
}

func ptoItem(p domain.PTORequest) domain.LogEntry {
	return domain.LogEntry{
		ID:                p.ID,
		Date:              p.PTODate,
		Type:              domain.TypePTO,
		StartTime:         "All Day",
		DurationSec:       PTODaySeconds,
		DurationFormatted: timefmt.Human(PTODaySeconds),
		Description:       p.Reason,
		Status:            p.Status,
	}
}
