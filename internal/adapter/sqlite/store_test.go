package sqlite

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techtreck/internal/domain"
	"techtreck/internal/ports"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "techtreck.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStoreCRUD(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec, err := s.Insert(ctx, domain.LogRecord{
		Type:              domain.TypeWork,
		Date:              day(2025, 8, 1),
		StartTime:         "09:00:00",
		EndTime:           "10:30:00",
		DurationSec:       5400,
		DurationFormatted: "01:30:00",
		Description:       "Dev work",
		Status:            domain.StatusPending,
	})
	require.NoError(t, err)
	require.NotZero(t, rec.ID)

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, day(2025, 8, 1), got.Date)
	assert.Equal(t, domain.TypeWork, got.Type)
	assert.Equal(t, int64(5400), got.DurationSec)
	assert.True(t, got.SubmittedOn.IsZero())

	got.Status = domain.StatusApproved
	got.Description = "Dev work (reviewed)"
	updated, err := s.Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, updated.Status)
	assert.Equal(t, "Dev work (reviewed)", updated.Description)

	require.NoError(t, s.Delete(ctx, rec.ID))
	_, err = s.Get(ctx, rec.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, rec.ID), ports.ErrNotFound)

	_, err = s.Update(ctx, domain.LogRecord{ID: 999, Type: domain.TypeWork, Date: day(2025, 1, 1), Status: domain.StatusPending})
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestStoreListFiltersByTypeAndRange(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	seed := []domain.LogRecord{
		{Type: domain.TypeWork, Date: day(2025, 8, 3), StartTime: "13:00:00", Status: domain.StatusPending},
		{Type: domain.TypeWork, Date: day(2025, 8, 1), StartTime: "09:00:00", Status: domain.StatusPending},
		{Type: domain.TypePTO, Date: day(2025, 8, 2), Description: "Vacation", Status: domain.StatusPending, SubmittedOn: day(2025, 7, 20)},
		{Type: domain.TypeWork, Date: day(2025, 9, 1), StartTime: "08:00:00", Status: domain.StatusPending},
	}
	for _, rec := range seed {
		_, err := s.Insert(ctx, rec)
		require.NoError(t, err)
	}

	all, err := s.List(ctx, domain.LogQuery{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, day(2025, 8, 1), all[0].Date)
	assert.Equal(t, day(2025, 9, 1), all[3].Date)

	work, err := s.List(ctx, domain.LogQuery{
		Type:  domain.TypeWork,
		Range: domain.DateRange{From: day(2025, 8, 1), To: day(2025, 8, 31)},
	})
	require.NoError(t, err)
	require.Len(t, work, 2)
	assert.Equal(t, "09:00:00", work[0].StartTime)
	assert.Equal(t, "13:00:00", work[1].StartTime)

	pto, err := s.List(ctx, domain.LogQuery{Type: domain.TypePTO})
	require.NoError(t, err)
	require.Len(t, pto, 1)
	assert.Equal(t, day(2025, 7, 20), pto[0].SubmittedOn)
	assert.Equal(t, "Vacation", pto[0].PTORequest().Reason)
}
