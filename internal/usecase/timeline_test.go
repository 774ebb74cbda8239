package usecase

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techtreck/internal/domain"
)

type staticEntries struct {
	entries []domain.TimeEntry
	err     error
}

func (s staticEntries) ListTimeEntries(ctx context.Context, _ domain.DateRange) ([]domain.TimeEntry, error) {
	return s.entries, s.err
}

type staticPTO struct {
	days []domain.PTORequest
	err  error
}

func (s staticPTO) ListPTODays(ctx context.Context, _ domain.DateRange) ([]domain.PTORequest, error) {
	return s.days, s.err
}

func TestTimelineMergesAndSorts(t *testing.T) {
	uc := &TimelineUseCase{
		Log: discardLogger(),
		Entries: staticEntries{entries: []domain.TimeEntry{
			{ID: 1, Date: day(2025, 8, 3), StartTime: "09:00:00", EndTime: "10:00:00", DurationSec: 3600, DurationFormatted: "01:00:00", Description: "Dev"},
			{ID: 2, Date: day(2025, 8, 1), DurationSec: 60, Status: domain.StatusApproved},
		}},
		PTO: staticPTO{days: []domain.PTORequest{
			{ID: 3, PTODate: day(2025, 8, 2), Reason: "Dentist", Status: domain.StatusPending},
		}},
	}

	asc, err := uc.Run(context.Background(), domain.DateRange{From: day(2025, 8, 1), To: day(2025, 8, 31)}, OrderAsc)
	require.NoError(t, err)
	want := []domain.LogEntry{
		{ID: 2, Date: day(2025, 8, 1), Type: domain.TypeWork, DurationSec: 60, Status: domain.StatusApproved},
		{ID: 3, Date: day(2025, 8, 2), Type: domain.TypePTO, StartTime: "All Day", DurationSec: 28800, DurationFormatted: "8h 0m 0s", Description: "Dentist", Status: domain.StatusPending},
		{ID: 1, Date: day(2025, 8, 3), Type: domain.TypeWork, StartTime: "09:00:00", EndTime: "10:00:00", DurationSec: 3600, DurationFormatted: "01:00:00", Description: "Dev", Status: domain.StatusCompleted},
	}
	if diff := cmp.Diff(want, asc); diff != "" {
		t.Fatalf("timeline mismatch (-want +got):\n%s", diff)
	}

	desc, err := uc.Run(context.Background(), domain.DateRange{}, OrderDesc)
	require.NoError(t, err)
	require.Len(t, desc, 3)
	assert.Equal(t, int64(1), desc[0].ID)
	assert.Equal(t, int64(2), desc[2].ID)
}

func TestTimelineDropsItemsOutsideRange(t *testing.T) {
	uc := &TimelineUseCase{
		Log: discardLogger(),
		Entries: staticEntries{entries: []domain.TimeEntry{
			{ID: 1, Date: day(2025, 7, 31)},
			{ID: 2, Date: day(2025, 8, 1)},
			{ID: 3, Date: day(2025, 8, 31)},
			{ID: 4, Date: day(2025, 9, 1)},
		}},
		PTO: staticPTO{days: []domain.PTORequest{
			{ID: 5, PTODate: day(2025, 8, 15)},
			{ID: 6, PTODate: day(2025, 10, 1)},
		}},
	}

	got, err := uc.Run(context.Background(), domain.DateRange{From: day(2025, 8, 1), To: day(2025, 8, 31)}, OrderAsc)
	require.NoError(t, err)
	ids := make([]int64, 0, len(got))
	for _, it := range got {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []int64{2, 5, 3}, ids)
}

func TestTimelineFailsWhenASourceFails(t *testing.T) {
	uc := &TimelineUseCase{
		Log:     discardLogger(),
		Entries: staticEntries{},
		PTO:     staticPTO{err: errBoom},
	}
	_, err := uc.Run(context.Background(), domain.DateRange{}, OrderAsc)
	assert.ErrorIs(t, err, ErrFetchLogs)
	assert.ErrorIs(t, err, errBoom)
}

func TestRequireBoundsAndParseOrder(t *testing.T) {
	assert.ErrorIs(t, RequireBounds(domain.DateRange{From: day(2025, 8, 1)}), ErrInvalidInput)
	assert.NoError(t, RequireBounds(domain.DateRange{From: day(2025, 8, 1), To: day(2025, 8, 1)}))

	o, err := ParseOrder("")
	require.NoError(t, err)
	assert.Equal(t, OrderAsc, o)
	o, err = ParseOrder("DESC")
	require.NoError(t, err)
	assert.Equal(t, OrderDesc, o)
	_, err = ParseOrder("sideways")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
