package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techtreck/internal/domain"
)

func newPTOService() *PTOService {
	return &PTOService{
		Log:       discardLogger(),
		Store:     newMemStore(),
		Allowance: 26,
		Now:       func() time.Time { return time.Date(2025, 7, 20, 15, 4, 5, 0, time.UTC) },
	}
}

func TestSubmitPTO(t *testing.T) {
	svc := newPTOService()
	got, err := svc.SubmitPTO(context.Background(), domain.PTORequest{
		PTODate: time.Date(2025, 8, 4, 13, 0, 0, 0, time.UTC),
		Reason:  "  Family trip ",
	})
	require.NoError(t, err)
	assert.Equal(t, day(2025, 8, 4), got.PTODate)
	assert.Equal(t, day(2025, 7, 20), got.SubmittedOn)
	assert.Equal(t, "Family trip", got.Reason)
	assert.Equal(t, domain.StatusPending, got.Status)
}

func TestSubmitPTORequiresDateAndReason(t *testing.T) {
	svc := newPTOService()
	ctx := context.Background()
	_, err := svc.SubmitPTO(ctx, domain.PTORequest{Reason: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.SubmitPTO(ctx, domain.PTORequest{PTODate: day(2025, 8, 4), Reason: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.SubmitPTO(ctx, domain.PTORequest{PTODate: day(2025, 8, 4), Reason: "x", Status: domain.StatusApproved})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReviewPTO(t *testing.T) {
	svc := newPTOService()
	ctx := context.Background()
	p, err := svc.SubmitPTO(ctx, domain.PTORequest{PTODate: day(2025, 8, 4), Reason: "Trip"})
	require.NoError(t, err)

	_, err = svc.ReviewPTO(ctx, p.ID, domain.StatusPending)
	assert.ErrorIs(t, err, ErrInvalidInput)

	approved, err := svc.ReviewPTO(ctx, p.ID, domain.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, approved.Status)

	_, err = svc.ReviewPTO(ctx, p.ID, domain.StatusRejected)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.ReviewPTO(ctx, 999, domain.StatusApproved)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPTOBalanceSkipsRejected(t *testing.T) {
	svc := newPTOService()
	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		_, err := svc.SubmitPTO(ctx, domain.PTORequest{PTODate: day(2025, 8, i), Reason: "Rest"})
		require.NoError(t, err)
	}
	_, err := svc.ReviewPTO(ctx, 2, domain.StatusRejected)
	require.NoError(t, err)

	b, err := svc.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 26, b.Total)
	assert.Equal(t, 2, b.Used)
	assert.Equal(t, 24, b.Remaining)
}

func TestDeletePTO(t *testing.T) {
	svc := newPTOService()
	ctx := context.Background()
	p, err := svc.SubmitPTO(ctx, domain.PTORequest{PTODate: day(2025, 8, 4), Reason: "Trip"})
	require.NoError(t, err)
	require.NoError(t, svc.DeletePTO(ctx, p.ID))
	assert.ErrorIs(t, svc.DeletePTO(ctx, p.ID), ErrNotFound)
}
