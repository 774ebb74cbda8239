package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"techtreck/internal/domain"
	"techtreck/internal/ports"
	"techtreck/internal/timefmt"
)

// PTOService manages PTO requests in the shared log.
type PTOService struct {
	Log       *slog.Logger
	Store     ports.LogStore
	Allowance int
	Now       func() time.Time
}

// SubmitPTO stores a new pending PTO request submitted today.
func (s *PTOService) SubmitPTO(ctx context.Context, p domain.PTORequest) (domain.PTORequest, error) {
	p.Reason = strings.TrimSpace(p.Reason)
	if p.PTODate.IsZero() || p.Reason == "" {
		return domain.PTORequest{}, invalid("please select a date and provide a reason for your PTO request")
	}
	p.PTODate = domain.Day(p.PTODate)
	if p.SubmittedOn.IsZero() {
		p.SubmittedOn = today(s.Now)
	}
	if p.Status == "" {
		p.Status = domain.StatusPending
	}
	if p.Status != domain.StatusPending {
		return domain.PTORequest{}, invalid("new PTO requests must be %s", domain.StatusPending)
	}

	rec, err := s.Store.Insert(ctx, p.Record())
	if err != nil {
		return domain.PTORequest{}, err
	}
	s.Log.Info("pto requested",
		slog.Int64("id", rec.ID),
		slog.String("date", timefmt.Date(rec.Date)),
	)
	return rec.PTORequest(), nil
}

// ListPTODays returns PTO requests inside r.
func (s *PTOService) ListPTODays(ctx context.Context, r domain.DateRange) ([]domain.PTORequest, error) {
	recs, err := s.Store.List(ctx, domain.LogQuery{Type: domain.TypePTO, Range: r})
	if err != nil {
		return nil, err
	}
	out := make([]domain.PTORequest, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.PTORequest())
	}
	return out, nil
}

// GetPTO loads a PTO request by id.
func (s *PTOService) GetPTO(ctx context.Context, id int64) (domain.PTORequest, error) {
	rec, err := s.Store.Get(ctx, id)
	if err != nil {
		return domain.PTORequest{}, storeErr(err, "pto request", id)
	}
	if rec.Type != domain.TypePTO {
		return domain.PTORequest{}, storeErr(ports.ErrNotFound, "pto request", id)
	}
	return rec.PTORequest(), nil
}

// ReviewPTO approves or rejects a pending request.
func (s *PTOService) ReviewPTO(ctx context.Context, id int64, status domain.Status) (domain.PTORequest, error) {
	if status != domain.StatusApproved && status != domain.StatusRejected {
		return domain.PTORequest{}, invalid("review status must be %s or %s", domain.StatusApproved, domain.StatusRejected)
	}
	current, err := s.GetPTO(ctx, id)
	if err != nil {
		return domain.PTORequest{}, err
	}
	if current.Status != domain.StatusPending {
		return domain.PTORequest{}, fmt.Errorf("%w: pto request %d is already %s", ErrConflict, id, current.Status)
	}
	current.Status = status
	rec, err := s.Store.Update(ctx, current.Record())
	if err != nil {
		return domain.PTORequest{}, storeErr(err, "pto request", id)
	}
	s.Log.Info("pto reviewed", slog.Int64("id", id), slog.String("status", string(status)))
	return rec.PTORequest(), nil
}

// DeletePTO removes a PTO request by id.
func (s *PTOService) DeletePTO(ctx context.Context, id int64) error {
	if _, err := s.GetPTO(ctx, id); err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, id); err != nil {
		return storeErr(err, "pto request", id)
	}
	s.Log.Info("pto deleted", slog.Int64("id", id))
	return nil
}

// Balance reports the allowance consumed by all stored requests.
func (s *PTOService) Balance(ctx context.Context) (domain.PTOBalance, error) {
	reqs, err := s.ListPTODays(ctx, domain.DateRange{})
	if err != nil {
		return domain.PTOBalance{}, err
	}
	return domain.BalanceOf(reqs, s.Allowance), nil
}
