package usecase

import (
	"context"

	"techtreck/internal/domain"
	"techtreck/internal/ports"
)

// LogService addresses any record of the shared log by id and dispatches
// writes to the entry or PTO service according to the record type.
type LogService struct {
	Store   ports.LogStore
	Entries *EntryService
	PTO     *PTOService
}

// GetLog loads a record of either type.
func (s *LogService) GetLog(ctx context.Context, id int64) (domain.LogRecord, error) {
	rec, err := s.Store.Get(ctx, id)
	if err != nil {
		return domain.LogRecord{}, storeErr(err, "log", id)
	}
	return rec, nil
}

// CreateLog creates a time entry or PTO request depending on rec.Type.
func (s *LogService) CreateLog(ctx context.Context, rec domain.LogRecord) (domain.LogRecord, error) {
	if rec.Type != "" && !rec.Type.Valid() {
		return domain.LogRecord{}, invalid("unknown log type %q", rec.Type)
	}
	if rec.Type == domain.TypePTO {
		p, err := s.PTO.SubmitPTO(ctx, rec.PTORequest())
		if err != nil {
			return domain.LogRecord{}, err
		}
		return p.Record(), nil
	}
	e, err := s.Entries.CreateTimeEntry(ctx, rec.TimeEntry())
	if err != nil {
		return domain.LogRecord{}, err
	}
	return e.Record(), nil
}

// UpdateLog edits a time entry, or reviews a PTO request when the stored
// record is PTO.
func (s *LogService) UpdateLog(ctx context.Context, id int64, rec domain.LogRecord) (domain.LogRecord, error) {
	current, err := s.GetLog(ctx, id)
	if err != nil {
		return domain.LogRecord{}, err
	}
	if rec.Type != "" && rec.Type != current.Type {
		return domain.LogRecord{}, invalid("log %d cannot change type from %s to %s", id, current.Type, rec.Type)
	}
	if current.Type == domain.TypePTO {
		p, err := s.PTO.ReviewPTO(ctx, id, rec.Status)
		if err != nil {
			return domain.LogRecord{}, err
		}
		return p.Record(), nil
	}
	e, err := s.Entries.UpdateTimeEntry(ctx, id, rec.TimeEntry())
	if err != nil {
		return domain.LogRecord{}, err
	}
	return e.Record(), nil
}

// DeleteLog removes a record of either type.
func (s *LogService) DeleteLog(ctx context.Context, id int64) error {
	if err := s.Store.Delete(ctx, id); err != nil {
		return storeErr(err, "log", id)
	}
	return nil
}
