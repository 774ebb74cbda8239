package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"techtreck/internal/domain"
	"techtreck/internal/timefmt"
)

// Envelope wraps every request and response body.
type Envelope[T any] struct {
	Data  T          `json:"data"`
	Error *ErrorBody `json:"error,omitempty"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Status  int    `json:"status"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// TimeEntryDTO is a time entry on the wire. Older servers send the status
// as "statuss" and the duration as "duration".
type TimeEntryDTO struct {
	ID                int64            `json:"id,omitempty"`
	Date              string           `json:"date,omitempty"`
	Type              domain.EntryType `json:"type,omitempty"`
	StartTime         string           `json:"startTime,omitempty"`
	EndTime           string           `json:"endTime,omitempty"`
	DurationSeconds   int64            `json:"durationSeconds"`
	Duration          int64            `json:"duration,omitempty"`
	DurationFormatted string           `json:"durationFormatted,omitempty"`
	Description       string           `json:"description,omitempty"`
	Status            domain.Status    `json:"status,omitempty"`
	LegacyStatus      domain.Status    `json:"statuss,omitempty"`
	Email             string           `json:"email,omitempty"`
	CreatedAt         *time.Time       `json:"createdAt,omitempty"`
	UpdatedAt         *time.Time       `json:"updatedAt,omitempty"`
}

func FromTimeEntry(e domain.TimeEntry) TimeEntryDTO {
	return TimeEntryDTO{
		ID:                e.ID,
		Date:              dateString(e.Date),
		Type:              e.Type,
		StartTime:         e.StartTime,
		EndTime:           e.EndTime,
		DurationSeconds:   e.DurationSec,
		DurationFormatted: e.DurationFormatted,
		Description:       e.Description,
		Status:            e.Status,
		Email:             e.Email,
		CreatedAt:         timePtr(e.CreatedAt),
		UpdatedAt:         timePtr(e.UpdatedAt),
	}
}

// Domain converts d. Only a malformed date is an error; missing fields are
// left for validation.
func (d TimeEntryDTO) Domain() (domain.TimeEntry, error) {
	date, err := parseOptionalDay(d.Date)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	return domain.TimeEntry{
		ID:                d.ID,
		Date:              date,
		Type:              d.Type,
		StartTime:         d.StartTime,
		EndTime:           d.EndTime,
		DurationSec:       firstNonZero(d.DurationSeconds, d.Duration),
		DurationFormatted: d.DurationFormatted,
		Description:       d.Description,
		Status:            firstStatus(d.Status, d.LegacyStatus),
		Email:             d.Email,
		CreatedAt:         derefTime(d.CreatedAt),
		UpdatedAt:         derefTime(d.UpdatedAt),
	}, nil
}

// PTODTO is a PTO request on the wire.
type PTODTO struct {
	ID           int64         `json:"id,omitempty"`
	PTODate      string        `json:"ptoDate,omitempty"`
	SubmittedOn  string        `json:"submittedOn,omitempty"`
	Reason       string        `json:"reason,omitempty"`
	Status       domain.Status `json:"status,omitempty"`
	LegacyStatus domain.Status `json:"statuss,omitempty"`
	CreatedAt    *time.Time    `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time    `json:"updatedAt,omitempty"`
}

func FromPTO(p domain.PTORequest) PTODTO {
	return PTODTO{
		ID:          p.ID,
		PTODate:     dateString(p.PTODate),
		SubmittedOn: dateString(p.SubmittedOn),
		Reason:      p.Reason,
		Status:      p.Status,
		CreatedAt:   timePtr(p.CreatedAt),
		UpdatedAt:   timePtr(p.UpdatedAt),
	}
}

func (d PTODTO) Domain() (domain.PTORequest, error) {
	ptoDate, err := parseOptionalDay(d.PTODate)
	if err != nil {
		return domain.PTORequest{}, err
	}
	submitted, err := parseOptionalDay(d.SubmittedOn)
	if err != nil {
		return domain.PTORequest{}, err
	}
	return domain.PTORequest{
		ID:          d.ID,
		PTODate:     ptoDate,
		SubmittedOn: submitted,
		Reason:      d.Reason,
		Status:      firstStatus(d.Status, d.LegacyStatus),
		CreatedAt:   derefTime(d.CreatedAt),
		UpdatedAt:   derefTime(d.UpdatedAt),
	}, nil
}

// LogDTO is a record of the shared log, or an item of the merged timeline.
// PTO records may be written with ptoDate and reason instead of date and
// description.
type LogDTO struct {
	ID                int64            `json:"id,omitempty"`
	Type              domain.EntryType `json:"type,omitempty"`
	Date              string           `json:"date,omitempty"`
	StartTime         string           `json:"startTime,omitempty"`
	EndTime           string           `json:"endTime,omitempty"`
	DurationSeconds   int64            `json:"durationSeconds"`
	Duration          int64            `json:"duration,omitempty"`
	DurationFormatted string           `json:"durationFormatted,omitempty"`
	Description       string           `json:"description,omitempty"`
	Status            domain.Status    `json:"status,omitempty"`
	LegacyStatus      domain.Status    `json:"statuss,omitempty"`
	Email             string           `json:"email,omitempty"`
	SubmittedOn       string           `json:"submittedOn,omitempty"`
	PTODate           string           `json:"ptoDate,omitempty"`
	Reason            string           `json:"reason,omitempty"`
}

func FromLogRecord(r domain.LogRecord) LogDTO {
	return LogDTO{
		ID:                r.ID,
		Type:              r.Type,
		Date:              dateString(r.Date),
		StartTime:         r.StartTime,
		EndTime:           r.EndTime,
		DurationSeconds:   r.DurationSec,
		DurationFormatted: r.DurationFormatted,
		Description:       r.Description,
		Status:            r.Status,
		Email:             r.Email,
		SubmittedOn:       dateString(r.SubmittedOn),
	}
}

func FromLogEntry(e domain.LogEntry) LogDTO {
	return LogDTO{
		ID:                e.ID,
		Type:              e.Type,
		Date:              dateString(e.Date),
		StartTime:         e.StartTime,
		EndTime:           e.EndTime,
		DurationSeconds:   e.DurationSec,
		DurationFormatted: e.DurationFormatted,
		Description:       e.Description,
		Status:            e.Status,
	}
}

func (d LogDTO) Record() (domain.LogRecord, error) {
	date, err := parseOptionalDay(firstString(d.Date, d.PTODate))
	if err != nil {
		return domain.LogRecord{}, err
	}
	submitted, err := parseOptionalDay(d.SubmittedOn)
	if err != nil {
		return domain.LogRecord{}, err
	}
	return domain.LogRecord{
		ID:                d.ID,
		Type:              d.Type,
		Date:              date,
		StartTime:         d.StartTime,
		EndTime:           d.EndTime,
		DurationSec:       firstNonZero(d.DurationSeconds, d.Duration),
		DurationFormatted: d.DurationFormatted,
		Description:       firstString(d.Description, d.Reason),
		Status:            firstStatus(d.Status, d.LegacyStatus),
		Email:             d.Email,
		SubmittedOn:       submitted,
	}, nil
}

func (d LogDTO) Entry() (domain.LogEntry, error) {
	rec, err := d.Record()
	if err != nil {
		return domain.LogEntry{}, err
	}
	return domain.LogEntry{
		ID:                rec.ID,
		Date:              rec.Date,
		Type:              rec.Type,
		StartTime:         rec.StartTime,
		EndTime:           rec.EndTime,
		DurationSec:       rec.DurationSec,
		DurationFormatted: rec.DurationFormatted,
		Description:       rec.Description,
		Status:            rec.Status,
	}, nil
}

// BalanceDTO is the PTO balance on the wire.
type BalanceDTO struct {
	Total     int     `json:"total"`
	Used      int     `json:"used"`
	Remaining int     `json:"remaining"`
	Percent   float64 `json:"percent"`
}

func FromBalance(b domain.PTOBalance) BalanceDTO {
	return BalanceDTO(b)
}

func (d BalanceDTO) Domain() domain.PTOBalance {
	return domain.PTOBalance(d)
}

// StatusDTO is the body of a PTO review.
type StatusDTO struct {
	Status       domain.Status `json:"status"`
	LegacyStatus domain.Status `json:"statuss,omitempty"`
}

func (d StatusDTO) Value() domain.Status { return firstStatus(d.Status, d.LegacyStatus) }

// ChatRequest and ChatReply are the chat bodies.
type ChatRequest struct {
	Message string `json:"message"`
}

type ChatReply struct {
	Answer string `json:"answer"`
}

// unwrapData returns the "data" member of body, or body itself when it is
// not enveloped.
func unwrapData(body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, err
		}
		if len(env.Data) > 0 {
			return env.Data, nil
		}
	}
	return trimmed, nil
}

// flatten lifts the members of an "attributes" object to the top level,
// keeping the outer id.
func flatten(item json.RawMessage) (json.RawMessage, error) {
	var probe struct {
		ID         json.RawMessage `json:"id"`
		Attributes json.RawMessage `json:"attributes"`
	}
	if err := json.Unmarshal(item, &probe); err != nil {
		return nil, err
	}
	if len(probe.Attributes) == 0 || string(probe.Attributes) == "null" {
		return item, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(probe.Attributes, &fields); err != nil {
		return nil, err
	}
	if _, ok := fields["id"]; !ok && len(probe.ID) > 0 {
		fields["id"] = probe.ID
	}
	return json.Marshal(fields)
}

func decodeOne[T any](body []byte) (T, error) {
	var out T
	data, err := unwrapData(body)
	if err != nil {
		return out, fmt.Errorf("decode response: %w", err)
	}
	flat, err := flatten(data)
	if err != nil {
		return out, fmt.Errorf("decode response: %w", err)
	}
	if err := json.Unmarshal(flat, &out); err != nil {
		return out, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

func decodeList[T any](body []byte) ([]T, error) {
	data, err := unwrapData(body)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		flat, err := flatten(item)
		if err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		var v T
		if err := json.Unmarshal(flat, &v); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		out = append(out, v)
	}
	return out, nil
}

func dateString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return timefmt.Date(t)
}

func parseOptionalDay(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return timefmt.ParseDay(v)
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func firstNonZero(values ...int64) int64 {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}

func firstStatus(values ...domain.Status) domain.Status {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
