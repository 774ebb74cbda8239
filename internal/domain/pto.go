package domain

import "time"

// DefaultPTOAllowance is the yearly number of PTO days granted to a user.
const DefaultPTOAllowance = 26

// PTORequest is a single day of paid time off asked for by the user.
type PTORequest struct {
	ID          int64
	PTODate     time.Time
	SubmittedOn time.Time
	Reason      string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Record converts the request into its persisted form.
func (p PTORequest) Record() LogRecord {
	return LogRecord{
		ID:          p.ID,
		Type:        TypePTO,
		Date:        p.PTODate,
		Description: p.Reason,
		Status:      p.Status,
		SubmittedOn: p.SubmittedOn,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// PTOBalance summarizes how much of the allowance has been requested.
type PTOBalance struct {
	Total     int
	Used      int
	Remaining int
	Percent   float64
}

// BalanceOf computes the balance of requests against allowance.
// Rejected requests do not consume allowance.
func BalanceOf(requests []PTORequest, allowance int) PTOBalance {
	if allowance <= 0 {
		allowance = DefaultPTOAllowance
	}
	used := 0
	for _, r := range requests {
		if r.Status == StatusRejected {
			continue
		}
		used++
	}
	used = min(used, allowance)
	return PTOBalance{
		Total:     allowance,
		Used:      used,
		Remaining: allowance - used,
		Percent:   float64(used) / float64(allowance) * 100,
	}
}
