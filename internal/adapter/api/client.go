package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"techtreck/internal/domain"
	"techtreck/internal/ports"
	"techtreck/internal/timefmt"
)

// Error is a non-2xx answer from the server.
type Error struct {
	Status  int
	Name    string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: unexpected status %d", e.Status)
	}
	return fmt.Sprintf("api: %s (%d)", e.Message, e.Status)
}

// Is lets callers match 404 answers against ports.ErrNotFound.
func (e *Error) Is(target error) bool {
	return target == ports.ErrNotFound && e.Status == http.StatusNotFound
}

// Client talks to the TechTreck REST API. It implements
// ports.TimeEntrySource, ports.PTOSource and ports.EntryCreator.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// ListTimeEntries fetches GET /api/time-entries?startDate=...&endDate=...
func (c *Client) ListTimeEntries(ctx context.Context, r domain.DateRange) ([]domain.TimeEntry, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/time-entries", rangeQuery(r), nil)
	if err != nil {
		return nil, err
	}
	dtos, err := decodeList[TimeEntryDTO](body)
	if err != nil {
		return nil, err
	}
	out := make([]domain.TimeEntry, 0, len(dtos))
	for _, d := range dtos {
		e, err := d.Domain()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (c *Client) GetTimeEntry(ctx context.Context, id int64) (domain.TimeEntry, error) {
	body, err := c.do(ctx, http.MethodGet, itemPath("/api/time-entries", id), nil, nil)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	return decodeTimeEntry(body)
}

// CreateTimeEntry posts e, defaulting the type to WORK and the status to Pending.
func (c *Client) CreateTimeEntry(ctx context.Context, e domain.TimeEntry) (domain.TimeEntry, error) {
	if e.Type == "" {
		e.Type = domain.TypeWork
	}
	if e.Status == "" {
		e.Status = domain.StatusPending
	}
	body, err := c.do(ctx, http.MethodPost, "/api/time-entries", nil, Envelope[TimeEntryDTO]{Data: FromTimeEntry(e)})
	if err != nil {
		return domain.TimeEntry{}, err
	}
	return decodeTimeEntry(body)
}

func (c *Client) UpdateTimeEntry(ctx context.Context, id int64, e domain.TimeEntry) (domain.TimeEntry, error) {
	body, err := c.do(ctx, http.MethodPut, itemPath("/api/time-entries", id), nil, Envelope[TimeEntryDTO]{Data: FromTimeEntry(e)})
	if err != nil {
		return domain.TimeEntry{}, err
	}
	return decodeTimeEntry(body)
}

func (c *Client) DeleteTimeEntry(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, itemPath("/api/time-entries", id), nil, nil)
	return err
}

// ListPTODays fetches GET /api/pto-days?startDate=...&endDate=...
func (c *Client) ListPTODays(ctx context.Context, r domain.DateRange) ([]domain.PTORequest, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/pto-days", rangeQuery(r), nil)
	if err != nil {
		return nil, err
	}
	dtos, err := decodeList[PTODTO](body)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PTORequest, 0, len(dtos))
	for _, d := range dtos {
		p, err := d.Domain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (c *Client) SubmitPTO(ctx context.Context, p domain.PTORequest) (domain.PTORequest, error) {
	if p.Status == "" {
		p.Status = domain.StatusPending
	}
	body, err := c.do(ctx, http.MethodPost, "/api/pto-days", nil, Envelope[PTODTO]{Data: FromPTO(p)})
	if err != nil {
		return domain.PTORequest{}, err
	}
	return decodePTO(body)
}

func (c *Client) ReviewPTO(ctx context.Context, id int64, status domain.Status) (domain.PTORequest, error) {
	body, err := c.do(ctx, http.MethodPut, itemPath("/api/pto-days", id)+"/status", nil, Envelope[StatusDTO]{Data: StatusDTO{Status: status}})
	if err != nil {
		return domain.PTORequest{}, err
	}
	return decodePTO(body)
}

func (c *Client) DeletePTO(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, itemPath("/api/pto-days", id), nil, nil)
	return err
}

func (c *Client) Balance(ctx context.Context) (domain.PTOBalance, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/pto-days/balance", nil, nil)
	if err != nil {
		return domain.PTOBalance{}, err
	}
	dto, err := decodeOne[BalanceDTO](body)
	if err != nil {
		return domain.PTOBalance{}, err
	}
	return dto.Domain(), nil
}

// Logs fetches the merged timeline built by the server.
func (c *Client) Logs(ctx context.Context, r domain.DateRange, order string) ([]domain.LogEntry, error) {
	q := rangeQuery(r)
	if order != "" {
		if q == nil {
			q = url.Values{}
		}
		q.Set("order", order)
	}
	body, err := c.do(ctx, http.MethodGet, "/api/logs", q, nil)
	if err != nil {
		return nil, err
	}
	dtos, err := decodeList[LogDTO](body)
	if err != nil {
		return nil, err
	}
	out := make([]domain.LogEntry, 0, len(dtos))
	for _, d := range dtos {
		e, err := d.Entry()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (c *Client) GetLog(ctx context.Context, id int64) (domain.LogRecord, error) {
	body, err := c.do(ctx, http.MethodGet, itemPath("/api/logs", id), nil, nil)
	if err != nil {
		return domain.LogRecord{}, err
	}
	return decodeLog(body)
}

func (c *Client) CreateLog(ctx context.Context, rec domain.LogRecord) (domain.LogRecord, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/logs", nil, Envelope[LogDTO]{Data: FromLogRecord(rec)})
	if err != nil {
		return domain.LogRecord{}, err
	}
	return decodeLog(body)
}

func (c *Client) UpdateLog(ctx context.Context, id int64, rec domain.LogRecord) (domain.LogRecord, error) {
	body, err := c.do(ctx, http.MethodPut, itemPath("/api/logs", id), nil, Envelope[LogDTO]{Data: FromLogRecord(rec)})
	if err != nil {
		return domain.LogRecord{}, err
	}
	return decodeLog(body)
}

func (c *Client) DeleteLog(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, itemPath("/api/logs", id), nil, nil)
	return err
}

// FindAnswer asks the server's help bot.
func (c *Client) FindAnswer(ctx context.Context, message string) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/chat", nil, Envelope[ChatRequest]{Data: ChatRequest{Message: message}})
	if err != nil {
		return "", err
	}
	reply, err := decodeOne[ChatReply](body)
	if err != nil {
		return "", err
	}
	return reply.Answer, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, err
	}
	u = u.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, err
	}
	c.log.Debug("api call",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
	)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp.StatusCode, body)
	}
	return body, nil
}

func decodeError(status int, body []byte) error {
	apiErr := &Error{Status: status}
	var env struct {
		Error *ErrorBody `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		apiErr.Name = env.Error.Name
		apiErr.Message = env.Error.Message
		return apiErr
	}
	if len(body) > 0 && len(body) <= 4096 {
		apiErr.Message = string(bytes.TrimSpace(body))
	}
	return apiErr
}

func decodeTimeEntry(body []byte) (domain.TimeEntry, error) {
	dto, err := decodeOne[TimeEntryDTO](body)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	return dto.Domain()
}

func decodePTO(body []byte) (domain.PTORequest, error) {
	dto, err := decodeOne[PTODTO](body)
	if err != nil {
		return domain.PTORequest{}, err
	}
	return dto.Domain()
}

func decodeLog(body []byte) (domain.LogRecord, error) {
	dto, err := decodeOne[LogDTO](body)
	if err != nil {
		return domain.LogRecord{}, err
	}
	return dto.Record()
}

func rangeQuery(r domain.DateRange) url.Values {
	if r.From.IsZero() && r.To.IsZero() {
		return nil
	}
	q := url.Values{}
	if !r.From.IsZero() {
		q.Set("startDate", timefmt.Date(r.From))
	}
	if !r.To.IsZero() {
		q.Set("endDate", timefmt.Date(r.To))
	}
	return q
}

func itemPath(collection string, id int64) string {
	return collection + "/" + strconv.FormatInt(id, 10)
}
