package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techtreck/internal/adapter/api"
	"techtreck/internal/adapter/sqlite"
	"techtreck/internal/config"
	"techtreck/internal/domain"
	"techtreck/internal/ports"
)

type testEnv struct {
	srv    *httptest.Server
	client *api.Client
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	var cfg config.Config
	cfg.PTO.AllowanceDays = 26
	cfg.Chatbot.Offline = true
	cfg.Chatbot.Timeout = time.Second

	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "api.db"), log)
	require.NoError(t, err)
	bot, err := NewBot(log, cfg)
	require.NoError(t, err)

	a := newApp(log, cfg, store, bot)
	srv := httptest.NewServer(a.Handler())
	t.Cleanup(func() {
		srv.Close()
		_ = a.Close()
	})
	return testEnv{srv: srv, client: api.NewClient(srv.URL, 5*time.Second, log)}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (e testEnv) raw(t *testing.T, method, path, body string) (*http.Response, api.Envelope[json.RawMessage]) {
	t.Helper()
	req, err := http.NewRequest(method, e.srv.URL+path, bytes.NewBufferString(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var env api.Envelope[json.RawMessage]
	if resp.StatusCode != http.StatusNoContent && resp.Header.Get("Content-Type") != "text/plain; charset=utf-8" {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp, env
}

func TestHealthzAndRequestID(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.srv.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	req, _ := http.NewRequest(http.MethodGet, env.srv.URL+"/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
}

func TestTimeEntryLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.client.CreateTimeEntry(ctx, domain.TimeEntry{
		Date:        day(2025, 1, 6),
		StartTime:   "09:00:00",
		EndTime:     "10:00:00",
		DurationSec: 3600,
		Description: "Worked for 01:00:00",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, domain.TypeWork, created.Type)
	assert.Equal(t, domain.StatusPending, created.Status)
	assert.Equal(t, "01:00:00", created.DurationFormatted)

	updated, err := env.client.UpdateTimeEntry(ctx, created.ID, domain.TimeEntry{StartTime: "08:30", EndTime: "12:00"})
	require.NoError(t, err)
	assert.Equal(t, "08:30:00", updated.StartTime)
	assert.Equal(t, int64(3*3600+1800), updated.DurationSec)
	assert.Equal(t, "03:30:00", updated.DurationFormatted)
	assert.Equal(t, "Worked for 01:00:00", updated.Description)
	assert.Equal(t, day(2025, 1, 6), updated.Date)

	list, err := env.client.ListTimeEntries(ctx, domain.DateRange{From: day(2025, 1, 1), To: day(2025, 1, 31)})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	list, err = env.client.ListTimeEntries(ctx, domain.DateRange{From: day(2025, 2, 1), To: day(2025, 2, 28)})
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, env.client.DeleteTimeEntry(ctx, created.ID))
	_, err = env.client.GetTimeEntry(ctx, created.ID)
	assert.True(t, errors.Is(err, ports.ErrNotFound))
}

func TestTimeEntryValidation(t *testing.T) {
	env := newTestEnv(t)
	created, err := env.client.CreateTimeEntry(context.Background(), domain.TimeEntry{Date: day(2025, 1, 6)})
	require.NoError(t, err)

	resp, body := env.raw(t, http.MethodPut, "/api/time-entries/"+itoa(created.ID), `{"data":{"startTime":"09:00:00"}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, body.Error)
	assert.Equal(t, "ValidationError", body.Error.Name)
	assert.Contains(t, body.Error.Message, "please enter both start and end times")

	resp, body = env.raw(t, http.MethodPut, "/api/time-entries/"+itoa(created.ID), `{"data":{"startTime":"10:00","endTime":"09:00"}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body.Error.Message, "end time must be after start time")

	resp, _ = env.raw(t, http.MethodPost, "/api/time-entries", `{"data":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.raw(t, http.MethodGet, "/api/time-entries/abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.raw(t, http.MethodGet, "/api/time-entries?startDate=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.raw(t, http.MethodGet, "/api/time-entries/999", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPTOLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.client.SubmitPTO(ctx, domain.PTORequest{PTODate: day(2025, 5, 2)})
	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)

	p, err := env.client.SubmitPTO(ctx, domain.PTORequest{PTODate: day(2025, 5, 2), Reason: "Long weekend"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, p.Status)
	assert.False(t, p.SubmittedOn.IsZero())

	bal, err := env.client.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 26, bal.Total)
	assert.Equal(t, 1, bal.Used)
	assert.Equal(t, 25, bal.Remaining)

	p, err = env.client.ReviewPTO(ctx, p.ID, domain.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, p.Status)

	_, err = env.client.ReviewPTO(ctx, p.ID, domain.StatusRejected)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)

	days, err := env.client.ListPTODays(ctx, domain.DateRange{From: day(2025, 5, 1), To: day(2025, 5, 31)})
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, "Long weekend", days[0].Reason)

	require.NoError(t, env.client.DeletePTO(ctx, p.ID))
	bal, err = env.client.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, bal.Used)
}

func TestLogsTimelineAndRecords(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	work, err := env.client.CreateLog(ctx, domain.LogRecord{
		Type:        domain.TypeWork,
		Date:        day(2025, 3, 3),
		StartTime:   "09:00:00",
		EndTime:     "17:00:00",
		DurationSec: 8 * 3600,
	})
	require.NoError(t, err)
	pto, err := env.client.CreateLog(ctx, domain.LogRecord{
		Type:        domain.TypePTO,
		Date:        day(2025, 3, 5),
		Description: "Dentist",
	})
	require.NoError(t, err)
	_, err = env.client.CreateTimeEntry(ctx, domain.TimeEntry{Date: day(2025, 4, 1)})
	require.NoError(t, err)

	items, err := env.client.Logs(ctx, domain.DateRange{From: day(2025, 3, 1), To: day(2025, 3, 31)}, "desc")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, domain.TypePTO, items[0].Type)
	assert.Equal(t, "All Day", items[0].StartTime)
	assert.Equal(t, "8h 0m 0s", items[0].DurationFormatted)
	assert.Equal(t, "Dentist", items[0].Description)
	assert.Equal(t, domain.TypeWork, items[1].Type)
	assert.Equal(t, "08:00:00", items[1].DurationFormatted)

	rec, err := env.client.GetLog(ctx, pto.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TypePTO, rec.Type)

	rec, err = env.client.UpdateLog(ctx, pto.ID, domain.LogRecord{Status: domain.StatusRejected})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, rec.Status)

	rec, err = env.client.UpdateLog(ctx, work.ID, domain.LogRecord{StartTime: "10:00:00", EndTime: "11:00:00"})
	require.NoError(t, err)
	assert.Equal(t, int64(3600), rec.DurationSec)

	resp, _ := env.raw(t, http.MethodGet, "/api/logs?order=sideways", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.raw(t, http.MethodGet, "/api/logs?startDate=2025-03-31&endDate=2025-03-01", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	require.NoError(t, env.client.DeleteLog(ctx, work.ID))
	_, err = env.client.GetLog(ctx, work.ID)
	assert.True(t, errors.Is(err, ports.ErrNotFound))
}

func TestChat(t *testing.T) {
	env := newTestEnv(t)

	answer, err := env.client.FindAnswer(context.Background(), "hello")
	require.NoError(t, err)
	assert.Contains(t, answer, "How can I help you")

	resp, body := env.raw(t, http.MethodPost, "/api/chat", `{"data":{"message":"  "}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "ValidationError", body.Error.Name)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
