package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techtreck/internal/app"
	"techtreck/internal/chatbot"
	"techtreck/internal/config"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

// startServer runs the API on a temporary SQLite file and points the CLI at it.
func startServer(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TECHTRECK_STORE_DRIVER", "sqlite")
	t.Setenv("TECHTRECK_SQLITE_PATH", filepath.Join(dir, "cli.db"))
	t.Setenv("TECHTRECK_STATE_FILE", filepath.Join(dir, "timer.json"))
	t.Setenv("TECHTRECK_CHAT_OFFLINE", "true")

	cfg, err := config.Load()
	require.NoError(t, err)
	a, err := app.New(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)), cfg)
	require.NoError(t, err)
	srv := httptest.NewServer(a.Handler())
	t.Cleanup(func() {
		srv.Close()
		_ = a.Close()
	})
	t.Setenv("TECHTRECK_API_URL", srv.URL)
}

func run(t *testing.T, clk *clock, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := &cli{in: strings.NewReader(stdin), out: &out, errOut: io.Discard, now: clk.Now}
	root := newRootCmd(c)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTimerSaveAndLogs(t *testing.T) {
	startServer(t)
	clk := &clock{t: time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)}

	out, err := run(t, clk, "", "timer", "start")
	require.NoError(t, err)
	assert.Contains(t, out, "running")

	clk.t = clk.t.Add(90 * time.Minute)
	out, err = run(t, clk, "", "timer", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "01:30:00")

	clk.t = clk.t.Add(30 * time.Minute)
	out, err = run(t, clk, "", "timer", "stop")
	require.NoError(t, err)
	assert.Contains(t, out, "paused")

	_, err = run(t, clk, "", "timer", "stop")
	assert.Error(t, err)

	out, err = run(t, clk, "", "timer", "save")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-03-04 09:00:00-11:00:00 (02:00:00)")

	out, err = run(t, clk, "", "timer", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "stopped")
	assert.Contains(t, out, "00:00:00")

	out, err = run(t, clk, "", "entries", "list", "--from", "2025-03-01", "--to", "2025-03-31")
	require.NoError(t, err)
	assert.Contains(t, out, "Worked for 02:00:00")
	assert.Contains(t, out, "Pending")

	_, err = run(t, clk, "", "pto", "submit", "--date", "2025-03-10", "--reason", "Moving house")
	require.NoError(t, err)

	for _, extra := range [][]string{nil, {"--server-side"}} {
		args := append([]string{"logs", "filter", "--from", "2025-03-01", "--to", "2025-03-31", "--order", "desc"}, extra...)
		out, err = run(t, clk, "", args...)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 3, out)
		assert.Contains(t, lines[1], "2025-03-10")
		assert.Contains(t, lines[1], "All Day")
		assert.Contains(t, lines[1], "8h 0m 0s")
		assert.Contains(t, lines[2], "2025-03-04")
		assert.Contains(t, lines[2], "2h 0m 0s")
	}
}

func TestLogsFilterRequiresBothDates(t *testing.T) {
	startServer(t)
	clk := &clock{t: time.Now()}

	_, err := run(t, clk, "", "logs", "filter", "--from", "2025-03-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "please select both start and end dates")

	_, err = run(t, clk, "", "logs", "filter", "--from", "March", "--to", "2025-03-31")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --from")
}

func TestPTOCommands(t *testing.T) {
	startServer(t)
	clk := &clock{t: time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)}

	_, err := run(t, clk, "", "pto", "submit", "--date", "2025-04-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "please select a date and provide a reason")

	out, err := run(t, clk, "", "pto", "submit", "--date", "2025-04-01", "--reason", "Holiday")
	require.NoError(t, err)
	assert.Contains(t, out, "submitted for 2025-04-01")

	out, err = run(t, clk, "", "pto", "balance")
	require.NoError(t, err)
	assert.Equal(t, "Used 1 of 26 days, 25 remaining (4%)\n", out)

	out, err = run(t, clk, "", "pto", "review", "1", "approved")
	require.NoError(t, err)
	assert.Contains(t, out, "Approved")

	out, err = run(t, clk, "", "pto", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-03-04")
	assert.Contains(t, out, "Holiday")
}

func TestLogsAddAndEdit(t *testing.T) {
	startServer(t)
	clk := &clock{t: time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)}

	out, err := run(t, clk, "", "logs", "add", "--start", "09:00:00", "--end", "10:30:00", "--description", "Review")
	require.NoError(t, err)
	assert.Contains(t, out, "Type:        WORK")
	assert.Contains(t, out, "Date:        2025-03-04")
	assert.Contains(t, out, "Duration:    01:30:00")

	out, err = run(t, clk, "", "logs", "add", "--type", "pto", "--date", "2025-03-07", "--description", "Dentist")
	require.NoError(t, err)
	assert.Contains(t, out, "Type:        PTO")
	assert.Contains(t, out, "Status:      Pending")

	_, err = run(t, clk, "", "logs", "add", "--type", "sick")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --type")

	out, err = run(t, clk, "", "logs", "edit", "1", "--start", "08:00:00", "--end", "10:30:00")
	require.NoError(t, err)
	assert.Contains(t, out, "Duration:    02:30:00")

	out, err = run(t, clk, "", "logs", "edit", "2", "--status", "approved")
	require.NoError(t, err)
	assert.Contains(t, out, "Status:      Approved")
	assert.Contains(t, out, "Description: Dentist")
}

func TestChat(t *testing.T) {
	startServer(t)
	clk := &clock{t: time.Now()}

	out, err := run(t, clk, "", "chat", "hello")
	require.NoError(t, err)
	assert.Contains(t, out, "How can I help you with time tracking")

	out, err = run(t, clk, "", "chat", "--remote", "thanks")
	require.NoError(t, err)
	assert.Contains(t, out, "You're welcome")

	out, err = run(t, clk, "hi\n\nbye\nquit\n", "chat")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, chatbot.Welcome))
	assert.Contains(t, out, "Goodbye!")
}

func TestChatLookupsShareOneDeadline(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(slow.Close)
	t.Setenv("TECHTRECK_CHAT_OFFLINE", "false")
	t.Setenv("TECHTRECK_CHAT_TIMEOUT", "300ms")
	t.Setenv("TECHTRECK_DUCKDUCKGO_URL", slow.URL)
	t.Setenv("TECHTRECK_WIKIPEDIA_URL", slow.URL)
	t.Setenv("TECHTRECK_STATE_FILE", filepath.Join(t.TempDir(), "timer.json"))

	out, err := run(t, &clock{t: time.Now()}, "", "chat", "zorblax quintessence")
	require.NoError(t, err)
	assert.Contains(t, out, "temporarily unable")
}
