package wikipedia

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techtreck/internal/ports"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/rest_v1/page/summary/{title}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("title") != "Time_zone" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, `{"title":"Time zone","extract":"A time zone is an area."}`)
	})
	mux.HandleFunc("GET /w/api.php", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("action") != "query" || q.Get("list") != "search" || q.Get("format") != "json" {
			http.Error(w, "bad query", http.StatusBadRequest)
			return
		}
		if q.Get("srsearch") != "time zones" {
			_, _ = io.WriteString(w, `{"query":{"search":[]}}`)
			return
		}
		_, _ = io.WriteString(w, `{"query":{"search":[{"title":"Time zone"},{"title":"UTC offset"}]}}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSummary(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))

	extract, err := c.Summary(context.Background(), "Time_zone")
	require.NoError(t, err)
	assert.Equal(t, "A time zone is an area.", extract)

	_, err = c.Summary(context.Background(), "Nope")
	assert.True(t, errors.Is(err, ports.ErrNotFound))
}

func TestSummaryEscapesSlashInTitle(t *testing.T) {
	var escaped, title string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/rest_v1/page/summary/{title}", func(w http.ResponseWriter, r *http.Request) {
		escaped = r.URL.EscapedPath()
		title = r.PathValue("title")
		_, _ = io.WriteString(w, `{"title":"AC/DC","extract":"AC/DC are a rock band."}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))

	extract, err := c.Summary(context.Background(), "AC/DC")
	require.NoError(t, err)
	assert.Equal(t, "AC/DC are a rock band.", extract)
	assert.Equal(t, "/api/rest_v1/page/summary/AC%2FDC", escaped)
	assert.Equal(t, "AC/DC", title)
}

func TestSearch(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))

	titles, err := c.Search(context.Background(), "time zones")
	require.NoError(t, err)
	assert.Equal(t, []string{"Time zone", "UTC offset"}, titles)

	titles, err = c.Search(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Empty(t, titles)
}
