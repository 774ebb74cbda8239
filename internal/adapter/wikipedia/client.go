package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"techtreck/internal/ports"
)

// Client implements ports.Encyclopedia using the Wikipedia REST and action APIs.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://en.wikipedia.org"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Summary fetches GET /api/rest_v1/page/summary/{title} and returns its extract.
func (c *Client) Summary(ctx context.Context, title string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	// The title is a single segment, so "AC/DC" must travel as AC%2FDC.
	base := strings.TrimRight(u.Path, "/") + "/api/rest_v1/page/summary/"
	u.Path = base + title
	u.RawPath = base + url.PathEscape(title)

	var raw struct {
		Extract string `json:"extract"`
	}
	if err := c.getJSON(ctx, u, &raw); err != nil {
		return "", err
	}
	return raw.Extract, nil
}

// Search returns article titles for query, best match first.
// GET /w/api.php?action=query&list=search&srsearch=...&format=json
func (c *Client) Search(ctx context.Context, query string) ([]string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, err
	}
	u = u.JoinPath("w", "api.php")
	q := u.Query()
	q.Set("action", "query")
	q.Set("list", "search")
	q.Set("srsearch", query)
	q.Set("format", "json")
	q.Set("origin", "*")
	q.Set("srlimit", "3")
	u.RawQuery = q.Encode()

	var raw struct {
		Query struct {
			Search []struct {
				Title string `json:"title"`
			} `json:"search"`
		} `json:"query"`
	}
	if err := c.getJSON(ctx, u, &raw); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(raw.Query.Search))
	for _, s := range raw.Query.Search {
		out = append(out, s.Title)
	}
	c.log.Debug("encyclopedia search", slog.String("query", query), slog.Int("hits", len(out)))
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, u *url.URL, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return ports.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("wikipedia: unexpected status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("wikipedia: decode: %w", err)
	}
	return nil
}
