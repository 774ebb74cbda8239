package duckduckgo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"techtreck/internal/domain"
)

const appName = "techtreck_chatbot"

// Client implements ports.InstantAnswerer using the DuckDuckGo Instant Answer API.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://api.duckduckgo.com"
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

// Instant queries GET /?q=...&format=json&no_html=1.
func (c *Client) Instant(ctx context.Context, query string, skipDisambig bool) (domain.InstantAnswer, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return domain.InstantAnswer{}, err
	}
	if u.Path == "" {
		u.Path = "/"
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("no_html", "1")
	if skipDisambig {
		q.Set("skip_disambig", "1")
	}
	q.Set("t", appName)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.InstantAnswer{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.InstantAnswer{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.InstantAnswer{}, fmt.Errorf("duckduckgo: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var raw rawAnswer
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return domain.InstantAnswer{}, fmt.Errorf("duckduckgo: decode: %w", err)
	}
	c.log.Debug("instant answer", slog.String("query", query), slog.Int("related", len(raw.RelatedTopics)))

	out := domain.InstantAnswer{
		Answer:       raw.Answer.String(),
		AbstractText: raw.AbstractText,
		Definition:   raw.Definition,
	}
	for _, t := range raw.RelatedTopics {
		if t.Text != "" {
			out.RelatedTopics = append(out.RelatedTopics, t.Text)
		}
	}
	for _, r := range raw.Results {
		if r.Text != "" {
			out.Results = append(out.Results, r.Text)
		}
	}
	return out, nil
}

// rawAnswer mirrors the JSON from the Instant Answer API. Grouped related
// topics carry no Text and are skipped.
type rawAnswer struct {
	Answer        flexString `json:"Answer"`
	AbstractText  string     `json:"AbstractText"`
	Definition    string     `json:"Definition"`
	RelatedTopics []rawTopic `json:"RelatedTopics"`
	Results       []rawTopic `json:"Results"`
}

type rawTopic struct {
	Text     string `json:"Text"`
	FirstURL string `json:"FirstURL"`
}

// flexString accepts Answer as a string or as an object, which the API
// returns for calculator style answers.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = flexString(str)
		return nil
	}
	var obj struct {
		Result string `json:"result"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil
	}
	*s = flexString(obj.Result)
	return nil
}

func (s flexString) String() string { return string(s) }
