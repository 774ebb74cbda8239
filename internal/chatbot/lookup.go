package chatbot

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"techtreck/internal/domain"
	"techtreck/internal/ports"
)

var (
	whatIsRe    = regexp.MustCompile(`(?i)\bwhat is\b`)
	whatIsARe   = regexp.MustCompile(`(?i)\bwhat is an?\b`)
	whatAreRe   = regexp.MustCompile(`(?i)\bwhat are\b`)
	spacesRe    = regexp.MustCompile(`\s+`)
	nonWordRe   = regexp.MustCompile(`[^\w_]`)
	sentenceRe  = regexp.MustCompile(`[.!?]+`)
	mostCommon  = regexp.MustCompile(`(?i)most common`)
	popularRe   = regexp.MustCompile(`(?i)popular`)
	capitalOfRe = regexp.MustCompile(`(?i)capital of ([a-zA-Z\s]+)`)
)

const summaryLimit = 250

// replaceFirst replaces the first match of re in s.
func replaceFirst(re *regexp.Regexp, s, repl string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + repl + s[loc[1]:]
}

// strategy is one external lookup. It returns "" when it has no answer.
type strategy func(ctx context.Context, input string) (string, error)

func (b *Bot) strategies() []strategy {
	var out []strategy
	if b.instant != nil {
		out = append(out, b.instantStrategy)
	}
	if b.encyclopedia != nil {
		out = append(out, b.encyclopediaStrategy)
	}
	if b.instant != nil {
		out = append(out, b.alternateStrategy)
	}
	return out
}

// instantStrategy tries several phrasings against the instant-answer API.
func (b *Bot) instantStrategy(ctx context.Context, input string) (string, error) {
	queries := distinct(
		input,
		strings.TrimSpace(replaceFirst(whatIsRe, input, "")),
		input+" definition",
		input+" wikipedia",
	)
	for _, q := range queries {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		ia, err := b.instant.Instant(ctx, q, true)
		if err != nil {
			b.log.Debug("instant answer query failed", slog.String("query", q), slog.String("error", err.Error()))
			continue
		}
		if ans := pickInstant(ia); ans != "" {
			return ans, nil
		}
	}
	return "", nil
}

func pickInstant(ia domain.InstantAnswer) string {
	switch {
	case utf8.RuneCountInString(ia.Answer) > 5:
		return ia.Answer
	case utf8.RuneCountInString(ia.AbstractText) > 15:
		return ia.AbstractText
	case utf8.RuneCountInString(ia.Definition) > 10:
		return ia.Definition
	}
	for _, text := range ia.RelatedTopics {
		if utf8.RuneCountInString(text) > 25 &&
			!strings.Contains(text, "http") &&
			!strings.Contains(text, "wikipedia.org") &&
			!strings.Contains(text, "See also") &&
			!strings.Contains(text, "External links") {
			return text
		}
	}
	for _, text := range ia.Results {
		if utf8.RuneCountInString(text) > 20 && !strings.Contains(text, "http") {
			return text
		}
	}
	return ""
}

// encyclopediaStrategy looks up article summaries for cleaned-up titles,
// then falls back to the best search hit.
func (b *Bot) encyclopediaStrategy(ctx context.Context, input string) (string, error) {
	lower := strings.ToLower(input)
	definitional := strings.Contains(lower, "what is") || strings.Contains(lower, "what are")

	terms := distinct(
		input,
		strings.TrimSpace(replaceFirst(whatIsRe, input, "")),
		strings.TrimSpace(replaceFirst(whatIsARe, input, "")),
		strings.TrimSpace(replaceFirst(whatAreRe, input, "")),
	)
	for _, term := range terms {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		title := articleTitle(term)
		if title == "" {
			continue
		}
		extract, err := b.encyclopedia.Summary(ctx, title)
		if err != nil {
			if !errors.Is(err, ports.ErrNotFound) {
				b.log.Debug("summary lookup failed", slog.String("title", title), slog.String("error", err.Error()))
			}
			continue
		}
		if utf8.RuneCountInString(extract) <= 20 {
			continue
		}
		clean := strings.TrimSpace(spacesRe.ReplaceAllString(extract, " "))
		if definitional {
			if s := firstSentences(clean, 2); utf8.RuneCountInString(s) > 10 {
				if !strings.HasSuffix(s, ".") {
					s += "."
				}
				return s, nil
			}
		}
		return truncate(clean, summaryLimit), nil
	}

	titles, err := b.encyclopedia.Search(ctx, input)
	if err != nil {
		b.log.Debug("encyclopedia search failed", slog.String("error", err.Error()))
		return "", nil
	}
	if len(titles) == 0 {
		return "", nil
	}
	extract, err := b.encyclopedia.Summary(ctx, titles[0])
	if err != nil {
		b.log.Debug("summary lookup failed", slog.String("title", titles[0]), slog.String("error", err.Error()))
		return "", nil
	}
	if utf8.RuneCountInString(extract) <= 20 {
		return "", nil
	}
	return truncate(strings.TrimSpace(spacesRe.ReplaceAllString(extract, " ")), summaryLimit), nil
}

// alternateStrategy rephrases popularity and capital-city questions.
func (b *Bot) alternateStrategy(ctx context.Context, input string) (string, error) {
	lower := strings.ToLower(input)
	if strings.Contains(lower, "most common") || strings.Contains(lower, "popular") {
		q := replaceFirst(popularRe, replaceFirst(mostCommon, input, "top"), "most popular")
		ia, err := b.instant.Instant(ctx, q, false)
		if err != nil {
			return "", err
		}
		if ia.Answer != "" {
			return ia.Answer, nil
		}
		if utf8.RuneCountInString(ia.AbstractText) > 10 {
			return ia.AbstractText, nil
		}
	}
	if strings.Contains(lower, "capital") && strings.Contains(lower, "what") {
		if m := capitalOfRe.FindStringSubmatch(input); m != nil {
			country := strings.TrimSpace(m[1])
			ia, err := b.instant.Instant(ctx, "capital of "+country, false)
			if err != nil {
				return "", err
			}
			if ia.Answer != "" {
				return ia.Answer, nil
			}
			if ia.AbstractText != "" {
				return ia.AbstractText, nil
			}
		}
	}
	return "", nil
}

// articleTitle turns free text into an article title like "Time_zone".
func articleTitle(term string) string {
	return nonWordRe.ReplaceAllString(spacesRe.ReplaceAllString(strings.TrimSpace(term), "_"), "")
}

func firstSentences(text string, n int) string {
	parts := sentenceRe.Split(text, -1)
	var kept []string
	for _, p := range parts {
		if len(kept) == n {
			break
		}
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.TrimSpace(strings.Join(kept, ". "))
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return string(r[:limit]) + "..."
}

// distinct drops empty and repeated values, keeping order.
func distinct(values ...string) []string {
	seen := make(map[string]bool, len(values))
	out := values[:0]
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
