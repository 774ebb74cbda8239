// Package chatbot answers help questions about the app and, failing that,
// general knowledge questions through external lookups.
package chatbot

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"techtreck/internal/ports"
)

// ErrEmptyQuestion is returned for blank input.
var ErrEmptyQuestion = errors.New("chatbot: empty question")

// DefaultCacheSize bounds the number of remembered lookup answers.
const DefaultCacheSize = 256

// Bot resolves answers: cached lookups, small talk, the knowledge base,
// then external lookups.
type Bot struct {
	log          *slog.Logger
	kb           *KnowledgeBase
	instant      ports.InstantAnswerer
	encyclopedia ports.Encyclopedia
	cache        *answerCache
}

// Option configures a Bot.
type Option func(*Bot)

// WithInstantAnswers enables instant-answer lookups.
func WithInstantAnswers(ia ports.InstantAnswerer) Option {
	return func(b *Bot) { b.instant = ia }
}

// WithEncyclopedia enables article summary lookups.
func WithEncyclopedia(e ports.Encyclopedia) Option {
	return func(b *Bot) { b.encyclopedia = e }
}

// WithCacheSize bounds the lookup cache. Zero or less means unbounded.
func WithCacheSize(n int) Option {
	return func(b *Bot) { b.cache = newAnswerCache(n) }
}

// New builds a Bot over kb. A nil kb uses the embedded knowledge base.
func New(log *slog.Logger, kb *KnowledgeBase, opts ...Option) (*Bot, error) {
	if kb == nil {
		var err error
		if kb, err = DefaultKnowledgeBase(); err != nil {
			return nil, err
		}
	}
	b := &Bot{log: log, kb: kb, cache: newAnswerCache(DefaultCacheSize)}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// FindAnswer returns the reply to input. Lookup failures never surface as
// errors; they degrade to a fallback reply.
func (b *Bot) FindAnswer(ctx context.Context, input string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(input))
	if key == "" {
		return "", ErrEmptyQuestion
	}
	if ans, ok := b.cache.get(key); ok {
		b.log.Debug("chatbot cache hit", slog.String("question", key))
		return ans, nil
	}

	if ans, ok := smallTalk(input); ok {
		return ans, nil
	}

	lower := strings.ToLower(input)
	if ans, ok := b.kb.Exact(lower); ok {
		return ans, nil
	}
	if ans, ok := b.kb.Match(lower); ok {
		return ans, nil
	}

	for _, lookup := range b.strategies() {
		ans, err := lookup(ctx, input)
		if err != nil {
			if ctx.Err() != nil {
				b.log.Warn("chatbot lookup aborted", slog.String("error", ctx.Err().Error()))
				return replyUnavailable, nil
			}
			b.log.Debug("chatbot lookup failed", slog.String("error", err.Error()))
			continue
		}
		if ans != "" {
			b.cache.set(key, ans)
			return ans, nil
		}
	}
	if ctx.Err() != nil {
		return replyUnavailable, nil
	}
	return replyNotFound, nil
}

// ClearCache forgets every looked-up answer.
func (b *Bot) ClearCache() { b.cache.clear() }

// CacheSize reports how many looked-up answers are remembered.
func (b *Bot) CacheSize() int { return b.cache.len() }
