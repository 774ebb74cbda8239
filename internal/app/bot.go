package app

import (
	"log/slog"

	"techtreck/internal/adapter/duckduckgo"
	"techtreck/internal/adapter/wikipedia"
	"techtreck/internal/chatbot"
	"techtreck/internal/config"
)

// NewBot builds the help bot with its knowledge base and, unless offline,
// the DuckDuckGo and Wikipedia lookups.
func NewBot(log *slog.Logger, cfg config.Config) (*chatbot.Bot, error) {
	kb, err := chatbot.LoadKnowledgeBase(cfg.Chatbot.KnowledgeBase)
	if err != nil {
		return nil, err
	}
	opts := []chatbot.Option{chatbot.WithCacheSize(cfg.Chatbot.CacheSize)}
	if !cfg.Chatbot.Offline {
		opts = append(opts,
			chatbot.WithInstantAnswers(duckduckgo.NewClient(cfg.Chatbot.DuckDuckGoURL, cfg.Chatbot.Timeout, log)),
			chatbot.WithEncyclopedia(wikipedia.NewClient(cfg.Chatbot.WikipediaURL, cfg.Chatbot.Timeout, log)),
		)
	}
	return chatbot.New(log, kb, opts...)
}
