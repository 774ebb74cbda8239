package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	msql "techtreck/internal/adapter/mysql"
	"techtreck/internal/adapter/sqlite"
	"techtreck/internal/chatbot"
	"techtreck/internal/config"
	"techtreck/internal/ports"
	"techtreck/internal/usecase"
)

type logStore interface {
	ports.LogStore
	io.Closer
}

// App wires the store, use cases and help bot behind the HTTP API.
type App struct {
	log      *slog.Logger
	cfg      config.Config
	store    logStore
	entries  *usecase.EntryService
	pto      *usecase.PTOService
	logs     *usecase.LogService
	timeline *usecase.TimelineUseCase
	bot      *chatbot.Bot
}

// New opens the configured store, running migrations, and builds the use cases.
func New(ctx context.Context, log *slog.Logger, cfg config.Config) (*App, error) {
	store, err := openStore(ctx, log, cfg)
	if err != nil {
		return nil, err
	}
	bot, err := NewBot(log, cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return newApp(log, cfg, store, bot), nil
}

func newApp(log *slog.Logger, cfg config.Config, store logStore, bot *chatbot.Bot) *App {
	entries := &usecase.EntryService{Log: log, Store: store}
	pto := &usecase.PTOService{Log: log, Store: store, Allowance: cfg.PTO.AllowanceDays}
	return &App{
		log:     log,
		cfg:     cfg,
		store:   store,
		entries: entries,
		pto:     pto,
		logs:    &usecase.LogService{Store: store, Entries: entries, PTO: pto},
		timeline: &usecase.TimelineUseCase{
			Log:     log,
			Entries: entries,
			PTO:     pto,
		},
		bot: bot,
	}
}

// openStore opens the SQLite or MySQL log store named by cfg.Store.Driver.
func openStore(ctx context.Context, log *slog.Logger, cfg config.Config) (logStore, error) {
	switch cfg.Store.Driver {
	case config.DriverMySQL:
		s, err := msql.NewStore(ctx, cfg.Store.MySQLDSN, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverSQLite, "":
		s, err := sqlite.Open(ctx, cfg.Store.SQLitePath, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// Close releases the store.
func (a *App) Close() error {
	return a.store.Close()
}
