package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"techtreck/internal/adapter/api"
	"techtreck/internal/config"
	"techtreck/internal/domain"
	"techtreck/internal/timefmt"
)

// cli carries what every subcommand needs once the root has run.
type cli struct {
	verbose bool
	log     *slog.Logger
	cfg     config.Config
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
	now     func() time.Time
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(&cli{in: os.Stdin, out: os.Stdout, errOut: os.Stderr, now: time.Now})
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "techtreck",
		Short:         "Track work time, request PTO and ask the help bot",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Logger
			level := slog.LevelInfo
			if c.verbose {
				level = slog.LevelDebug
			}
			c.log = slog.New(slog.NewTextHandler(c.errOut, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(c.log)

			// Config
			cfg, err := config.Load()
			if err != nil {
				c.log.Error("failed to load config", slog.String("error", err.Error()))
				return err
			}
			c.cfg = cfg
			return nil
		},
	}
	root.SetIn(c.in)
	root.SetOut(c.out)
	root.SetErr(c.errOut)
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(
		newServeCmd(c),
		newTimerCmd(c),
		newEntriesCmd(c),
		newPTOCmd(c),
		newLogsCmd(c),
		newChatCmd(c),
	)
	return root
}

func (c *cli) client() *api.Client {
	return api.NewClient(c.cfg.API.BaseURL, c.cfg.API.Timeout, c.log)
}

// parseDay parses a date flag that may be RFC3339 or YYYY-MM-DD.
func parseDay(flag, val string) (time.Time, error) {
	if val == "" {
		return time.Time{}, nil
	}
	d, err := timefmt.ParseDay(val)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s, expected RFC3339 or YYYY-MM-DD", flag)
	}
	return d, nil
}

// parseRange reads the --from and --to flags into an inclusive range.
func parseRange(from, to string) (domain.DateRange, error) {
	f, err := parseDay("from", from)
	if err != nil {
		return domain.DateRange{}, err
	}
	t, err := parseDay("to", to)
	if err != nil {
		return domain.DateRange{}, err
	}
	return domain.DateRange{From: f, To: t}, nil
}
