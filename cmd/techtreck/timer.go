package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"techtreck/internal/adapter/statefile"
	"techtreck/internal/domain"
	"techtreck/internal/timefmt"
	"techtreck/internal/usecase"
)

func newTimerCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Clock in and out; the timer survives restarts",
	}

	simple := func(use, short string, op func(*usecase.Timer) error) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := c.timer()
				if err != nil {
					return err
				}
				if err := op(t); err != nil {
					return err
				}
				printTimer(c.out, t)
				return nil
			},
		}
	}

	cmd.AddCommand(
		simple("start", "Clock in and start a new session", (*usecase.Timer).Start),
		simple("stop", "Clock out and pause the session", (*usecase.Timer).Stop),
		simple("resume", "Resume a paused session", (*usecase.Timer).Resume),
		simple("reset", "Discard the session", (*usecase.Timer).Reset),
		simple("status", "Show the session", func(*usecase.Timer) error { return nil }),
		&cobra.Command{
			Use:   "save",
			Short: "Submit the session as a pending time entry and reset",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := c.timer()
				if err != nil {
					return err
				}
				e, err := t.Save(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(c.out, "Time entry %d saved: %s %s-%s (%s)\n",
					e.ID, timefmt.Date(e.Date), e.StartTime, e.EndTime, e.DurationFormatted)
				return nil
			},
		},
	)
	return cmd
}

func (c *cli) timer() (*usecase.Timer, error) {
	return usecase.NewTimer(c.log, statefile.New(c.cfg.State.Path), c.client(), c.now)
}

func printTimer(w io.Writer, t *usecase.Timer) {
	st := t.State()
	fmt.Fprintf(w, "Status:    %s\n", timerStatus(st))
	fmt.Fprintf(w, "Worked:    %s\n", timefmt.Clock(t.Elapsed()))
	fmt.Fprintf(w, "Clock in:  %s\n", optionalClock(st.ClockIn != nil, timefmt.TimeOfDay(st.ClockIn)))
	fmt.Fprintf(w, "Clock out: %s\n", optionalClock(st.ClockOut != nil, timefmt.TimeOfDay(st.ClockOut)))
}

func timerStatus(st domain.TimerState) string {
	switch {
	case st.Running:
		return "running"
	case st.Paused:
		return "paused"
	default:
		return "stopped"
	}
}

func optionalClock(ok bool, v string) string {
	if !ok {
		return "-"
	}
	return v
}
