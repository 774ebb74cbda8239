package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"techtreck/internal/domain"
	"techtreck/internal/timefmt"
)

func newEntriesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "entries",
		Aliases: []string{"entry"},
		Short:   "List, add, edit and delete time entries",
	}

	var from, to string
	list := &cobra.Command{
		Use:   "list",
		Short: "List time entries, optionally within --from/--to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := parseRange(from, to)
			if err != nil {
				return err
			}
			entries, err := c.client().ListTimeEntries(cmd.Context(), rng)
			if err != nil {
				return err
			}
			printEntries(c.out, entries)
			return nil
		},
	}
	list.Flags().StringVar(&from, "from", "", "First day, YYYY-MM-DD")
	list.Flags().StringVar(&to, "to", "", "Last day, YYYY-MM-DD")

	var date, start, end, description string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a time entry from --start and --end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day := domain.Day(c.now())
			if date != "" {
				d, err := parseDay("date", date)
				if err != nil {
					return err
				}
				day = d
			}
			if start == "" || end == "" {
				return fmt.Errorf("please enter both start and end times")
			}
			duration, err := timefmt.Span(start, end)
			if err != nil {
				return err
			}
			if duration < 0 {
				return fmt.Errorf("end time must be after start time")
			}
			e, err := c.client().CreateTimeEntry(cmd.Context(), domain.TimeEntry{
				Date:        day,
				StartTime:   start,
				EndTime:     end,
				DurationSec: duration,
				Description: description,
			})
			if err != nil {
				return err
			}
			printEntries(c.out, []domain.TimeEntry{e})
			return nil
		},
	}
	add.Flags().StringVar(&date, "date", "", "Day, YYYY-MM-DD (default: today)")
	add.Flags().StringVar(&start, "start", "", "Start time, HH:MM[:SS]")
	add.Flags().StringVar(&end, "end", "", "End time, HH:MM[:SS]")
	add.Flags().StringVar(&description, "description", "", "What was worked on")

	var editStart, editEnd, editDescription string
	edit := &cobra.Command{
		Use:   "edit ID",
		Short: "Change the start and end of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			e, err := c.client().UpdateTimeEntry(cmd.Context(), id, domain.TimeEntry{
				StartTime:   editStart,
				EndTime:     editEnd,
				Description: editDescription,
			})
			if err != nil {
				return err
			}
			printEntries(c.out, []domain.TimeEntry{e})
			return nil
		},
	}
	edit.Flags().StringVar(&editStart, "start", "", "Start time, HH:MM[:SS]")
	edit.Flags().StringVar(&editEnd, "end", "", "End time, HH:MM[:SS]")
	edit.Flags().StringVar(&editDescription, "description", "", "New description")

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a time entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := c.client().DeleteTimeEntry(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Time entry %d deleted\n", id)
			return nil
		},
	}

	cmd.AddCommand(list, add, edit, del)
	return cmd
}

func parseID(v string) (int64, error) {
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", v)
	}
	return id, nil
}

func printEntries(w io.Writer, entries []domain.TimeEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No time entries.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tSTART\tEND\tDURATION\tSTATUS\tDESCRIPTION")
	for _, e := range entries {
		duration := e.DurationFormatted
		if duration == "" {
			duration = timefmt.Clock(e.DurationSec)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, timefmt.Date(e.Date), dash(e.StartTime), dash(e.EndTime), duration, e.Status, e.Description)
	}
	tw.Flush()
}

func dash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
