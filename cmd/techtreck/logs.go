package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"techtreck/internal/domain"
	"techtreck/internal/timefmt"
	"techtreck/internal/usecase"
)

func newLogsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Work and PTO logs",
	}

	var from, to, order string
	var serverSide bool
	filter := &cobra.Command{
		Use:   "filter",
		Short: "Show work and PTO between --from and --to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := parseRange(from, to)
			if err != nil {
				return err
			}
			if err := usecase.RequireBounds(rng); err != nil {
				return err
			}
			ord, err := usecase.ParseOrder(order)
			if err != nil {
				return err
			}

			client := c.client()
			var items []domain.LogEntry
			if serverSide {
				items, err = client.Logs(cmd.Context(), rng, string(ord))
			} else {
				tl := &usecase.TimelineUseCase{Log: c.log, Entries: client, PTO: client}
				items, err = tl.Run(cmd.Context(), rng, ord)
			}
			if err != nil {
				return err
			}
			printLogs(c.out, items)
			return nil
		},
	}
	filter.Flags().StringVar(&from, "from", "", "First day, YYYY-MM-DD (required)")
	filter.Flags().StringVar(&to, "to", "", "Last day, YYYY-MM-DD (required)")
	filter.Flags().StringVar(&order, "order", "asc", "Date order, asc or desc")
	filter.Flags().BoolVar(&serverSide, "server-side", false, "Let the server merge the logs")

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show one work or PTO record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			rec, err := c.client().GetLog(cmd.Context(), id)
			if err != nil {
				return err
			}
			printLog(c.out, rec)
			return nil
		},
	}

	var addType, addDate, addStart, addEnd, addDescription string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a WORK or PTO record to the log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			typ := domain.EntryType(strings.ToUpper(addType))
			if !typ.Valid() {
				return fmt.Errorf("invalid --type %q: use WORK or PTO", addType)
			}
			day := domain.Day(c.now())
			if addDate != "" {
				d, err := parseDay("date", addDate)
				if err != nil {
					return err
				}
				day = d
			}
			var duration int64
			if typ == domain.TypeWork && addStart != "" && addEnd != "" {
				d, err := timefmt.Span(addStart, addEnd)
				if err != nil {
					return err
				}
				if d < 0 {
					return fmt.Errorf("end time must be after start time")
				}
				duration = d
			}
			rec, err := c.client().CreateLog(cmd.Context(), domain.LogRecord{
				Type:        typ,
				Date:        day,
				StartTime:   addStart,
				EndTime:     addEnd,
				DurationSec: duration,
				Description: addDescription,
			})
			if err != nil {
				return err
			}
			printLog(c.out, rec)
			return nil
		},
	}
	add.Flags().StringVar(&addType, "type", string(domain.TypeWork), "Record type, WORK or PTO")
	add.Flags().StringVar(&addDate, "date", "", "Day, YYYY-MM-DD (default: today)")
	add.Flags().StringVar(&addStart, "start", "", "Start time, HH:MM[:SS] (WORK)")
	add.Flags().StringVar(&addEnd, "end", "", "End time, HH:MM[:SS] (WORK)")
	add.Flags().StringVar(&addDescription, "description", "", "Work description or PTO reason")

	var editStart, editEnd, editDescription, editStatus string
	edit := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a WORK record or set the status of a PTO record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			status, err := parseStatus(editStatus)
			if err != nil {
				return err
			}
			rec, err := c.client().UpdateLog(cmd.Context(), id, domain.LogRecord{
				StartTime:   editStart,
				EndTime:     editEnd,
				Description: editDescription,
				Status:      status,
			})
			if err != nil {
				return err
			}
			printLog(c.out, rec)
			return nil
		},
	}
	edit.Flags().StringVar(&editStart, "start", "", "Start time, HH:MM[:SS]")
	edit.Flags().StringVar(&editEnd, "end", "", "End time, HH:MM[:SS]")
	edit.Flags().StringVar(&editDescription, "description", "", "New description")
	edit.Flags().StringVar(&editStatus, "status", "", "New status, e.g. approved or rejected")

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a work or PTO record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := c.client().DeleteLog(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Log %d deleted\n", id)
			return nil
		},
	}

	cmd.AddCommand(filter, get, add, edit, del)
	return cmd
}

// parseStatus accepts a status in any case; empty means unchanged.
func parseStatus(v string) (domain.Status, error) {
	if v == "" {
		return "", nil
	}
	for _, st := range []domain.Status{domain.StatusPending, domain.StatusApproved, domain.StatusRejected, domain.StatusCompleted} {
		if strings.EqualFold(v, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid --status %q", v)
}

func printLog(w io.Writer, rec domain.LogRecord) {
	fmt.Fprintf(w, "ID:          %d\n", rec.ID)
	fmt.Fprintf(w, "Type:        %s\n", rec.Type)
	fmt.Fprintf(w, "Date:        %s\n", timefmt.Date(rec.Date))
	if rec.Type == domain.TypeWork {
		fmt.Fprintf(w, "Start:       %s\n", dash(rec.StartTime))
		fmt.Fprintf(w, "End:         %s\n", dash(rec.EndTime))
		fmt.Fprintf(w, "Duration:    %s\n", timefmt.Clock(rec.DurationSec))
	}
	fmt.Fprintf(w, "Status:      %s\n", rec.Status)
	fmt.Fprintf(w, "Description: %s\n", rec.Description)
}

func printLogs(w io.Writer, items []domain.LogEntry) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No logs in this range.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTYPE\tSTART\tEND\tDURATION\tSTATUS\tDESCRIPTION")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			timefmt.Date(it.Date), it.Type, dash(it.StartTime), dash(it.EndTime),
			timefmt.Human(it.DurationSec), it.Status, it.Description)
	}
	tw.Flush()
}
