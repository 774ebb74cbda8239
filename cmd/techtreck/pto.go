package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"techtreck/internal/domain"
	"techtreck/internal/timefmt"
)

func newPTOCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pto",
		Short: "Request and review paid time off",
	}

	var from, to string
	list := &cobra.Command{
		Use:   "list",
		Short: "List PTO requests, optionally within --from/--to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := parseRange(from, to)
			if err != nil {
				return err
			}
			days, err := c.client().ListPTODays(cmd.Context(), rng)
			if err != nil {
				return err
			}
			printPTO(c.out, days)
			return nil
		},
	}
	list.Flags().StringVar(&from, "from", "", "First day, YYYY-MM-DD")
	list.Flags().StringVar(&to, "to", "", "Last day, YYYY-MM-DD")

	var date, reason string
	submit := &cobra.Command{
		Use:   "submit",
		Short: "Request a day off",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" || strings.TrimSpace(reason) == "" {
				return fmt.Errorf("please select a date and provide a reason for your PTO request")
			}
			d, err := parseDay("date", date)
			if err != nil {
				return err
			}
			p, err := c.client().SubmitPTO(cmd.Context(), domain.PTORequest{
				PTODate:     d,
				SubmittedOn: domain.Day(c.now()),
				Reason:      reason,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "PTO request %d submitted for %s\n", p.ID, timefmt.Date(p.PTODate))
			return nil
		},
	}
	submit.Flags().StringVar(&date, "date", "", "Day off, YYYY-MM-DD")
	submit.Flags().StringVar(&reason, "reason", "", "Reason for the request")

	review := &cobra.Command{
		Use:       "review ID approved|rejected",
		Short:     "Approve or reject a pending request",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"approved", "rejected"},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var status domain.Status
			switch strings.ToLower(args[1]) {
			case "approved", "approve":
				status = domain.StatusApproved
			case "rejected", "reject":
				status = domain.StatusRejected
			default:
				return fmt.Errorf("status must be approved or rejected, got %q", args[1])
			}
			p, err := c.client().ReviewPTO(cmd.Context(), id, status)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "PTO request %d is now %s\n", p.ID, p.Status)
			return nil
		},
	}

	balance := &cobra.Command{
		Use:   "balance",
		Short: "Show used and remaining PTO days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := c.client().Balance(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Used %d of %d days, %d remaining (%.0f%%)\n", b.Used, b.Total, b.Remaining, b.Percent)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Withdraw a PTO request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := c.client().DeletePTO(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "PTO request %d deleted\n", id)
			return nil
		},
	}

	cmd.AddCommand(list, submit, review, balance, del)
	return cmd
}

func printPTO(w io.Writer, days []domain.PTORequest) {
	if len(days) == 0 {
		fmt.Fprintln(w, "No PTO requests.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tSUBMITTED\tSTATUS\tREASON")
	for _, p := range days {
		submitted := "-"
		if !p.SubmittedOn.IsZero() {
			submitted = timefmt.Date(p.SubmittedOn)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", p.ID, timefmt.Date(p.PTODate), submitted, p.Status, p.Reason)
	}
	tw.Flush()
}
