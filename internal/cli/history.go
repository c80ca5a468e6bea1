package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the task/plan event history",
	}
	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryClearCmd())
	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var subject string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List history events, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			events, err := sess.History.GetHistory(cmd.Context(), subject)
			if err != nil {
				return err
			}
			if flags.jsonMode {
				return printJSON(cmd, events)
			}
			if len(events) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no history")
				return nil
			}
			for _, e := range events {
				line := fmt.Sprintf("%s  %-9s  %s",
					e.Timestamp.Local().Format(time.DateTime), e.EventType, e.SubjectTitle)
				if e.Details != "" {
					line += "  (" + e.Details + ")"
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "filter by task or plan id")
	return cmd
}

func newHistoryClearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all history events (non-recoverable)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return exitError(exitUserError, "history clear is destructive; re-run with --yes to confirm")
			}
			sess, _, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			cleared, err := sess.History.ClearHistory(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %d events\n", cleared)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the destructive clear")
	return cmd
}
