package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viniciusgf/organza/pkg/types"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active storage tier and record counts",
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	sess, _, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	counts, err := sess.Counts(cmd.Context())
	if err != nil {
		return fmt.Errorf("count records: %w", err)
	}

	if flags.jsonMode {
		return printJSON(cmd, map[string]any{
			"tier":   string(sess.Store.Tier()),
			"counts": counts,
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "tier: %s\n", sess.Store.Tier())
	for _, coll := range []string{types.CollectionTasks, types.CollectionPlans, types.CollectionHistory} {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", coll, counts[coll])
	}
	return nil
}
