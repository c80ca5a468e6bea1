package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/viniciusgf/organza/internal/planner"
	"github.com/viniciusgf/organza/pkg/types"
)

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage plans",
	}
	cmd.AddCommand(newPlanGenerateCmd())
	cmd.AddCommand(newPlanListCmd())
	cmd.AddCommand(newPlanShowCmd())
	cmd.AddCommand(newPlanDeleteCmd())
	return cmd
}

func newPlanGenerateCmd() *cobra.Command {
	var imagePath string
	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Generate and save a plan from a prompt, optionally with an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, app, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			if app.GeminiKey == "" {
				return exitError(exitUserError, "no gemini_api_key configured; run organza init or set ORGANZA_GEMINI_API_KEY")
			}

			source := types.SourceAI
			var image []byte
			if imagePath != "" {
				image, err = os.ReadFile(imagePath)
				if err != nil {
					return fmt.Errorf("read image: %w", err)
				}
				source = types.SourceImage
			}

			gen := planner.NewGemini(app.GeminiKey, app.GeminiModel, sess.Logger)
			generated, err := gen.GeneratePlan(cmd.Context(), args[0], image)
			if err != nil {
				return fmt.Errorf("generate plan: %w", err)
			}

			plan, degraded, err := sess.Plans.Save(cmd.Context(), generated.AsPlan(source))
			if err != nil {
				return err
			}
			notifyDegraded(cmd, degraded)
			if flags.jsonMode {
				return printJSON(cmd, plan)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved plan %s: %s\n", plan.ID, plan.Title)
			for _, t := range plan.Tasks {
				for _, s := range t.Subtasks {
					fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", s.Title)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&imagePath, "image", "", "path to a JPEG image to include in the prompt")
	return cmd
}

func newPlanListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List plans, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			result, err := sess.Plans.List(cmd.Context())
			if err != nil {
				return err
			}
			if flags.jsonMode {
				return printJSON(cmd, result)
			}
			if len(result) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no plans")
				return nil
			}
			for _, p := range result {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  (%s, %d tasks)\n",
					p.ID, p.Title, p.Source, len(p.Tasks))
			}
			return nil
		},
	}
}

func newPlanShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one plan with its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			plan, err := sess.Plans.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if flags.jsonMode {
				return printJSON(cmd, plan)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  (%s)\n", plan.Title, plan.Source)
			for _, t := range plan.Tasks {
				printTaskLine(cmd, t)
				for _, s := range t.Subtasks {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", checkbox(s.Completed), s.Title)
				}
			}
			return nil
		},
	}
}

func newPlanDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.Plans.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted plan %s\n", args[0])
			return nil
		},
	}
}
