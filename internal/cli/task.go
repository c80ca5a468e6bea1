package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viniciusgf/organza/pkg/types"
)

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cmd.AddCommand(newTaskAddCmd())
	cmd.AddCommand(newTaskListCmd())
	cmd.AddCommand(newTaskShowCmd())
	cmd.AddCommand(newTaskDoneCmd())
	cmd.AddCommand(newTaskDeleteCmd())
	return cmd
}

func newTaskAddCmd() *cobra.Command {
	var description, priority string
	var subtasks []string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			task, degraded, err := sess.Tasks.Create(cmd.Context(), args[0], description, priority, subtasks)
			if err != nil {
				return err
			}
			notifyDegraded(cmd, degraded)
			if flags.jsonMode {
				return printJSON(cmd, task)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created task %s\n", task.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "desc", "d", "", "task description")
	cmd.Flags().StringVarP(&priority, "priority", "p", types.PriorityMedium, "priority (low, medium, high)")
	cmd.Flags().StringArrayVarP(&subtasks, "subtask", "s", nil, "subtask title (repeatable, order preserved)")
	return cmd
}

func newTaskListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			result, err := sess.Tasks.List(cmd.Context())
			if err != nil {
				return err
			}
			if flags.jsonMode {
				return printJSON(cmd, result)
			}
			if len(result) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no tasks")
				return nil
			}
			for _, t := range result {
				printTaskLine(cmd, t)
			}
			return nil
		},
	}
}

func newTaskShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task with its subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			task, err := sess.Tasks.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if flags.jsonMode {
				return printJSON(cmd, task)
			}
			printTaskLine(cmd, task)
			if task.Description != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", task.Description)
			}
			for _, s := range task.Subtasks {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", checkbox(s.Completed), s.Title)
			}
			return nil
		},
	}
}

func newTaskDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task (and its subtasks) as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			task, degraded, err := sess.Tasks.Complete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			notifyDegraded(cmd, degraded)
			fmt.Fprintf(cmd.OutOrStdout(), "completed %q\n", task.Title)
			return nil
		},
	}
}

func newTaskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task together with its subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.Tasks.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted task %s\n", args[0])
			return nil
		},
	}
}

func printTaskLine(cmd *cobra.Command, t types.Task) {
	done, total := t.Progress()
	progress := ""
	if total > 0 {
		progress = fmt.Sprintf(" (%d/%d)", done, total)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s  [%s]%s\n",
		checkbox(t.Completed), t.ID, t.Title, t.Priority, progress)
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
