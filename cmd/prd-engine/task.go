// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/prd-engine/internal/session"
	"github.com/pdiddy/prd-engine/pkg/types"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage a session's task graph",
	Long: `Task manages the work items derived for a session. Tasks move through
pending, in_progress, completed, and blocked; a task can only start or
complete once everything it depends on is completed.`,
}

// --- add subcommand ---

var taskAddCmd = &cobra.Command{
	Use:   "add [session-id] [title]",
	Short: "Add a task to the session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		difficulty, _ := cmd.Flags().GetString("difficulty")
		hours, _ := cmd.Flags().GetInt("hours")
		after, _ := cmd.Flags().GetStringSlice("after")

		return withSession(cmd, args[0], func(ctx context.Context, sess *session.Session) error {
			t, err := sess.AddTask(args[1], after, types.Difficulty(difficulty), hours, time.Now())
			if err != nil {
				return err
			}
			fmt.Printf("Added %s: %s (%s, %dh)\n", t.ID, t.Title, t.Difficulty, t.EstimatedHours)
			return nil
		})
	},
}

// --- status transitions ---

// transitionCommand builds a subcommand that moves a task to the given
// status.
func transitionCommand(use, short string, next types.TaskStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [session-id] [task-id]",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, args[0], func(ctx context.Context, sess *session.Session) error {
				t, err := sess.TransitionTask(args[1], next, time.Now())
				if err != nil {
					return err
				}
				fmt.Printf("%s is now %s\n", t.ID, t.Status)
				return nil
			})
		},
	}
}

// --- depend subcommand ---

var taskDependCmd = &cobra.Command{
	Use:   "depend [session-id] [task-id] [depends-on-id]",
	Short: "Make one task depend on another",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, args[0], func(ctx context.Context, sess *session.Session) error {
			t, err := sess.AddTaskDependency(args[1], args[2], time.Now())
			if err != nil {
				return err
			}
			fmt.Printf("%s now depends on %s\n", t.ID, strings.Join(t.DependsOn, ", "))
			return nil
		})
	},
}

// --- hours subcommand ---

var taskHoursCmd = &cobra.Command{
	Use:   "hours [session-id] [task-id] [hours]",
	Short: "Record actual hours on a completed task",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		var hours int
		if _, err := fmt.Sscanf(args[2], "%d", &hours); err != nil {
			return fmt.Errorf("invalid hours %q", args[2])
		}
		return withSession(cmd, args[0], func(ctx context.Context, sess *session.Session) error {
			t, err := sess.RecordTaskHours(args[1], hours, time.Now())
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d estimated, %d actual\n", t.ID, t.EstimatedHours, *t.ActualHours)
			return nil
		})
	},
}

// --- list subcommand ---

var taskListCmd = &cobra.Command{
	Use:   "list [session-id]",
	Short: "List the session's tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		sess, err := st.Load(context.Background(), args[0])
		if err != nil {
			return err
		}

		for _, t := range sess.Tasks.Tasks() {
			line := fmt.Sprintf("%-10s  %-40s  %-12s  %-8s  %dh",
				t.ID, t.Title, colorTaskStatus(t.Status), t.Difficulty, t.EstimatedHours)
			if len(t.DependsOn) > 0 {
				line += fmt.Sprintf("  (after %s)", strings.Join(t.DependsOn, ", "))
			}
			fmt.Println(line)
		}
		return nil
	},
}

// withSession loads the session, applies fn, and saves on success.
func withSession(cmd *cobra.Command, id string, fn func(context.Context, *session.Session) error) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	sess, err := st.Load(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(ctx, sess); err != nil {
		return err
	}
	return st.Save(ctx, sess)
}

func init() {
	taskAddCmd.Flags().String("difficulty", "medium", "difficulty: trivial, easy, medium, hard, expert")
	taskAddCmd.Flags().Int("hours", 4, "estimated hours")
	taskAddCmd.Flags().StringSlice("after", nil, "task IDs this task depends on")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(transitionCommand("start", "Move a task to in_progress", types.TaskInProgress))
	taskCmd.AddCommand(transitionCommand("complete", "Move a task to completed", types.TaskCompleted))
	taskCmd.AddCommand(transitionCommand("block", "Move a task to blocked", types.TaskBlocked))
	taskCmd.AddCommand(transitionCommand("unblock", "Return a blocked task to pending", types.TaskPending))
	taskCmd.AddCommand(taskDependCmd)
	taskCmd.AddCommand(taskHoursCmd)
	taskCmd.AddCommand(taskListCmd)

	rootCmd.AddCommand(taskCmd)
}
