// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pdiddy/prd-engine/pkg/types"
)

var statusCmd = &cobra.Command{
	Use:   "status [session-id]",
	Short: "Show the state of a session",
	Long: `Status shows the session lifecycle state, interview progress, the task
graph, and the document history.`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

var (
	statusGreen  = color.New(color.FgGreen).SprintFunc()
	statusYellow = color.New(color.FgYellow).SprintFunc()
	statusRed    = color.New(color.FgRed).SprintFunc()
	statusBold   = color.New(color.Bold).SprintFunc()
)

// colorSessionStatus renders a session status with color.
func colorSessionStatus(s types.SessionStatus) string {
	switch s {
	case types.SessionCompleted:
		return statusGreen(string(s))
	case types.SessionArchived:
		return statusRed(string(s))
	default:
		return statusYellow(string(s))
	}
}

// colorTaskStatus renders a task status with color.
func colorTaskStatus(s types.TaskStatus) string {
	switch s {
	case types.TaskCompleted:
		return statusGreen(string(s))
	case types.TaskBlocked:
		return statusRed(string(s))
	case types.TaskInProgress:
		return statusYellow(string(s))
	default:
		return string(s)
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	sess, err := st.Load(context.Background(), args[0])
	if err != nil {
		return err
	}

	eng, err := loadEngine()
	if err != nil {
		return err
	}

	fmt.Printf("%s  %s\n", statusBold(sess.ID), sess.Name)
	fmt.Printf("  status:       %s\n", colorSessionStatus(sess.Status))
	fmt.Printf("  product type: %s\n", sess.Context.ProductType)
	fmt.Printf("  industry:     %s\n", sess.Context.Industry)
	fmt.Printf("  complexity:   %s\n", sess.Context.Complexity)

	applicable := eng.Applicable(sess.Context, sess.Answers)
	completeness := eng.Completeness(sess.Context, sess.Answers)
	fmt.Printf("  interview:    %d/%d questions (%.0f%%)\n",
		sess.Answers.Len(), len(applicable), completeness*100)

	tasks := sess.Tasks.Tasks()
	fmt.Printf("\nTasks (%d):\n", len(tasks))
	for _, t := range tasks {
		line := fmt.Sprintf("  %-10s  %-40s  %-12s  %s  %dh",
			t.ID, t.Title, colorTaskStatus(t.Status), t.Difficulty, t.EstimatedHours)
		if len(t.DependsOn) > 0 {
			line += fmt.Sprintf("  (after %s)", strings.Join(t.DependsOn, ", "))
		}
		fmt.Println(line)
	}

	if len(sess.Documents) > 0 {
		fmt.Printf("\nDocuments (%d):\n", len(sess.Documents))
		for _, d := range sess.Documents {
			fmt.Printf("  v%-3d  %.0f%% complete  generated %s\n",
				d.Version, d.Completeness*100, d.GeneratedAt.Format("2006-01-02 15:04"))
		}
	}

	return nil
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
