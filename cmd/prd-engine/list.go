// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all PRD sessions",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	summaries, err := st.List(context.Background())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	if len(summaries) == 0 {
		fmt.Println("No sessions. Create one with: prd-engine new")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-8s  %-30s  %-12s  %-12s  %-8s  %-5s  %s\n",
		"ID", "Name", "Type", "Status", "Answers", "Tasks", "Updated")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 92))

	for _, s := range summaries {
		name := s.Name
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-8s  %-30s  %-12s  %-12s  %-8d  %-5d  %s\n",
			s.ID, name, s.ProductType, s.Status, s.Answered, s.TaskCount,
			s.UpdatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Fprintf(os.Stdout, "\n%d session(s)\n", len(summaries))
	return nil
}

func init() {
	listCmd.Flags().Bool("json", false, "output sessions as JSON")

	rootCmd.AddCommand(listCmd)
}
