// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [session-id]",
	Short: "Delete a session and all its data",
	Long: `Delete removes a session, its answers, tasks, and document history.
This cannot be undone; archive the session instead to keep its data.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	sess, err := st.Load(ctx, args[0])
	if err != nil {
		return err
	}

	if !force {
		fmt.Printf("Delete %s (%s) and all its data? [y/N] ", sess.ID, sess.Name)
		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			return nil
		}
		answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if answer != "y" && answer != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := st.Delete(ctx, sess.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", sess.ID)
	return nil
}

var archiveCmd = &cobra.Command{
	Use:   "archive [session-id]",
	Short: "Archive a session, keeping its data read-only",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := context.Background()
		sess, err := st.Load(ctx, args[0])
		if err != nil {
			return err
		}
		if err := sess.Archive(time.Now()); err != nil {
			return err
		}
		if err := st.Save(ctx, sess); err != nil {
			return err
		}
		fmt.Printf("Archived %s\n", sess.ID)
		return nil
	},
}

var reopenCmd = &cobra.Command{
	Use:   "reopen [session-id]",
	Short: "Return a generated session to interviewing",
	Long: `Reopen moves a generating or completed session back to interviewing so
further answers can be recorded. Archived sessions cannot be reopened.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := context.Background()
		sess, err := st.Load(ctx, args[0])
		if err != nil {
			return err
		}
		if err := sess.Reopen(time.Now()); err != nil {
			return err
		}
		if err := st.Save(ctx, sess); err != nil {
			return err
		}
		fmt.Printf("Reopened %s for interviewing\n", sess.ID)
		return nil
	},
}

func init() {
	deleteCmd.Flags().Bool("force", false, "delete without confirmation")

	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(reopenCmd)
}
