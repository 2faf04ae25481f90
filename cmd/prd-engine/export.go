// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/prd-engine/internal/export"
	"github.com/pdiddy/prd-engine/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export [session-id]",
	Short: "Export a generated document to markdown, text, or PDF",
	Long: `Export writes a generated document version to the export directory.
The latest version is exported unless --version selects an earlier one.
PDF export requires pandoc on the PATH (or export.pandoc_path in config).`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	formatFlag, _ := cmd.Flags().GetString("format")
	versionFlag, _ := cmd.Flags().GetInt("version")

	format, err := export.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

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

	var doc types.Document
	if versionFlag > 0 {
		if versionFlag > len(sess.Documents) {
			return fmt.Errorf("session %s has no version %d (latest is %d)", sess.ID, versionFlag, len(sess.Documents))
		}
		doc = sess.Documents[versionFlag-1]
	} else {
		latest, ok := sess.LatestDocument()
		if !ok {
			return fmt.Errorf("session %s has no generated documents: run prd-engine generate first", sess.ID)
		}
		doc = latest
	}

	exp := export.New(exportConfig(cmd))
	path, err := exp.Write(ctx, doc, format)
	if err != nil {
		return err
	}

	fmt.Printf("Exported %s v%d to %s\n", sess.ID, doc.Version, path)
	return nil
}

func init() {
	exportCmd.Flags().String("format", "markdown", "output format: markdown, text, or pdf")
	exportCmd.Flags().Int("version", 0, "document version to export (0 = latest)")
	exportCmd.Flags().String("export-dir", "", "directory for exported files (default: ./exports)")

	rootCmd.AddCommand(exportCmd)
}
