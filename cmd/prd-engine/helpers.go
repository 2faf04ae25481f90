// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/prd-engine/internal/catalog"
	"github.com/pdiddy/prd-engine/internal/interview"
	"github.com/pdiddy/prd-engine/internal/store"
	"github.com/pdiddy/prd-engine/pkg/types"
)

// openStore opens the session store using the --data-dir flag, the
// store.data_dir config key, or the default directory, in that order.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir == "" {
		dataDir = viper.GetString("store.data_dir")
	}
	return store.Open(types.StoreConfig{DataDir: dataDir})
}

// loadEngine builds the interview engine from the embedded question
// catalog.
func loadEngine() (*interview.Engine, error) {
	questions, err := catalog.Default()
	if err != nil {
		return nil, err
	}
	return interview.NewEngine(questions), nil
}

// exportConfig resolves export settings from flags and config.
func exportConfig(cmd *cobra.Command) types.ExportConfig {
	exportDir, _ := cmd.Flags().GetString("export-dir")
	if exportDir == "" {
		exportDir = viper.GetString("export.export_dir")
	}
	pandocPath := viper.GetString("export.pandoc_path")
	return types.ExportConfig{ExportDir: exportDir, PandocPath: pandocPath}
}
