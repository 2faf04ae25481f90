// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the prd-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/prd-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the prd-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "prd-engine",
	Short: "Guided PRD authoring through an adaptive interview",
	Long: `prd-engine builds product requirement documents through an adaptive
interview. A session fixes the product context (type, industry,
complexity), the interview asks only the questions that apply, a task
graph tracks the work the product implies, and generation renders the
answers into a versioned PRD you can export or enhance with AI.

Typical flow: new, interview, generate, export.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./prd-engine.yaml or ~/.config/prd-engine/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory for the session database (default: ./data)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("prd-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "prd-engine"))
		}
	}

	viper.SetEnvPrefix("PRD_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
