// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/prd-engine/internal/enrich"
	"github.com/pdiddy/prd-engine/internal/generate"
)

var generateCmd = &cobra.Command{
	Use:   "generate [session-id]",
	Short: "Generate a PRD document from the session's answers",
	Long: `Generate renders the session's answers into a structured PRD. The
interview must be complete unless --partial is set. Each run that
changes content appends a new document version; an unchanged re-run
keeps the current version.

With --enhance, section bodies are polished through the Claude API
after generation. Enhancement failures leave the generated document
intact.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	partial, _ := cmd.Flags().GetBool("partial")
	enhance, _ := cmd.Flags().GetBool("enhance")

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

	eng, err := loadEngine()
	if err != nil {
		return err
	}

	now := time.Now()
	if err := sess.BeginGeneration(eng, partial, now); err != nil {
		return err
	}

	doc, err := generate.Generate(sess, eng, now)
	if err != nil {
		return err
	}

	if enhance {
		backend, err := claudeBackend(cmd)
		if err != nil {
			return err
		}
		enhanced, summary, err := enrich.Document(ctx, backend, doc, os.Stdout)
		if err != nil {
			return err
		}
		if summary.HasFailures() {
			fmt.Fprintf(os.Stderr, "warning: %d section(s) kept their original body\n", summary.Failed)
		}
		doc = enhanced
	}

	if prev, ok := sess.LatestDocument(); ok && prev.EqualContent(doc) {
		fmt.Printf("No changes since v%d: document not re-versioned\n", prev.Version)
		return nil
	}

	if err := sess.AttachDocument(doc, now); err != nil {
		return err
	}
	if err := st.Save(ctx, sess); err != nil {
		return err
	}

	fmt.Printf("Generated %s v%d: %d sections, %.0f%% complete\n",
		sess.ID, doc.Version, len(doc.Sections), doc.Completeness*100)
	fmt.Printf("Next: prd-engine export %s\n", sess.ID)
	return nil
}

// claudeBackend builds the enrichment backend from flags, config, and
// loaded secrets.
func claudeBackend(cmd *cobra.Command) (*enrich.ClaudeBackend, error) {
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("enrich.model")
	}
	if model == "" {
		model = "claude-sonnet-4-5"
	}

	apiKey := secretDefault("anthropic-api-key", viper.GetString("enrich.api_key"))
	if apiKey == "" {
		return nil, fmt.Errorf("no API key: put one in .secrets/anthropic-api-key or set enrich.api_key")
	}

	timeout := viper.GetDuration("enrich.timeout")
	if timeout == 0 {
		timeout = 2 * time.Minute
	}

	return &enrich.ClaudeBackend{
		APIKey:     apiKey,
		Model:      model,
		MaxRetries: viper.GetInt("enrich.max_retries"),
		Client:     &http.Client{Timeout: timeout},
	}, nil
}

func init() {
	generateCmd.Flags().Bool("partial", false, "generate from an incomplete interview")
	generateCmd.Flags().Bool("enhance", false, "enhance section bodies through the Claude API")
	generateCmd.Flags().String("model", "", "AI model identifier for enhancement")

	rootCmd.AddCommand(generateCmd)
}
