// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/prd-engine/internal/session"
	"github.com/pdiddy/prd-engine/pkg/types"
)

var newCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create a new PRD session",
	Long: `New creates a session with a fixed product context. The product type,
industry, and complexity chosen here determine which interview questions
apply and which tasks are derived; they cannot be changed later.`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func runNew(cmd *cobra.Command, args []string) error {
	productType, _ := cmd.Flags().GetString("type")
	industry, _ := cmd.Flags().GetString("industry")
	complexity, _ := cmd.Flags().GetString("complexity")

	pt, err := types.ParseProductType(productType)
	if err != nil {
		return err
	}
	ind, err := types.ParseIndustry(industry)
	if err != nil {
		return err
	}
	cx, err := types.ParseComplexity(complexity)
	if err != nil {
		return err
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	seq, err := st.NextSequence(ctx)
	if err != nil {
		return err
	}

	pc := types.ProductContext{ProductType: pt, Industry: ind, Complexity: cx}
	sess, err := session.New(seq, args[0], pc, time.Now())
	if err != nil {
		return err
	}

	if err := st.Save(ctx, sess); err != nil {
		return err
	}

	fmt.Printf("Created session %s (%s)\n", sess.ID, sess.Name)
	fmt.Printf("  product type: %s, industry: %s, complexity: %s\n", pt, ind, cx)
	fmt.Printf("  %d tasks derived\n", sess.Tasks.Len())
	fmt.Printf("\nNext: prd-engine interview %s\n", sess.ID)
	return nil
}

func init() {
	newCmd.Flags().String("type", "", "product type: landing_page, mobile_app, web_app, desktop_app, saas, enterprise, ecommerce, fintech, healthtech, business_plan")
	newCmd.Flags().String("industry", "general", "industry: general, finance, healthcare, education, retail, manufacturing, entertainment, logistics, real_estate, government")
	newCmd.Flags().String("complexity", "moderate", "complexity: simple, moderate, complex, enterprise")
	newCmd.MarkFlagRequired("type")

	rootCmd.AddCommand(newCmd)
}
