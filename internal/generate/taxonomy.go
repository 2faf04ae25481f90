// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import "github.com/pdiddy/prd-engine/pkg/types"

// headingExecutiveSummary is synthesized from the product context and
// core answers; no catalog question maps to it directly.
const headingExecutiveSummary = "Executive Summary"

// SectionOrder returns the ordered document headings for a product type.
// Every order carries every question heading, so an answered question is
// always rendered no matter which predicates made it applicable; headings
// with no answered questions are dropped at generation time.
// The switch is exhaustive over every ProductType so a new classification
// fails to compile until it is given a taxonomy.
func SectionOrder(p types.ProductType) []string {
	switch p {
	case types.ProductLandingPage:
		return []string{types.SectionOverview, types.SectionBusiness,
			types.SectionUserResearch, types.SectionFeatures,
			types.SectionTechnical, types.SectionCompliance, types.SectionDelivery}
	case types.ProductMobileApp, types.ProductWebApp, types.ProductDesktopApp:
		return []string{types.SectionOverview, types.SectionBusiness,
			types.SectionUserResearch, types.SectionTechnical,
			types.SectionFeatures, types.SectionCompliance, types.SectionDelivery}
	case types.ProductSaaS, types.ProductEnterprise:
		return []string{types.SectionOverview, types.SectionBusiness,
			types.SectionUserResearch, types.SectionTechnical,
			types.SectionFeatures, types.SectionDelivery, types.SectionCompliance}
	case types.ProductEcommerce:
		return []string{types.SectionOverview, types.SectionBusiness,
			types.SectionFeatures, types.SectionUserResearch,
			types.SectionTechnical, types.SectionCompliance, types.SectionDelivery}
	case types.ProductFintech, types.ProductHealthtech:
		return []string{types.SectionOverview, types.SectionBusiness,
			types.SectionCompliance, types.SectionUserResearch,
			types.SectionTechnical, types.SectionFeatures, types.SectionDelivery}
	case types.ProductBusinessPlan:
		return []string{types.SectionOverview, types.SectionBusiness,
			types.SectionUserResearch, types.SectionFeatures,
			types.SectionCompliance, types.SectionDelivery, types.SectionTechnical}
	}
	return nil
}
