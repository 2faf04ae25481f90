// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for prd-engine: product
// classification, the question catalog, sessions, tasks, and the generated
// document structure.
package types

import "fmt"

// ProductType classifies the product being specified. It drives question
// applicability, task seeding, and the document section taxonomy.
type ProductType string

const (
	ProductLandingPage  ProductType = "landing_page"
	ProductMobileApp    ProductType = "mobile_app"
	ProductWebApp       ProductType = "web_app"
	ProductDesktopApp   ProductType = "desktop_app"
	ProductSaaS         ProductType = "saas"
	ProductEnterprise   ProductType = "enterprise"
	ProductEcommerce    ProductType = "ecommerce"
	ProductFintech      ProductType = "fintech"
	ProductHealthtech   ProductType = "healthtech"
	ProductBusinessPlan ProductType = "business_plan"
)

// ProductTypes lists every valid product type in display order.
var ProductTypes = []ProductType{
	ProductLandingPage, ProductMobileApp, ProductWebApp, ProductDesktopApp,
	ProductSaaS, ProductEnterprise, ProductEcommerce, ProductFintech,
	ProductHealthtech, ProductBusinessPlan,
}

// IsValid reports whether the product type is a known value.
func (p ProductType) IsValid() bool {
	for _, v := range ProductTypes {
		if p == v {
			return true
		}
	}
	return false
}

// ParseProductType converts a string into a ProductType.
func ParseProductType(s string) (ProductType, error) {
	p := ProductType(s)
	if !p.IsValid() {
		return "", fmt.Errorf("unknown product type %q", s)
	}
	return p, nil
}

// Industry classifies the market the product serves. The zero value
// IndustryGeneral carries no industry-specific requirements.
type Industry string

const (
	IndustryGeneral       Industry = "general"
	IndustryFinance       Industry = "finance"
	IndustryHealthcare    Industry = "healthcare"
	IndustryEducation     Industry = "education"
	IndustryRetail        Industry = "retail"
	IndustryManufacturing Industry = "manufacturing"
	IndustryEntertainment Industry = "entertainment"
	IndustryLogistics     Industry = "logistics"
	IndustryRealEstate    Industry = "real_estate"
	IndustryGovernment    Industry = "government"
)

// Industries lists every valid industry in display order.
var Industries = []Industry{
	IndustryGeneral, IndustryFinance, IndustryHealthcare, IndustryEducation,
	IndustryRetail, IndustryManufacturing, IndustryEntertainment,
	IndustryLogistics, IndustryRealEstate, IndustryGovernment,
}

// IsValid reports whether the industry is a known value.
func (i Industry) IsValid() bool {
	for _, v := range Industries {
		if i == v {
			return true
		}
	}
	return false
}

// Regulated reports whether the industry carries regulatory obligations
// that seed a compliance task.
func (i Industry) Regulated() bool {
	switch i {
	case IndustryFinance, IndustryHealthcare, IndustryGovernment:
		return true
	}
	return false
}

// ParseIndustry converts a string into an Industry. An empty string maps
// to IndustryGeneral.
func ParseIndustry(s string) (Industry, error) {
	if s == "" {
		return IndustryGeneral, nil
	}
	i := Industry(s)
	if !i.IsValid() {
		return "", fmt.Errorf("unknown industry %q", s)
	}
	return i, nil
}

// Complexity is the project complexity level. Values are ordered: simple <
// moderate < complex < enterprise.
type Complexity string

const (
	ComplexitySimple     Complexity = "simple"
	ComplexityModerate   Complexity = "moderate"
	ComplexityComplex    Complexity = "complex"
	ComplexityEnterprise Complexity = "enterprise"
)

// Complexities lists every valid complexity level in ascending order.
var Complexities = []Complexity{
	ComplexitySimple, ComplexityModerate, ComplexityComplex, ComplexityEnterprise,
}

// rank returns the ordinal position of the complexity level, or -1 for an
// unknown value.
func (c Complexity) rank() int {
	for i, v := range Complexities {
		if c == v {
			return i
		}
	}
	return -1
}

// IsValid reports whether the complexity level is a known value.
func (c Complexity) IsValid() bool {
	return c.rank() >= 0
}

// AtLeast reports whether c is equal to or above the given threshold.
// Unknown values are never at least anything.
func (c Complexity) AtLeast(threshold Complexity) bool {
	cr, tr := c.rank(), threshold.rank()
	return cr >= 0 && tr >= 0 && cr >= tr
}

// ParseComplexity converts a string into a Complexity.
func ParseComplexity(s string) (Complexity, error) {
	c := Complexity(s)
	if !c.IsValid() {
		return "", fmt.Errorf("unknown complexity level %q", s)
	}
	return c, nil
}

// ProductContext is the immutable per-session product classification, set
// once when the session is created.
type ProductContext struct {
	// ProductType classifies what is being built.
	ProductType ProductType `json:"product_type" yaml:"product_type"`

	// Industry is the market the product serves.
	Industry Industry `json:"industry" yaml:"industry"`

	// Complexity is the project complexity level.
	Complexity Complexity `json:"complexity" yaml:"complexity"`
}

// Validate checks that every classification field holds a known value.
func (pc ProductContext) Validate() error {
	if !pc.ProductType.IsValid() {
		return fmt.Errorf("invalid product type %q", pc.ProductType)
	}
	if !pc.Industry.IsValid() {
		return fmt.Errorf("invalid industry %q", pc.Industry)
	}
	if !pc.Complexity.IsValid() {
		return fmt.Errorf("invalid complexity %q", pc.Complexity)
	}
	return nil
}
