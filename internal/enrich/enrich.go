// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enrich augments generated document sections with AI-suggested
// improvements. Enrichment is best-effort: a failed section keeps its
// original body, and the document stays valid throughout.
package enrich

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/prd-engine/pkg/types"
)

// Backend abstracts the Generative AI API so tests can supply a mock.
// Each implementation handles a single section and returns the enhanced
// body text.
type Backend interface {
	Enhance(ctx context.Context, pc types.ProductContext, heading, body string) (string, error)
}

// Summary holds counts from an enrichment run.
type Summary struct {
	Enhanced int
	Failed   int
}

// HasFailures reports whether any sections failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Document enhances each section of doc through the backend and returns
// a copy with the enhanced bodies. Sections that fail keep their
// original body; progress and failures are reported on w. The input
// document is never mutated.
func Document(ctx context.Context, backend Backend, doc types.Document, w io.Writer) (types.Document, Summary, error) {
	out := doc
	out.Sections = make([]types.Section, len(doc.Sections))
	copy(out.Sections, doc.Sections)

	var summary Summary
	for i, sec := range out.Sections {
		if strings.TrimSpace(sec.Body) == "" {
			continue
		}

		enhanced, err := backend.Enhance(ctx, doc.Context, sec.Heading, sec.Body)
		if err != nil {
			if ctx.Err() != nil {
				return doc, summary, ctx.Err()
			}
			fmt.Fprintf(w, "failed  %s: %v\n", sec.Heading, err)
			summary.Failed++
			continue
		}
		if strings.TrimSpace(enhanced) == "" {
			fmt.Fprintf(w, "failed  %s: empty response\n", sec.Heading)
			summary.Failed++
			continue
		}

		out.Sections[i].Body = enhanced
		fmt.Fprintf(w, "enhanced %s\n", sec.Heading)
		summary.Enhanced++
	}

	return out, summary, nil
}
