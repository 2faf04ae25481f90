// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export renders generated documents to markdown, plain text, and
// PDF. The Document model is self-sufficient: rendering needs no lookups
// beyond the document itself.
package export

import (
	"fmt"
	"strings"

	"github.com/pdiddy/prd-engine/pkg/types"
)

// Format selects an export output format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatPDF      Format = "pdf"
)

// ParseFormat converts a string into a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatMarkdown, FormatText, FormatPDF:
		return Format(s), nil
	}
	return "", fmt.Errorf("unsupported format %q: use markdown, text, or pdf", s)
}

// Extension returns the file extension for the format.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatText:
		return "txt"
	case FormatPDF:
		return "pdf"
	}
	return "out"
}

// Markdown renders the document as Markdown.
func Markdown(doc types.Document) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", doc.Title)
	fmt.Fprintf(&b, "Product type: %s  \n", label(string(doc.Context.ProductType)))
	fmt.Fprintf(&b, "Industry: %s  \n", label(string(doc.Context.Industry)))
	fmt.Fprintf(&b, "Complexity: %s  \n", label(string(doc.Context.Complexity)))
	fmt.Fprintf(&b, "Completeness: %.0f%%  \n", doc.Completeness*100)
	fmt.Fprintf(&b, "Version: %d\n", doc.Version)

	for _, sec := range doc.Sections {
		fmt.Fprintf(&b, "\n## %s\n\n%s\n", sec.Heading, sec.Body)
	}

	if len(doc.TaskSummary) > 0 {
		b.WriteString("\n## Task Summary\n\n")
		b.WriteString("| ID | Title | Status | Difficulty | Est. hours | Depends on |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		for _, t := range doc.TaskSummary {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %d | %s |\n",
				t.ID, t.Title, t.Status, t.Difficulty, t.EstimatedHours,
				strings.Join(t.DependsOn, ", "))
		}
	}

	return []byte(b.String())
}

// Text renders the document as plain text with underlined headings.
func Text(doc types.Document) []byte {
	var b strings.Builder

	b.WriteString(doc.Title + "\n")
	b.WriteString(strings.Repeat("=", len(doc.Title)) + "\n\n")
	fmt.Fprintf(&b, "Product type: %s\n", label(string(doc.Context.ProductType)))
	fmt.Fprintf(&b, "Industry: %s\n", label(string(doc.Context.Industry)))
	fmt.Fprintf(&b, "Complexity: %s\n", label(string(doc.Context.Complexity)))
	fmt.Fprintf(&b, "Completeness: %.0f%%\n", doc.Completeness*100)

	for _, sec := range doc.Sections {
		fmt.Fprintf(&b, "\n%s\n%s\n%s\n", strings.ToUpper(sec.Heading),
			strings.Repeat("-", len(sec.Heading)), sec.Body)
	}

	if len(doc.TaskSummary) > 0 {
		b.WriteString("\nTASK SUMMARY\n------------\n")
		for _, t := range doc.TaskSummary {
			fmt.Fprintf(&b, "%s  %-40s  %-12s  %s", t.ID, t.Title, t.Status, t.Difficulty)
			if len(t.DependsOn) > 0 {
				fmt.Fprintf(&b, "  (after %s)", strings.Join(t.DependsOn, ", "))
			}
			b.WriteString("\n")
		}
	}

	return []byte(b.String())
}

// Filename builds the export filename from the document title and
// generation time: <safe-title>_v<version>_<timestamp>.<ext>.
func Filename(doc types.Document, f Format) string {
	safe := make([]rune, 0, len(doc.Title))
	for _, r := range doc.Title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			safe = append(safe, r)
		case r == ' ':
			safe = append(safe, '_')
		}
	}
	name := string(safe)
	if name == "" {
		name = doc.SessionID
	}
	stamp := doc.GeneratedAt.UTC().Format("20060102_150405")
	return fmt.Sprintf("%s_v%d_%s.%s", name, doc.Version, stamp, f.Extension())
}

// label renders an enum value for display.
func label(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}
