// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pdiddy/prd-engine/pkg/types"
)

// Exporter writes rendered documents into the configured export
// directory. PDF output shells out to pandoc over the markdown
// rendering; markdown and text are written directly.
type Exporter struct {
	cfg types.ExportConfig
}

// New creates an Exporter. Defaults apply when config fields are empty.
func New(cfg types.ExportConfig) *Exporter {
	if cfg.ExportDir == "" {
		cfg.ExportDir = "exports"
	}
	if cfg.PandocPath == "" {
		cfg.PandocPath = "pandoc"
	}
	return &Exporter{cfg: cfg}
}

// Write renders doc in the given format and writes it under the export
// directory, returning the path of the written file.
func (e *Exporter) Write(ctx context.Context, doc types.Document, f Format) (string, error) {
	if err := os.MkdirAll(e.cfg.ExportDir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(e.cfg.ExportDir, Filename(doc, f))

	switch f {
	case FormatMarkdown:
		if err := os.WriteFile(path, Markdown(doc), 0o644); err != nil {
			return "", fmt.Errorf("writing markdown export: %w", err)
		}
	case FormatText:
		if err := os.WriteFile(path, Text(doc), 0o644); err != nil {
			return "", fmt.Errorf("writing text export: %w", err)
		}
	case FormatPDF:
		if err := e.pandoc(ctx, doc, path); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unsupported format %q", f)
	}
	return path, nil
}

// pandoc converts the markdown rendering to PDF at dst.
func (e *Exporter) pandoc(ctx context.Context, doc types.Document, dst string) error {
	if _, err := exec.LookPath(e.cfg.PandocPath); err != nil {
		return fmt.Errorf("pandoc not found (%s): install pandoc or export as markdown: %w", e.cfg.PandocPath, err)
	}

	tmp, err := os.CreateTemp("", "prd-export-*.md")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(Markdown(doc)); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp markdown: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp markdown: %w", err)
	}

	cmd := exec.CommandContext(ctx, e.cfg.PandocPath, tmp.Name(), "-o", dst)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("pandoc failed: %s: %w", string(out), err)
	}
	return nil
}
