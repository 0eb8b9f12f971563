package diff

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/gerunddev/sitegen/internal/config"
	"github.com/gerunddev/sitegen/internal/site"
)

// wrapWidth is the glamour word wrap used for terminal output
const wrapWidth = 120

// Unified returns the unified diff turning before into after, or "" when
// they are identical
func Unified(beforeName, afterName, before, after string) string {
	edits := myers.ComputeEdits(span.URIFromPath(beforeName), before, after)
	if len(edits) == 0 {
		return ""
	}
	return fmt.Sprint(gotextdiff.ToUnified(beforeName, afterName, before, edits))
}

// Page renders source as the next build would and diffs it against the page
// currently in the public directory. A page that was never generated diffs
// against an empty file.
func Page(cfg *config.Config, source string) (string, error) {
	md, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf("failed to read page: %w", err)
	}
	template, err := os.ReadFile(cfg.Template)
	if err != nil {
		return "", fmt.Errorf("failed to read template: %w", err)
	}

	fresh, err := site.RenderPage(string(md), string(template), cfg.BasePath)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", source, err)
	}

	dest, err := site.OutputPath(cfg.ContentDir, cfg.PublicDir, source)
	if err != nil {
		return "", err
	}
	current, err := os.ReadFile(dest)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to read generated page: %w", err)
	}

	name := filepath.Base(dest)
	return Unified(name, name+" (rendered)", string(current), fresh), nil
}

// Render wraps a unified diff in a diff code fence and renders it for the
// terminal, falling back to the plain fenced text
func Render(unified string) string {
	fenced := fmt.Sprintf("```diff\n%s```\n", unified)
	return Markdown(fenced)
}

// Markdown renders a Markdown document for the terminal with glamour,
// returning the source unchanged if rendering fails
func Markdown(md string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		return md
	}

	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return rendered
}
