package site

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gerunddev/sitegen/internal/markdown"
)

const (
	titlePlaceholder   = "{{ Title }}"
	contentPlaceholder = "{{ Content }}"
)

// RenderPage fills the template with the title and HTML of a markdown
// document. A title in the front matter takes precedence over the first
// heading; drafts fail with ErrDraft.
func RenderPage(source, template, basePath string) (string, error) {
	meta, body, err := ParseFrontMatter([]byte(source))
	if err != nil {
		return "", err
	}
	if meta.Draft {
		return "", ErrDraft
	}
	md := string(body)

	title, err := meta.title(md)
	if err != nil {
		return "", err
	}

	content, err := markdown.ToHTML(md)
	if err != nil {
		return "", err
	}

	page := strings.ReplaceAll(template, titlePlaceholder, title)
	page = strings.ReplaceAll(page, contentPlaceholder, content)
	return RewriteBasePath(page, basePath), nil
}

// RewriteBasePath points root-relative href and src attributes at basePath
//
//	RewriteBasePath(`<a href="/blog">`, "/site/") -> `<a href="/site/blog">`
func RewriteBasePath(page, basePath string) string {
	if basePath == "" || basePath == "/" {
		return page
	}
	page = strings.ReplaceAll(page, `href="/`, `href="`+basePath)
	page = strings.ReplaceAll(page, `src="/`, `src="`+basePath)
	return page
}

// GeneratePage renders the markdown file at from into dest using the template file
func GeneratePage(from, templatePath, dest, basePath string) error {
	template, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}
	return generatePage(from, string(template), dest, basePath, false)
}

func generatePage(from, template, dest, basePath string, dryRun bool) error {
	md, err := os.ReadFile(from)
	if err != nil {
		return fmt.Errorf("failed to read page: %w", err)
	}

	page, err := RenderPage(string(md), template, basePath)
	if err != nil {
		return err
	}
	if dryRun {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(dest, []byte(page), 0644); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}
	return nil
}

// OutputPath maps a content file to its location in the public tree
func OutputPath(contentDir, publicDir, source string) (string, error) {
	rel, err := filepath.Rel(contentDir, source)
	if err != nil {
		return "", err
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ".html"
	return filepath.Join(publicDir, rel), nil
}
