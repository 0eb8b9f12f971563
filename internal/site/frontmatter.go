package site

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/adrg/frontmatter"

	"github.com/gerunddev/sitegen/internal/markdown"
)

// ErrDraft is returned for pages whose front matter marks them as drafts
var ErrDraft = errors.New("page is a draft")

// FrontMatter is the optional metadata block at the top of a page
type FrontMatter struct {
	Title string `yaml:"title"`
	Draft bool   `yaml:"draft"`
}

// ParseFrontMatter splits a page into its front matter and Markdown body.
// A page without front matter is returned whole with empty metadata.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta FrontMatter

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return meta, body, nil
}

// PageTitle returns the title a page is generated with: the front matter
// title when set, otherwise the first heading of the body
func PageTitle(source string) (string, error) {
	meta, body, err := ParseFrontMatter([]byte(source))
	if err != nil {
		return "", err
	}
	return meta.title(string(body))
}

func (m FrontMatter) title(body string) (string, error) {
	if m.Title != "" {
		return m.Title, nil
	}
	return markdown.ExtractTitle(body)
}

// IsDraft reports whether the page at path is marked as a draft
func IsDraft(path string) (bool, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read page: %w", err)
	}
	meta, _, err := ParseFrontMatter(source)
	if err != nil {
		return false, err
	}
	return meta.Draft, nil
}
