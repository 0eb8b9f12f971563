// Package markdown turns markdown source into an HTML node tree.
//
// Block structure is found first (paragraphs, headings, fenced code, quotes
// and lists), then inline spans inside each block. Inline emphasis does not
// nest. Any malformed input fails the whole document.
package markdown

import (
	"fmt"
	"strings"
)

// Render builds the document tree rooted at a <div>
func Render(md string) (*Parent, error) {
	root := &Parent{Tag: "div", AllowEmpty: true}

	for i, block := range ToBlocks(md) {
		kind := Classify(block)
		node, err := BlockToNode(block, kind)
		if err != nil {
			return nil, fmt.Errorf("block %d (%s): %w", i+1, kind, err)
		}
		root.Children = append(root.Children, node)
	}
	return root, nil
}

// ToHTML renders markdown straight to an HTML string
func ToHTML(md string) (string, error) {
	root, err := Render(md)
	if err != nil {
		return "", err
	}
	return Serialize(root)
}

// ExtractTitle returns the text of the first "# " heading line
func ExtractTitle(md string) (string, error) {
	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimSpace(line)
		if title, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(title), nil
		}
	}
	return "", ErrNoTitle
}
