package markdown

import (
	"fmt"
	"strings"
)

// BlockToNode builds the HTML element for a classified block
func BlockToNode(block string, kind BlockKind) (*Parent, error) {
	switch kind {
	case Paragraph:
		return paragraphToNode(block)
	case Heading:
		return headingToNode(block)
	case CodeBlock:
		return codeToNode(block), nil
	case Quote:
		return quoteToNode(block)
	case UnorderedList:
		return unorderedListToNode(block)
	case OrderedList:
		return orderedListToNode(block)
	default:
		return nil, fmt.Errorf("unsupported block kind %s", kind)
	}
}

func collapseLines(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}

func paragraphToNode(block string) (*Parent, error) {
	children, err := inlineNodes(collapseLines(block))
	if err != nil {
		return nil, fmt.Errorf("paragraph: %w", err)
	}
	return NewParent("p", children), nil
}

func headingToNode(block string) (*Parent, error) {
	level := 0
	for level < len(block) && level < 6 && block[level] == '#' {
		level++
	}

	children, err := inlineNodes(collapseLines(block[level:]))
	if err != nil {
		return nil, fmt.Errorf("heading: %w", err)
	}
	return NewParent(fmt.Sprintf("h%d", level), children), nil
}

// codeToNode keeps the fenced content verbatim. No inline parsing happens here.
func codeToNode(block string) *Parent {
	lines := strings.Split(block, "\n")

	var content string
	if len(lines) == 1 {
		content = strings.TrimSuffix(strings.TrimPrefix(block, fence), fence)
	} else {
		inner := lines[1 : len(lines)-1]
		// Content written on the closing fence line survives
		if last := strings.TrimSuffix(lines[len(lines)-1], fence); strings.TrimSpace(last) != "" {
			inner = append(inner, last)
		}
		content = strings.Join(inner, "\n")
	}

	return NewParent("pre", []Node{NewLeaf("code", content)})
}

func quoteToNode(block string) (*Parent, error) {
	lines := strings.Split(block, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "> "):
			line = line[2:]
		case strings.HasPrefix(line, ">"):
			line = line[1:]
		}
		cleaned = append(cleaned, line)
	}

	children, err := inlineNodes(strings.TrimSpace(strings.Join(cleaned, " ")))
	if err != nil {
		return nil, fmt.Errorf("blockquote: %w", err)
	}
	return NewParent("blockquote", children), nil
}

func unorderedListToNode(block string) (*Parent, error) {
	return listToNode("ul", block, func(line string) string {
		if len(line) < 2 {
			return ""
		}
		return strings.TrimSpace(line[2:])
	})
}

// orderedListToNode drops everything up to the first '.', which is the "n." marker
func orderedListToNode(block string) (*Parent, error) {
	return listToNode("ol", block, func(line string) string {
		_, rest, _ := strings.Cut(line, ".")
		return strings.TrimSpace(rest)
	})
}

func listToNode(tag, block string, strip func(string) string) (*Parent, error) {
	var items []Node
	for _, line := range strings.Split(block, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		children, err := inlineNodes(strip(line))
		if err != nil {
			return nil, fmt.Errorf("%s item: %w", tag, err)
		}
		items = append(items, NewParent("li", children))
	}
	return NewParent(tag, items), nil
}
