package markdown

import (
	"fmt"
	"regexp"
	"strings"
)

// TextKind is the inline style of a text span
type TextKind int

const (
	Plain TextKind = iota
	Bold
	Italic
	Code
	Link
	Image
)

func (k TextKind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case Code:
		return "code"
	case Link:
		return "link"
	case Image:
		return "image"
	default:
		return fmt.Sprintf("TextKind(%d)", int(k))
	}
}

// TextSpan is a run of text with a single inline style.
// URL is only set for Link and Image spans.
type TextSpan struct {
	Text string
	Kind TextKind
	URL  string
}

func (s TextSpan) String() string {
	if s.URL == "" {
		return fmt.Sprintf("TextSpan(%s, %q)", s.Kind, s.Text)
	}
	return fmt.Sprintf("TextSpan(%s, %q, %s)", s.Kind, s.Text, s.URL)
}

var (
	imagePattern = regexp.MustCompile(`!\[(.*?)\]\((.*?)\)`)
	linkPattern  = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
)

// SplitSpans tokenizes inline markdown into styled spans.
// Passes run in a fixed order: code, bold, italic, images, links.
func SplitSpans(text string) ([]TextSpan, error) {
	spans := []TextSpan{{Text: text, Kind: Plain}}

	var err error
	if spans, err = SplitDelimiter(spans, "`", Code); err != nil {
		return nil, err
	}
	if spans, err = SplitDelimiter(spans, "**", Bold); err != nil {
		return nil, err
	}
	if spans, err = SplitDelimiter(spans, "_", Italic); err != nil {
		return nil, err
	}
	spans = SplitImages(spans)
	spans = SplitLinks(spans)
	return spans, nil
}

// SplitDelimiter splits every plain span on paired occurrences of delim.
// Text between a pair becomes kind; text outside keeps the span's own kind.
func SplitDelimiter(spans []TextSpan, delim string, kind TextKind) ([]TextSpan, error) {
	out := make([]TextSpan, 0, len(spans))
	for _, span := range spans {
		if span.Kind != Plain {
			out = append(out, span)
			continue
		}

		fragments := strings.Split(span.Text, delim)
		if len(fragments) == 1 {
			out = append(out, span)
			continue
		}
		if len(fragments)%2 == 0 {
			return nil, &DelimiterError{Delimiter: delim, Text: span.Text}
		}

		split := make([]TextSpan, 0, len(fragments))
		for i, fragment := range fragments {
			k := span.Kind
			if i%2 == 1 {
				k = kind
			}
			split = append(split, TextSpan{Text: fragment, Kind: k})
		}

		// A delimiter at either end leaves an empty fragment behind
		if split[0].Text == "" {
			split = split[1:]
		}
		if n := len(split); n > 0 && split[n-1].Text == "" {
			split = split[:n-1]
		}
		out = append(out, split...)
	}
	return out, nil
}

// SplitImages extracts ![alt](url) markers from plain spans
func SplitImages(spans []TextSpan) []TextSpan {
	return splitMarkers(spans, imagePattern, Image)
}

// SplitLinks extracts [text](url) markers from plain spans
func SplitLinks(spans []TextSpan) []TextSpan {
	return splitMarkers(spans, linkPattern, Link)
}

func splitMarkers(spans []TextSpan, re *regexp.Regexp, kind TextKind) []TextSpan {
	out := make([]TextSpan, 0, len(spans))
	for _, span := range spans {
		if span.Kind != Plain {
			out = append(out, span)
			continue
		}

		matches := re.FindAllStringSubmatchIndex(span.Text, -1)
		if len(matches) == 0 {
			out = append(out, span)
			continue
		}

		text := span.Text
		prev := 0
		for _, m := range matches {
			if before := text[prev:m[0]]; before != "" {
				out = append(out, TextSpan{Text: before, Kind: span.Kind})
			}
			out = append(out, TextSpan{
				Text: text[m[2]:m[3]],
				Kind: kind,
				URL:  text[m[4]:m[5]],
			})
			prev = m[1]
		}
		if rest := text[prev:]; rest != "" {
			out = append(out, TextSpan{Text: rest, Kind: span.Kind})
		}
	}
	return out
}

// SpanToNode converts a span into its HTML leaf
func SpanToNode(span TextSpan) (*Leaf, error) {
	switch span.Kind {
	case Plain:
		return NewLeaf("", span.Text), nil
	case Bold:
		return NewLeaf("b", span.Text), nil
	case Italic:
		return NewLeaf("i", span.Text), nil
	case Code:
		return NewLeaf("code", span.Text), nil
	case Link:
		return NewLeaf("a", span.Text, Attribute{Key: "href", Value: span.URL}), nil
	case Image:
		return NewLeaf("img", "",
			Attribute{Key: "src", Value: span.URL},
			Attribute{Key: "alt", Value: span.Text}), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownTextKind, int(span.Kind))
	}
}

// inlineNodes splits text into spans and converts each to a leaf
func inlineNodes(text string) ([]Node, error) {
	spans, err := SplitSpans(text)
	if err != nil {
		return nil, err
	}
	nodes := make([]Node, 0, len(spans))
	for _, span := range spans {
		leaf, err := SpanToNode(span)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, leaf)
	}
	return nodes, nil
}
