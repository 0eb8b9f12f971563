package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

// BlockKind is the block-level category of a markdown block
type BlockKind int

const (
	Paragraph BlockKind = iota
	Heading
	CodeBlock
	Quote
	UnorderedList
	OrderedList
)

func (k BlockKind) String() string {
	switch k {
	case Paragraph:
		return "paragraph"
	case Heading:
		return "heading"
	case CodeBlock:
		return "code"
	case Quote:
		return "quote"
	case UnorderedList:
		return "unordered_list"
	case OrderedList:
		return "ordered_list"
	default:
		return "BlockKind(" + strconv.Itoa(int(k)) + ")"
	}
}

const fence = "```"

// headingPattern needs a letter, digit or underscore after the marker, in any script
var headingPattern = regexp.MustCompile(`^#{1,6} [\p{L}\p{N}_]`)

// ToBlocks splits a document on blank lines into trimmed, non-empty blocks
func ToBlocks(doc string) []string {
	doc = strings.ReplaceAll(doc, "\r\n", "\n")

	var blocks []string
	for _, segment := range strings.Split(doc, "\n\n") {
		block := strings.TrimSpace(segment)
		if block == "" {
			continue
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// Classify decides the kind of a single block. The first matching rule wins.
func Classify(block string) BlockKind {
	if block == "" {
		return Paragraph
	}
	lines := strings.Split(block, "\n")

	switch {
	case isCodeBlock(block):
		return CodeBlock
	case allLines(lines, func(l string) bool { return strings.HasPrefix(l, ">") }):
		return Quote
	case allLines(lines, isUnorderedItem):
		return UnorderedList
	case headingPattern.MatchString(lines[0]):
		return Heading
	case isOrderedList(lines):
		return OrderedList
	default:
		return Paragraph
	}
}

// isCodeBlock requires distinct opening and closing fences
func isCodeBlock(block string) bool {
	return len(block) >= 2*len(fence) &&
		strings.HasPrefix(block, fence) &&
		strings.HasSuffix(block, fence)
}

func isUnorderedItem(line string) bool {
	return strings.HasPrefix(line, "* ") ||
		strings.HasPrefix(line, "+ ") ||
		strings.HasPrefix(line, "- ")
}

// isOrderedList requires lines numbered 1, 2, 3... with no gaps
func isOrderedList(lines []string) bool {
	for i, line := range lines {
		if !strings.HasPrefix(line, strconv.Itoa(i+1)+". ") {
			return false
		}
	}
	return true
}

func allLines(lines []string, pred func(string) bool) bool {
	for _, line := range lines {
		if !pred(line) {
			return false
		}
	}
	return true
}
