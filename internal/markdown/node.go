package markdown

import (
	"fmt"
	"strings"
)

// Node is an element of the HTML output tree. It is either a *Leaf or a *Parent.
type Node interface {
	HTML() (string, error)
	node()
}

// Attribute is a single key="value" pair on an element
type Attribute struct {
	Key   string
	Value string
}

// Attributes keeps element attributes in insertion order
type Attributes []Attribute

// String renders the attributes as space separated key="value" fragments
func (a Attributes) String() string {
	if len(a) == 0 {
		return ""
	}
	fragments := make([]string, 0, len(a))
	for _, attr := range a {
		fragments = append(fragments, attr.Key+`="`+attr.Value+`"`)
	}
	return strings.Join(fragments, " ")
}

// openTag prefixes a non-empty attribute string with a single space
func (a Attributes) openTag() string {
	s := a.String()
	if s == "" {
		return ""
	}
	return " " + s
}

var selfClosingTags = map[string]bool{
	"img":   true,
	"br":    true,
	"hr":    true,
	"input": true,
	"meta":  true,
	"link":  true,
}

// Leaf is a text run or an element without element children.
// A nil Value is invalid and fails at serialization time.
type Leaf struct {
	Tag   string
	Value *string
	Attrs Attributes
}

// NewLeaf creates a leaf with its value set
func NewLeaf(tag, value string, attrs ...Attribute) *Leaf {
	return &Leaf{Tag: tag, Value: &value, Attrs: attrs}
}

func (*Leaf) node() {}

// HTML renders the leaf
//
//	NewLeaf("p", "text").HTML()   -> "<p>text</p>"
//	NewLeaf("", "text").HTML()    -> "text"
//	NewLeaf("br", "").HTML()      -> "<br/>"
func (l *Leaf) HTML() (string, error) {
	if l.Value == nil {
		return "", ErrMissingValue
	}
	switch {
	case l.Tag == "":
		return *l.Value, nil
	case selfClosingTags[l.Tag]:
		return "<" + l.Tag + l.Attrs.openTag() + "/>", nil
	default:
		return "<" + l.Tag + l.Attrs.openTag() + ">" + *l.Value + "</" + l.Tag + ">", nil
	}
}

// Parent is an element whose content is made entirely of child nodes
type Parent struct {
	Tag      string
	Children []Node
	Attrs    Attributes

	// AllowEmpty lets the node render with no children. Only the document root sets it.
	AllowEmpty bool
}

// NewParent creates a parent element
func NewParent(tag string, children []Node, attrs ...Attribute) *Parent {
	return &Parent{Tag: tag, Children: children, Attrs: attrs}
}

func (*Parent) node() {}

// HTML renders the parent and all of its children in order
func (p *Parent) HTML() (string, error) {
	if p.Tag == "" {
		return "", ErrMissingTag
	}
	if len(p.Children) == 0 && !p.AllowEmpty {
		return "", fmt.Errorf("<%s>: %w", p.Tag, ErrEmptyChildren)
	}

	var b strings.Builder
	b.WriteString("<" + p.Tag + p.Attrs.openTag() + ">")
	for _, child := range p.Children {
		s, err := child.HTML()
		if err != nil {
			return "", fmt.Errorf("<%s>: %w", p.Tag, err)
		}
		b.WriteString(s)
	}
	b.WriteString("</" + p.Tag + ">")
	return b.String(), nil
}

// Serialize renders any node to markup
func Serialize(n Node) (string, error) {
	return n.HTML()
}
