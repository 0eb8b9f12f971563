package markdown

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedDelimiter is returned when an inline delimiter has no partner
	ErrMalformedDelimiter = errors.New("malformed delimiter")

	// ErrUnknownTextKind is returned for a span kind outside the known set
	ErrUnknownTextKind = errors.New("unknown text kind")

	// ErrEmptyChildren is returned when a parent node has nothing to render
	ErrEmptyChildren = errors.New("parent node has no children")

	// ErrMissingTag is returned when a parent node has no tag
	ErrMissingTag = errors.New("parent node has no tag")

	// ErrMissingValue is returned when a leaf node has no value
	ErrMissingValue = errors.New("leaf node has no value")

	// ErrNoTitle is returned when a document has no "# " heading line
	ErrNoTitle = errors.New("no title heading found")
)

// DelimiterError reports an unmatched inline delimiter
type DelimiterError struct {
	Delimiter string
	Text      string
}

func (e *DelimiterError) Error() string {
	return fmt.Sprintf("%s: unmatched %q in %q", ErrMalformedDelimiter, e.Delimiter, e.Text)
}

func (e *DelimiterError) Unwrap() error {
	return ErrMalformedDelimiter
}
