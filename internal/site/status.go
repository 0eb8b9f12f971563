package site

import (
	"fmt"

	"github.com/gerunddev/sitegen/internal/state"
)

// PageState is what the next build would do with a page
type PageState int

const (
	PageUnchanged PageState = iota
	PageChanged
	PageNew
	PageExcluded
	PageDraft
)

func (s PageState) String() string {
	switch s {
	case PageUnchanged:
		return "unchanged"
	case PageChanged:
		return "changed"
	case PageNew:
		return "new"
	case PageExcluded:
		return "excluded"
	case PageDraft:
		return "draft"
	default:
		return fmt.Sprintf("PageState(%d)", int(s))
	}
}

// PageStatus pairs a content file with its output and pending state
type PageStatus struct {
	Source string
	Output string
	State  PageState
}

// Status reports what a build would do with every page without building or
// touching the manifest
func (b *Builder) Status() ([]PageStatus, error) {
	cfg := b.config

	templateHash, err := state.ComputeHash(cfg.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to hash template: %w", err)
	}
	full := b.Force || templateHash != b.state.Template()

	pages, err := FindPages(cfg.ContentDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan content: %w", err)
	}

	statuses := make([]PageStatus, 0, len(pages))
	for _, source := range pages {
		dest, err := OutputPath(cfg.ContentDir, cfg.PublicDir, source)
		if err != nil {
			return nil, err
		}
		status := PageStatus{Source: source, Output: dest}

		draft, err := IsDraft(source)
		if err != nil {
			return nil, fmt.Errorf("failed to check %s: %w", source, err)
		}

		switch {
		case b.isExcluded(source):
			status.State = PageExcluded
		case draft:
			status.State = PageDraft
		case b.state.GetMTime(source).IsZero():
			status.State = PageNew
		case full:
			status.State = PageChanged
		default:
			changed, err := b.state.HasChanged(source)
			if err != nil {
				return nil, fmt.Errorf("failed to check %s: %w", source, err)
			}
			if changed {
				status.State = PageChanged
			}
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func (b *Builder) isExcluded(source string) bool {
	_, ok := b.excluded(source)
	return ok
}
