package site

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gerunddev/sitegen/internal/config"
	"github.com/gerunddev/sitegen/internal/logger"
	"github.com/gerunddev/sitegen/internal/state"
)

// Builder generates the public site from the content and static trees
type Builder struct {
	config *config.Config
	state  *state.State
	log    *logger.Logger

	DryRun bool
	Force  bool
}

// NewBuilder creates a new builder instance
func NewBuilder(cfg *config.Config, st *state.State) *Builder {
	return &Builder{
		config: cfg,
		state:  st,
		log:    logger.Discard(),
	}
}

// SetLogger replaces the builder's logger
func (b *Builder) SetLogger(l *logger.Logger) {
	if l != nil {
		b.log = l
	}
}

// PageError is a single document that failed to build
type PageError struct {
	Source string
	Err    error
}

func (e PageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e PageError) Unwrap() error {
	return e.Err
}

// BuildResult represents the result of a build
type BuildResult struct {
	BuildID     string
	Generated   []string
	Skipped     []string
	Drafts      []string
	Errors      []PageError
	StaticFiles int
	StartTime   time.Time
	EndTime     time.Time
}

// Failed reports whether any page failed to build
func (r *BuildResult) Failed() bool {
	return len(r.Errors) > 0
}

// String returns a human-readable summary of the build result
func (r *BuildResult) String() string {
	duration := r.EndTime.Sub(r.StartTime)
	return fmt.Sprintf(
		"Build complete: %d pages generated, %d unchanged, %d drafts, %d errors (took %v)",
		len(r.Generated),
		len(r.Skipped),
		len(r.Drafts),
		len(r.Errors),
		duration.Round(time.Millisecond),
	)
}

// Build runs one full pass over the site. Per-page failures are collected in
// the result; the returned error is reserved for failures that stop the build.
func (b *Builder) Build(ctx context.Context) (*BuildResult, error) {
	result := &BuildResult{
		BuildID:   uuid.New().String()[:8],
		StartTime: time.Now(),
	}
	cfg := b.config
	b.log.BuildStarted(result.BuildID, cfg.ContentDir, cfg.PublicDir)

	template, err := os.ReadFile(cfg.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	templateHash, err := state.ComputeHash(cfg.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to hash template: %w", err)
	}

	full := b.Force
	if b.state.SetTemplate(templateHash) {
		full = true
	}

	if err := b.copyStatic(full, result); err != nil {
		return nil, err
	}

	pages, err := FindPages(cfg.ContentDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan content: %w", err)
	}

	var jobs []string
	for _, source := range pages {
		if pattern, ok := b.excluded(source); ok {
			b.log.PageSkipped(source, "excluded by "+pattern)
			continue
		}
		if !full {
			changed, err := b.state.HasChanged(source)
			if err != nil {
				return nil, fmt.Errorf("failed to check %s: %w", source, err)
			}
			if !changed {
				b.log.PageSkipped(source, "unchanged")
				result.Skipped = append(result.Skipped, source)
				continue
			}
		}
		jobs = append(jobs, source)
	}

	if err := b.generateAll(ctx, jobs, string(template), result); err != nil {
		return nil, err
	}

	sort.Strings(result.Generated)
	sort.Strings(result.Skipped)
	sort.Strings(result.Drafts)
	sort.Slice(result.Errors, func(i, j int) bool {
		return result.Errors[i].Source < result.Errors[j].Source
	})

	result.EndTime = time.Now()
	b.log.BuildCompleted(result.BuildID, len(result.Generated), len(result.Skipped),
		len(result.Errors), result.EndTime.Sub(result.StartTime))
	return result, nil
}

func (b *Builder) copyStatic(full bool, result *BuildResult) error {
	cfg := b.config
	if b.DryRun {
		return nil
	}

	hasStatic := cfg.StaticDir != ""
	if hasStatic {
		if _, err := os.Stat(cfg.StaticDir); errors.Is(err, fs.ErrNotExist) {
			b.log.Debug("no static dir", "path", cfg.StaticDir)
			hasStatic = false
		}
	}

	var (
		files int
		err   error
	)
	switch {
	case hasStatic && full:
		files, err = CopyStatic(cfg.StaticDir, cfg.PublicDir)
	case hasStatic:
		files, err = CopyTree(cfg.StaticDir, cfg.PublicDir)
	case full:
		if err := os.RemoveAll(cfg.PublicDir); err != nil {
			return fmt.Errorf("failed to clear public dir: %w", err)
		}
		return nil
	default:
		return nil
	}
	if err != nil {
		return err
	}

	result.StaticFiles = files
	b.log.StaticCopied(cfg.StaticDir, cfg.PublicDir, files)
	return nil
}

// generateAll renders jobs over config.Workers goroutines
func (b *Builder) generateAll(ctx context.Context, jobs []string, template string, result *BuildResult) error {
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	queue := make(chan string)
	for i := 0; i < b.config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for source := range queue {
				dest, err := b.generate(source, template)

				mu.Lock()
				switch {
				case errors.Is(err, ErrDraft):
					result.Drafts = append(result.Drafts, source)
				case err != nil:
					result.Errors = append(result.Errors, PageError{Source: source, Err: err})
				default:
					result.Generated = append(result.Generated, dest)
				}
				mu.Unlock()
			}
		}()
	}

	var err error
feed:
	for _, source := range jobs {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case queue <- source:
		}
	}
	close(queue)
	wg.Wait()
	return err
}

func (b *Builder) generate(source, template string) (string, error) {
	cfg := b.config
	dest, err := OutputPath(cfg.ContentDir, cfg.PublicDir, source)
	if err != nil {
		return "", err
	}

	if err := generatePage(source, template, dest, cfg.BasePath, b.DryRun); err != nil {
		if errors.Is(err, ErrDraft) {
			b.log.PageSkipped(source, "draft")
		} else {
			b.log.PageError(source, err)
		}
		b.state.Forget(source)
		return "", err
	}
	if b.DryRun {
		return dest, nil
	}

	if err := b.state.Update(source, dest); err != nil {
		b.log.StateError("update", err)
	}
	b.log.PageGenerated(source, dest)
	return dest, nil
}

// excluded reports the first exclude pattern matching source. Patterns
// without a separator also match the file's base name.
func (b *Builder) excluded(source string) (string, bool) {
	rel, err := filepath.Rel(b.config.ContentDir, source)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range b.config.ExcludePatterns {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return pattern, true
		}
		if !strings.Contains(pattern, "/") {
			if ok, _ := filepath.Match(pattern, filepath.Base(rel)); ok {
				return pattern, true
			}
		}
	}
	return "", false
}

// FindPages returns every .md file under dir in lexical order
func FindPages(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && filepath.Ext(path) == ".md" {
			files = append(files, path)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}
