package site

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gerunddev/sitegen/internal/config"
	"github.com/gerunddev/sitegen/internal/logger"
	"github.com/gerunddev/sitegen/internal/markdown"
	"github.com/gerunddev/sitegen/internal/state"
)

const testTemplate = `<html><head><title>{{ Title }}</title><link href="/index.css" rel="stylesheet"></head><body>{{ Content }}</body></html>`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

// newTestSite lays out a site under a temp dir and returns its config
func newTestSite(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()

	cfg := &config.Config{
		ContentDir: filepath.Join(root, "content"),
		StaticDir:  filepath.Join(root, "static"),
		PublicDir:  filepath.Join(root, "public"),
		Template:   filepath.Join(root, "template.html"),
		BasePath:   "/",
		LogLevel:   "info",
		StateFile:  filepath.Join(root, "state.json"),
		Interval:   time.Second,
		Workers:    1,
	}

	writeFile(t, cfg.Template, testTemplate)
	writeFile(t, filepath.Join(cfg.StaticDir, "index.css"), "body { margin: 0; }")
	writeFile(t, filepath.Join(cfg.StaticDir, "images", "logo.png"), "png")
	writeFile(t, filepath.Join(cfg.ContentDir, "index.md"), "# Home\n\nWelcome **home**.")
	writeFile(t, filepath.Join(cfg.ContentDir, "blog", "first.md"), "# First Post\n\n- one\n- two")
	return cfg
}

func TestRenderPage(t *testing.T) {
	page, err := RenderPage("# Hello\n\nSee [about](/about).", testTemplate, "/")
	if err != nil {
		t.Fatalf("RenderPage error: %v", err)
	}

	want := `<html><head><title>Hello</title><link href="/index.css" rel="stylesheet"></head>` +
		`<body><div><h1>Hello</h1><p>See <a href="/about">about</a>.</p></div></body></html>`
	if page != want {
		t.Errorf("RenderPage mismatch\n got: %s\nwant: %s", page, want)
	}
}

func TestRenderPageErrors(t *testing.T) {
	if _, err := RenderPage("no title here", testTemplate, "/"); !errors.Is(err, markdown.ErrNoTitle) {
		t.Errorf("RenderPage error = %v, want ErrNoTitle", err)
	}
	if _, err := RenderPage("# T\n\nbroken **bold", testTemplate, "/"); !errors.Is(err, markdown.ErrMalformedDelimiter) {
		t.Errorf("RenderPage error = %v, want ErrMalformedDelimiter", err)
	}
}

func TestRewriteBasePath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		base     string
		expected string
	}{
		{
			name:     "root base is a no-op",
			input:    `<a href="/x">`,
			base:     "/",
			expected: `<a href="/x">`,
		},
		{
			name:     "href and src",
			input:    `<a href="/blog"><img src="/images/a.png"/></a>`,
			base:     "/site/",
			expected: `<a href="/site/blog"><img src="/site/images/a.png"/></a>`,
		},
		{
			name:     "absolute urls untouched",
			input:    `<a href="https://example.com/">`,
			base:     "/site/",
			expected: `<a href="https://example.com/">`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RewriteBasePath(tt.input, tt.base); got != tt.expected {
				t.Errorf("RewriteBasePath(%q, %q) = %q, want %q", tt.input, tt.base, got, tt.expected)
			}
		})
	}
}

func TestGeneratePage(t *testing.T) {
	tmpDir := t.TempDir()
	from := filepath.Join(tmpDir, "page.md")
	tmpl := filepath.Join(tmpDir, "template.html")
	dest := filepath.Join(tmpDir, "out", "nested", "page.html")

	writeFile(t, from, "# Page\n\n![logo](/logo.png)")
	writeFile(t, tmpl, testTemplate)

	if err := GeneratePage(from, tmpl, dest, "/docs/"); err != nil {
		t.Fatalf("GeneratePage error: %v", err)
	}

	got := readFile(t, dest)
	for _, want := range []string{
		"<title>Page</title>",
		`<img src="/docs/logo.png" alt="logo"/>`,
		`<link href="/docs/index.css"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("generated page missing %q:\n%s", want, got)
		}
	}
}

func TestOutputPath(t *testing.T) {
	got, err := OutputPath("/site/content", "/site/public", "/site/content/blog/post.md")
	if err != nil {
		t.Fatalf("OutputPath error: %v", err)
	}
	if want := filepath.Join("/site/public", "blog", "post.html"); got != want {
		t.Errorf("OutputPath = %q, want %q", got, want)
	}
}

func TestCopyStatic(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "static")
	dst := filepath.Join(tmpDir, "public")

	writeFile(t, filepath.Join(src, "a.txt"), "a")
	writeFile(t, filepath.Join(src, "sub", "b.txt"), "b")
	writeFile(t, filepath.Join(dst, "stale.txt"), "old")

	files, err := CopyStatic(src, dst)
	if err != nil {
		t.Fatalf("CopyStatic error: %v", err)
	}
	if files != 2 {
		t.Errorf("CopyStatic copied %d files, want 2", files)
	}
	if got := readFile(t, filepath.Join(dst, "sub", "b.txt")); got != "b" {
		t.Errorf("sub/b.txt = %q, want b", got)
	}
	if _, err := os.Stat(filepath.Join(dst, "stale.txt")); !os.IsNotExist(err) {
		t.Error("CopyStatic should remove stale files from dst")
	}
}

func TestFindPages(t *testing.T) {
	cfg := newTestSite(t)
	writeFile(t, filepath.Join(cfg.ContentDir, "notes.txt"), "not markdown")

	pages, err := FindPages(cfg.ContentDir)
	if err != nil {
		t.Fatalf("FindPages error: %v", err)
	}
	want := []string{
		filepath.Join(cfg.ContentDir, "blog", "first.md"),
		filepath.Join(cfg.ContentDir, "index.md"),
	}
	if len(pages) != len(want) {
		t.Fatalf("FindPages = %v, want %v", pages, want)
	}
	for i := range want {
		if pages[i] != want[i] {
			t.Errorf("pages[%d] = %q, want %q", i, pages[i], want[i])
		}
	}
}

func TestBuild(t *testing.T) {
	cfg := newTestSite(t)
	st := state.NewState()

	var logs bytes.Buffer
	builder := NewBuilder(cfg, st)
	builder.SetLogger(logger.New(&logs))

	result, err := builder.Build(context.Background())
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if result.Failed() {
		t.Fatalf("Build reported errors: %v", result.Errors)
	}
	if len(result.Generated) != 2 {
		t.Errorf("Generated %d pages, want 2", len(result.Generated))
	}
	if result.StaticFiles != 2 {
		t.Errorf("Copied %d static files, want 2", result.StaticFiles)
	}

	index := readFile(t, filepath.Join(cfg.PublicDir, "index.html"))
	if !strings.Contains(index, "<title>Home</title>") || !strings.Contains(index, "<b>home</b>") {
		t.Errorf("index.html has unexpected content:\n%s", index)
	}
	post := readFile(t, filepath.Join(cfg.PublicDir, "blog", "first.html"))
	if !strings.Contains(post, "<ul><li>one</li><li>two</li></ul>") {
		t.Errorf("blog/first.html has unexpected content:\n%s", post)
	}
	if _, err := os.Stat(filepath.Join(cfg.PublicDir, "images", "logo.png")); err != nil {
		t.Errorf("static file not copied: %v", err)
	}
	if !strings.Contains(logs.String(), "build_id="+result.BuildID) {
		t.Errorf("logs missing build id %s:\n%s", result.BuildID, logs.String())
	}
}

func TestBuildContinuesPastBadPage(t *testing.T) {
	cfg := newTestSite(t)
	writeFile(t, filepath.Join(cfg.ContentDir, "broken.md"), "# Broken\n\nan `unterminated span")
	writeFile(t, filepath.Join(cfg.ContentDir, "untitled.md"), "no heading")

	result, err := NewBuilder(cfg, state.NewState()).Build(context.Background())
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if len(result.Generated) != 2 {
		t.Errorf("Generated %d pages, want 2", len(result.Generated))
	}
	if len(result.Errors) != 2 {
		t.Fatalf("Got %d page errors, want 2: %v", len(result.Errors), result.Errors)
	}
	if !errors.Is(result.Errors[0], markdown.ErrMalformedDelimiter) {
		t.Errorf("broken.md error = %v, want ErrMalformedDelimiter", result.Errors[0])
	}
	if !errors.Is(result.Errors[1], markdown.ErrNoTitle) {
		t.Errorf("untitled.md error = %v, want ErrNoTitle", result.Errors[1])
	}
	if _, err := os.Stat(filepath.Join(cfg.PublicDir, "broken.html")); !os.IsNotExist(err) {
		t.Error("broken page should not be written")
	}
}

func TestBuildIncremental(t *testing.T) {
	cfg := newTestSite(t)
	st := state.NewState()

	if _, err := NewBuilder(cfg, st).Build(context.Background()); err != nil {
		t.Fatalf("first Build error: %v", err)
	}

	result, err := NewBuilder(cfg, st).Build(context.Background())
	if err != nil {
		t.Fatalf("second Build error: %v", err)
	}
	if len(result.Generated) != 0 || len(result.Skipped) != 2 {
		t.Errorf("second build generated %d, skipped %d; want 0 and 2", len(result.Generated), len(result.Skipped))
	}

	// A content change rebuilds only that page
	index := filepath.Join(cfg.ContentDir, "index.md")
	writeFile(t, index, "# Home\n\nChanged.")
	later := time.Now().Add(5 * time.Second)
	if err := os.Chtimes(index, later, later); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}
	result, err = NewBuilder(cfg, st).Build(context.Background())
	if err != nil {
		t.Fatalf("third Build error: %v", err)
	}
	if len(result.Generated) != 1 || len(result.Skipped) != 1 {
		t.Errorf("third build generated %d, skipped %d; want 1 and 1", len(result.Generated), len(result.Skipped))
	}

	// A template change rebuilds everything
	writeFile(t, cfg.Template, "<main>{{ Content }}</main>")
	result, err = NewBuilder(cfg, st).Build(context.Background())
	if err != nil {
		t.Fatalf("fourth Build error: %v", err)
	}
	if len(result.Generated) != 2 {
		t.Errorf("template change generated %d pages, want 2", len(result.Generated))
	}
}

func TestBuildForce(t *testing.T) {
	cfg := newTestSite(t)
	st := state.NewState()

	if _, err := NewBuilder(cfg, st).Build(context.Background()); err != nil {
		t.Fatalf("first Build error: %v", err)
	}

	builder := NewBuilder(cfg, st)
	builder.Force = true
	result, err := builder.Build(context.Background())
	if err != nil {
		t.Fatalf("forced Build error: %v", err)
	}
	if len(result.Generated) != 2 || len(result.Skipped) != 0 {
		t.Errorf("forced build generated %d, skipped %d; want 2 and 0", len(result.Generated), len(result.Skipped))
	}
}

func TestBuildDryRun(t *testing.T) {
	cfg := newTestSite(t)
	st := state.NewState()

	builder := NewBuilder(cfg, st)
	builder.DryRun = true
	result, err := builder.Build(context.Background())
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if len(result.Generated) != 2 {
		t.Errorf("dry run reported %d pages, want 2", len(result.Generated))
	}
	if _, err := os.Stat(cfg.PublicDir); !os.IsNotExist(err) {
		t.Error("dry run should not create the public dir")
	}
	if len(st.Files) != 0 {
		t.Error("dry run should not record pages in state")
	}
}

func TestBuildExcludePatterns(t *testing.T) {
	cfg := newTestSite(t)
	writeFile(t, filepath.Join(cfg.ContentDir, "drafts", "wip.md"), "# WIP")
	writeFile(t, filepath.Join(cfg.ContentDir, "blog", "_hidden.md"), "# Hidden")
	cfg.ExcludePatterns = []string{"drafts/*", "_*.md"}

	result, err := NewBuilder(cfg, state.NewState()).Build(context.Background())
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if len(result.Generated) != 2 {
		t.Errorf("Generated %v, want index and first only", result.Generated)
	}
	for _, excluded := range []string{"drafts/wip.html", "blog/_hidden.html"} {
		if _, err := os.Stat(filepath.Join(cfg.PublicDir, excluded)); !os.IsNotExist(err) {
			t.Errorf("%s should not be generated", excluded)
		}
	}
}

func TestBuildWorkers(t *testing.T) {
	cfg := newTestSite(t)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		writeFile(t, filepath.Join(cfg.ContentDir, "many", name+".md"), "# "+name)
	}
	cfg.Workers = 3

	result, err := NewBuilder(cfg, state.NewState()).Build(context.Background())
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if len(result.Generated) != 7 {
		t.Fatalf("Generated %d pages, want 7", len(result.Generated))
	}
	for i := 1; i < len(result.Generated); i++ {
		if result.Generated[i-1] > result.Generated[i] {
			t.Errorf("Generated is not sorted: %v", result.Generated)
			break
		}
	}
}

func TestBuildCanceled(t *testing.T) {
	cfg := newTestSite(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewBuilder(cfg, state.NewState()).Build(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Build error = %v, want context.Canceled", err)
	}
}

func TestBuildMissingTemplate(t *testing.T) {
	cfg := newTestSite(t)
	cfg.Template = filepath.Join(t.TempDir(), "missing.html")

	if _, err := NewBuilder(cfg, state.NewState()).Build(context.Background()); err == nil {
		t.Error("Build should fail without a template")
	}
}

func TestStatus(t *testing.T) {
	cfg := newTestSite(t)
	writeFile(t, filepath.Join(cfg.ContentDir, "drafts", "wip.md"), "# WIP")
	cfg.ExcludePatterns = []string{"drafts/*"}
	st := state.NewState()

	statesOf := func(statuses []PageStatus) map[string]PageState {
		got := make(map[string]PageState)
		for _, s := range statuses {
			rel, _ := filepath.Rel(cfg.ContentDir, s.Source)
			got[filepath.ToSlash(rel)] = s.State
		}
		return got
	}

	statuses, err := NewBuilder(cfg, st).Status()
	if err != nil {
		t.Fatalf("Status error: %v", err)
	}
	want := map[string]PageState{
		"blog/first.md": PageNew,
		"drafts/wip.md": PageExcluded,
		"index.md":      PageNew,
	}
	got := statesOf(statuses)
	for page, wantState := range want {
		if got[page] != wantState {
			t.Errorf("before build %s = %v, want %v", page, got[page], wantState)
		}
	}
	if len(st.Files) != 0 || st.TemplateHash != "" {
		t.Error("Status should not modify the manifest")
	}

	if _, err := NewBuilder(cfg, st).Build(context.Background()); err != nil {
		t.Fatalf("Build error: %v", err)
	}
	index := filepath.Join(cfg.ContentDir, "index.md")
	writeFile(t, index, "# Home\n\nEdited.")
	later := time.Now().Add(5 * time.Second)
	if err := os.Chtimes(index, later, later); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	statuses, err = NewBuilder(cfg, st).Status()
	if err != nil {
		t.Fatalf("Status error: %v", err)
	}
	got = statesOf(statuses)
	if got["index.md"] != PageChanged {
		t.Errorf("edited index.md = %v, want changed", got["index.md"])
	}
	if got["blog/first.md"] != PageUnchanged {
		t.Errorf("blog/first.md = %v, want unchanged", got["blog/first.md"])
	}
	if statuses[0].Output != filepath.Join(cfg.PublicDir, "blog", "first.html") {
		t.Errorf("statuses[0].Output = %q", statuses[0].Output)
	}
}

func TestParseFrontMatter(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		wantTitle string
		wantDraft bool
		wantBody  string
	}{
		{
			name:     "no front matter",
			source:   "# Plain\n\ntext",
			wantBody: "# Plain\n\ntext",
		},
		{
			name:      "title and draft",
			source:    "---\ntitle: Custom\ndraft: true\n---\n# Heading",
			wantTitle: "Custom",
			wantDraft: true,
			wantBody:  "# Heading",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, body, err := ParseFrontMatter([]byte(tt.source))
			if err != nil {
				t.Fatalf("ParseFrontMatter error: %v", err)
			}
			if meta.Title != tt.wantTitle || meta.Draft != tt.wantDraft {
				t.Errorf("meta = %+v, want title %q draft %v", meta, tt.wantTitle, tt.wantDraft)
			}
			if got := strings.TrimSpace(string(body)); got != tt.wantBody {
				t.Errorf("body = %q, want %q", got, tt.wantBody)
			}
		})
	}
}

func TestRenderPageFrontMatter(t *testing.T) {
	page, err := RenderPage("---\ntitle: From Meta\n---\n# Heading\n\ntext", "{{ Title }}|{{ Content }}", "/")
	if err != nil {
		t.Fatalf("RenderPage error: %v", err)
	}
	if want := "From Meta|<div><h1>Heading</h1><p>text</p></div>"; page != want {
		t.Errorf("RenderPage = %q, want %q", page, want)
	}

	// Front matter title makes the heading optional
	if _, err := RenderPage("---\ntitle: Only Meta\n---\nno heading", "{{ Title }}", "/"); err != nil {
		t.Errorf("RenderPage with a front matter title should not need a heading: %v", err)
	}
}

func TestBuildSkipsDrafts(t *testing.T) {
	cfg := newTestSite(t)
	writeFile(t, filepath.Join(cfg.ContentDir, "draft.md"), "---\ndraft: true\n---\n# Draft")

	result, err := NewBuilder(cfg, state.NewState()).Build(context.Background())
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if result.Failed() {
		t.Errorf("drafts should not count as errors: %v", result.Errors)
	}
	if len(result.Generated) != 2 || len(result.Skipped) != 0 || len(result.Drafts) != 1 {
		t.Errorf("generated %d, skipped %d, drafts %d; want 2, 0 and 1",
			len(result.Generated), len(result.Skipped), len(result.Drafts))
	}
	if !strings.Contains(result.String(), "1 drafts") {
		t.Errorf("String() = %q, want draft count", result.String())
	}
	if _, err := os.Stat(filepath.Join(cfg.PublicDir, "draft.html")); !os.IsNotExist(err) {
		t.Error("draft page should not be written")
	}
}

func TestPageTitle(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{name: "heading", source: "# Heading\n\nbody", want: "Heading"},
		{name: "front matter", source: "---\ntitle: From Meta\n---\nbody", want: "From Meta"},
		{name: "front matter over heading", source: "---\ntitle: From Meta\n---\n# Heading", want: "From Meta"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PageTitle(tt.source)
			if err != nil {
				t.Fatalf("PageTitle(%q) error: %v", tt.source, err)
			}
			if got != tt.want {
				t.Errorf("PageTitle(%q) = %q, want %q", tt.source, got, tt.want)
			}

			page, err := RenderPage(tt.source, "{{ Title }}", "/")
			if err != nil {
				t.Fatalf("RenderPage(%q) error: %v", tt.source, err)
			}
			if page != got {
				t.Errorf("RenderPage title = %q, PageTitle = %q", page, got)
			}
		})
	}

	if _, err := PageTitle("no heading"); !errors.Is(err, markdown.ErrNoTitle) {
		t.Errorf("PageTitle error = %v, want ErrNoTitle", err)
	}
}

func TestStatusDrafts(t *testing.T) {
	cfg := newTestSite(t)
	writeFile(t, filepath.Join(cfg.ContentDir, "draft.md"), "---\ndraft: true\n---\n# Draft")
	st := state.NewState()

	for _, stage := range []string{"before build", "after build"} {
		statuses, err := NewBuilder(cfg, st).Status()
		if err != nil {
			t.Fatalf("%s: Status error: %v", stage, err)
		}
		for _, s := range statuses {
			if filepath.Base(s.Source) == "draft.md" && s.State != PageDraft {
				t.Errorf("%s: draft.md = %v, want draft", stage, s.State)
			}
		}

		if _, err := NewBuilder(cfg, st).Build(context.Background()); err != nil {
			t.Fatalf("Build error: %v", err)
		}
	}
}
