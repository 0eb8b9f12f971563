package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/sitegen/internal/site"
	"github.com/gerunddev/sitegen/internal/state"
	"github.com/gerunddev/sitegen/internal/styles"
	"github.com/gerunddev/sitegen/internal/tui"
)

// Build performs a one-shot build of the site
func Build(args []string) {
	opts, err := parseArgs(args)
	exitOnError(err)

	result, err := runBuild(context.Background(), opts, os.Stdout, isTerminal(os.Stdout))
	exitOnError(err)
	if result.Failed() {
		os.Exit(1)
	}
}

func runBuild(ctx context.Context, opts *options, out io.Writer, interactive bool) (*site.BuildResult, error) {
	cfg, path, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	log, cleanup, err := newLogger(cfg, interactive)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	log.ConfigLoaded(path, cfg.ContentDir, cfg.PublicDir, cfg.BasePath)

	st, err := state.Load(cfg.StateFile)
	if err != nil {
		return nil, fmt.Errorf("error loading state: %w", err)
	}

	builder := site.NewBuilder(cfg, st)
	builder.DryRun = opts.dryRun
	builder.Force = opts.force
	builder.SetLogger(log)

	title := "sitegen build"
	if opts.dryRun {
		title += " (dry run)"
	}
	fmt.Fprintln(out, styles.TitleStyle.Render(title))
	fmt.Fprintf(out, "%s → %s\n", styles.DimStyle.Render(cfg.ContentDir), styles.DimStyle.Render(cfg.PublicDir))

	var result *site.BuildResult
	if interactive {
		result, err = buildWithSpinner(ctx, builder)
	} else {
		result, err = builder.Build(ctx)
		if err == nil {
			fmt.Fprint(out, tui.Summary(result))
		}
	}
	if err != nil {
		return nil, err
	}

	if !opts.dryRun {
		if err := st.Save(cfg.StateFile); err != nil {
			log.StateError("save", err)
			return nil, fmt.Errorf("error saving state: %w", err)
		}
	}
	return result, nil
}

// buildWithSpinner runs the build behind the bubbletea progress model.
// Quitting the program cancels the build.
func buildWithSpinner(ctx context.Context, builder *site.Builder) (*site.BuildResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(tui.InitBuildModel("Building site..."), tea.WithInput(os.Stdin))

	var (
		result   *site.BuildResult
		buildErr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		result, buildErr = builder.Build(ctx)
		p.Send(tui.BuildMsg{Result: result, Err: buildErr})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return nil, fmt.Errorf("error running progress display: %w", err)
	}

	cancel()
	<-done
	return result, buildErr
}
