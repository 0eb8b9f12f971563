package commands

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/sitegen/internal/site"
	"github.com/gerunddev/sitegen/internal/state"
	"github.com/gerunddev/sitegen/internal/tui"
)

// Status lists every page and what the next build would do with it
func Status(args []string) {
	opts, err := parseArgs(args)
	exitOnError(err)

	if !isTerminal(os.Stdout) {
		exitOnError(runStatus(opts, os.Stdout))
		return
	}

	data, err := loadStatus(opts)
	exitOnError(err)

	p := tea.NewProgram(tui.InitStatusModel(data), tea.WithInput(os.Stdin))
	if _, err := p.Run(); err != nil {
		exitOnError(fmt.Errorf("error running status display: %w", err))
	}
}

func loadStatus(opts *options) (*tui.StatusData, error) {
	cfg, _, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	st, err := state.Load(cfg.StateFile)
	if err != nil {
		return nil, fmt.Errorf("error loading state: %w", err)
	}

	builder := site.NewBuilder(cfg, st)
	builder.Force = opts.force
	pages, err := builder.Status()
	if err != nil {
		return nil, err
	}

	return &tui.StatusData{
		ContentDir: cfg.ContentDir,
		PublicDir:  cfg.PublicDir,
		Pages:      pages,
	}, nil
}

func runStatus(opts *options, out io.Writer) error {
	data, err := loadStatus(opts)
	if err != nil {
		return err
	}
	fmt.Fprint(out, tui.StatusLines(data))
	return nil
}
