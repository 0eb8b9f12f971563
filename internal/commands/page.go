package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/gerunddev/sitegen/internal/diff"
	"github.com/gerunddev/sitegen/internal/site"
	"github.com/gerunddev/sitegen/internal/styles"
)

// Diff shows what the next build would change in a page's output
func Diff(args []string) {
	opts, err := parseArgs(args)
	exitOnError(err)
	exitOnError(runDiff(opts, os.Stdout, isTerminal(os.Stdout)))
}

func runDiff(opts *options, out io.Writer, interactive bool) error {
	source, err := opts.page()
	if err != nil {
		return err
	}
	cfg, _, err := loadConfig(opts)
	if err != nil {
		return err
	}

	unified, err := diff.Page(cfg, source)
	if err != nil {
		return err
	}

	if unified == "" {
		fmt.Fprintln(out, styles.DimStyle.Render("No changes"))
		return nil
	}
	if interactive {
		fmt.Fprint(out, diff.Render(unified))
	} else {
		fmt.Fprint(out, unified)
	}
	return nil
}

// Preview renders a Markdown page for the terminal
func Preview(args []string) {
	opts, err := parseArgs(args)
	exitOnError(err)
	exitOnError(runPreview(opts, os.Stdout))
}

func runPreview(opts *options, out io.Writer) error {
	source, err := opts.page()
	if err != nil {
		return err
	}
	md, err := os.ReadFile(source)
	if err != nil {
		return fmt.Errorf("failed to read page: %w", err)
	}

	fmt.Fprint(out, diff.Markdown(string(md)))
	return nil
}

// Title prints the title a page would be generated with
func Title(args []string) {
	opts, err := parseArgs(args)
	exitOnError(err)
	exitOnError(runTitle(opts, os.Stdout))
}

func runTitle(opts *options, out io.Writer) error {
	source, err := opts.page()
	if err != nil {
		return err
	}
	md, err := os.ReadFile(source)
	if err != nil {
		return fmt.Errorf("failed to read page: %w", err)
	}

	title, err := site.PageTitle(string(md))
	if err != nil {
		return fmt.Errorf("%s: %w", source, err)
	}
	fmt.Fprintln(out, title)
	return nil
}
