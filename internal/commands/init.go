package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gerunddev/sitegen/internal/config"
	"github.com/gerunddev/sitegen/internal/styles"
)

const starterTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{ Title }}</title>
  <link href="/index.css" rel="stylesheet">
</head>
<body>
  <article>{{ Content }}</article>
</body>
</html>
`

const starterPage = `# Hello

Edit **content/index.md** and run ` + "`sitegen build`" + `.
`

// Init writes a default config file and a starter site in the working directory
func Init(args []string) {
	opts, err := parseArgs(args)
	exitOnError(err)
	exitOnError(runInit(opts, ".", os.Stdout))
}

// runInit scaffolds the site under root. Existing files are left alone.
func runInit(opts *options, root string, out io.Writer) error {
	path := opts.configPath
	if path == "" {
		path = filepath.Join(root, config.LocalConfigFile)
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(path); err != nil {
		return err
	}
	fmt.Fprintln(out, styles.SuccessStyle.Render("✓ Wrote "+path))

	starters := []struct {
		path    string
		content string
	}{
		{filepath.Join(root, cfg.Template), starterTemplate},
		{filepath.Join(root, cfg.ContentDir, "index.md"), starterPage},
		{filepath.Join(root, cfg.StaticDir, "index.css"), "body { max-width: 40em; margin: 0 auto; }\n"},
	}
	for _, s := range starters {
		created, err := writeIfMissing(s.path, s.content)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintln(out, styles.SuccessStyle.Render("✓ Wrote "+s.path))
		} else {
			fmt.Fprintln(out, styles.DimStyle.Render("  Kept existing "+s.path))
		}
	}
	return nil
}

func writeIfMissing(path, content string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}
