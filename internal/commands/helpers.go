package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/gerunddev/sitegen/internal/config"
	"github.com/gerunddev/sitegen/internal/logger"
	"github.com/gerunddev/sitegen/internal/styles"
)

// options holds the flags shared by every subcommand
type options struct {
	configPath string
	basePath   string
	interval   time.Duration
	dryRun     bool
	force      bool
	args       []string
}

// parseArgs reads flags in any position; everything else is positional
func parseArgs(args []string) (*options, error) {
	opts := &options{}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		value := func() (string, error) {
			if i+1 >= len(args) {
				return "", fmt.Errorf("flag %s requires a value", arg)
			}
			i++
			return args[i], nil
		}

		switch arg {
		case "--dry-run":
			opts.dryRun = true
		case "--force":
			opts.force = true
		case "--config":
			v, err := value()
			if err != nil {
				return nil, err
			}
			opts.configPath = v
		case "--base-path":
			v, err := value()
			if err != nil {
				return nil, err
			}
			opts.basePath = v
		case "--interval":
			v, err := value()
			if err != nil {
				return nil, err
			}
			interval, err := time.ParseDuration(v)
			if err != nil {
				return nil, fmt.Errorf("invalid interval: %w", err)
			}
			opts.interval = interval
		default:
			if strings.HasPrefix(arg, "--") {
				return nil, fmt.Errorf("unknown flag: %s", arg)
			}
			opts.args = append(opts.args, arg)
		}
	}

	return opts, nil
}

// page returns the single positional argument naming a content file
func (o *options) page() (string, error) {
	if len(o.args) != 1 {
		return "", fmt.Errorf("expected one page argument, got %d", len(o.args))
	}
	return o.args[0], nil
}

// loadConfig resolves and loads the config file, then applies flag overrides
func loadConfig(opts *options) (*config.Config, string, error) {
	if opts.configPath != "" {
		if _, err := os.Stat(opts.configPath); err != nil {
			return nil, "", fmt.Errorf("config file: %w", err)
		}
	}

	path := config.Resolve(opts.configPath)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("error loading config: %w", err)
	}

	if opts.basePath != "" {
		cfg.BasePath = opts.basePath
	}
	if opts.interval != 0 {
		cfg.Interval = opts.interval
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	return cfg, path, nil
}

// newLogger logs to the configured file, or to stderr unless quiet
func newLogger(cfg *config.Config, quiet bool) (*logger.Logger, func(), error) {
	if cfg.LogFile != "" {
		l, cleanup, err := logger.NewFileLogger(cfg.LogFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		l.SetLevelName(cfg.LogLevel)
		return l, cleanup, nil
	}

	if quiet {
		return logger.Discard(), func() {}, nil
	}
	l := logger.New(os.Stderr)
	l.SetLevelName(cfg.LogLevel)
	return l, func() {}, nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ "+err.Error()))
		os.Exit(1)
	}
}
