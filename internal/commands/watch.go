package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gerunddev/sitegen/internal/config"
	"github.com/gerunddev/sitegen/internal/logger"
	"github.com/gerunddev/sitegen/internal/site"
	"github.com/gerunddev/sitegen/internal/state"
	"github.com/gerunddev/sitegen/internal/styles"
	"github.com/gerunddev/sitegen/internal/tui"
)

// Watch rebuilds the site every interval until interrupted
func Watch(args []string) {
	opts, err := parseArgs(args)
	exitOnError(err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	exitOnError(runWatch(ctx, opts, os.Stdout))
}

func runWatch(ctx context.Context, opts *options, out io.Writer) error {
	cfg, path, err := loadConfig(opts)
	if err != nil {
		return err
	}

	log, cleanup, err := watchLogger(cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	log.ConfigLoaded(path, cfg.ContentDir, cfg.PublicDir, cfg.BasePath)

	st, err := state.Load(cfg.StateFile)
	if err != nil {
		return fmt.Errorf("error loading state: %w", err)
	}

	builder := site.NewBuilder(cfg, st)
	builder.SetLogger(log)

	fmt.Fprintln(out, styles.TitleStyle.Render("sitegen watch"))
	fmt.Fprintln(out, styles.DimStyle.Render(fmt.Sprintf("Watching %s every %v (ctrl+c to stop)", cfg.ContentDir, cfg.Interval)))

	build := func() {
		result, err := builder.Build(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.Error("build failed", "error", err)
			}
			return
		}
		if len(result.Generated) > 0 || result.Failed() {
			fmt.Fprint(out, tui.Summary(result))
		}
		if err := st.Save(cfg.StateFile); err != nil {
			log.StateError("save", err)
		}
	}

	build()

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			build()
		case <-ctx.Done():
			log.Info("watch stopping")
			if err := st.Save(cfg.StateFile); err != nil {
				log.StateError("save", err)
			}
			return nil
		}
	}
}

// watchLogger always logs to stderr, and to the log file as well when one
// is configured
func watchLogger(cfg *config.Config) (*logger.Logger, func(), error) {
	if cfg.LogFile == "" {
		l := logger.New(os.Stderr)
		l.SetLevelName(cfg.LogLevel)
		return l, func() {}, nil
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	l := logger.NewMultiLogger(os.Stderr, f)
	l.SetLevelName(cfg.LogLevel)
	return l, func() { f.Close() }, nil
}
