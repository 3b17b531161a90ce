// cmd/liuyao/main.go
//
// Entry point for the liuyao CLI. With no subcommand it opens the chart
// editor; `serve` runs the JSON API, `chart` and `tcm` print one-off
// readings, and `init` writes .liuyao/config.yaml.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kingrea/liuyao/internal/advisor"
	"github.com/kingrea/liuyao/internal/config"
	"github.com/kingrea/liuyao/internal/logbook"
	"github.com/kingrea/liuyao/internal/logging"
)

type globalFlags struct {
	debug bool
	dir   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	tui := tuiCmd(flags)

	cmd := &cobra.Command{
		Use:          "liuyao",
		Short:        "Six-yao charts, five-element readings and advisor consultations",
		SilenceUsage: true,
		RunE:         tui.RunE,
	}
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable verbose logging to .liuyao/logs/liuyao.log")
	cmd.PersistentFlags().StringVar(&flags.dir, "dir", "", "project directory holding .liuyao (default: working directory)")

	cmd.AddCommand(tui, serveCmd(flags), chartCmd(flags), tcmCmd(flags), initCmd(flags))
	return cmd
}

// runtime bundles what every command needs after config is loaded.
type runtime struct {
	cfg     *config.Config
	log     *logging.Logger
	journal *logbook.Logbook
}

func (f *globalFlags) projectDir() (string, error) {
	dir := f.dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
		dir = wd
	}
	return filepath.Abs(dir)
}

// open loads config and opens the log file and journal. The caller must
// call close.
func (f *globalFlags) open() (*runtime, error) {
	dir, err := f.projectDir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.NewConfig(dir)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(dir, f.debug || cfg.Project.Logging.Debug)
	if err != nil {
		return nil, err
	}
	journal, err := logbook.Open(cfg.LogsDir())
	if err != nil {
		_ = log.Close()
		return nil, err
	}
	log.Zap().Debug("runtime opened",
		zap.String("project", dir),
		zap.String("backend", cfg.Project.Advisor.Backend),
		zap.String("model", cfg.Project.Advisor.Model),
	)
	return &runtime{cfg: cfg, log: log, journal: journal}, nil
}

func (r *runtime) advisor(ctx context.Context) *advisor.Advisor {
	return advisor.FromConfig(ctx, r.cfg, r.log)
}

func (r *runtime) close() {
	_ = r.log.Close()
}
