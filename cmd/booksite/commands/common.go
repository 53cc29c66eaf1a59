package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/booksite/internal/config"
	"git.home.luguber.info/inful/booksite/internal/logfields"
	"git.home.luguber.info/inful/booksite/internal/metrics"
	"git.home.luguber.info/inful/booksite/internal/site"
)

// Global carries state shared by every subcommand.
type Global struct {
	Out io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"booksite.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Init      InitCmd      `cmd:"" help:"Write a default configuration file"`
	List      ListCmd      `cmd:"" help:"List the configuration snapshots"`
	Emit      EmitCmd      `cmd:"" help:"Write the site generator's config entry point"`
	Validate  ValidateCmd  `cmd:"" help:"Check a configuration snapshot (and optionally its content)"`
	Manifest  ManifestCmd  `cmd:"" help:"Write the page manifest for a snapshot"`
	Review    ReviewCmd    `cmd:"" help:"Editorial review of chapters with a chat model"`
	Watch     WatchCmd     `cmd:"" help:"Re-check and re-emit whenever content changes"`
	CheckDist CheckDistCmd `cmd:"" name:"check-dist" help:"Check built HTML for references outside the base path"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.Config)
}

// snapshotName picks the flag, then the configured snapshot, then the latest.
func snapshotName(flag string, cfg *config.Config) string {
	switch {
	case flag != "":
		return flag
	case cfg != nil && cfg.Site.Snapshot != "":
		return cfg.Site.Snapshot
	default:
		return site.Latest()
	}
}

// newRecorder returns a Prometheus recorder when a textfile is configured.
func newRecorder(cfg *config.Config) (*metrics.PrometheusRecorder, metrics.Recorder) {
	if cfg.Metrics.Textfile == "" {
		return nil, metrics.NoopRecorder{}
	}
	pr := metrics.NewPrometheusRecorder(nil)
	return pr, pr
}

func flushMetrics(pr *metrics.PrometheusRecorder, cfg *config.Config) {
	if pr == nil {
		return
	}
	if err := pr.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		slog.Warn("Could not write metrics textfile", logfields.Path(cfg.Metrics.Textfile), logfields.Error(err))
	}
}
