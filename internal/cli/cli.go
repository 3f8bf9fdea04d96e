package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/voronoi/internal/config"
	"github.com/matzehuels/voronoi/pkg/buildinfo"
	"github.com/matzehuels/voronoi/pkg/cache"
	"github.com/matzehuels/voronoi/pkg/pipeline"
)

const appName = "voronoi"

// cachePingTimeout bounds the reachability check of a networked cache.
const cachePingTimeout = 3 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds state shared by all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root command with every subcommand registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Voronoi renders colorful Voronoi diagrams",
		Long: `Voronoi renders images partitioned into cells around randomly placed sites,
each cell colored from three blended color cycles. Run it as a web form with
"serve", render straight to a file with "render", or explore in the terminal
with "preview".`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// --verbose pins debug level; loadConfig leaves it alone.
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (.toml, .yaml or .yml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads --config, or returns the defaults when it is unset.
// The configured log level applies unless --verbose was given.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if c.configPath != "" {
		loaded, err := config.Load(c.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		c.Logger.Debug("loaded config", "path", c.configPath)
	}
	for _, w := range cfg.Warnings {
		c.Logger.Warn("config", "path", c.configPath, "warning", w)
	}
	if !c.verbose {
		c.SetLogLevel(cfg.LogLevel())
	}
	return cfg, nil
}

// newRunner creates a pipeline runner for cfg. noCache disables caching
// entirely; otherwise the CLI falls back to the file cache when the config
// leaves the backend unset.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache, cliDefaults bool) (*pipeline.Runner, error) {
	store, err := c.openCache(ctx, cfg, noCache, cliDefaults)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, cfg.Cache.Keyer(), c.Logger), nil
}

// openCache opens the configured backend. Networked backends are pinged
// first; an unreachable one is logged and replaced by the null cache.
func (c *CLI) openCache(ctx context.Context, cfg *config.Config, noCache, cliDefaults bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cc := cfg.Cache
	if cliDefaults && (cc.Backend == "" || cc.Backend == config.CacheNone) {
		cc.Backend = config.CacheFile
	}
	store, err := cc.Open()
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without", "err", err)
		return cache.NewNullCache(), nil
	}
	if p, ok := store.(pinger); ok {
		pingCtx, cancel := context.WithTimeout(ctx, cachePingTimeout)
		defer cancel()
		if err := p.Ping(pingCtx); err != nil {
			_ = store.Close()
			c.Logger.Warn("cache unreachable, continuing without", "backend", cc.Backend, "err", err)
			return cache.NewNullCache(), nil
		}
	}
	return store, nil
}

// cacheDir is the file cache directory for cfg.
func cacheDir(cfg *config.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return cache.DefaultDir()
}
