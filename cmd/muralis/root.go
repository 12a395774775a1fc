package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aretw0/muralis"
	"github.com/aretw0/muralis/internal/config"
)

var (
	verbose    bool
	configPath string
	storePath  string
	adapter    string
	linkFlag   string
	versioned  bool
	noColor    bool

	cfg *config.Config

	// current is the board opened by the running command, closed by fatal.
	current *muralis.Session
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "muralis",
	Short: "A sticky-note board with shareable read-only links",
	Long: `Muralis keeps a board of free-form notes: create, move, resize, tag and
stack them, then share the whole board as a single self-contained link.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}

		loaded, err := loadConfig()
		if err != nil {
			fatal("Failed to load config", err)
		}
		applyFlags(cmd, loaded)
		cfg = loaded

		logger, err := newLogger(cfg.Logging, verbose)
		if err != nil {
			fatal("Invalid logging config", err)
		}
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: nearest muralis.yaml)")
	rootCmd.PersistentFlags().StringVarP(&storePath, "store", "s", "", "Store location (file or database path)")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", "", "Store adapter: fs, sqlite or memory")
	rootCmd.PersistentFlags().StringVar(&linkFlag, "link", "", "Open the board carried by a shared link (read-only)")
	rootCmd.PersistentFlags().BoolVar(&versioned, "versioned", false, "Commit every save to git (fs adapter)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured output")
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	if found, err := muralis.FindConfig(wd); err == nil {
		return config.Load(found)
	}
	return config.LoadOptional(config.DefaultPath)
}

// applyFlags lets explicit flags win over the config file.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("store") {
		c.Store.Path = storePath
	}
	if flags.Changed("adapter") {
		c.Store.Adapter = adapter
	}
	if flags.Changed("versioned") {
		c.Store.Versioned = versioned
	}
	if err := c.Validate(); err != nil {
		fatal("Invalid flags", err)
	}
}

// openBoard opens the configured board or exits.
func openBoard(ctx context.Context, extra ...muralis.Option) *muralis.Session {
	opts := []muralis.Option{
		muralis.WithAdapter(cfg.Store.Adapter),
		muralis.WithVersioning(cfg.Store.Versioned),
		muralis.WithHistoryLimit(cfg.Store.HistoryLimit),
		muralis.WithViewport(cfg.Viewport.Width, cfg.Viewport.Height),
		muralis.WithLogger(slog.Default()),
	}
	if linkFlag != "" {
		opts = append(opts, muralis.WithLink(linkFlag))
	}
	opts = append(opts, extra...)

	s, err := muralis.Open(ctx, cfg.Store.Path, opts...)
	if err != nil {
		fatal("Failed to open board", err)
	}
	current = s
	if s.Report.Err != nil {
		warn := color.New(color.FgYellow)
		warn.Fprintf(os.Stderr, "Recovered from a damaged board: %v\n", s.Report.Err)
	}
	return s
}
