package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/muralis/internal/platform"
	"github.com/aretw0/muralis/internal/tui"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the interactive board (mouse: drag the top row, resize from ◢)",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Log lines would tear the alternate screen.
		if !verbose {
			slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		}

		session := openBoard(ctx)
		defer session.Close()

		opts := tui.Options{
			ShareBase: cfg.Share.BaseURL,
			Logger:    slog.Default(),
		}
		if cfg.Suggest.APIKey != "" {
			opts.Suggester = newSuggester(ctx)
		}
		if !session.Engine.ReadOnly() {
			events, err := session.Watch(ctx)
			switch {
			case err == nil:
				opts.StoreEvents = events
			case !errors.Is(err, platform.ErrUnsupported):
				slog.Warn("store watcher unavailable", "error", err)
			}
		}

		if err := tui.Run(ctx, session.Engine, opts); err != nil {
			fatal("Board exited", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(boardCmd)
}
