package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aretw0/muralis/pkg/adapters/lifecycle"
	"github.com/aretw0/muralis/pkg/core"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream changes to the stored board until interrupted",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		session := openBoard(ctx)
		defer session.Close()

		storeEvents, err := session.Watch(ctx)
		if err != nil {
			fatal("Failed to watch store", err)
		}
		// This process never mutates the board, so only the store can change.
		src := lifecycle.NewSource(map[lifecycle.Origin]<-chan core.Event{
			lifecycle.OriginStore: storeEvents,
		})
		if err := src.Start(ctx); err != nil {
			fatal("Failed to start watcher", err)
		}

		dim := color.New(color.FgHiBlack)
		dim.Fprintf(os.Stderr, "Watching %s (Ctrl+C to stop)\n", session.Path)

		for e := range src.Events() {
			ts := time.Now()
			if ev, ok := e.(lifecycle.Event); ok && ev.Timestamp > 0 {
				ts = time.Unix(ev.Timestamp, 0)
			}
			fmt.Printf("%s %s\n", dim.Sprint(ts.Format("15:04:05")), eventColor(e).Sprint(e.String()))
		}
	},
}

func eventColor(e any) *color.Color {
	ev, ok := e.(lifecycle.Event)
	if !ok {
		return color.New(color.Reset)
	}
	switch ev.Type {
	case core.EventCreate:
		return color.New(color.FgGreen)
	case core.EventDelete:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgYellow)
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
