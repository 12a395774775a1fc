package main

import (
	"context"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aretw0/muralis"
	"github.com/aretw0/muralis/pkg/core"
)

var (
	shareBase string
	shareCopy bool
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Print a read-only link carrying the whole board",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		session := openBoard(ctx)
		defer session.Close()

		base := cfg.Share.BaseURL
		if shareBase != "" {
			base = shareBase
		}
		url, err := session.Engine.Share(base)
		if err != nil {
			fatal("Failed to build link", err)
		}
		fmt.Println(url)

		if shareCopy {
			if err := clipboard.WriteAll(url); err != nil {
				fatal("Failed to copy link", err)
			}
			color.New(color.FgGreen).Fprintln(os.Stderr, "Link copied to clipboard.")
		}
	},
}

var openCmd = &cobra.Command{
	Use:   "open <link>",
	Short: "Show the board carried by a shared link",
	Long: `Decode a shared link and list its notes. The board is read-only and the
local store is never touched.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		session := openBoard(ctx, muralis.WithAdapter("memory"), muralis.WithLink(args[0]))
		defer session.Close()

		if session.Report.Source != core.SourceLink {
			fatal("Failed to open link", fmt.Errorf("link does not carry a board"))
		}

		color.New(color.FgHiBlack).Printf("Shared board, %d notes (read-only)\n", len(session.Engine.Notes()))
		for _, n := range session.Engine.Stacked() {
			printNote(n)
		}
	},
}

func init() {
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(openCmd)
	shareCmd.Flags().StringVar(&shareBase, "base", "", "Base URL for the link (default from config)")
	shareCmd.Flags().BoolVar(&shareCopy, "copy", false, "Also copy the link to the clipboard")
}
