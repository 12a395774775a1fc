package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aretw0/muralis/pkg/codec"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved versions of the board (versioned fs or sqlite store)",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		session := openBoard(ctx)
		defer session.Close()

		revs, err := session.History(ctx, historyLimit)
		if err != nil {
			fatal("Failed to read history", err)
		}
		if len(revs) == 0 {
			fmt.Println("No history.")
			return
		}

		idc := color.New(color.FgCyan)
		dim := color.New(color.FgHiBlack)
		for _, r := range revs {
			fmt.Printf("%s %s %s\n", idc.Sprintf("%-8s", r.ID), dim.Sprint(r.Time.Local().Format("2006-01-02 15:04:05")), r.Subject)
		}
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <revision>",
	Short: "List the notes of a past version",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		session := openBoard(ctx)
		defer session.Close()

		data, err := session.Revision(ctx, args[0])
		if err != nil {
			fatal("Failed to read revision", err)
		}
		notes, err := codec.DecodeStore(data)
		if err != nil {
			fatal("Failed to decode revision", err)
		}
		for _, n := range notes {
			printNote(n)
		}
	},
}

var historyRestoreCmd = &cobra.Command{
	Use:   "restore <revision>",
	Short: "Replace the board with a past version",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		session := openBoard(ctx)
		defer session.Close()
		readOnlyGuard(session.Engine)

		data, err := session.Revision(ctx, args[0])
		if err != nil {
			fatal("Failed to read revision", err)
		}
		notes, err := codec.DecodeStore(data)
		if err != nil {
			fatal("Failed to decode revision", err)
		}
		if err := session.Engine.Import(ctx, notes); err != nil {
			fatal("Failed to restore", err)
		}
		mustSave(session.Engine)
		color.New(color.FgGreen).Printf("Restored %d notes from %s\n", len(notes), args[0])
	},
}

func init() {
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyRestoreCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of versions (0 for all)")
}
