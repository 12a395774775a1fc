package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/muralis/pkg/core"
)

var (
	listJSON   bool
	filterTag  string
	filterGlob string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes back to front",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		session := openBoard(ctx)
		defer session.Close()
		engine := session.Engine

		engine.SetTagFilter(filterTag)
		notes := engine.Stacked()

		if filterGlob != "" {
			matched, err := engine.MatchTags(filterGlob)
			if err != nil {
				fatal("Invalid tag pattern", err)
			}
			keep := make(map[string]bool, len(matched))
			for _, n := range matched {
				keep[n.ID] = true
			}
			filtered := notes[:0]
			for _, n := range notes {
				if keep[n.ID] {
					filtered = append(filtered, n)
				}
			}
			notes = filtered
		}

		if listJSON {
			if notes == nil {
				notes = []core.Note{}
			}
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(notes); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		if len(notes) == 0 {
			fmt.Println("No notes.")
			return
		}
		for _, n := range notes {
			printNote(n)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&filterTag, "tag", "", "Show only notes with this tag")
	listCmd.Flags().StringVar(&filterGlob, "tag-glob", "", "Show only notes with a tag matching this glob (e.g. \"work/**\")")
}
