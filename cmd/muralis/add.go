package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aretw0/muralis/pkg/widget"
)

var addTags []string

var addCmd = &cobra.Command{
	Use:   "add [content]",
	Short: "Add a note at a random spot in the viewport",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		session := openBoard(ctx)
		defer session.Close()
		readOnlyGuard(session.Engine)

		note, err := session.Engine.AddNote(ctx, strings.Join(args, " "))
		if err != nil {
			fatal("Failed to add note", err)
		}

		if len(addTags) > 0 {
			note.Tags = widget.MergeTags(note.Tags, strings.Join(addTags, ","))
			if err := session.Engine.UpdateNote(ctx, note); err != nil {
				fatal("Failed to tag note", err)
			}
		}
		mustSave(session.Engine)

		green := color.New(color.FgGreen)
		green.Printf("Added note %s", abbrev(note.ID))
		fmt.Printf(" at %.0f,%.0f\n", note.Position.X, note.Position.Y)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringSliceVarP(&addTags, "tag", "t", nil, "Tags for the new note")
}
