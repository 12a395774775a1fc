package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aretw0/muralis/pkg/widget"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Add or remove tags on a note",
}

var tagAddCmd = &cobra.Command{
	Use:   "add <id> <tags>",
	Short: "Add comma-separated tags to a note",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		session := openBoard(ctx)
		defer session.Close()
		readOnlyGuard(session.Engine)

		note := resolveNote(session.Engine, args[0])
		c := widget.New(note.ID, session.Engine, session.Engine, false)
		c.BeginTagEdit()
		c.SetTagInput(strings.Join(args[1:], ","))
		if err := c.SubmitTags(ctx); err != nil {
			fatal("Failed to tag note", err)
		}
		mustSave(session.Engine)

		got, _ := session.Engine.Note(note.ID)
		fmt.Printf("%s: %s\n", abbrev(got.ID), strings.Join(got.Tags, ", "))
	},
}

var tagRmCmd = &cobra.Command{
	Use:   "rm <id> <tag>",
	Short: "Remove a tag from a note",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		session := openBoard(ctx)
		defer session.Close()
		readOnlyGuard(session.Engine)

		note := resolveNote(session.Engine, args[0])
		c := widget.New(note.ID, session.Engine, session.Engine, false)
		if err := c.RemoveTag(ctx, args[1]); err != nil {
			fatal("Failed to remove tag", err)
		}
		mustSave(session.Engine)

		got, _ := session.Engine.Note(note.ID)
		fmt.Printf("%s: %s\n", abbrev(got.ID), strings.Join(got.Tags, ", "))
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List every tag on the board",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		session := openBoard(ctx)
		defer session.Close()

		yellow := color.New(color.FgYellow)
		for _, t := range session.Engine.AllTags() {
			yellow.Println(t)
		}
	},
}

func init() {
	tagCmd.AddCommand(tagAddCmd)
	tagCmd.AddCommand(tagRmCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(tagsCmd)
}
