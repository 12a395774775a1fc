package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/muralis/pkg/widget"
)

var editCmd = &cobra.Command{
	Use:   "edit <id> [content]",
	Short: "Replace the content of a note (reads stdin when content is \"-\")",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		session := openBoard(ctx)
		defer session.Close()
		readOnlyGuard(session.Engine)

		note := resolveNote(session.Engine, args[0])

		content := strings.Join(args[1:], " ")
		if content == "-" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				fatal("Failed to read stdin", err)
			}
			content = strings.TrimRight(string(data), "\n")
		}

		c := widget.New(note.ID, session.Engine, session.Engine, session.Engine.ReadOnly())
		if err := c.EditContent(ctx, content); err != nil {
			fatal("Failed to edit note", err)
		}
		mustSave(session.Engine)
		fmt.Printf("Updated %s\n", abbrev(note.ID))
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a note",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		session := openBoard(ctx)
		defer session.Close()
		readOnlyGuard(session.Engine)

		note := resolveNote(session.Engine, args[0])
		c := widget.New(note.ID, session.Engine, session.Engine, false)
		if err := c.Delete(ctx); err != nil {
			fatal("Failed to delete note", err)
		}
		mustSave(session.Engine)
		fmt.Printf("Deleted %s\n", abbrev(note.ID))
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
}
