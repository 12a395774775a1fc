package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/muralis/pkg/core"
)

var moveCmd = &cobra.Command{
	Use:   "move <id> <x> <y>",
	Short: "Move a note to an absolute position",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		session := openBoard(ctx)
		defer session.Close()
		readOnlyGuard(session.Engine)

		note := resolveNote(session.Engine, args[0])
		note.Position = core.Point{X: parseFloat("x", args[1]), Y: parseFloat("y", args[2])}
		if err := session.Engine.UpdateNote(ctx, note); err != nil {
			fatal("Failed to move note", err)
		}
		mustSave(session.Engine)
		fmt.Printf("Moved %s to %g,%g\n", abbrev(note.ID), note.Position.X, note.Position.Y)
	},
}

var resizeCmd = &cobra.Command{
	Use:   "resize <id> <width> <height>",
	Short: "Resize a note (minimum 200x150)",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		session := openBoard(ctx)
		defer session.Close()
		readOnlyGuard(session.Engine)

		note := resolveNote(session.Engine, args[0])
		note.Size = core.Size{Width: parseFloat("width", args[1]), Height: parseFloat("height", args[2])}
		if err := session.Engine.UpdateNote(ctx, note); err != nil {
			fatal("Failed to resize note", err)
		}
		mustSave(session.Engine)
		got, _ := session.Engine.Note(note.ID)
		fmt.Printf("Resized %s to %gx%g\n", abbrev(got.ID), got.Size.Width, got.Size.Height)
	},
}

var frontCmd = &cobra.Command{
	Use:   "front <id>",
	Short: "Bring a note above all others",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		session := openBoard(ctx)
		defer session.Close()
		readOnlyGuard(session.Engine)

		note := resolveNote(session.Engine, args[0])
		if err := session.Engine.BringToFront(ctx, note.ID); err != nil {
			fatal("Failed to raise note", err)
		}
		mustSave(session.Engine)
		got, _ := session.Engine.Note(note.ID)
		fmt.Printf("Raised %s to z=%d\n", abbrev(got.ID), got.ZIndex)
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(resizeCmd)
	rootCmd.AddCommand(frontCmd)
}
