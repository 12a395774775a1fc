package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aretw0/muralis/pkg/suggest"
	"github.com/aretw0/muralis/pkg/widget"
)

var (
	suggestAdd  bool
	suggestNote string
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <topic>",
	Short: "Ask the generative service for note content",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if cfg.Suggest.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Suggest.Timeout)
			defer cancel()
		}

		gen := newSuggester(ctx)
		resp, err := gen.Generate(ctx, suggest.Request{Topic: strings.Join(args, " ")})
		if err != nil {
			fatal("Suggestion failed", err)
		}
		fmt.Println(resp.Content)

		if !suggestAdd && suggestNote == "" {
			return
		}

		session := openBoard(context.Background())
		defer session.Close()
		readOnlyGuard(session.Engine)

		green := color.New(color.FgGreen)
		if suggestNote != "" {
			note := resolveNote(session.Engine, suggestNote)
			c := widget.New(note.ID, session.Engine, session.Engine, false)
			if err := c.EditContent(context.Background(), resp.Content); err != nil {
				fatal("Failed to update note", err)
			}
			mustSave(session.Engine)
			green.Printf("Updated note %s\n", abbrev(note.ID))
			return
		}

		note, err := session.Engine.AddNote(context.Background(), resp.Content)
		if err != nil {
			fatal("Failed to add note", err)
		}
		mustSave(session.Engine)
		green.Printf("Added note %s\n", abbrev(note.ID))
	},
}

func newSuggester(ctx context.Context) *suggest.Client {
	if cfg.Suggest.APIKey == "" {
		fatal("Suggestion unavailable", fmt.Errorf("set suggest.api_key or GEMINI_API_KEY"))
	}
	client, err := suggest.NewClient(ctx, cfg.Suggest.APIKey,
		suggest.WithEndpoint(cfg.Suggest.Endpoint),
		suggest.WithModel(cfg.Suggest.Model),
		suggest.WithHTTPClient(&http.Client{Timeout: cfg.Suggest.Timeout}),
		suggest.WithLogger(slog.Default()),
	)
	if err != nil {
		fatal("Suggestion unavailable", err)
	}
	return client
}

func init() {
	rootCmd.AddCommand(suggestCmd)
	suggestCmd.Flags().BoolVar(&suggestAdd, "add", false, "Add the suggestion as a new note")
	suggestCmd.Flags().StringVar(&suggestNote, "note", "", "Replace the content of this note with the suggestion")
}
