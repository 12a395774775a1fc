package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/muralis/pkg/codec"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the board as JSON or YAML",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		session := openBoard(ctx)
		defer session.Close()

		format := exportFormat
		if format == "" && exportOut != "" {
			format = filepath.Ext(exportOut)
		}
		var ser codec.Serializer
		switch format {
		case "", "json", ".json":
			ser = codec.NewJSONSerializer(true)
		case "yaml", "yml", ".yaml", ".yml":
			ser = codec.NewYAMLSerializer()
		default:
			fatal("Unsupported format", fmt.Errorf("%q (want json or yaml)", format))
		}

		data, err := ser.Marshal(session.Engine.Notes())
		if err != nil {
			fatal("Failed to encode board", err)
		}

		if exportOut == "" {
			os.Stdout.Write(data)
			return
		}
		if err := os.WriteFile(exportOut, data, 0644); err != nil {
			fatal("Failed to write export", err)
		}
		fmt.Fprintf(os.Stderr, "Exported %d notes to %s\n", len(session.Engine.Notes()), exportOut)
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the board with notes from a JSON or YAML file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			fatal("Failed to read file", err)
		}
		notes, err := codec.ForExt(filepath.Ext(args[0])).Unmarshal(data)
		if err != nil {
			fatal("Failed to decode file", err)
		}

		ctx := context.Background()
		session := openBoard(ctx)
		defer session.Close()
		readOnlyGuard(session.Engine)

		if err := session.Engine.Import(ctx, notes); err != nil {
			fatal("Failed to import", err)
		}
		mustSave(session.Engine)
		fmt.Printf("Imported %d notes\n", len(notes))
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "json or yaml (default from --out extension, else json)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")
}
