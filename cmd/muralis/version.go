package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/muralis"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of muralis",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("muralis version %s\n", strings.TrimSpace(muralis.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
