package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of episodeblock",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("episodeblock %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
