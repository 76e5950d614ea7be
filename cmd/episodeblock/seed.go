package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed <fixture.yaml>",
	Short: "Import shows, seasons and episodes from a YAML fixture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if replace, _ := cmd.Flags().GetBool("replace"); replace {
			removed, err := clearStore(cmd.Context(), a.store)
			if err != nil {
				return err
			}
			a.logger.Info("cleared store", "items", removed)
		}

		n, err := seed(cmd.Context(), a.store, args[0])
		if err != nil {
			return err
		}
		a.logger.Info("seeded store", "file", args[0], "items", n)
		fmt.Printf("✓ Imported %d items into %s store\n", n, a.cfg.Store.Driver)
		return nil
	},
}

func init() {
	seedCmd.Flags().Bool("replace", false, "Remove all existing items before importing")
	rootCmd.AddCommand(seedCmd)
}
