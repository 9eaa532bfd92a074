package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kshitijv/rewatch/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := config.Init(configPath)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s.\n", configPath)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s already exists; leaving it untouched.\n", configPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
