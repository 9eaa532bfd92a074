package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/kshitijv/rewatch/internal/session"
	"github.com/kshitijv/rewatch/internal/tui"
)

var lastCmd = &cobra.Command{
	Use:   "last",
	Short: "Show the output of the previous execution",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := session.NewStore()
		if err != nil {
			return err
		}

		r, err := store.Load()
		if err != nil {
			if errors.Is(err, session.ErrNoRecord) {
				fmt.Fprintln(cmd.OutOrStdout(), "no previous execution recorded")
				return nil
			}
			return err
		}

		// Interactive terminals get the scrollable viewer; pipes get
		// plain text.
		if term.IsTerminal(os.Stdout.Fd()) {
			return tui.Show(r)
		}
		fmt.Fprint(cmd.OutOrStdout(), tui.Render(r))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lastCmd)
}
