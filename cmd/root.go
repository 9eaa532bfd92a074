package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/kshitijv/rewatch/internal/config"
	"github.com/kshitijv/rewatch/internal/coordinator"
	"github.com/kshitijv/rewatch/internal/repl"
	"github.com/kshitijv/rewatch/internal/session"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "rewatch",
	Short: "Re-run a command whenever watched directories change",
	Long: `rewatch watches a set of directories and re-executes a configured command
whenever the filesystem goes quiet after a burst of changes. An interactive
prompt lets you set or change the command, kill or restart the running
process, and exit.

Prompt commands:
  start <command...>   set the command, begin monitoring, execute once
  apply <args...>      replace the argument string and execute immediately
  kill                 terminate the running process and stop monitoring
  restart              kill, then start fresh with the current command
  quit / exit          stop everything and leave`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		errOut := cmd.ErrOrStderr()

		// Configuration errors are reported, never fatal: the session
		// proceeds with defaults.
		cfg, missing, err := config.Load(configPath)
		if err != nil {
			var parseErr *config.ParseError
			if errors.As(err, &parseErr) {
				fmt.Fprintf(errOut, "configuration error: %v\n", parseErr)
			} else if errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(errOut, "no config file at %s; starting with defaults (run 'rewatch init' to create one)\n", configPath)
			} else {
				fmt.Fprintf(errOut, "configuration error: reading %s: %v\n", configPath, err)
			}
		}
		for _, key := range missing {
			fmt.Fprintf(errOut, "configuration error: missing key %q\n", key)
		}

		sess := session.New(cfg.Roots())
		sess.Program = cfg.Program
		sess.Args = cfg.Args

		store, storeErr := session.NewStore()
		if storeErr != nil {
			fmt.Fprintf(errOut, "warning: %v\n", storeErr)
			store = nil
		}

		coord := coordinator.New(sess, out, store)

		// With a command already configured (and a clean config load),
		// monitoring and a first execution begin before the first prompt.
		if sess.HasCommand() && err == nil && len(missing) == 0 {
			if merr := coord.StartMonitoring(); merr != nil {
				fmt.Fprintln(errOut, merr)
			} else {
				coord.Trigger()
			}
		}

		if term.IsTerminal(os.Stdin.Fd()) {
			fmt.Fprintf(out, "monitoring %v. Type 'start <command>' to begin, 'quit' to leave\n", sess.Roots)
		}

		r := &repl.REPL{Coord: coord, In: cmd.InOrStdin(), Out: out}
		return r.Run()
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to the config file")
}
