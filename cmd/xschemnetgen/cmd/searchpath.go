package cmd

import (
	"fmt"

	"github.com/opencircuit/xschemnetgen/pkg/xschem/config"
	"github.com/spf13/cobra"
)

var searchPathCmd = &cobra.Command{
	Use:   "searchpath <xschemrc_file>",
	Short: "Resolve an xschemrc file's symbol search path",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearchPath,
}

func init() {
	rootCmd.AddCommand(searchPathCmd)
}

func runSearchPath(cmd *cobra.Command, args []string) error {
	paths, err := config.ParseSearchPathFile(args[0])
	if err != nil {
		return fmt.Errorf("parsing xschemrc: %w", err)
	}
	out := cmd.OutOrStdout()
	for _, p := range paths {
		fmt.Fprintln(out, p)
	}
	return nil
}
