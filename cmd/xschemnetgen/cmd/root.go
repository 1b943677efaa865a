package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "xschemnetgen",
	Short: "Generate SPICE netlists from xschem schematics",
	Long: `xschemnetgen parses xschem .sch files, resolves wire and pin
connectivity, and emits a SPICE netlist.

Examples:
  xschemnetgen netlist inverter.sch
  xschemnetgen netlist -L ./xschem_library top.sch > top.spice
  xschemnetgen searchpath ~/.xschem/xschemrc
  xschemnetgen info -L ./xschem_library top.sch`,
	Version: "0.1.0",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	cobra.OnInitialize(func() {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	})
}
