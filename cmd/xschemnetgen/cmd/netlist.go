package cmd

import (
	"fmt"
	"os"

	"github.com/opencircuit/xschemnetgen/pkg/xschem/schematic"
	"github.com/spf13/cobra"
)

var (
	libPaths  []string
	topCell   string
	flatMode  bool
	outputRaw string
)

var netlistCmd = &cobra.Command{
	Use:   "netlist <schematic_file>",
	Short: "Resolve a schematic and emit its SPICE netlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runNetlist,
}

func init() {
	netlistCmd.Flags().StringSliceVarP(&libPaths, "library", "L", nil, "symbol search path (repeatable)")
	netlistCmd.Flags().StringVar(&topCell, "cell", "", "override top-level cell name")
	netlistCmd.Flags().BoolVar(&flatMode, "flat", false, "emit a flat netlist instead of a .subckt")
	netlistCmd.Flags().StringVarP(&outputRaw, "output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(netlistCmd)
}

func runNetlist(cmd *cobra.Command, args []string) error {
	filename := args[0]

	sch, err := schematic.LoadSchematic(filename, libPaths)
	if err != nil {
		return fmt.Errorf("loading schematic: %w", err)
	}

	opts := schematic.DefaultOptions()
	opts.SubcircuitMode = !flatMode
	opts.TopCellName = topCell

	out := cmd.OutOrStdout()
	if outputRaw != "" && outputRaw != "-" {
		f, err := os.Create(outputRaw)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := schematic.GenerateNetlist(sch, out, opts); err != nil {
		return fmt.Errorf("generating netlist: %w", err)
	}
	return nil
}
