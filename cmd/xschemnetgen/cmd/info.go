package cmd

import (
	"fmt"

	"github.com/opencircuit/xschemnetgen/pkg/xschem/schematic"
	"github.com/spf13/cobra"
)

var infoLibPaths []string

var infoCmd = &cobra.Command{
	Use:   "info <schematic_file>",
	Short: "Print schematic contents instead of emitting a netlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	infoCmd.Flags().StringSliceVarP(&infoLibPaths, "library", "L", nil, "symbol search path (repeatable)")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]

	sch, err := schematic.LoadSchematic(filename, infoLibPaths)
	if err != nil {
		return fmt.Errorf("loading schematic: %w", err)
	}
	if err := schematic.Resolve(sch); err != nil {
		return fmt.Errorf("resolving connectivity: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File: %s\n", sch.Filename)
	fmt.Fprintf(out, "Wires: %d\n", len(sch.Wires))
	fmt.Fprintf(out, "Instances: %d\n", len(sch.Instances))
	fmt.Fprintf(out, "Texts: %d\n", len(sch.Texts))
	fmt.Fprintf(out, "Symbols loaded: %d\n", len(sch.Symbols))

	fmt.Fprintln(out, "\nInstances:")
	for _, inst := range sch.Instances {
		fmt.Fprintf(out, "  %-12s -> %s (type: %s)\n", inst.Name, inst.SymbolRef, inst.Symbol().Type)
		if keys := inst.Props().Keys(); len(keys) > 0 {
			fmt.Fprint(out, "      props: ")
			for i, k := range keys {
				if i > 0 {
					fmt.Fprint(out, ", ")
				}
				fmt.Fprintf(out, "%s=%s", k, inst.Props().Get(k))
			}
			fmt.Fprintln(out)
		}
	}

	fmt.Fprintln(out, "\nWires:")
	for _, w := range sch.Wires {
		fmt.Fprintf(out, "  (%g,%g) -> (%g,%g)", w.X1, w.Y1, w.X2, w.Y2)
		if w.Node != "" {
			fmt.Fprintf(out, "  [%s]", w.Node)
		}
		fmt.Fprintln(out)
	}

	return nil
}
