// Command xschemnetgen loads an xschem schematic, resolves its
// connectivity, and emits a SPICE netlist.
package main

import "github.com/opencircuit/xschemnetgen/cmd/xschemnetgen/cmd"

func main() {
	cmd.Execute()
}
