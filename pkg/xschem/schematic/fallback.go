package schematic

import "strings"

// fallbackSymbol synthesizes a symbol for a reference that could not be
// resolved to a file, using a case-insensitive substring match against the
// full reference string. The more specific "iopin" is checked before the
// "ipin"/"opin" substrings it would otherwise shadow.
func fallbackSymbol(ref string) *Symbol {
	lower := strings.ToLower(ref)

	switch {
	case strings.Contains(lower, "nmos"), strings.Contains(lower, "nfet"):
		return mosFallback(TypeNMOS)
	case strings.Contains(lower, "pmos"), strings.Contains(lower, "pfet"):
		return mosFallback(TypePMOS)
	case strings.Contains(lower, "res"):
		return twoTerminalFallback(TypeResistor)
	case strings.Contains(lower, "cap"):
		return twoTerminalFallback(TypeCapacitor)
	case strings.Contains(lower, "iopin"):
		return pinFallback(TypeIOPin)
	case strings.Contains(lower, "ipin"):
		return pinFallback(TypeIPin)
	case strings.Contains(lower, "opin"):
		return pinFallback(TypeOPin)
	case strings.Contains(lower, "lab_pin"), strings.Contains(lower, "lab_wire"),
		strings.Contains(lower, "vdd"), strings.Contains(lower, "vss"), strings.Contains(lower, "gnd"):
		return pinFallback(TypeLabel)
	default:
		return subcircuitFallback()
	}
}

// mosFallback returns the canonical 4-terminal MOS pin layout:
// D(0,-30) G(-20,0) S(0,30) B(20,0).
func mosFallback(t SymbolType) *Symbol {
	return &Symbol{
		Type:     t,
		Fallback: true,
		Pins: []Pin{
			{Name: "D", Dir: PinInOut, X: 0, Y: -30},
			{Name: "G", Dir: PinIn, X: -20, Y: 0},
			{Name: "S", Dir: PinInOut, X: 0, Y: 30},
			{Name: "B", Dir: PinInOut, X: 20, Y: 0},
		},
	}
}

// twoTerminalFallback returns the canonical resistor/capacitor pin
// layout: P(0,-30) M(0,30).
func twoTerminalFallback(t SymbolType) *Symbol {
	return &Symbol{
		Type:     t,
		Fallback: true,
		Pins: []Pin{
			{Name: "P", Dir: PinInOut, X: 0, Y: -30},
			{Name: "M", Dir: PinInOut, X: 0, Y: 30},
		},
	}
}

// pinFallback returns the canonical single-pin layout for ipin/opin/iopin
// and label-family fallbacks: one pin "p" at the origin.
func pinFallback(t SymbolType) *Symbol {
	dir := PinInOut
	switch t {
	case TypeIPin:
		dir = PinIn
	case TypeOPin:
		dir = PinOut
	}
	return &Symbol{
		Type:     t,
		Fallback: true,
		Pins:     []Pin{{Name: "p", Dir: dir, X: 0, Y: 0}},
	}
}

// subcircuitFallback is the catch-all arm: no pins can be inferred, so the
// synthesized subcircuit symbol has none. Any instance referencing it
// resolves to an empty ConnectedNets vector, satisfying the pin-count
// invariant trivially.
func subcircuitFallback() *Symbol {
	return &Symbol{
		Type:     TypeSubcircuit,
		Fallback: true,
	}
}
