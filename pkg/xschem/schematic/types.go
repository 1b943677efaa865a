// Package schematic implements the schematic-to-netlist core: parsing a
// tagged-record schematic and its referenced symbols, resolving electrical
// connectivity by geometric point incidence, and emitting a SPICE-family
// netlist.
package schematic

import (
	"math"
	"strconv"

	"github.com/opencircuit/xschemnetgen/pkg/xschem/record"
)

// pointTolerance is the fixed absolute tolerance for Point equality.
const pointTolerance = 0.01

// Point is a coordinate pair compared with a fixed absolute tolerance and
// hashed by scaling each axis by 100 and truncating toward zero, so that
// two points within tolerance of each other (almost always) land in the
// same hash bucket.
type Point struct {
	X, Y float64
}

// Equal reports whether p and q are within pointTolerance on both axes.
func (p Point) Equal(q Point) bool {
	return math.Abs(p.X-q.X) <= pointTolerance && math.Abs(p.Y-q.Y) <= pointTolerance
}

// key returns the hash bucket for p: coord*100, truncated toward zero. This must be coarser than, or equal to, the equality tolerance —
// a stricter hash than the equality predicate loses incidences.
type pointKey struct {
	X, Y int64
}

func (p Point) key() pointKey {
	return pointKey{X: int64(p.X * 100), Y: int64(p.Y * 100)}
}

// Wire is an undirected line segment between two schematic-unit endpoints.
type Wire struct {
	X1, Y1 float64
	X2, Y2 float64
	Prop   string
	props  *record.Props

	Bus bool // derived from the wire's own "bus" property

	// Node is the resolved net/group name, filled in by Resolve.
	Node string
}

// Props lazily parses and returns the wire's property map.
func (w *Wire) Props() *record.Props {
	if w.props == nil {
		w.props = record.ParseProps(w.Prop)
	}
	return w.props
}

// P1 returns the wire's first endpoint.
func (w *Wire) P1() Point { return Point{X: w.X1, Y: w.Y1} }

// P2 returns the wire's second endpoint.
func (w *Wire) P2() Point { return Point{X: w.X2, Y: w.Y2} }

// Instance is a placed reference to a symbol.
type Instance struct {
	SymbolRef string // as it appeared on the "C" record (may include dir/ext)
	X, Y      float64
	Rot       int // quarter turns, counter-clockwise, in {0,1,2,3}
	Flip      int // horizontal reflection about instance origin, in {0,1}
	Prop      string
	props     *record.Props

	Name string // the "name" property, if any

	// ConnectedNets is filled in by Resolve: one entry per symbol pin, in
	// pin-declaration order.
	ConnectedNets []string

	symbol *Symbol // resolved at parse time; never nil after parsing
}

// Props lazily parses and returns the instance's property map.
func (in *Instance) Props() *record.Props {
	if in.props == nil {
		in.props = record.ParseProps(in.Prop)
	}
	return in.props
}

// Symbol returns the instance's resolved symbol (guaranteed non-nil once
// parsing has completed).
func (in *Instance) Symbol() *Symbol { return in.symbol }

// Text is a placed label, preserved but never interpreted by the core.
type Text struct {
	Text           string
	X, Y           float64
	Rot, Flip      int
	XScale, YScale float64
	Prop           string
}

// PinDirection is the closed set of pin directions.
type PinDirection string

const (
	PinIn    PinDirection = "in"
	PinOut   PinDirection = "out"
	PinInOut PinDirection = "inout"
)

// Pin is a symbol-local pin declaration.
type Pin struct {
	Name string
	Dir  PinDirection
	X, Y float64 // symbol-local coordinates: the midpoint of the pin box
}

// SymbolType is the closed discriminator xschem uses to route resolution
// and emission behavior. Unrecognized strings are kept as-is and get the
// default handling of each consumer (for example the emitter's
// "@name @pinlist @value" format) rather than a distinct variant.
type SymbolType string

const (
	TypeSubcircuit SymbolType = "subcircuit"
	TypeNMOS       SymbolType = "nmos"
	TypePMOS       SymbolType = "pmos"
	TypeResistor   SymbolType = "resistor"
	TypeCapacitor  SymbolType = "capacitor"
	TypeIPin       SymbolType = "ipin"
	TypeOPin       SymbolType = "opin"
	TypeIOPin      SymbolType = "iopin"
	TypeLabel      SymbolType = "label"
	TypeNetLabel   SymbolType = "netlabel"
	TypeNetName    SymbolType = "net_name"
	TypeTitle      SymbolType = "title"
	TypeLogo       SymbolType = "logo"
	TypeGraphic    SymbolType = "graphic"
	TypePrimitive  SymbolType = "primitive"
)

// Symbol is a named table of pins and an emission template.
type Symbol struct {
	Ref      string // the reference string as it appeared on the instance
	Type     SymbolType
	Format   string // emission template; empty means default-by-type
	Template string // raw property string supplying default property values
	PropRaw  string
	Pins     []Pin
	BBox     [4]float64 // xmin, ymin, xmax, ymax

	// Fallback marks a symbol synthesized because the referenced file
	// could not be found (see the substring fallback table in fallback.go).
	Fallback bool
}

// templateProps lazily parses the symbol's default-property template.
func (s *Symbol) templateProps() *record.Props {
	return record.ParseProps(s.Template)
}

// Schematic is the root aggregate produced by the Parser and mutated in
// place by the Resolver.
type Schematic struct {
	Filename string
	Version  string
	K, G, V, S, E string // the five named property blocks, verbatim

	Wires     []*Wire
	Instances []*Instance
	Texts     []*Text

	// Symbols is keyed by the symbol-reference string exactly as it
	// appeared on the instance that first loaded it, so repeated
	// references to the same string share one Symbol.
	Symbols map[string]*Symbol

	netCounter int
}

// NewSchematic returns an empty Schematic ready for the Parser to fill in.
func NewSchematic() *Schematic {
	return &Schematic{Symbols: make(map[string]*Symbol)}
}

// NextNetName synthesizes the next unnamed-net name. The counter never
// decreases within one run.
func (s *Schematic) NextNetName() string {
	name := netName(s.netCounter)
	s.netCounter++
	return name
}

func netName(k int) string {
	return "net" + strconv.Itoa(k)
}
