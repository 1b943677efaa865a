package schematic

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"

	log "github.com/sirupsen/logrus"
)

// Options configures netlist generation.
type Options struct {
	SubcircuitMode bool
	TopCellName    string
}

// DefaultOptions returns subcircuit mode with no cell name override.
func DefaultOptions() Options {
	return Options{SubcircuitMode: true}
}

// Validate checks Options; there is currently nothing to reject or adjust.
func (o *Options) Validate() error {
	return nil
}

var defaultFormats = map[SymbolType]string{
	TypeSubcircuit: "@name @pinlist @symname",
	TypeNMOS:       "@name @pinlist @model w=@w l=@l m=@m",
	TypePMOS:       "@name @pinlist @model w=@w l=@l m=@m",
	TypeResistor:   "@name @pinlist @value m=@m",
	TypeCapacitor:  "@name @pinlist @value m=@m",
}

const defaultFormatOther = "@name @pinlist @value"

var skippedInEmission = map[SymbolType]bool{
	TypeIPin:     true,
	TypeOPin:     true,
	TypeIOPin:    true,
	TypeLabel:    true,
	TypeNetLabel: true,
	TypeNetName:  true,
	TypeTitle:    true,
	TypeLogo:     true,
	TypeGraphic:  true,
}

// GenerateNetlist writes sch's netlist to w. It reruns the Resolver
// internally (resetting the unnamed-net counter first, so repeated calls
// on the same Schematic with the same inputs are byte-identical) and is
// otherwise read-only with respect to sch beyond that resolution pass.
func GenerateNetlist(sch *Schematic, w io.Writer, opts Options) error {
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("xschem: invalid options: %w", err)
	}

	sch.netCounter = 0
	if err := Resolve(sch); err != nil {
		return fmt.Errorf("xschem: failed to resolve connectivity: %w", err)
	}

	cell := opts.TopCellName
	if cell == "" {
		cell = cellStem(sch.Filename)
	}

	if _, err := fmt.Fprintf(w, "* %s\n", sch.Filename); err != nil {
		return err
	}

	if opts.SubcircuitMode {
		ports, pinfo := collectPorts(sch)
		if _, err := fmt.Fprintf(w, ".subckt %s", cell); err != nil {
			return err
		}
		for _, port := range ports {
			if _, err := fmt.Fprintf(w, " %s", port); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		for _, pi := range pinfo {
			if _, err := fmt.Fprintf(w, "*.PININFO %s:%s\n", pi.name, pi.dir); err != nil {
				return err
			}
		}
	} else {
		if _, err := fmt.Fprintf(w, "** %s\n", cell); err != nil {
			return err
		}
	}

	for _, inst := range sch.Instances {
		if skipInstance(inst) {
			continue
		}
		format := inst.Symbol().Format
		if format == "" {
			format = defaultFormatFor(inst.Symbol().Type)
		}
		line := collapseSpaces(expandFormat(format, inst))
		if line == "" {
			continue
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if opts.SubcircuitMode {
		if _, err := fmt.Fprintln(w, ".ends"); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ".end"); err != nil {
		return err
	}
	return nil
}

func defaultFormatFor(t SymbolType) string {
	if f, ok := defaultFormats[t]; ok {
		return f
	}
	return defaultFormatOther
}

func skipInstance(inst *Instance) bool {
	t := inst.Symbol().Type
	if skippedInEmission[t] {
		return true
	}
	lower := strings.ToLower(inst.SymbolRef)
	return strings.Contains(lower, "title") || strings.Contains(lower, "ammeter")
}

type portInfo struct {
	name string
	dir  string
}

func collectPorts(sch *Schematic) ([]string, []portInfo) {
	var ports []string
	var pinfo []portInfo
	for _, inst := range sch.Instances {
		var dir string
		switch inst.Symbol().Type {
		case TypeIPin:
			dir = "I"
		case TypeOPin:
			dir = "O"
		case TypeIOPin:
			dir = "B"
		default:
			continue
		}
		port := inst.Props().Get("lab")
		ports = append(ports, port)
		pinfo = append(pinfo, portInfo{name: port, dir: dir})
	}
	return ports, pinfo
}

func cellStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// expandFormat copies format verbatim except for @-tokens, whose maximal
// run of [A-Za-z0-9_#:] characters is looked up against the reserved
// tokens and then the instance/symbol properties. A tokenizing scan is
// used rather than regex substitution so that the @#n: pin-order hint
// syntax (shares the @ prefix) never false-matches a reserved token.
func expandFormat(format string, inst *Instance) string {
	var b strings.Builder
	runes := []rune(format)
	i, n := 0, len(runes)
	for i < n {
		if runes[i] != '@' {
			b.WriteRune(runes[i])
			i++
			continue
		}
		i++ // consume '@'
		start := i
		for i < n && isTokenRune(runes[i]) {
			i++
		}
		token := string(runes[start:i])
		b.WriteString(resolveToken(token, inst))
	}
	return b.String()
}

func isTokenRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '#' || r == ':'
}

func resolveToken(token string, inst *Instance) string {
	switch token {
	case "name":
		return inst.Name
	case "pinlist":
		return strings.Join(inst.ConnectedNets, " ")
	case "symname":
		return cellStem(inst.SymbolRef)
	case "spiceprefix":
		return inst.Props().Get("spiceprefix")
	case "extra":
		return inst.Props().Get("extra")
	default:
		if inst.Props().Has(token) {
			return inst.Props().Get(token)
		}
		if v := inst.Symbol().templateProps().Get(token); v != "" {
			return v
		}
		log.Warnf("xschem: instance %s: no value for @%s, emitting empty", inst.Name, token)
		return ""
	}
}

// collapseSpaces collapses runs of whitespace into a single space and
// trims the result.
func collapseSpaces(s string) string {
	var b strings.Builder
	prevSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !prevSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			prevSpace = true
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}
