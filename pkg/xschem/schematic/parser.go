package schematic

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/opencircuit/xschemnetgen/pkg/xschem/record"
)

// LoadSchematic parses the schematic file at path and every symbol file it
// references, resolving references against searchPaths. It returns false
// (via a non-nil error) only when the schematic file itself cannot be
// opened; a missing symbol file never fails the load — it synthesizes a
// fallback symbol instead.
func LoadSchematic(path string, searchPaths []string) (*Schematic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("xschem: failed to open schematic %q: %w", path, err)
	}
	defer f.Close()

	sch := NewSchematic()
	sch.Filename = path

	p := &parser{
		sch:          sch,
		searchPaths:  searchPaths,
		schematicDir: filepath.Dir(path),
		loaded:       make(map[string]bool),
	}
	if err := p.parseSchematicBody(f); err != nil {
		return nil, fmt.Errorf("xschem: failed to parse schematic %q: %w", path, err)
	}
	return sch, nil
}

type parser struct {
	sch          *Schematic
	searchPaths  []string
	schematicDir string
	loaded       map[string]bool // not populated; resolved symbols are cached in sch.Symbols
}

// parseSchematicBody scans the tagged-record stream of a schematic file,
// dispatching per tag and loading referenced symbols as C records are
// encountered.
func (p *parser) parseSchematicBody(r io.Reader) error {
	rd := record.NewReader(r)

	for {
		tag, ok := rd.ReadTag()
		if !ok {
			return nil
		}

		switch tag {
		case '[':
			rd.SkipBracketBlock()

		case 'v':
			block, err := rd.ReadBraced()
			if err != nil {
				log.Debugf("xschem: malformed version record, skipping: %v", err)
				rd.SkipLine()
				continue
			}
			p.sch.Version = block

		case 'K', 'G', 'V', 'S', 'E':
			block, err := rd.ReadBraced()
			if err != nil {
				log.Debugf("xschem: malformed %c block, skipping: %v", tag, err)
				rd.SkipLine()
				continue
			}
			switch tag {
			case 'K':
				p.sch.K = block
			case 'G':
				p.sch.G = block
			case 'V':
				p.sch.V = block
			case 'S':
				p.sch.S = block
			case 'E':
				p.sch.E = block
			}

		case 'N':
			w, err := p.parseWire(rd)
			if err != nil {
				log.Debugf("xschem: malformed wire record, skipping: %v", err)
				rd.SkipLine()
				continue
			}
			p.sch.Wires = append(p.sch.Wires, w)

		case 'C':
			inst, err := p.parseInstance(rd)
			if err != nil {
				log.Debugf("xschem: malformed instance record, skipping: %v", err)
				rd.SkipLine()
				continue
			}
			p.sch.Instances = append(p.sch.Instances, inst)

		case 'T':
			t, err := parseText(rd)
			if err != nil {
				log.Debugf("xschem: malformed text record, skipping: %v", err)
				rd.SkipLine()
				continue
			}
			p.sch.Texts = append(p.sch.Texts, t)

		case 'L', 'A', 'B', 'P':
			rd.SkipLine()

		default:
			rd.SkipLine()
		}
	}
}

func (p *parser) parseWire(rd *record.Reader) (*Wire, error) {
	x1, err := rd.ReadFloat()
	if err != nil {
		return nil, err
	}
	y1, err := rd.ReadFloat()
	if err != nil {
		return nil, err
	}
	x2, err := rd.ReadFloat()
	if err != nil {
		return nil, err
	}
	y2, err := rd.ReadFloat()
	if err != nil {
		return nil, err
	}
	propStr, err := rd.ReadBraced()
	if err != nil {
		return nil, err
	}
	w := &Wire{X1: x1, Y1: y1, X2: x2, Y2: y2, Prop: propStr}
	if v := w.Props().Get("bus"); v == "true" || v == "1" {
		w.Bus = true
	}
	return w, nil
}

func (p *parser) parseInstance(rd *record.Reader) (*Instance, error) {
	symRef, err := rd.ReadBraced()
	if err != nil {
		return nil, err
	}
	if symRef == "" {
		return nil, fmt.Errorf("xschem: instance missing symbol reference")
	}
	x, err := rd.ReadFloat()
	if err != nil {
		return nil, err
	}
	y, err := rd.ReadFloat()
	if err != nil {
		return nil, err
	}
	rot, err := rd.ReadInt()
	if err != nil {
		return nil, err
	}
	flip, err := rd.ReadInt()
	if err != nil {
		return nil, err
	}
	propStr, err := rd.ReadBraced()
	if err != nil {
		return nil, err
	}

	inst := &Instance{
		SymbolRef: symRef,
		X:         x,
		Y:         y,
		Rot:       rot,
		Flip:      flip,
		Prop:      propStr,
	}
	inst.Name = inst.Props().Get("name")

	sym, err := p.resolveSymbol(symRef)
	if err != nil {
		// resolveSymbol always returns a usable (possibly fallback)
		// symbol and currently never returns a non-nil error.
		return nil, err
	}
	inst.symbol = sym

	return inst, nil
}

func parseText(rd *record.Reader) (*Text, error) {
	text, err := rd.ReadBraced()
	if err != nil {
		return nil, err
	}
	x, err := rd.ReadFloat()
	if err != nil {
		return nil, err
	}
	y, err := rd.ReadFloat()
	if err != nil {
		return nil, err
	}
	rot, err := rd.ReadInt()
	if err != nil {
		return nil, err
	}
	flip, err := rd.ReadInt()
	if err != nil {
		return nil, err
	}
	xscale, err := rd.ReadFloat()
	if err != nil {
		return nil, err
	}
	yscale, err := rd.ReadFloat()
	if err != nil {
		return nil, err
	}
	propStr, err := rd.ReadBraced()
	if err != nil {
		return nil, err
	}
	return &Text{
		Text: text, X: x, Y: y, Rot: rot, Flip: flip,
		XScale: xscale, YScale: yscale, Prop: propStr,
	}, nil
}

// resolveSymbol returns the Symbol for ref, loading and caching it in the
// schematic's symbol table on first use. A failed lookup never errors —
// it synthesizes a fallback symbol per the substring-match table.
func (p *parser) resolveSymbol(ref string) (*Symbol, error) {
	if sym, ok := p.sch.Symbols[ref]; ok {
		return sym, nil
	}

	path, found := resolveSymbolPath(ref, p.searchPaths, p.schematicDir)
	var sym *Symbol
	if found {
		loaded, err := loadSymbolFile(path)
		if err != nil {
			log.Debugf("xschem: symbol file %q unreadable, using fallback: %v", path, err)
			sym = fallbackSymbol(ref)
		} else {
			sym = loaded
		}
	} else {
		log.Debugf("xschem: symbol %q not found on search path, using fallback", ref)
		sym = fallbackSymbol(ref)
	}
	sym.Ref = ref
	p.sch.Symbols[ref] = sym
	return sym, nil
}

// resolveSymbolPath searches for ref in order: absolute path, each search
// path joined with ref, each search path joined with ref+".sym", then the
// schematic file's own directory.
func resolveSymbolPath(ref string, searchPaths []string, schematicDir string) (string, bool) {
	if filepath.IsAbs(ref) && fileExists(ref) {
		return ref, true
	}
	for _, sp := range searchPaths {
		candidate := filepath.Join(sp, ref)
		if fileExists(candidate) {
			return candidate, true
		}
	}
	if !strings.HasSuffix(ref, ".sym") {
		for _, sp := range searchPaths {
			candidate := filepath.Join(sp, ref+".sym")
			if fileExists(candidate) {
				return candidate, true
			}
		}
	}
	candidate := filepath.Join(schematicDir, ref)
	if fileExists(candidate) {
		return candidate, true
	}
	return "", false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// loadSymbolFile parses a symbol file's tagged-record stream: K carries
// type/format/template, and a B record at layer 5 is a pin (the midpoint
// of its box). Everything else is discarded.
func loadSymbolFile(path string) (*Symbol, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sym := &Symbol{}
	rd := record.NewReader(f)
	sawBox := false

	for {
		tag, ok := rd.ReadTag()
		if !ok {
			break
		}
		switch tag {
		case '[':
			rd.SkipBracketBlock()

		case 'K':
			block, err := rd.ReadBraced()
			if err != nil {
				log.Debugf("xschem: malformed K record in symbol %q, skipping: %v", path, err)
				rd.SkipLine()
				continue
			}
			sym.PropRaw = block
			props := record.ParseProps(block)
			sym.Type = SymbolType(props.Get("type"))
			sym.Format = props.Get("format")
			sym.Template = props.Get("template")

		case 'B':
			layer, err := rd.ReadInt()
			if err != nil {
				log.Debugf("xschem: malformed B record in symbol %q, skipping: %v", path, err)
				rd.SkipLine()
				continue
			}
			x1, err1 := rd.ReadFloat()
			y1, err2 := rd.ReadFloat()
			x2, err3 := rd.ReadFloat()
			y2, err4 := rd.ReadFloat()
			if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
				log.Debugf("xschem: malformed B record coordinates in symbol %q, skipping", path)
				rd.SkipLine()
				continue
			}
			propStr, err := rd.ReadBraced()
			if err != nil {
				log.Debugf("xschem: malformed B record properties in symbol %q, skipping: %v", path, err)
				rd.SkipLine()
				continue
			}
			if layer == 5 {
				props := record.ParseProps(propStr)
				dir := PinDirection(props.Get("dir"))
				if dir == "" {
					dir = PinInOut
				}
				sym.Pins = append(sym.Pins, Pin{
					Name: props.Get("name"),
					Dir:  dir,
					X:    (x1 + x2) / 2,
					Y:    (y1 + y2) / 2,
				})
			}
			growBBox(&sym.BBox, x1, y1, x2, y2, !sawBox)
			sawBox = true

		case 'N', 'L', 'A', 'P':
			rd.SkipLine()

		case 'T':
			// Recognized but not required for correctness (e.g. the
			// @#n: pin-order hint convention); preserved only as a
			// skipped record.
			rd.SkipLine()

		default:
			rd.SkipLine()
		}
	}

	return sym, nil
}

func growBBox(bbox *[4]float64, x1, y1, x2, y2 float64, first bool) {
	lo := func(a, b float64) float64 {
		if a < b {
			return a
		}
		return b
	}
	hi := func(a, b float64) float64 {
		if a > b {
			return a
		}
		return b
	}
	if first {
		bbox[0], bbox[1], bbox[2], bbox[3] = lo(x1, x2), lo(y1, y2), hi(x1, x2), hi(y1, y2)
		return
	}
	bbox[0] = lo(bbox[0], lo(x1, x2))
	bbox[1] = lo(bbox[1], lo(y1, y2))
	bbox[2] = hi(bbox[2], hi(x1, x2))
	bbox[3] = hi(bbox[3], hi(y1, y2))
}
