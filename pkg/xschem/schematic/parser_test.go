package schematic

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writeFile %s: %v", name, err)
	}
	return path
}

func TestLoadSchematicFallbackSymbols(t *testing.T) {
	dir := t.TempDir()
	sch := writeFile(t, dir, "inv.sch", `v {xschem version=3.4.4 file_version=1.2}
G {}
V {}
S {}
E {}
C {vdd.sym} 0 0 0 0 {name=l1 lab=VDD}
C {gnd.sym} 0 100 0 0 {name=l2 lab=GND}
C {nmos.sym} 50 50 0 0 {name=M1 model=nmos w=1u l=0.1u m=1}
N 0 0 50 20 {}
N 50 80 0 100 {}
`)

	s, err := LoadSchematic(sch, nil)
	if err != nil {
		t.Fatalf("LoadSchematic: %v", err)
	}
	if len(s.Instances) != 3 || len(s.Wires) != 2 {
		t.Fatalf("got %d instances, %d wires", len(s.Instances), len(s.Wires))
	}
	if want := "xschem version=3.4.4 file_version=1.2"; s.Version != want {
		t.Errorf("Version: got %q, want %q", s.Version, want)
	}

	m1 := s.Instances[2]
	if m1.Symbol().Type != TypeNMOS || !m1.Symbol().Fallback {
		t.Fatalf("M1 symbol: got type=%v fallback=%v", m1.Symbol().Type, m1.Symbol().Fallback)
	}

	if err := Resolve(s); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	want := []string{"VDD", "NC_M1_G", "GND", "NC_M1_B"}
	if len(m1.ConnectedNets) != len(want) {
		t.Fatalf("got %v, want %v", m1.ConnectedNets, want)
	}
	for i, w := range want {
		if m1.ConnectedNets[i] != w {
			t.Errorf("pin %d: got %q, want %q", i, m1.ConnectedNets[i], w)
		}
	}
}

func TestLoadSchematicResolvesRealSymbolFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "inv.sym", `K {type=subcircuit format="@name @pinlist @symname" template="value=1"}
B 5 -10 -5 10 5 {name=A dir=in}
B 5 40 -5 60 5 {name=Y dir=out}
`)
	sch := writeFile(t, dir, "top.sch", `v {xschem version=3.4.4 file_version=1.2}
C {inv.sym} 0 0 0 0 {name=x1}
`)

	s, err := LoadSchematic(sch, []string{dir})
	if err != nil {
		t.Fatalf("LoadSchematic: %v", err)
	}
	inst := s.Instances[0]
	sym := inst.Symbol()
	if sym.Fallback {
		t.Fatal("expected a real (non-fallback) symbol to be resolved")
	}
	if sym.Type != TypeSubcircuit {
		t.Errorf("type: got %v, want subcircuit", sym.Type)
	}
	if len(sym.Pins) != 2 || sym.Pins[0].Name != "A" || sym.Pins[1].Name != "Y" {
		t.Errorf("pins: got %+v", sym.Pins)
	}
	if sym.Pins[0].Dir != PinIn || sym.Pins[1].Dir != PinOut {
		t.Errorf("pin dirs: got %v %v", sym.Pins[0].Dir, sym.Pins[1].Dir)
	}
}

func TestLoadSymbolFileBBoxInitializesFromFirstPinRecord(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "offset.sym", `K {type=subcircuit}
B 5 100 190 110 210 {name=A dir=in}
`)

	sym, err := loadSymbolFile(path)
	if err != nil {
		t.Fatalf("loadSymbolFile: %v", err)
	}
	want := [4]float64{100, 190, 110, 210}
	if sym.BBox != want {
		t.Errorf("BBox: got %v, want %v (must not include the origin)", sym.BBox, want)
	}
}

func TestResolveSymbolPathSearchOrder(t *testing.T) {
	dir1 := t.TempDir()
	dir2 := t.TempDir()
	writeFile(t, dir2, "foo.sym", "K {type=resistor}\n")

	path, found := resolveSymbolPath("foo", []string{dir1, dir2}, dir1)
	if !found {
		t.Fatal("expected to find foo.sym via .sym-suffix fallback search")
	}
	if filepath.Dir(path) != dir2 {
		t.Errorf("got %q, want directory %q", path, dir2)
	}
}
