package schematic

import "testing"

func TestPlacedPinPositionRotations(t *testing.T) {
	inst := &Instance{X: 10, Y: 10}
	pin := Pin{Name: "p", X: 5, Y: 0}

	cases := []struct {
		rot, flip int
		want      Point
	}{
		{0, 0, Point{X: 15, Y: 10}},
		{2, 0, Point{X: 5, Y: 10}},
		{0, 1, Point{X: 5, Y: 10}},
	}
	for _, c := range cases {
		inst.Rot, inst.Flip = c.rot, c.flip
		got := PlacedPinPosition(inst, pin)
		if !got.Equal(c.want) {
			t.Errorf("rot=%d flip=%d: got %+v, want %+v", c.rot, c.flip, got, c.want)
		}
	}
}

func TestPlacedPinPositionRot1And3(t *testing.T) {
	inst := &Instance{X: 0, Y: 0, Rot: 1}
	pin := Pin{Name: "p", X: 10, Y: 0}
	got := PlacedPinPosition(inst, pin)
	want := Point{X: 0, Y: 10}
	if !got.Equal(want) {
		t.Errorf("rot=1: got %+v, want %+v", got, want)
	}

	inst.Rot = 3
	got = PlacedPinPosition(inst, pin)
	want = Point{X: 0, Y: -10}
	if !got.Equal(want) {
		t.Errorf("rot=3: got %+v, want %+v", got, want)
	}
}

func TestPointEqualWithinTolerance(t *testing.T) {
	a := Point{X: 1.0, Y: 1.0}
	b := Point{X: 1.005, Y: 0.995}
	if !a.Equal(b) {
		t.Error("expected points within tolerance to be equal")
	}
	c := Point{X: 1.02, Y: 1.0}
	if a.Equal(c) {
		t.Error("expected points beyond tolerance to be unequal")
	}
}

func TestResolveExplicitWireLabelWinsOverSynthesized(t *testing.T) {
	sch := NewSchematic()
	sch.Wires = []*Wire{
		{X1: 0, Y1: 0, X2: 10, Y2: 0, Prop: "lab=MYNET"},
	}
	if err := Resolve(sch); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if sch.Wires[0].Node != "MYNET" {
		t.Errorf("got %q, want MYNET", sch.Wires[0].Node)
	}
}

func TestResolveSynthesizesDeterministicFallbackNames(t *testing.T) {
	sch := NewSchematic()
	sch.Wires = []*Wire{
		{X1: 0, Y1: 0, X2: 10, Y2: 0},
		{X1: 100, Y1: 0, X2: 110, Y2: 0},
	}
	if err := Resolve(sch); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if sch.Wires[0].Node != "net0" || sch.Wires[1].Node != "net1" {
		t.Errorf("got %q, %q", sch.Wires[0].Node, sch.Wires[1].Node)
	}
}

func TestFallbackSymbolIOPinBeforeIPinOPin(t *testing.T) {
	if got := fallbackSymbol("iopin.sym").Type; got != TypeIOPin {
		t.Errorf("iopin.sym: got %v, want iopin", got)
	}
	if got := fallbackSymbol("ipin.sym").Type; got != TypeIPin {
		t.Errorf("ipin.sym: got %v, want ipin", got)
	}
	if got := fallbackSymbol("opin.sym").Type; got != TypeOPin {
		t.Errorf("opin.sym: got %v, want opin", got)
	}
}

func TestFallbackSymbolUnknownIsSubcircuit(t *testing.T) {
	sym := fallbackSymbol("my_custom_block.sym")
	if sym.Type != TypeSubcircuit || len(sym.Pins) != 0 {
		t.Errorf("got type=%v pins=%v, want empty subcircuit", sym.Type, sym.Pins)
	}
}
