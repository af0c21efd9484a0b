package css

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/weft/core/dimen"
	"github.com/npillmayer/weft/core/percent"
	"github.com/npillmayer/weft/engine/dom/style"
)

func TestDimenOption(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.dom")
	defer teardown()
	//
	d := DimenOption(style.Property("100pt"))
	if d.Unwrap() != dimen.Dimen(100)*dimen.PT {
		t.Errorf("expected 100pt (%d), have %v", 100*dimen.PT, d)
	}
	d = DimenOption(style.Property("auto"))
	if !d.IsAuto() {
		t.Errorf("expected dimension to be auto, is %v", d)
	}
	d = DimenOption(style.Property("blue"))
	if !d.IsNone() {
		t.Errorf("expected illegal dimension to be unset, is %v", d)
	}
}

func TestDimenPercentage(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.dom")
	defer teardown()
	//
	d := DimenOption(style.Property("33.33%"))
	if !d.IsPercent() {
		t.Fatalf("expected a percentage dimension, have %v", d)
	}
	if d.Percent() != percent.FromFloat(33.33) {
		t.Errorf("expected percentage of 3333/10000, have %d", d.Percent())
	}
	resolved := d.Resolve(2484 * dimen.PX)
	if resolved < 827*dimen.PX || resolved > 829*dimen.PX {
		t.Errorf("expected 33.33%% of 2484px to be ~828px, is %.2fpx", resolved.Pixels())
	}
}

func TestDimenCalc(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.dom")
	defer teardown()
	//
	d := DimenOption(style.Property("calc(33.33% - 10px)"))
	if !d.IsCalc() {
		t.Fatalf("expected a calc() dimension, have %v", d)
	}
	if d.Percent() != 3333 || d.Unwrap() != -10*dimen.PX {
		t.Errorf("expected parts 33.33%% and -10px, have %v and %v", d.Percent(), d.Unwrap())
	}
	resolved := d.Resolve(2484 * dimen.PX)
	if resolved < 813*dimen.PX || resolved > 823*dimen.PX {
		t.Errorf("expected resolved calc() to be ~818px, is %.2fpx", resolved.Pixels())
	}
	d = DimenOption(style.Property("calc(50% + 10px)"))
	if !d.IsCalc() || d.Unwrap() != 10*dimen.PX {
		t.Errorf("expected calc(50%% + 10px), have %v", d)
	}
	if d.Resolve(100*dimen.PX) != 60*dimen.PX {
		t.Errorf("expected calc to resolve to 60px, is %v", d.Resolve(100*dimen.PX))
	}
	d = DimenOption(style.Property("calc(100% * 3)"))
	if !d.IsNone() {
		t.Errorf("expected multiplicative calc() to be rejected, have %v", d)
	}
}

func TestDimenRelativeUnits(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.dom")
	defer teardown()
	//
	d := DimenOption(style.Property("2em"))
	if !d.IsFontScaled() {
		t.Fatalf("expected a font-scaled dimension, have %v", d)
	}
	scaled := d.ScaleFont(12 * dimen.PT)
	if !scaled.IsAbsolute() || scaled.Unwrap() != 24*dimen.PT {
		t.Errorf("expected 2em at 12pt to be 24pt, is %v", scaled)
	}
	d = DimenOption(style.Property("50vw"))
	if !d.IsViewScaled() {
		t.Fatalf("expected a viewport-scaled dimension, have %v", d)
	}
	scaled = d.ScaleViewport(dimen.Point{X: 800 * dimen.PX, Y: 600 * dimen.PX})
	if !scaled.IsAbsolute() || scaled.Unwrap() != 400*dimen.PX {
		t.Errorf("expected 50vw of 800px to be 400px, is %v", scaled)
	}
}

func TestDimenMinMax(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.dom")
	defer teardown()
	//
	a, b := SomeDimen(10*dimen.PX), SomeDimen(20*dimen.PX)
	if MaxDimen(a, b) != b {
		t.Errorf("expected max(10px, 20px) = 20px")
	}
	if MinDimen(a, Dimen()) != a {
		t.Errorf("expected min of a dimension and none to be the dimension")
	}
}

func TestFactor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.dom")
	defer teardown()
	//
	f, ok := ParseFactor("2.5")
	if !ok || f != 25000 {
		t.Errorf("expected factor 2.5 to be 25000/10000, have %d", f)
	}
	if f.Scale(10*dimen.PX) != 25*dimen.PX {
		t.Errorf("expected 2.5 * 10px = 25px, have %v", f.Scale(10*dimen.PX))
	}
	if _, ok = ParseFactor("three"); ok {
		t.Errorf("expected 'three' not to parse as a factor")
	}
}

func TestDisplayModes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.dom")
	defer teardown()
	//
	d, err := ParseDisplay("inline-flex")
	if err != nil {
		t.Error(err)
	}
	if d.Outer() != InlineMode || !d.Contains(FlexMode) {
		t.Errorf("expected inline-flex to have outer inline and inner flex, have %v", d.FullString())
	}
	d, _ = ParseDisplay("none")
	if d != DisplayNone {
		t.Errorf("expected display mode none, have %v", d)
	}
}

func TestPositionPredicates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.dom")
	defer teardown()
	//
	pos := Position(style.Property("absolute"))
	if !pos.IsAbsolute() || !pos.IsPositioned() || !pos.IsOutOfFlow() {
		t.Errorf("expected absolute to be positioned and out of flow")
	}
	pos = Position(style.Property("static"))
	if pos.IsPositioned() {
		t.Errorf("expected static not to be positioned")
	}
	pos = Position(style.Property("sticky"))
	if !pos.IsRelative() {
		t.Errorf("expected sticky to be folded into relative positioning")
	}
	// offsets are attached by the cascade
	rel := Relative([4]DimenT{Top: SomeDimen(5 * dimen.PX)})
	if rel.Offsets[Top].Unwrap() != 5*dimen.PX {
		t.Errorf("expected top offset of 5px, have %v", rel.Offsets[Top])
	}
}
