package inline_test

import (
	"errors"
	"testing"

	"github.com/npillmayer/cords"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/weft/core/dimen"
	"github.com/npillmayer/weft/engine/dom/cssom"
	"github.com/npillmayer/weft/engine/frame/inline"
	"github.com/npillmayer/weft/engine/text"
)

// Monospace measuring with a fixed em makes every width a multiple of
// em, independent of fonts on the test machine.
const em = 10 * dimen.PT

func breakUp(t *testing.T, para *inline.Paragraph, shape inline.Parshape) []inline.LineBox {
	t.Helper()
	lines, err := inline.BreakIntoLines(para, shape, text.Monospace(em, nil), nil)
	if err != nil {
		t.Fatalf("cannot break paragraph into lines: %v", err)
	}
	return lines
}

func TestBreakIntoLinesGreedyFill(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.frame.inline")
	defer teardown()
	//
	para, _ := paragraphFor(t, `<p>aaa bbb ccc ddd</p>`, "", "p")
	lines := breakUp(t, para, inline.Rectangle(8*em))
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines for a budget of 8 em, have %d", len(lines))
	}
	if lines[0].Start != 0 || lines[0].End != 8 {
		t.Errorf("expected first line to span bytes [0,8), spans [%d,%d)", lines[0].Start, lines[0].End)
	}
	if lines[1].Start != 8 || lines[1].End != 15 {
		t.Errorf("expected second line to span bytes [8,15), spans [%d,%d)", lines[1].Start, lines[1].End)
	}
	if lines[0].Width != 7*em { // trailing space does not count
		t.Errorf("expected first line to be 7 em wide, have %v", lines[0].Width)
	}
	if lines[1].Width != 7*em {
		t.Errorf("expected second line to be 7 em wide, have %v", lines[1].Width)
	}
}

func TestLinesTileTheParagraph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.frame.inline")
	defer teardown()
	//
	para, _ := paragraphFor(t, `<p>the quick brown fox jumps over the lazy dog</p>`, "", "p")
	lines := breakUp(t, para, inline.Rectangle(12*em))
	if len(lines) < 2 {
		t.Fatalf("expected the text to break into multiple lines, have %d", len(lines))
	}
	if lines[0].Start != 0 {
		t.Errorf("expected the first line to start at byte 0, starts at %d", lines[0].Start)
	}
	for i := 1; i < len(lines); i++ {
		if lines[i].Start != lines[i-1].End {
			t.Errorf("expected line %d to continue at byte %d, continues at %d", i,
				lines[i-1].End, lines[i].Start)
		}
	}
	if last := lines[len(lines)-1]; last.End != para.Len() {
		t.Errorf("expected the last line to end at byte %d, ends at %d", para.Len(), last.End)
	}
}

func TestUnbreakableContentOverflows(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.frame.inline")
	defer teardown()
	//
	para, _ := paragraphFor(t, `<p>aaaaaaaaaa</p>`, "", "p")
	lines := breakUp(t, para, inline.Rectangle(5*em))
	if len(lines) != 1 {
		t.Fatalf("expected a single overflowing line, have %d lines", len(lines))
	}
	if lines[0].Width != 10*em {
		t.Errorf("expected the line to keep its natural width of 10 em, have %v", lines[0].Width)
	}
}

func TestEmptyParagraphHasNoLines(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.frame.inline")
	defer teardown()
	//
	para, _ := paragraphFor(t, `<p></p>`, "", "p")
	lines := breakUp(t, para, inline.Rectangle(8*em))
	if len(lines) != 0 {
		t.Errorf("expected no lines for an empty paragraph, have %d", len(lines))
	}
}

func TestBreakNeedsShapeAndMeasurer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.frame.inline")
	defer teardown()
	//
	para, _ := paragraphFor(t, `<p>x</p>`, "", "p")
	if _, err := inline.BreakIntoLines(para, nil, text.Monospace(em, nil), nil); !errors.Is(err, cords.ErrIllegalArguments) {
		t.Errorf("expected an error for a nil shape, have %v", err)
	}
	if _, err := inline.BreakIntoLines(para, inline.Rectangle(8*em), nil, nil); !errors.Is(err, cords.ErrIllegalArguments) {
		t.Errorf("expected an error for a nil measurer, have %v", err)
	}
}

func TestLineHeightFromFontSize(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.frame.inline")
	defer teardown()
	//
	para, _ := paragraphFor(t, `<p>some text</p>`, `p { font-size: 20pt; }`, "p")
	lines := breakUp(t, para, inline.Rectangle(20*em))
	if len(lines) != 1 {
		t.Fatalf("expected a single line, have %d", len(lines))
	}
	if lines[0].Height != 24*dimen.PT {
		t.Errorf("expected a line advance of 1.2 times the font size, have %v", lines[0].Height)
	}
}

func TestExplicitLineHeightWins(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.frame.inline")
	defer teardown()
	//
	para, _ := paragraphFor(t, `<p>some text</p>`, `p { font-size: 20pt; line-height: 30pt; }`, "p")
	lines := breakUp(t, para, inline.Rectangle(20*em))
	if len(lines) != 1 {
		t.Fatalf("expected a single line, have %d", len(lines))
	}
	if lines[0].Height != 30*dimen.PT {
		t.Errorf("expected the explicit line-height of 30pt, have %v", lines[0].Height)
	}
}

func TestBreakAroundLeftFloat(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.frame.inline")
	defer teardown()
	//
	para, _ := paragraphFor(t, `<p>aa bb cc dd</p>`, "", "p")
	shape := inline.ShapeAroundFloats(8*em, 12*dimen.PT, []inline.FloatRect{
		{X: 0, Y: 0, W: 3 * em, H: 12 * dimen.PT, Side: cssom.FloatLeft},
	})
	lines := breakUp(t, para, shape)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines beside the float, have %d", len(lines))
	}
	if lines[0].Indent != 3*em {
		t.Errorf("expected the first line to be indented by the float's width, have %v", lines[0].Indent)
	}
	if lines[0].End != 6 {
		t.Errorf("expected the narrowed first line to hold 'aa bb ', ends at byte %d", lines[0].End)
	}
	if lines[1].Indent != 0 {
		t.Errorf("expected the second line to start at the left edge, have indent %v", lines[1].Indent)
	}
}
