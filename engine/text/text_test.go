package text_test

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/weft/core/dimen"
	"github.com/npillmayer/weft/core/font"
	"github.com/npillmayer/weft/engine/text"
)

const em = 10 * dimen.PT

func TestMonospaceWidths(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.text")
	defer teardown()
	//
	ms := text.Monospace(em, nil)
	cases := []struct {
		frag string
		w    dimen.Dimen
	}{
		{"", 0},
		{"abc", 3 * em},
		{"日本", 4 * em},      // East Asian wide clusters advance twice
		{"é", 1 * em}, // combining sequence is one cluster
	}
	for _, c := range cases {
		if w := ms.Width(c.frag, text.Params{}); w != c.w {
			t.Errorf("expected %q to measure %s, have %s", c.frag, c.w, w)
		}
	}
}

func TestMonospaceSplit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.text")
	defer teardown()
	//
	ms := text.Monospace(em, nil)
	if at := ms.Split("hello", 3*em, text.Params{}); at != 3 {
		t.Errorf("expected a budget of 3 em to split 'hello' at 3, have %d", at)
	}
	if at := ms.Split("hello", 0, text.Params{}); at != 0 {
		t.Errorf("expected a zero budget to fit nothing, have offset %d", at)
	}
	if at := ms.Split("hello", 10*em, text.Params{}); at != len("hello") {
		t.Errorf("expected a loose budget to fit everything, have offset %d", at)
	}
	// a wide cluster consumes 2 em and must never be split
	if at := ms.Split("日x", 2*em, text.Params{}); at != len("日") {
		t.Errorf("expected the split to fall behind the wide cluster, have offset %d", at)
	}
	if at := ms.Split("日x", 1*em, text.Params{}); at != 0 {
		t.Errorf("expected 1 em to be too narrow for the wide cluster, have offset %d", at)
	}
}

func TestMonospaceTakesEmFromFace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.text")
	defer teardown()
	//
	ms := text.Monospace(0, nil)
	params := text.Params{Font: font.NullTypeCase()} // 10 pt
	if w := ms.Width("ab", params); w != 2*10*dimen.PT {
		t.Errorf("expected the em to derive from the 10 pt face, have %s", w)
	}
	if w := ms.Width("ab", text.Params{}); w != 0 {
		t.Errorf("expected no em and no face to measure nothing, have %s", w)
	}
}

// ---------------------------------------------------------------------------

type countingMeasurer struct {
	calls int
}

func (cm *countingMeasurer) Width(frag string, params text.Params) dimen.Dimen {
	cm.calls++
	return dimen.Dimen(len(frag)) * dimen.PT
}

func (cm *countingMeasurer) Split(frag string, budget dimen.Dimen, params text.Params) int {
	cm.calls++
	return len(frag)
}

func TestCacheMemoizesWidths(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.text")
	defer teardown()
	//
	counting := &countingMeasurer{}
	cache := text.NewMeasureCache(16)
	m := text.CachedWith(counting, cache)
	w1 := m.Width("hello", text.Params{})
	w2 := m.Width("hello", text.Params{})
	if w1 != w2 {
		t.Errorf("expected identical widths from the cache, have %s and %s", w1, w2)
	}
	if counting.calls != 1 {
		t.Errorf("expected the second measurement to come from the cache, have %d calls", counting.calls)
	}
	m.Width("world", text.Params{})
	if counting.calls != 2 {
		t.Errorf("expected a different fragment to be measured, have %d calls", counting.calls)
	}
	if cache.Size() != 2 {
		t.Errorf("expected 2 cache entries, have %d", cache.Size())
	}
}

func TestCacheAdvanceEvictsEarlierGenerations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.text")
	defer teardown()
	//
	counting := &countingMeasurer{}
	cache := text.NewMeasureCache(16)
	m := text.CachedWith(counting, cache)
	m.Width("hello", text.Params{})
	cache.Advance()
	m.Width("hello", text.Params{})
	if counting.calls != 2 {
		t.Errorf("expected the advanced generation to re-measure, have %d calls", counting.calls)
	}
	m.Width("hello", text.Params{})
	if counting.calls != 2 {
		t.Errorf("expected the re-measured width to be cached again, have %d calls", counting.calls)
	}
}

func TestCacheBoundEvictsOldestEntry(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.text")
	defer teardown()
	//
	counting := &countingMeasurer{}
	cache := text.NewMeasureCache(2)
	m := text.CachedWith(counting, cache)
	m.Width("a", text.Params{})
	m.Width("b", text.Params{})
	m.Width("c", text.Params{}) // evicts "a"
	if cache.Size() != 2 {
		t.Fatalf("expected the cache to hold its bound of 2, have %d", cache.Size())
	}
	calls := counting.calls
	m.Width("b", text.Params{})
	if counting.calls != calls {
		t.Errorf("expected 'b' to still be cached")
	}
	m.Width("a", text.Params{})
	if counting.calls != calls+1 {
		t.Errorf("expected 'a' to have been evicted and re-measured")
	}
}

func TestCacheKeysByFace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.text")
	defer teardown()
	//
	counting := &countingMeasurer{}
	m := text.CachedWith(counting, text.NewMeasureCache(16))
	m.Width("hello", text.Params{})
	m.Width("hello", text.Params{Font: font.NullTypeCase()})
	if counting.calls != 2 {
		t.Errorf("expected a different face to measure separately, have %d calls", counting.calls)
	}
}

func TestProcessWideCache(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.text")
	defer teardown()
	//
	if text.Cache() != text.Cache() {
		t.Errorf("expected one process-wide cache instance")
	}
	text.FlushCaches()
	if text.Cache().Size() != 0 {
		t.Errorf("expected the flushed cache to be empty, have %d entries", text.Cache().Size())
	}
}
