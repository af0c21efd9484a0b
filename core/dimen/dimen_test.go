package dimen

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestParseDimen(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.core")
	defer teardown()
	//
	d, _, err := ParseDimen("12px")
	if err != nil {
		t.Errorf("(1) %s", err.Error())
	} else if d != 12*PX {
		t.Errorf("(1) expected d to be 12px (%d), is %d", 12*PX, d)
	}
	//
	d, _, err = ParseDimen("0")
	if err != nil {
		t.Errorf("(2) %s", err.Error())
	} else if d != 0 {
		t.Errorf("(2) expected d to be 0, is %d", d)
	}
	//
	d, ispcnt, err := ParseDimen("20%")
	if err != nil {
		t.Errorf("(3) %s", err.Error())
	} else if ispcnt != true {
		t.Errorf("(3) expected percentage-marker to be true, is %v", ispcnt)
	} else if d != 2000 {
		t.Errorf("(3) expected 20%% to parse as 2000 per-myriad, is %d", d)
	}
	//
	d, ispcnt, err = ParseDimen("33.33%")
	if err != nil {
		t.Errorf("(4) %s", err.Error())
	} else if !ispcnt || d != 3333 {
		t.Errorf("(4) expected 33.33%% to parse as 3333 per-myriad, is %d", d)
	}
	//
	d, _, err = ParseDimen("1.5px")
	if err != nil {
		t.Errorf("(5) %s", err.Error())
	} else if d != PX+PX/2 {
		t.Errorf("(5) expected 1.5px to be %d, is %d", PX+PX/2, d)
	}
	//
	_, _, err = ParseDimen("12qq")
	if err == nil {
		t.Errorf("(6) expected unit error for '12qq', got none")
	}
}

func TestPermyriad(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.core")
	defer teardown()
	//
	avail := 2484 * PX
	part := avail.Permyriad(3333)
	if part <= 827*PX || part >= 829*PX {
		t.Errorf("expected 33.33%% of 2484px to be about 828px, is %v", part.Pixels())
	}
}
