package scart

import "testing"

func TestGeometryValidate(t *testing.T) {
	cases := []struct {
		name string
		g    Geometry
		err  error
	}{
		{"default", DefaultGeometry(), nil},
		{"minimal", Geometry{Width: 4, Height: 1, TopBorderLines: 1, BottomBorderLines: 1}, nil},
		{"odd width", Geometry{Width: 321, Height: 240, TopBorderLines: 32, BottomBorderLines: 40}, errWidthOdd},
		{"narrow", Geometry{Width: 2, Height: 240, TopBorderLines: 32, BottomBorderLines: 40}, errWidthShort},
		{"no height", Geometry{Width: 320, Height: 0, TopBorderLines: 32, BottomBorderLines: 40}, errHeightShort},
		{"no top border", Geometry{Width: 320, Height: 240, TopBorderLines: 0, BottomBorderLines: 40}, errBorderMissing},
		{"no bottom border", Geometry{Width: 320, Height: 240, TopBorderLines: 32, BottomBorderLines: 0}, errBorderMissing},
	}
	for _, tc := range cases {
		if err := tc.g.Validate(); err != tc.err {
			t.Errorf("%s: Validate() = %v, want %v", tc.name, err, tc.err)
		}
	}
}

func TestGeometryDerived(t *testing.T) {
	g := DefaultGeometry()
	if got := g.RowStride(); got != 160 {
		t.Errorf("RowStride = %d, want 160", got)
	}
	if got := g.TotalLines(); got != 312 {
		t.Errorf("TotalLines = %d, want 312 (PAL)", got)
	}
	if got := g.ActiveBytes(); got != 160*240 {
		t.Errorf("ActiveBytes = %d, want %d", got, 160*240)
	}
	if got := g.FrameBytes(); got != 160*312 {
		t.Errorf("FrameBytes = %d, want %d", got, 160*312)
	}
}

// The generators free-run from a single countdown each; these two values
// are the whole software/timing contract.
func TestGeneratorSeeds(t *testing.T) {
	g := DefaultGeometry()
	if got := g.csyncSeed(); got != 311 {
		t.Errorf("csync seed = %d, want total lines - 1 = 311", got)
	}
	if got := g.rgbSeed(); got != 158 {
		t.Errorf("rgb seed = %d, want width/2 - 2 = 158", got)
	}
}
