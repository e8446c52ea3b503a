package detect

import (
	"math"
	"testing"

	"shmpipe/internal/token"
)

func grayFrame(w, h int, fill byte) *token.Frame {
	f := token.NewFrame(w, h, 1)
	for i := range f.Pix {
		f.Pix[i] = fill
	}
	return f
}

func fillRect(f *token.Frame, x, y, w, h int, px []byte) {
	for ry := y; ry < y+h; ry++ {
		for rx := x; rx < x+w; rx++ {
			off := (ry*f.Width + rx) * f.Channels
			copy(f.Pix[off:off+f.Channels], px)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Kind
	}{
		{"diff", KindDiff},
		{"hsv", KindHSV},
	} {
		got, err := ParseKind(tc.in)
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tc.in, got, tc.want)
		}
		if got.String() != tc.in {
			t.Errorf("Kind(%v).String() = %q, want %q", got, got.String(), tc.in)
		}
	}
	if _, err := ParseKind("mog"); err == nil {
		t.Error("ParseKind(\"mog\") succeeded, want error")
	}
}

func TestDiffFirstFrameIsInvalid(t *testing.T) {
	det, err := NewDiff("cam0", DefaultDiffConfig())
	if err != nil {
		t.Fatal(err)
	}
	pos := det.Detect(grayFrame(32, 24, 0))
	if pos.Valid {
		t.Error("first frame produced a valid position")
	}
	if pos.Label != "cam0" {
		t.Errorf("label = %q, want %q", pos.Label, "cam0")
	}
}

func TestDiffFindsMovingBlock(t *testing.T) {
	det, err := NewDiff("cam0", DiffConfig{Blur: 0, DiffThreshold: 30})
	if err != nil {
		t.Fatal(err)
	}

	base := grayFrame(64, 48, 10)
	det.Detect(base)

	moved := grayFrame(64, 48, 10)
	fillRect(moved, 40, 20, 8, 8, []byte{200})
	pos := det.Detect(moved)

	if !pos.Valid {
		t.Fatal("moving block was not detected")
	}
	if pos.X != 44 || pos.Y != 24 {
		t.Errorf("centroid = (%g, %g), want (44, 24)", pos.X, pos.Y)
	}
	if !pos.HasRegion || pos.Region.W != 8 || pos.Region.H != 8 {
		t.Errorf("region = %+v, want 8x8", pos.Region)
	}
}

func TestDiffStaticSceneIsInvalid(t *testing.T) {
	det, err := NewDiff("cam0", DefaultDiffConfig())
	if err != nil {
		t.Fatal(err)
	}
	det.Detect(grayFrame(32, 24, 80))
	pos := det.Detect(grayFrame(32, 24, 80))
	if pos.Valid {
		t.Errorf("static scene produced a valid position at (%g, %g)", pos.X, pos.Y)
	}
}

func TestDiffIgnoresSubThresholdChange(t *testing.T) {
	det, err := NewDiff("cam0", DiffConfig{Blur: 0, DiffThreshold: 50})
	if err != nil {
		t.Fatal(err)
	}
	det.Detect(grayFrame(32, 24, 100))

	dim := grayFrame(32, 24, 100)
	fillRect(dim, 10, 10, 4, 4, []byte{120})
	if pos := det.Detect(dim); pos.Valid {
		t.Error("change below diff_threshold was detected")
	}
}

func TestDiffConfigValidate(t *testing.T) {
	if err := (DiffConfig{Blur: -1, DiffThreshold: 10}).Validate(); err == nil {
		t.Error("negative blur accepted")
	}
	if err := (DiffConfig{Blur: 0, DiffThreshold: 300}).Validate(); err == nil {
		t.Error("out-of-range threshold accepted")
	}
	if err := DefaultDiffConfig().Validate(); err != nil {
		t.Errorf("default config rejected: %v", err)
	}
}

func TestHSVFindsRedBlock(t *testing.T) {
	cfg := DefaultHSVConfig()
	cfg.HueMin, cfg.HueMax = 170, 10 // wrap-around red
	det, err := NewHSV("hue0", cfg)
	if err != nil {
		t.Fatal(err)
	}

	f := token.NewFrame(64, 48, 3)
	fillRect(f, 0, 0, 64, 48, []byte{20, 20, 20})
	fillRect(f, 16, 8, 6, 6, []byte{220, 10, 10})

	pos := det.Detect(f)
	if !pos.Valid {
		t.Fatal("red block was not detected")
	}
	if math.Abs(pos.X-19) > 0.5 || math.Abs(pos.Y-11) > 0.5 {
		t.Errorf("centroid = (%g, %g), want near (19, 11)", pos.X, pos.Y)
	}
	if pos.Label != "hue0" {
		t.Errorf("label = %q, want %q", pos.Label, "hue0")
	}
}

func TestHSVMinAreaFiltersSpecks(t *testing.T) {
	cfg := DefaultHSVConfig()
	cfg.HueMin, cfg.HueMax = 170, 10
	cfg.MinArea = 10
	det, err := NewHSV("hue0", cfg)
	if err != nil {
		t.Fatal(err)
	}

	f := token.NewFrame(32, 32, 3)
	fillRect(f, 0, 0, 32, 32, []byte{20, 20, 20})
	fillRect(f, 5, 5, 2, 2, []byte{220, 10, 10}) // 4 px, below min_area

	if pos := det.Detect(f); pos.Valid {
		t.Error("blob below min_area was reported")
	}
}

func TestHSVConfigValidate(t *testing.T) {
	bad := DefaultHSVConfig()
	bad.HueMax = 200
	if err := bad.Validate(); err == nil {
		t.Error("hue above 179 accepted")
	}
	bad = DefaultHSVConfig()
	bad.SatMin, bad.SatMax = 200, 100
	if err := bad.Validate(); err == nil {
		t.Error("inverted saturation bounds accepted")
	}
	if err := DefaultHSVConfig().Validate(); err != nil {
		t.Errorf("default config rejected: %v", err)
	}
}
