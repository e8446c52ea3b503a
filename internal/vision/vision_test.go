package vision

import (
	"os"
	"path/filepath"
	"testing"

	"shmpipe/internal/token"
)

func TestGrayscaleSingleChannelCopies(t *testing.T) {
	f := token.NewFrame(4, 2, 1)
	for i := range f.Pix {
		f.Pix[i] = byte(i * 10)
	}
	var g Gray
	Grayscale(f, &g)
	for i := range f.Pix {
		if g.Pix[i] != f.Pix[i] {
			t.Fatalf("pixel %d = %d, want %d", i, g.Pix[i], f.Pix[i])
		}
	}
}

func TestGrayscaleWeights(t *testing.T) {
	f := token.NewFrame(3, 1, 3)
	f.Set(0, 0, 0, 255) // pure red
	f.Set(1, 0, 1, 255) // pure green
	f.Set(2, 0, 2, 255) // pure blue

	var g Gray
	Grayscale(f, &g)
	if g.At(0, 0) != 76 || g.At(1, 0) != 149 || g.At(2, 0) != 29 {
		t.Errorf("luma = (%d, %d, %d), want (76, 149, 29)",
			g.At(0, 0), g.At(1, 0), g.At(2, 0))
	}
}

func TestAbsDiffAndSubtract(t *testing.T) {
	a := NewGray(2, 1)
	b := NewGray(2, 1)
	a.Pix[0], b.Pix[0] = 10, 30
	a.Pix[1], b.Pix[1] = 30, 10

	var d Gray
	AbsDiff(a, b, &d)
	if d.Pix[0] != 20 || d.Pix[1] != 20 {
		t.Errorf("absdiff = %v, want [20 20]", d.Pix)
	}

	Subtract(a, b, &d)
	if d.Pix[0] != 0 || d.Pix[1] != 20 {
		t.Errorf("subtract = %v, want [0 20]", d.Pix)
	}
}

func TestThreshold(t *testing.T) {
	src := NewGray(3, 1)
	src.Pix[0], src.Pix[1], src.Pix[2] = 10, 50, 51

	var dst Gray
	Threshold(src, &dst, 50)
	if dst.Pix[0] != 0 || dst.Pix[1] != 0 || dst.Pix[2] != 255 {
		t.Errorf("threshold = %v, want [0 0 255]", dst.Pix)
	}
}

func TestBoxBlurUniformStaysUniform(t *testing.T) {
	src := NewGray(8, 8)
	for i := range src.Pix {
		src.Pix[i] = 100
	}
	var dst Gray
	BoxBlur(src, &dst, 2)
	for i, v := range dst.Pix {
		if v != 100 {
			t.Fatalf("pixel %d = %d, want 100", i, v)
		}
	}
}

func TestBoxBlurZeroRadiusCopies(t *testing.T) {
	src := NewGray(4, 1)
	src.Pix[2] = 200
	var dst Gray
	BoxBlur(src, &dst, 0)
	if dst.Pix[2] != 200 || dst.Pix[0] != 0 {
		t.Errorf("copy-through failed: %v", dst.Pix)
	}
}

func TestLargestBlobPicksBiggest(t *testing.T) {
	m := NewGray(10, 10)
	// 2x2 blob at (1,1), 3x3 blob at (5,5).
	for y := 1; y <= 2; y++ {
		for x := 1; x <= 2; x++ {
			m.Set(x, y, 255)
		}
	}
	for y := 5; y <= 7; y++ {
		for x := 5; x <= 7; x++ {
			m.Set(x, y, 255)
		}
	}

	blob, ok := LargestBlob(m)
	if !ok {
		t.Fatal("no blob found")
	}
	if blob.Area != 9 {
		t.Errorf("area = %d, want 9", blob.Area)
	}
	if blob.Rect != (Rect{X: 5, Y: 5, W: 3, H: 3}) {
		t.Errorf("rect = %+v", blob.Rect)
	}
	if blob.Rect.CenterX() != 6.5 || blob.Rect.CenterY() != 6.5 {
		t.Errorf("centroid = (%g, %g), want (6.5, 6.5)",
			blob.Rect.CenterX(), blob.Rect.CenterY())
	}
}

func TestLargestBlobDoesNotWrapRows(t *testing.T) {
	m := NewGray(4, 2)
	// End of row 0 and start of row 1 set; 4-connectivity must not join
	// them through the buffer seam.
	m.Set(3, 0, 255)
	m.Set(0, 1, 255)

	blob, ok := LargestBlob(m)
	if !ok {
		t.Fatal("no blob found")
	}
	if blob.Area != 1 {
		t.Errorf("area = %d, want 1 (row wrap joined separate blobs)", blob.Area)
	}
}

func TestLargestBlobEmptyMask(t *testing.T) {
	if _, ok := LargestBlob(NewGray(4, 4)); ok {
		t.Error("blob reported in empty mask")
	}
}

func TestInRangeHSVWrapAroundHue(t *testing.T) {
	f := token.NewFrame(2, 1, 3)
	// Red (hue 0) and green (hue 60).
	f.Set(0, 0, 0, 255)
	f.Set(1, 0, 1, 255)

	var mask Gray
	InRangeHSV(f, &mask, HSV{H: 170, S: 100, V: 100}, HSV{H: 10, S: 255, V: 255})
	if mask.At(0, 0) != 255 {
		t.Error("red pixel not matched by wrap-around hue range")
	}
	if mask.At(1, 0) != 0 {
		t.Error("green pixel matched by red hue range")
	}
}

func TestRGBToHSVGrayHasNoSaturation(t *testing.T) {
	got := RGBToHSV(80, 80, 80)
	if got.S != 0 || got.V != 80 {
		t.Errorf("gray = %+v, want S=0 V=80", got)
	}
}

func TestDrawCrossClipsAtEdges(t *testing.T) {
	f := token.NewFrame(8, 8, 1)
	DrawCross(f, 0, 0, 3, 255)
	if f.At(0, 0, 0) != 255 || f.At(3, 0, 0) != 255 || f.At(0, 3, 0) != 255 {
		t.Error("cross arms missing")
	}
	// No panic on the clipped negative side is the real assertion.
}

func TestDrawRectOutlineOnly(t *testing.T) {
	f := token.NewFrame(8, 8, 1)
	DrawRect(f, Rect{X: 2, Y: 2, W: 4, H: 4}, 255)
	if f.At(2, 2, 0) != 255 || f.At(5, 5, 0) != 255 {
		t.Error("rect corners missing")
	}
	if f.At(3, 3, 0) != 0 {
		t.Error("rect interior painted")
	}
}

func TestEncodeSampleBits(t *testing.T) {
	f := token.NewFrame(160, 4, 1)
	EncodeSampleBits(f, 0b101)
	if f.At(0, 0, 0) != 255 || f.At(1, 1, 0) != 255 {
		t.Error("bit 0 block not painted")
	}
	if f.At(2, 0, 0) != 0 {
		t.Error("bit 1 block painted for a zero bit")
	}
	if f.At(4, 0, 0) != 255 {
		t.Error("bit 2 block not painted")
	}
}

func TestPGMRoundTrip(t *testing.T) {
	g := NewGray(5, 3)
	for i := range g.Pix {
		g.Pix[i] = byte(i * 17)
	}
	path := filepath.Join(t.TempDir(), "img.pgm")
	if err := WritePGM(path, g); err != nil {
		t.Fatal(err)
	}
	got, err := ReadPGM(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.W != 5 || got.H != 3 {
		t.Fatalf("geometry = %dx%d", got.W, got.H)
	}
	for i := range g.Pix {
		if got.Pix[i] != g.Pix[i] {
			t.Fatalf("pixel %d = %d, want %d", i, got.Pix[i], g.Pix[i])
		}
	}
}

func TestReadPGMRejectsWrongMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.ppm")
	data := []byte("P6\n2 2\n255\n\x00\x00\x00\x00")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadPGM(path); err == nil {
		t.Error("P6 file accepted as PGM")
	}
}
