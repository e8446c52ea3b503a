package vision

import "shmpipe/internal/token"

// setPixel writes value into every channel of (x, y), clipping out-of-
// bounds coordinates.
func setPixel(f *token.Frame, x, y int, value byte) {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return
	}
	base := (y*f.Width + x) * f.Channels
	for c := 0; c < f.Channels; c++ {
		f.Pix[base+c] = value
	}
}

// DrawCross paints a crosshair of the given arm length centered at (x, y).
func DrawCross(f *token.Frame, x, y, arm int, value byte) {
	for d := -arm; d <= arm; d++ {
		setPixel(f, x+d, y, value)
		setPixel(f, x, y+d, value)
	}
}

// DrawRect paints the outline of r.
func DrawRect(f *token.Frame, r Rect, value byte) {
	for x := r.X; x < r.X+r.W; x++ {
		setPixel(f, x, r.Y, value)
		setPixel(f, x, r.Y+r.H-1, value)
	}
	for y := r.Y; y < r.Y+r.H; y++ {
		setPixel(f, r.X, y, value)
		setPixel(f, r.X+r.W-1, y, value)
	}
}

// EncodeSampleBits paints the sample number little-endian into the top
// left corner, one 2x2 pixel block per bit, so recordings stay alignable
// to the originating sample even after lossy processing.
func EncodeSampleBits(f *token.Frame, sample uint64) {
	for bit := 0; bit < 64; bit++ {
		var v byte
		if sample&(1<<bit) != 0 {
			v = 255
		}
		bx := bit * 2
		setPixel(f, bx, 0, v)
		setPixel(f, bx+1, 0, v)
		setPixel(f, bx, 1, v)
		setPixel(f, bx+1, 1, v)
	}
}
