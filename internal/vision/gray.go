package vision

import "shmpipe/internal/token"

// Gray is a single-channel 8-bit image.
type Gray struct {
	W, H int
	Pix  []byte
}

// NewGray allocates a zeroed grayscale image.
func NewGray(w, h int) *Gray {
	return &Gray{W: w, H: h, Pix: make([]byte, w*h)}
}

// Resize reallocates the pixel buffer when the geometry changes.
func (g *Gray) Resize(w, h int) {
	if g.W == w && g.H == h && len(g.Pix) == w*h {
		return
	}
	g.W, g.H = w, h
	g.Pix = make([]byte, w*h)
}

// At returns the pixel at (x, y).
func (g *Gray) At(x, y int) byte { return g.Pix[y*g.W+x] }

// Set writes the pixel at (x, y).
func (g *Gray) Set(x, y int, v byte) { g.Pix[y*g.W+x] = v }

// Grayscale converts a frame to luma. Multi-channel frames use the BT.601
// integer weighting on the first three channels (assumed RGB order);
// single-channel frames copy through.
func Grayscale(f *token.Frame, dst *Gray) {
	dst.Resize(f.Width, f.Height)
	if f.Channels == 1 {
		copy(dst.Pix, f.Pix)
		return
	}
	c := f.Channels
	for i, j := 0, 0; i < len(dst.Pix); i, j = i+1, j+c {
		r := int(f.Pix[j])
		g := int(f.Pix[j+1])
		b := int(f.Pix[j+2])
		dst.Pix[i] = byte((299*r + 587*g + 114*b) / 1000)
	}
}

// AbsDiff writes |a-b| per pixel into dst. All three images must share
// geometry.
func AbsDiff(a, b, dst *Gray) {
	dst.Resize(a.W, a.H)
	for i := range dst.Pix {
		d := int(a.Pix[i]) - int(b.Pix[i])
		if d < 0 {
			d = -d
		}
		dst.Pix[i] = byte(d)
	}
}

// Subtract writes max(a-b, 0) per pixel into dst, the background
// subtraction primitive.
func Subtract(a, b, dst *Gray) {
	dst.Resize(a.W, a.H)
	for i := range dst.Pix {
		d := int(a.Pix[i]) - int(b.Pix[i])
		if d < 0 {
			d = 0
		}
		dst.Pix[i] = byte(d)
	}
}

// Threshold binarizes src into dst: 255 where the pixel exceeds thresh,
// 0 elsewhere.
func Threshold(src, dst *Gray, thresh byte) {
	dst.Resize(src.W, src.H)
	for i, v := range src.Pix {
		if v > thresh {
			dst.Pix[i] = 255
		} else {
			dst.Pix[i] = 0
		}
	}
}

// BoxBlur applies a (2r+1)-wide separable mean filter. radius 0 copies
// through.
func BoxBlur(src, dst *Gray, radius int) {
	dst.Resize(src.W, src.H)
	if radius <= 0 {
		copy(dst.Pix, src.Pix)
		return
	}
	w, h := src.W, src.H
	tmp := make([]int, w*h)

	// Horizontal pass.
	for y := 0; y < h; y++ {
		row := src.Pix[y*w : (y+1)*w]
		out := tmp[y*w : (y+1)*w]
		for x := 0; x < w; x++ {
			sum, n := 0, 0
			for k := x - radius; k <= x+radius; k++ {
				if k >= 0 && k < w {
					sum += int(row[k])
					n++
				}
			}
			out[x] = sum / n
		}
	}

	// Vertical pass.
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			sum, n := 0, 0
			for k := y - radius; k <= y+radius; k++ {
				if k >= 0 && k < h {
					sum += tmp[k*w+x]
					n++
				}
			}
			dst.Pix[y*w+x] = byte(sum / n)
		}
	}
}
