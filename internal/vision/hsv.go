package vision

import "shmpipe/internal/token"

// HSV is a color bound with hue in [0, 179] (half-degree scale, matching
// the usual 8-bit convention), saturation and value in [0, 255].
type HSV struct {
	H, S, V byte
}

// RGBToHSV converts one 8-bit RGB triple.
func RGBToHSV(r, g, b byte) HSV {
	max := r
	if g > max {
		max = g
	}
	if b > max {
		max = b
	}
	min := r
	if g < min {
		min = g
	}
	if b < min {
		min = b
	}

	v := max
	delta := int(max) - int(min)
	if max == 0 || delta == 0 {
		return HSV{H: 0, S: 0, V: v}
	}
	s := byte(255 * delta / int(max))

	var hue int
	switch max {
	case r:
		hue = (60 * (int(g) - int(b))) / delta
	case g:
		hue = 120 + (60*(int(b)-int(r)))/delta
	default:
		hue = 240 + (60*(int(r)-int(g)))/delta
	}
	if hue < 0 {
		hue += 360
	}
	return HSV{H: byte(hue / 2), S: s, V: v}
}

// InRangeHSV masks the pixels of an RGB frame whose HSV value falls in
// [lo, hi] per component. Hue ranges that wrap (lo.H > hi.H) are honored,
// covering reds that straddle zero.
func InRangeHSV(f *token.Frame, dst *Gray, lo, hi HSV) {
	dst.Resize(f.Width, f.Height)
	c := f.Channels
	for i, j := 0, 0; i < len(dst.Pix); i, j = i+1, j+c {
		var px HSV
		if c >= 3 {
			px = RGBToHSV(f.Pix[j], f.Pix[j+1], f.Pix[j+2])
		} else {
			px = HSV{H: 0, S: 0, V: f.Pix[j]}
		}

		hueOK := px.H >= lo.H && px.H <= hi.H
		if lo.H > hi.H {
			hueOK = px.H >= lo.H || px.H <= hi.H
		}
		if hueOK && px.S >= lo.S && px.S <= hi.S && px.V >= lo.V && px.V <= hi.V {
			dst.Pix[i] = 255
		} else {
			dst.Pix[i] = 0
		}
	}
}
