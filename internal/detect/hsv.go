package detect

import (
	"fmt"

	"shmpipe/internal/token"
	"shmpipe/internal/vision"
)

// HSVConfig tunes the color range detector. Hue bounds wrap when min >
// max, covering reds straddling zero.
type HSVConfig struct {
	HueMin int `toml:"h_min"`
	HueMax int `toml:"h_max"`
	SatMin int `toml:"s_min"`
	SatMax int `toml:"s_max"`
	ValMin int `toml:"v_min"`
	ValMax int `toml:"v_max"`
	// MinArea drops blobs smaller than this many pixels.
	MinArea int `toml:"min_area"`
}

// DefaultHSVConfig passes everything saturated and bright.
func DefaultHSVConfig() HSVConfig {
	return HSVConfig{HueMin: 0, HueMax: 179, SatMin: 100, SatMax: 255, ValMin: 100, ValMax: 255}
}

// Validate rejects out-of-range bounds.
func (c HSVConfig) Validate() error {
	if c.HueMin < 0 || c.HueMin > 179 || c.HueMax < 0 || c.HueMax > 179 {
		return fmt.Errorf("hue bounds must be in [0, 179], got [%d, %d]", c.HueMin, c.HueMax)
	}
	for name, pair := range map[string][2]int{
		"saturation": {c.SatMin, c.SatMax},
		"value":      {c.ValMin, c.ValMax},
	} {
		if pair[0] < 0 || pair[0] > 255 || pair[1] < 0 || pair[1] > 255 || pair[0] > pair[1] {
			return fmt.Errorf("%s bounds must satisfy 0 <= min <= max <= 255, got [%d, %d]",
				name, pair[0], pair[1])
		}
	}
	if c.MinArea < 0 {
		return fmt.Errorf("min_area must be >= 0, got %d", c.MinArea)
	}
	return nil
}

type hsvDetector struct {
	cfg   HSVConfig
	label string
	mask  vision.Gray
}

// NewHSV builds an HSV color range detector.
func NewHSV(label string, cfg HSVConfig) (Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("hsv detector: %w", err)
	}
	return &hsvDetector{cfg: cfg, label: label}, nil
}

// Detect masks the configured HSV range and reports the largest blob's
// centroid.
func (d *hsvDetector) Detect(f *token.Frame) token.Position {
	pos := token.Position{Label: d.label}

	lo := vision.HSV{H: byte(d.cfg.HueMin), S: byte(d.cfg.SatMin), V: byte(d.cfg.ValMin)}
	hi := vision.HSV{H: byte(d.cfg.HueMax), S: byte(d.cfg.SatMax), V: byte(d.cfg.ValMax)}
	vision.InRangeHSV(f, &d.mask, lo, hi)

	blob, ok := vision.LargestBlob(&d.mask)
	if !ok || blob.Area < d.cfg.MinArea {
		return pos
	}
	pos.Valid = true
	pos.X = blob.Rect.CenterX()
	pos.Y = blob.Rect.CenterY()
	pos.HasRegion = true
	pos.Region = token.Region{
		X: float64(blob.Rect.X),
		Y: float64(blob.Rect.Y),
		W: float64(blob.Rect.W),
		H: float64(blob.Rect.H),
	}
	return pos
}
