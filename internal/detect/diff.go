package detect

import (
	"fmt"

	"shmpipe/internal/token"
	"shmpipe/internal/vision"
)

// DiffConfig tunes the frame-difference detector.
type DiffConfig struct {
	// Blur is the box blur radius applied to the difference image before
	// the second threshold pass; 0 disables blurring.
	Blur int `toml:"blur"`
	// DiffThreshold is the minimum intensity change counted as motion.
	DiffThreshold int `toml:"diff_threshold"`
}

// DefaultDiffConfig mirrors the conventional tuning starting point.
func DefaultDiffConfig() DiffConfig {
	return DiffConfig{Blur: 2, DiffThreshold: 10}
}

// Validate rejects out-of-range tuning values.
func (c DiffConfig) Validate() error {
	if c.Blur < 0 {
		return fmt.Errorf("blur must be >= 0, got %d", c.Blur)
	}
	if c.DiffThreshold < 0 || c.DiffThreshold > 255 {
		return fmt.Errorf("diff_threshold must be in [0, 255], got %d", c.DiffThreshold)
	}
	return nil
}

type diffDetector struct {
	cfg   DiffConfig
	label string

	prev    vision.Gray
	cur     vision.Gray
	diff    vision.Gray
	mask    vision.Gray
	hasPrev bool
}

// NewDiff builds a frame-difference motion detector. label identifies the
// detector in the position records it emits.
func NewDiff(label string, cfg DiffConfig) (Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("diff detector: %w", err)
	}
	return &diffDetector{cfg: cfg, label: label}, nil
}

// Detect differences the frame against the previous one, thresholds,
// blurs, re-thresholds, and reports the largest blob's centroid. The
// first frame only primes the detector and always yields an invalid
// position.
func (d *diffDetector) Detect(f *token.Frame) token.Position {
	pos := token.Position{Label: d.label}

	vision.Grayscale(f, &d.cur)
	if !d.hasPrev {
		d.prev.Resize(d.cur.W, d.cur.H)
		copy(d.prev.Pix, d.cur.Pix)
		d.hasPrev = true
		return pos
	}

	thresh := byte(d.cfg.DiffThreshold)
	vision.AbsDiff(&d.cur, &d.prev, &d.diff)
	vision.Threshold(&d.diff, &d.mask, thresh)
	if d.cfg.Blur > 0 {
		vision.BoxBlur(&d.mask, &d.diff, d.cfg.Blur)
		vision.Threshold(&d.diff, &d.mask, thresh)
	}
	d.prev, d.cur = d.cur, d.prev

	blob, ok := vision.LargestBlob(&d.mask)
	if !ok {
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
