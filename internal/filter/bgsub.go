package filter

import (
	"fmt"

	"shmpipe/internal/token"
	"shmpipe/internal/vision"
)

// BgSubConfig tunes background subtraction.
type BgSubConfig struct {
	// Background is an optional path to a binary PGM holding a static
	// background. When empty, the first frame of the stream is taken as
	// the background instead.
	Background string `toml:"background"`
}

type bgSub struct {
	fromFile *vision.Gray
	bg       []byte
}

// NewBgSub builds the background subtraction filter, loading the static
// background image when one is configured.
func NewBgSub(cfg BgSubConfig) (Filter, error) {
	f := &bgSub{}
	if cfg.Background != "" {
		g, err := vision.ReadPGM(cfg.Background)
		if err != nil {
			return nil, fmt.Errorf("bgsub: %w", err)
		}
		f.fromFile = g
	}
	return f, nil
}

// Apply subtracts the background per byte with saturation at zero. The
// frame that primes the background comes out all zeros, matching what
// subtracting it from itself yields.
func (s *bgSub) Apply(f *token.Frame) error {
	if s.bg == nil {
		if err := s.prime(f); err != nil {
			return err
		}
	}
	if len(s.bg) != len(f.Pix) {
		return fmt.Errorf("bgsub: background is %d bytes, frame is %d", len(s.bg), len(f.Pix))
	}
	for i, v := range f.Pix {
		d := int(v) - int(s.bg[i])
		if d < 0 {
			d = 0
		}
		f.Pix[i] = byte(d)
	}
	return nil
}

func (s *bgSub) prime(f *token.Frame) error {
	if s.fromFile == nil {
		s.bg = make([]byte, len(f.Pix))
		copy(s.bg, f.Pix)
		return nil
	}
	g := s.fromFile
	if g.W != f.Width || g.H != f.Height {
		return fmt.Errorf("bgsub: background is %dx%d, frames are %dx%d",
			g.W, g.H, f.Width, f.Height)
	}
	// Grayscale backgrounds apply to every channel.
	s.bg = make([]byte, len(f.Pix))
	for i, v := range g.Pix {
		for c := 0; c < f.Channels; c++ {
			s.bg[i*f.Channels+c] = v
		}
	}
	return nil
}
