package serve

import (
	"fmt"
	"math"
	"time"

	"shmpipe/internal/token"
)

// Config tunes the synthetic frame source.
type Config struct {
	Width    int `toml:"width"`
	Height   int `toml:"height"`
	Channels int `toml:"channels"`
	// Count is the number of frames to publish before ending the
	// stream; 0 streams until interrupted.
	Count int `toml:"count"`
	// FPS paces publication; 0 publishes as fast as consumers drain.
	FPS float64 `toml:"fps"`
	// DotRadius is the radius of the moving dot in pixels.
	DotRadius int `toml:"dot_radius"`
}

// DefaultConfig is a small color frame at a gentle rate.
func DefaultConfig() Config {
	return Config{Width: 320, Height: 240, Channels: 3, Count: 0, FPS: 30, DotRadius: 6}
}

// Validate rejects geometry the token layer would refuse anyway, with a
// friendlier message.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("frame geometry must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.Channels != 1 && c.Channels != 3 {
		return fmt.Errorf("channels must be 1 or 3, got %d", c.Channels)
	}
	if c.Count < 0 {
		return fmt.Errorf("count must be >= 0, got %d", c.Count)
	}
	if c.FPS < 0 {
		return fmt.Errorf("fps must be >= 0, got %g", c.FPS)
	}
	if c.DotRadius < 1 {
		return fmt.Errorf("dot_radius must be >= 1, got %d", c.DotRadius)
	}
	return nil
}

// Generator renders the orbiting-dot pattern.
type Generator struct {
	cfg Config
	n   int
}

// NewGenerator builds a generator after validating the config.
func NewGenerator(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg}, nil
}

// Shape returns the frame shape the generator produces.
func (g *Generator) Shape() token.Shape {
	return token.FrameShape(g.cfg.Width, g.cfg.Height, g.cfg.Channels)
}

// DotCenter returns where the dot lands on frame n, exposed so tests can
// check detector output against ground truth.
func (g *Generator) DotCenter(n int) (x, y int) {
	cx := float64(g.cfg.Width) / 2
	cy := float64(g.cfg.Height) / 2
	r := math.Min(cx, cy) * 0.6
	angle := 2 * math.Pi * float64(n) / 60
	return int(cx + r*math.Cos(angle)), int(cy + r*math.Sin(angle))
}

// Next renders the next frame into f, reusing its buffer.
func (g *Generator) Next(f *token.Frame) {
	shape := g.Shape()
	if !f.Shape().Equal(shape) {
		*f = *token.NewFrame(g.cfg.Width, g.cfg.Height, g.cfg.Channels)
	}
	for i := range f.Pix {
		f.Pix[i] = 20
	}

	x, y := g.DotCenter(g.n)
	rad := g.cfg.DotRadius
	for dy := -rad; dy <= rad; dy++ {
		for dx := -rad; dx <= rad; dx++ {
			if dx*dx+dy*dy > rad*rad {
				continue
			}
			px, py := x+dx, y+dy
			if px < 0 || px >= f.Width || py < 0 || py >= f.Height {
				continue
			}
			base := (py*f.Width + px) * f.Channels
			if f.Channels == 3 {
				f.Pix[base] = 230
				f.Pix[base+1] = 10
				f.Pix[base+2] = 10
			} else {
				f.Pix[base] = 230
			}
		}
	}
	f.CapturedAt = time.Now()
	g.n++
}

// Frames returns how many frames have been rendered so far.
func (g *Generator) Frames() int { return g.n }
