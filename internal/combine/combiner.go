package combine

import (
	"fmt"

	"shmpipe/internal/token"
)

// Kind enumerates the available combiners.
type Kind int

const (
	// KindMean averages the valid input positions.
	KindMean Kind = iota + 1
)

// ParseKind maps a command-line TYPE to a combiner kind, failing fast on
// anything outside the closed set.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "mean":
		return KindMean, nil
	default:
		return 0, fmt.Errorf("unknown combiner type %q (want mean)", s)
	}
}

// String returns the kind's command-line name.
func (k Kind) String() string {
	switch k {
	case KindMean:
		return "mean"
	default:
		return "unknown"
	}
}

// Combiner reduces one sample-aligned batch of positions to a single
// record.
type Combiner interface {
	Combine(in []token.Position) token.Position
}

type meanCombiner struct {
	label string
}

// NewMean builds the averaging combiner. label identifies the combiner
// in the records it emits.
func NewMean(label string) Combiner {
	return &meanCombiner{label: label}
}

// Combine averages the valid inputs. The result is valid when at least
// one input is, carries a heading only when every valid input does, and
// drops regions since they do not average meaningfully.
func (m *meanCombiner) Combine(in []token.Position) token.Position {
	out := token.Position{Label: m.label}

	n := 0
	headings := 0
	var sumX, sumY, sumH float64
	for i := range in {
		if !in[i].Valid {
			continue
		}
		n++
		sumX += in[i].X
		sumY += in[i].Y
		if in[i].HasHeading {
			headings++
			sumH += in[i].Heading
		}
	}
	if n == 0 {
		return out
	}
	out.Valid = true
	out.X = sumX / float64(n)
	out.Y = sumY / float64(n)
	if headings == n {
		out.HasHeading = true
		out.Heading = sumH / float64(n)
	}
	return out
}
