package detect

import (
	"fmt"

	"shmpipe/internal/token"
)

// Kind enumerates the available detectors.
type Kind int

const (
	// KindDiff is the frame-difference motion detector.
	KindDiff Kind = iota + 1
	// KindHSV is the HSV color range detector.
	KindHSV
)

// ParseKind maps a command-line TYPE to a detector kind, failing fast on
// anything outside the closed set.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "diff":
		return KindDiff, nil
	case "hsv":
		return KindHSV, nil
	default:
		return 0, fmt.Errorf("unknown detector type %q (want diff or hsv)", s)
	}
}

// String returns the kind's command-line name.
func (k Kind) String() string {
	switch k {
	case KindDiff:
		return "diff"
	case KindHSV:
		return "hsv"
	default:
		return "unknown"
	}
}

// Detector turns one frame into one position record. Detectors may keep
// state across frames (the diff detector needs the previous frame) and
// are not safe for concurrent use.
type Detector interface {
	Detect(f *token.Frame) token.Position
}
