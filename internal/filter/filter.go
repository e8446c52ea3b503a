package filter

import (
	"fmt"

	"shmpipe/internal/token"
)

// Kind enumerates the available filters.
type Kind int

const (
	// KindBgSub is the background subtraction filter.
	KindBgSub Kind = iota + 1
)

// ParseKind maps a command-line TYPE to a filter kind, failing fast on
// anything outside the closed set.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "bgsub":
		return KindBgSub, nil
	default:
		return 0, fmt.Errorf("unknown filter type %q (want bgsub)", s)
	}
}

// String returns the kind's command-line name.
func (k Kind) String() string {
	switch k {
	case KindBgSub:
		return "bgsub"
	default:
		return "unknown"
	}
}

// Filter rewrites one frame in place. Filters may keep state across
// frames and are not safe for concurrent use.
type Filter interface {
	Apply(f *token.Frame) error
}
