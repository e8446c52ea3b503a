package token

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Position record wire layout inside the slot payload, little-endian:
//
//	0   valid     u32
//	4   flags     u32 (bit 0: heading present, bit 1: region present)
//	8   x         f64
//	16  y         f64
//	24  heading   f64
//	32  region    4 x f64 (x, y, w, h)
//	64  labelLen  u32
//	68  label     up to 60 bytes
const (
	positionRecordBytes = 128
	positionLabelMax    = 60

	flagHeading = 1 << 0
	flagRegion  = 1 << 1
)

// Region is an axis-aligned bounding rectangle in pixel coordinates.
type Region struct {
	X, Y, W, H float64
}

// Position is one 2D position record. Valid is false when the detector
// saw nothing this sample; the coordinate fields are then meaningless.
// Label identifies the producing detector so combined streams stay
// attributable.
type Position struct {
	Valid      bool
	X, Y       float64
	HasHeading bool
	Heading    float64
	HasRegion  bool
	Region     Region
	Label      string
}

// EncodePosition writes the record into a slot payload buffer and returns
// the byte count used.
func EncodePosition(dst []byte, p *Position) (int, error) {
	if len(dst) < positionRecordBytes {
		return 0, fmt.Errorf("payload buffer holds %d bytes, position record needs %d",
			len(dst), positionRecordBytes)
	}
	if len(p.Label) > positionLabelMax {
		return 0, fmt.Errorf("position label %q exceeds %d bytes", p.Label, positionLabelMax)
	}

	le := binary.LittleEndian
	var valid, flags uint32
	if p.Valid {
		valid = 1
	}
	if p.HasHeading {
		flags |= flagHeading
	}
	if p.HasRegion {
		flags |= flagRegion
	}
	le.PutUint32(dst[0:], valid)
	le.PutUint32(dst[4:], flags)
	le.PutUint64(dst[8:], math.Float64bits(p.X))
	le.PutUint64(dst[16:], math.Float64bits(p.Y))
	le.PutUint64(dst[24:], math.Float64bits(p.Heading))
	le.PutUint64(dst[32:], math.Float64bits(p.Region.X))
	le.PutUint64(dst[40:], math.Float64bits(p.Region.Y))
	le.PutUint64(dst[48:], math.Float64bits(p.Region.W))
	le.PutUint64(dst[56:], math.Float64bits(p.Region.H))
	le.PutUint32(dst[64:], uint32(len(p.Label)))
	copy(dst[68:68+positionLabelMax], make([]byte, positionLabelMax))
	copy(dst[68:], p.Label)
	return positionRecordBytes, nil
}

// DecodePosition fills p from a slot payload.
func DecodePosition(p *Position, src []byte) error {
	if len(src) < positionRecordBytes {
		return fmt.Errorf("payload holds %d bytes, position record needs %d",
			len(src), positionRecordBytes)
	}
	le := binary.LittleEndian
	flags := le.Uint32(src[4:])
	p.Valid = le.Uint32(src[0:]) != 0
	p.HasHeading = flags&flagHeading != 0
	p.HasRegion = flags&flagRegion != 0
	p.X = math.Float64frombits(le.Uint64(src[8:]))
	p.Y = math.Float64frombits(le.Uint64(src[16:]))
	p.Heading = math.Float64frombits(le.Uint64(src[24:]))
	p.Region.X = math.Float64frombits(le.Uint64(src[32:]))
	p.Region.Y = math.Float64frombits(le.Uint64(src[40:]))
	p.Region.W = math.Float64frombits(le.Uint64(src[48:]))
	p.Region.H = math.Float64frombits(le.Uint64(src[56:]))
	n := le.Uint32(src[64:])
	if n > positionLabelMax {
		return fmt.Errorf("position label length %d exceeds %d", n, positionLabelMax)
	}
	p.Label = string(src[68 : 68+n])
	return nil
}
