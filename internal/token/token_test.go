package token

import (
	"strings"
	"testing"
	"time"
)

func TestShapeValidate(t *testing.T) {
	if err := FrameShape(640, 480, 3).Validate(); err != nil {
		t.Errorf("valid frame shape rejected: %v", err)
	}
	if err := PositionShape().Validate(); err != nil {
		t.Errorf("position shape rejected: %v", err)
	}
	if err := FrameShape(0, 480, 3).Validate(); err == nil {
		t.Error("zero width accepted")
	}
	if err := (Shape{}).Validate(); err == nil {
		t.Error("unset kind accepted")
	}
	if err := FrameShape(10000, 10000, 4).Validate(); err == nil {
		t.Error("oversized payload accepted")
	}
}

func TestShapePayloadBytes(t *testing.T) {
	if got := FrameShape(4, 3, 2).PayloadBytes(); got != 24 {
		t.Errorf("frame payload = %d, want 24", got)
	}
	if got := PositionShape().PayloadBytes(); got != positionRecordBytes {
		t.Errorf("position payload = %d, want %d", got, positionRecordBytes)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	shape := FrameShape(8, 6, 3)
	f := NewFrame(8, 6, 3)
	for i := range f.Pix {
		f.Pix[i] = byte(i * 7)
	}

	buf := make([]byte, shape.PayloadBytes())
	n, err := EncodeFrame(buf, f, shape)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(buf) {
		t.Fatalf("encoded %d bytes, want %d", n, len(buf))
	}

	stamp := time.Now()
	var got Frame
	if err := DecodeFrame(&got, buf, shape, stamp); err != nil {
		t.Fatal(err)
	}
	if got.Width != 8 || got.Height != 6 || got.Channels != 3 {
		t.Errorf("geometry = %dx%dx%d", got.Width, got.Height, got.Channels)
	}
	if !got.CapturedAt.Equal(stamp) {
		t.Errorf("stamp = %v, want %v", got.CapturedAt, stamp)
	}
	for i := range buf {
		if got.Pix[i] != f.Pix[i] {
			t.Fatalf("pixel %d = %d, want %d", i, got.Pix[i], f.Pix[i])
		}
	}
}

func TestEncodeFrameShapeMismatch(t *testing.T) {
	shape := FrameShape(8, 6, 3)
	f := NewFrame(8, 6, 1)
	buf := make([]byte, shape.PayloadBytes())
	if _, err := EncodeFrame(buf, f, shape); err == nil {
		t.Error("mismatched frame accepted")
	}
}

func TestDecodeFrameReusesBuffer(t *testing.T) {
	shape := FrameShape(4, 4, 1)
	buf := make([]byte, shape.PayloadBytes())

	var f Frame
	if err := DecodeFrame(&f, buf, shape, time.Now()); err != nil {
		t.Fatal(err)
	}
	first := &f.Pix[0]
	if err := DecodeFrame(&f, buf, shape, time.Now()); err != nil {
		t.Fatal(err)
	}
	if first != &f.Pix[0] {
		t.Error("pixel buffer reallocated on same-shape decode")
	}
}

func TestPositionRoundTrip(t *testing.T) {
	cases := []Position{
		{},
		{Valid: true, X: 12.5, Y: -3.25, Label: "cam0"},
		{
			Valid: true, X: 1, Y: 2,
			HasHeading: true, Heading: -2.718,
			HasRegion: true, Region: Region{X: 10, Y: 20, W: 30, H: 40},
			Label: "combined",
		},
	}
	buf := make([]byte, positionRecordBytes)
	for i, want := range cases {
		n, err := EncodePosition(buf, &want)
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		if n != positionRecordBytes {
			t.Fatalf("case %d: encoded %d bytes", i, n)
		}
		var got Position
		if err := DecodePosition(&got, buf); err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		if got != want {
			t.Errorf("case %d:\n got %+v\nwant %+v", i, got, want)
		}
	}
}

func TestPositionLabelTooLong(t *testing.T) {
	p := Position{Valid: true, Label: strings.Repeat("x", positionLabelMax+1)}
	buf := make([]byte, positionRecordBytes)
	if _, err := EncodePosition(buf, &p); err == nil {
		t.Error("oversized label accepted")
	}
}

func TestPositionLabelNotSmearedAcrossRecords(t *testing.T) {
	buf := make([]byte, positionRecordBytes)
	long := Position{Valid: true, Label: "a-rather-long-label"}
	if _, err := EncodePosition(buf, &long); err != nil {
		t.Fatal(err)
	}
	short := Position{Valid: true, Label: "ab"}
	if _, err := EncodePosition(buf, &short); err != nil {
		t.Fatal(err)
	}
	var got Position
	if err := DecodePosition(&got, buf); err != nil {
		t.Fatal(err)
	}
	if got.Label != "ab" {
		t.Errorf("label = %q, want %q", got.Label, "ab")
	}
}
