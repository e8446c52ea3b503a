package combine

import (
	"math"
	"testing"

	"shmpipe/internal/token"
)

func TestParseKind(t *testing.T) {
	k, err := ParseKind("mean")
	if err != nil {
		t.Fatal(err)
	}
	if k != KindMean || k.String() != "mean" {
		t.Errorf("got %v (%q)", k, k.String())
	}
	if _, err := ParseKind("median"); err == nil {
		t.Error("ParseKind(\"median\") succeeded, want error")
	}
}

func TestMeanAveragesValidInputs(t *testing.T) {
	c := NewMean("mixed")
	out := c.Combine([]token.Position{
		{Valid: true, X: 10, Y: 20},
		{Valid: true, X: 30, Y: 40},
		{Valid: false, X: 999, Y: 999},
	})
	if !out.Valid {
		t.Fatal("output invalid with two valid inputs")
	}
	if out.X != 20 || out.Y != 30 {
		t.Errorf("mean = (%g, %g), want (20, 30)", out.X, out.Y)
	}
	if out.Label != "mixed" {
		t.Errorf("label = %q, want %q", out.Label, "mixed")
	}
}

func TestMeanAllInvalid(t *testing.T) {
	c := NewMean("m")
	out := c.Combine([]token.Position{{}, {}})
	if out.Valid {
		t.Error("output valid with no valid inputs")
	}
}

func TestMeanHeading(t *testing.T) {
	c := NewMean("m")

	out := c.Combine([]token.Position{
		{Valid: true, X: 1, Y: 1, HasHeading: true, Heading: 0.5},
		{Valid: true, X: 3, Y: 3, HasHeading: true, Heading: 1.5},
	})
	if !out.HasHeading || math.Abs(out.Heading-1.0) > 1e-9 {
		t.Errorf("heading = %v/%g, want true/1.0", out.HasHeading, out.Heading)
	}

	out = c.Combine([]token.Position{
		{Valid: true, X: 1, Y: 1, HasHeading: true, Heading: 0.5},
		{Valid: true, X: 3, Y: 3},
	})
	if out.HasHeading {
		t.Error("heading carried though one valid input lacks it")
	}
}

func TestMeanDropsRegion(t *testing.T) {
	c := NewMean("m")
	out := c.Combine([]token.Position{
		{Valid: true, X: 1, Y: 1, HasRegion: true, Region: token.Region{W: 4, H: 4}},
		{Valid: true, X: 3, Y: 3, HasRegion: true, Region: token.Region{W: 8, H: 8}},
	})
	if out.HasRegion {
		t.Error("region carried through the mean combiner")
	}
}
