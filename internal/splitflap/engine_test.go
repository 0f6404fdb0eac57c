package splitflap

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tinytelemetry/flapboard/internal/model"
)

func TestNewEngine_RejectsZeroTarget(t *testing.T) {
	t.Parallel()

	if _, err := NewEngine(time.Time{}); !errors.Is(err, ErrZeroTarget) {
		t.Fatalf("err = %v, want ErrZeroTarget", err)
	}
}

func TestEngine_Frame(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	e, err := NewEngine(now.Add(90_061_000 * time.Millisecond))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	f, err := e.Frame(now)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if got := f.Digits.String(); got != "01010101" {
		t.Fatalf("digits = %s, want 01010101", got)
	}
	if len(f.Tiles) != model.TileCount {
		t.Fatalf("len(tiles) = %d", len(f.Tiles))
	}
	if !f.Target.Equal(e.Target()) || !f.At.Equal(now) {
		t.Fatalf("frame instants = (%s, %s)", f.At, f.Target)
	}
	if got := f.Remaining(); got != 90_061*time.Second {
		t.Fatalf("remaining = %s", got)
	}
}

func TestEngine_SameDigitsShareTiles(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	// 10.5s and 10.2s remaining both floor to ten seconds.
	e, err := NewEngine(now.Add(10*time.Second + 500*time.Millisecond))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	a, err := e.Frame(now)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	b, err := e.Frame(now.Add(300 * time.Millisecond))
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if a.Digits.String() != "00000010" {
		t.Fatalf("digits = %s, want 00000010", a.Digits)
	}
	if a.Digits != b.Digits {
		t.Fatalf("digits differ: %s vs %s", a.Digits, b.Digits)
	}
	if &a.Tiles[0] != &b.Tiles[0] {
		t.Fatal("expected cached tile vector to be reused")
	}
}

func TestEngine_ExpiredFrame(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	e, _ := NewEngine(now.Add(-time.Minute))
	f, err := e.Frame(now)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if !f.Fields.Expired || f.Digits.String() != "00000000" {
		t.Fatalf("expired frame = %+v", f.Fields)
	}
	if got := Describe(f); !strings.Contains(got, "expired") {
		t.Fatalf("Describe = %q", got)
	}
}

func TestSurface_Text(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	e, _ := NewEngine(now.Add(12*24*time.Hour + 3*time.Hour + 45*time.Minute + 6*time.Second))
	f, _ := e.Frame(now)
	s, err := Project(f.Tiles)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	text := s.Text("#", ".")
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if len(lines) != model.GroupRows {
		t.Fatalf("lines = %d, want %d", len(lines), model.GroupRows)
	}
	// 8 groups of 3, 7 single spaces, 3 colon columns with a trailing space.
	want := 8*3 + 7 + 3*2
	for i, l := range lines {
		if len(l) != want {
			t.Errorf("line %d width = %d, want %d: %q", i, len(l), want, l)
		}
	}
}
