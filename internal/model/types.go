package model

import (
	"fmt"
	"time"
)

// MaxDisplayDays is the largest day count the two day digits can show.
const MaxDisplayDays = 99

// Fields is the remaining time split into calendar units.
// Days keeps its full magnitude; only the label is capped.
type Fields struct {
	Days    int  `json:"days"`
	Hours   int  `json:"hours"`
	Minutes int  `json:"minutes"`
	Seconds int  `json:"seconds"`
	Expired bool `json:"expired"` // target reached, all fields zero
	Capped  bool `json:"capped"`  // Days exceeds MaxDisplayDays
}

// Labels holds the four two-character display strings.
type Labels struct {
	Days    string `json:"days"`
	Hours   string `json:"hours"`
	Minutes string `json:"minutes"`
	Seconds string `json:"seconds"`
}

// Labels renders each field zero-padded to width 2.
func (f Fields) Labels() Labels {
	return Labels{
		Days:    pad2(min(f.Days, MaxDisplayDays)),
		Hours:   pad2(f.Hours),
		Minutes: pad2(f.Minutes),
		Seconds: pad2(f.Seconds),
	}
}

func pad2(n int) string {
	return fmt.Sprintf("%02d", n)
}

// DigitSequence is the 8 displayed digits in DD HH MM SS order.
type DigitSequence [DigitCount]uint8

// String returns the sequence as 8 ASCII digits.
func (d DigitSequence) String() string {
	b := make([]byte, DigitCount)
	for i, v := range d {
		b[i] = '0' + v
	}
	return string(b)
}

// MarshalText encodes the sequence as its 8-digit string.
func (d DigitSequence) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses an 8-digit string.
func (d *DigitSequence) UnmarshalText(text []byte) error {
	if len(text) != DigitCount {
		return fmt.Errorf("digit sequence %q: want %d digits", text, DigitCount)
	}
	var out DigitSequence
	for i, c := range text {
		if c < '0' || c > '9' {
			return fmt.Errorf("digit sequence %q: %q is not a decimal digit", text, c)
		}
		out[i] = c - '0'
	}
	*d = out
	return nil
}

// Offset is a horizontal tile translation in em (one em is one tile column).
type Offset int

// CSS renders the offset the way the web board applies it.
func (o Offset) CSS() string {
	return fmt.Sprintf("translate3d(%dem, 0, 0)", int(o))
}

// Tile is one addressable unit of the board. Tiles without a transform sit
// flush in their home column.
type Tile struct {
	Index       int    `json:"index"` // 1..TileCount
	Offset      Offset `json:"offset"`
	Transformed bool   `json:"transformed"`
}

// Frame is one published board state. Tiles may be shared between frames
// with equal digits and must be treated as read-only.
type Frame struct {
	At     time.Time     `json:"at"`
	Target time.Time     `json:"target"`
	Fields Fields        `json:"fields"`
	Digits DigitSequence `json:"digits"`
	Tiles  []Tile        `json:"tiles"`
}

// Remaining returns target minus sample time, never negative.
func (f Frame) Remaining() time.Duration {
	if d := f.Target.Sub(f.At); d > 0 {
		return d
	}
	return 0
}
