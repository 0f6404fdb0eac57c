package splitflap

import (
	"fmt"
	"strings"

	"github.com/tinytelemetry/flapboard/internal/model"
)

// Cells is the visible face of one digit group: true where at least one
// tile lands after its transform.
type Cells [model.GroupRows][model.GroupColumns]bool

// Surface is the projected face of the whole board.
type Surface struct {
	Groups [model.DigitCount]Cells
}

// Project lands every tile in its group column plus its offset.
// Tiles pushed past the group edge are not drawn.
func Project(tiles []model.Tile) (Surface, error) {
	var s Surface
	for _, t := range tiles {
		slot, err := Locate(t.Index)
		if err != nil {
			return Surface{}, err
		}
		if slot.Group < 0 {
			continue
		}
		col := slot.Col
		if t.Transformed {
			col += int(t.Offset)
		}
		if col < 0 || col >= model.GroupColumns {
			continue
		}
		s.Groups[slot.Group][slot.Row][col] = true
	}
	return s, nil
}

// String draws the cells with '#' for covered and '.' for open, one row
// per line.
func (c Cells) String() string {
	var b strings.Builder
	for r, row := range c {
		if r > 0 {
			b.WriteByte('\n')
		}
		for _, on := range row {
			if on {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
	}
	return b.String()
}

// Palette holds the strings a surface is drawn with. On, Off and Colon
// must share one display width.
type Palette struct {
	On    string // covered cell
	Off   string // open cell
	Colon string // lit separator dot
	Gap   string // spacing between digits
}

// Render draws the surface row by row: digit groups side by side with a
// colon column between the day, hour, minute and second pairs.
func (s Surface) Render(p Palette) string {
	var b strings.Builder
	for r := 0; r < model.GroupRows; r++ {
		for g := range s.Groups {
			if g > 0 {
				b.WriteString(p.Gap)
				if g%2 == 0 {
					if r == 1 || r == 3 {
						b.WriteString(p.Colon)
					} else {
						b.WriteString(p.Off)
					}
					b.WriteString(p.Gap)
				}
			}
			for _, lit := range s.Groups[g][r] {
				if lit {
					b.WriteString(p.On)
				} else {
					b.WriteString(p.Off)
				}
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Text renders the surface as plain text.
func (s Surface) Text(on, off string) string {
	return s.Render(Palette{On: on, Off: off, Colon: on, Gap: " "})
}

// Describe summarises a frame on one line.
func Describe(f model.Frame) string {
	l := f.Fields.Labels()
	state := "running"
	if f.Fields.Expired {
		state = "expired"
	}
	return fmt.Sprintf("%sd %sh %sm %ss (%s)", l.Days, l.Hours, l.Minutes, l.Seconds, state)
}
