package splitflap

import (
	"fmt"

	"github.com/tinytelemetry/flapboard/internal/model"
)

// groupOffsets anchors each digit group on the board. Tile offset+1 is the
// group's first tile. The two-tile gaps after the day, hour and minute pairs
// hold the colon separators.
var groupOffsets = [model.DigitCount]int{0, 15, 32, 47, 64, 79, 96, 111}

// Slot is the fixed position of a tile on the board.
type Slot struct {
	Group     int // digit group 0..7, -1 for separator tiles
	Local     int // 1..GroupTiles, 0 for separator tiles
	Separator int // colon ordinal 0..2, -1 for digit tiles
	Row       int // 0..GroupRows-1
	Col       int // home column within the group
}

// slots is indexed by global tile index; slots[0] is unused.
var slots = buildSlots()

func buildSlots() [model.TileCount + 1]Slot {
	var out [model.TileCount + 1]Slot
	seen := make([]bool, model.TileCount+1)

	mark := func(index int, s Slot) {
		if index < 1 || index > model.TileCount {
			panic(fmt.Sprintf("splitflap: layout places tile %d outside 1..%d", index, model.TileCount))
		}
		if seen[index] {
			panic(fmt.Sprintf("splitflap: layout places tile %d in two slots", index))
		}
		seen[index] = true
		out[index] = s
	}

	separator := 0
	for g, off := range groupOffsets {
		if g > 0 {
			gapStart := groupOffsets[g-1] + model.GroupTiles
			gap := off - gapStart
			if gap < 0 || gap*2-1 >= model.GroupRows {
				panic(fmt.Sprintf("splitflap: gap of %d tiles before group %d", gap, g))
			}
			if gap > 0 {
				for pos := 1; pos <= gap; pos++ {
					mark(gapStart+pos, Slot{Group: -1, Separator: separator, Row: 2*pos - 1})
				}
				separator++
			}
		}
		for local := 1; local <= model.GroupTiles; local++ {
			mark(off+local, Slot{
				Group:     g,
				Local:     local,
				Separator: -1,
				Row:       (local - 1) / model.GroupColumns,
				Col:       (local - 1) % model.GroupColumns,
			})
		}
	}

	for i := 1; i <= model.TileCount; i++ {
		if !seen[i] {
			panic(fmt.Sprintf("splitflap: tile %d has no slot", i))
		}
	}
	return out
}

// GroupOffset returns the anchor of digit group g.
func GroupOffset(g int) int {
	return groupOffsets[g]
}

// Locate returns the fixed slot of a tile.
func Locate(index int) (Slot, error) {
	if index < 1 || index > model.TileCount {
		return Slot{}, fmt.Errorf("%w: %d", ErrTileIndex, index)
	}
	return slots[index], nil
}
