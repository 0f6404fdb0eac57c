// Package splitflap maps countdown digits onto the 126 tiles of the
// simulated departure board.
package splitflap

import (
	"errors"
	"fmt"

	"github.com/tinytelemetry/flapboard/internal/model"
)

var (
	ErrTileIndex = errors.New("splitflap: tile index out of range")
	ErrDigit     = errors.New("splitflap: digit out of range")
)

// Resolve returns the transform of one tile for the given digits. The bool
// is false when the tile stays flush. The first group whose pattern defines
// the tile's local position wins.
func Resolve(digits model.DigitSequence, index int) (model.Offset, bool, error) {
	if index < 1 || index > model.TileCount {
		return 0, false, fmt.Errorf("%w: %d", ErrTileIndex, index)
	}
	if err := validateDigits(digits); err != nil {
		return 0, false, err
	}
	return resolve(digits, index)
}

func resolve(digits model.DigitSequence, index int) (model.Offset, bool, error) {
	for g, off := range groupOffsets {
		local := index - off
		if local < 1 || local > model.GroupTiles {
			continue
		}
		if o, ok := PatternOffset(digits[g], local); ok {
			return o, true, nil
		}
	}
	return 0, false, nil
}

// Tiles resolves every tile on the board.
func Tiles(digits model.DigitSequence) ([]model.Tile, error) {
	if err := validateDigits(digits); err != nil {
		return nil, err
	}
	tiles := make([]model.Tile, model.TileCount)
	for i := range tiles {
		o, ok, err := resolve(digits, i+1)
		if err != nil {
			return nil, err
		}
		tiles[i] = model.Tile{Index: i + 1, Offset: o, Transformed: ok}
	}
	return tiles, nil
}

func validateDigits(digits model.DigitSequence) error {
	for pos, d := range digits {
		if d > 9 {
			return fmt.Errorf("%w: %d at position %d", ErrDigit, d, pos)
		}
	}
	return nil
}
