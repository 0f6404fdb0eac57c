package splitflap

import "github.com/tinytelemetry/flapboard/internal/model"

// patterns maps each digit to the tiles of its group that slide sideways,
// keyed by local position (1..15, row-major over 5 rows of 3). Tiles that
// are not listed stay flush. Stacking shifted tiles onto their neighbours
// leaves the gaps that read as the digit.
var patterns = [10]map[int]model.Offset{
	0: {5: -1, 8: -1, 11: -1},
	1: {1: 2, 4: 2, 7: 2, 10: 2, 13: 2, 2: 1, 5: 1, 8: 1, 11: 1, 14: 1},
	2: {4: 2, 5: 1, 11: -1, 12: -2},
	3: {4: 2, 10: 2, 5: 1, 11: 1},
	4: {2: -1, 5: -1, 10: 2, 13: 2, 11: 1, 14: 1},
	5: {5: -1, 6: -2, 10: 2, 11: 1},
	6: {5: -1, 6: -2, 11: 1},
	7: {4: 2, 7: 2, 10: 2, 13: 2, 5: 1, 8: 1, 11: 1, 14: 1},
	8: {5: 1, 11: 1},
	9: {5: 1, 11: 1, 10: 2},
}

// PatternOffset reports the offset a digit applies at a local position.
func PatternOffset(digit uint8, local int) (model.Offset, bool) {
	if int(digit) >= len(patterns) {
		return 0, false
	}
	o, ok := patterns[digit][local]
	return o, ok
}
