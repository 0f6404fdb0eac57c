package splitflap

import (
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tinytelemetry/flapboard/internal/countdown"
	"github.com/tinytelemetry/flapboard/internal/model"
)

const defaultCacheSize = 64

// ErrZeroTarget is returned when an engine is built without a target.
var ErrZeroTarget = errors.New("splitflap: target instant is not set")

// EngineConfig tunes an Engine.
type EngineConfig struct {
	CacheSize int // tile vectors kept per digit sequence; default 64
}

// Engine builds board frames for a fixed target instant.
type Engine struct {
	target time.Time
	tiles  *lru.Cache[model.DigitSequence, []model.Tile]
}

// NewEngine creates an engine counting down to target.
func NewEngine(target time.Time, conf ...EngineConfig) (*Engine, error) {
	if target.IsZero() {
		return nil, ErrZeroTarget
	}
	size := defaultCacheSize
	if len(conf) > 0 && conf[0].CacheSize > 0 {
		size = conf[0].CacheSize
	}
	cache, err := lru.New[model.DigitSequence, []model.Tile](size)
	if err != nil {
		return nil, fmt.Errorf("splitflap: tile cache: %w", err)
	}
	return &Engine{target: target, tiles: cache}, nil
}

// Target returns the instant the board counts down to.
func (e *Engine) Target() time.Time {
	return e.target
}

// Frame computes the board for the sampled instant now.
func (e *Engine) Frame(now time.Time) (model.Frame, error) {
	fields := countdown.Compute(e.target, now)
	digits := countdown.Digits(fields)

	tiles, ok := e.tiles.Get(digits)
	if !ok {
		var err error
		tiles, err = Tiles(digits)
		if err != nil {
			return model.Frame{}, err
		}
		e.tiles.Add(digits, tiles)
	}

	return model.Frame{
		At:     now,
		Target: e.target,
		Fields: fields,
		Digits: digits,
		Tiles:  tiles,
	}, nil
}
