package model

import "time"

// Shared defaults used by both the service and board binaries.
const (
	DefaultRefreshInterval = 1 * time.Second
	DefaultSkin            = "default"
	DefaultAPIPort         = 3000
)

// Board geometry.
const (
	TileCount    = 126 // addressable tiles on the board surface
	DigitCount   = 8   // DD HH MM SS
	GroupTiles   = 15  // tiles per digit group (5 rows of 3)
	GroupRows    = 5
	GroupColumns = 3
)
