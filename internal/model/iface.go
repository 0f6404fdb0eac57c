package model

import "time"

// TimeSource samples the current wall-clock instant.
// clockwork.Clock satisfies it.
type TimeSource interface {
	Now() time.Time
}

// FrameBuilder derives a complete board frame for an instant.
type FrameBuilder interface {
	Frame(now time.Time) (Frame, error)
}

// Publisher receives every frame produced by the refresh loop.
type Publisher interface {
	Publish(frame Frame)
}

// FrameSource hands out frame subscriptions. The returned func cancels the
// subscription and closes the channel.
type FrameSource interface {
	Subscribe() (<-chan Frame, func())
}

// SnapshotReader is the read contract shared by the HTTP and socket surfaces.
type SnapshotReader interface {
	Latest() (Frame, bool)
}
