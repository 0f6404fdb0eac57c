package socketrpc

import (
	"log"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/tinytelemetry/flapboard/internal/model"
)

// SnapshotClient is the part of Client the poller needs.
type SnapshotClient interface {
	Snapshot() (model.Frame, error)
}

// Poller turns periodic Snapshot calls into a frame subscription, so a
// remote service can stand in for a local hub.
type Poller struct {
	client   SnapshotClient
	interval time.Duration
	clock    clockwork.Clock
}

// NewPoller creates a poller. A nil clock uses the real clock.
func NewPoller(client SnapshotClient, interval time.Duration, clock clockwork.Clock) *Poller {
	if interval <= 0 {
		interval = model.DefaultRefreshInterval
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Poller{client: client, interval: interval, clock: clock}
}

// Subscribe polls once immediately and then every interval. Frames that
// repeat the previous sample instant are dropped.
func (p *Poller) Subscribe() (<-chan model.Frame, func()) {
	out := make(chan model.Frame, 1)
	done := make(chan struct{})
	exited := make(chan struct{})

	ticker := p.clock.NewTicker(p.interval)
	go func() {
		defer close(exited)
		defer close(out)
		defer ticker.Stop()

		var last time.Time
		poll := func() bool {
			f, err := p.client.Snapshot()
			if err != nil {
				log.Printf("socketrpc: poll: %v", err)
				return true
			}
			if f.At.Equal(last) {
				return true
			}
			last = f.At
			select {
			case out <- f:
				return true
			case <-done:
				return false
			}
		}

		if !poll() {
			return
		}
		for {
			select {
			case <-ticker.Chan():
				if !poll() {
					return
				}
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return out, func() {
		once.Do(func() {
			close(done)
			<-exited
		})
	}
}
