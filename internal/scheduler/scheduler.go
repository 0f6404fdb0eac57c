// Package scheduler drives the periodic recompute-and-publish cycle of a
// countdown board.
package scheduler

import (
	"log"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/tinytelemetry/flapboard/internal/model"
)

// Config holds optional scheduler settings.
type Config struct {
	Interval time.Duration   // default model.DefaultRefreshInterval
	Clock    clockwork.Clock // default real clock
}

// Scheduler samples the clock on a fixed interval, builds a frame and hands
// it to the publisher. It is Idle until Start and returns to Idle on Stop;
// it can be started again afterwards.
type Scheduler struct {
	builder  model.FrameBuilder
	pub      model.Publisher
	clock    clockwork.Clock
	interval time.Duration

	mu   sync.Mutex
	done chan struct{} // nil while idle
	wg   sync.WaitGroup
}

// New creates an idle scheduler.
func New(builder model.FrameBuilder, pub model.Publisher, conf ...Config) *Scheduler {
	var c Config
	if len(conf) > 0 {
		c = conf[0]
	}
	if c.Interval <= 0 {
		c.Interval = model.DefaultRefreshInterval
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	return &Scheduler{
		builder:  builder,
		pub:      pub,
		clock:    c.Clock,
		interval: c.Interval,
	}
}

// Start publishes one frame right away, then one per interval. It is a
// no-op when already active.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return
	}

	done := make(chan struct{})
	s.done = done

	expired := false
	if frame, ok := s.build(); ok {
		s.pub.Publish(frame)
		expired = frame.Fields.Expired
		if expired {
			logExpired(frame)
		}
	}

	ticker := s.clock.NewTicker(s.interval)
	s.wg.Add(1)
	go s.tickLoop(ticker, done, expired)
}

// Stop cancels the periodic cycle and waits for it to exit. No frame is
// published after Stop returns. It is a no-op when idle.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done == nil {
		return
	}
	close(s.done)
	s.done = nil
	s.wg.Wait()
}

// Active reports whether the periodic cycle is running.
func (s *Scheduler) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done != nil
}

// Interval returns the refresh period.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

func (s *Scheduler) tickLoop(ticker clockwork.Ticker, done <-chan struct{}, expired bool) {
	defer s.wg.Done()
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			frame, ok := s.build()
			if !ok {
				continue
			}
			select {
			case <-done:
				return
			default:
			}
			s.pub.Publish(frame)
			if frame.Fields.Expired && !expired {
				logExpired(frame)
			}
			expired = frame.Fields.Expired
		case <-done:
			return
		}
	}
}

func (s *Scheduler) build() (model.Frame, bool) {
	frame, err := s.builder.Frame(s.clock.Now())
	if err != nil {
		log.Printf("scheduler: skipping publish: %v", err)
		return model.Frame{}, false
	}
	return frame, true
}

func logExpired(frame model.Frame) {
	log.Printf("scheduler: countdown reached target %s", frame.Target.Format(time.RFC3339))
}
