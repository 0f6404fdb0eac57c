package scheduler

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/tinytelemetry/flapboard/internal/model"
	"github.com/tinytelemetry/flapboard/internal/splitflap"
)

var t0 = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

type recorder struct {
	frames chan model.Frame
}

func newRecorder() *recorder {
	return &recorder{frames: make(chan model.Frame, 32)}
}

func (r *recorder) Publish(f model.Frame) { r.frames <- f }

// immediate returns a frame that must already be queued.
func (r *recorder) immediate(t *testing.T) model.Frame {
	t.Helper()
	select {
	case f := <-r.frames:
		return f
	default:
		t.Fatal("expected a frame to be published synchronously")
		return model.Frame{}
	}
}

func (r *recorder) next(t *testing.T) model.Frame {
	t.Helper()
	select {
	case f := <-r.frames:
		return f
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
		return model.Frame{}
	}
}

func (r *recorder) none(t *testing.T) {
	t.Helper()
	select {
	case f := <-r.frames:
		t.Fatalf("unexpected frame at %s", f.At)
	case <-time.After(100 * time.Millisecond):
	}
}

func newTestScheduler(t *testing.T, target time.Time) (*Scheduler, *recorder, clockwork.FakeClock) {
	t.Helper()
	engine, err := splitflap.NewEngine(target)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	clock := clockwork.NewFakeClockAt(t0)
	rec := newRecorder()
	s := New(engine, rec, Config{Clock: clock})
	t.Cleanup(s.Stop)
	return s, rec, clock
}

func TestScheduler_StartPublishesImmediately(t *testing.T) {
	s, rec, _ := newTestScheduler(t, t0.Add(90_061*time.Second))

	if s.Active() {
		t.Fatal("new scheduler should be idle")
	}
	s.Start()
	if !s.Active() {
		t.Fatal("scheduler should be active after Start")
	}

	f := rec.immediate(t)
	if got := f.Digits.String(); got != "01010101" {
		t.Fatalf("digits = %s, want 01010101", got)
	}
}

func TestScheduler_TicksEveryInterval(t *testing.T) {
	s, rec, clock := newTestScheduler(t, t0.Add(time.Hour))

	s.Start()
	rec.immediate(t)

	for i := 1; i <= 3; i++ {
		clock.Advance(time.Second)
		f := rec.next(t)
		if want := t0.Add(time.Duration(i) * time.Second); !f.At.Equal(want) {
			t.Fatalf("tick %d at %s, want %s", i, f.At, want)
		}
		if f.Fields.Minutes != 59 || f.Fields.Seconds != 60-i {
			t.Fatalf("tick %d: fields = %+v, want 59m %ds", i, f.Fields, 60-i)
		}
	}
}

func TestScheduler_StopThenRestart(t *testing.T) {
	s, rec, clock := newTestScheduler(t, t0.Add(time.Hour))

	s.Start()
	rec.immediate(t)
	clock.Advance(time.Second)
	rec.next(t)

	s.Stop()
	if s.Active() {
		t.Fatal("scheduler should be idle after Stop")
	}
	clock.Advance(time.Second)
	rec.none(t)

	s.Start()
	f := rec.immediate(t)
	if want := t0.Add(2 * time.Second); !f.At.Equal(want) {
		t.Fatalf("restart frame at %s, want %s", f.At, want)
	}

	clock.Advance(time.Second)
	rec.next(t)
	rec.none(t)
}

func TestScheduler_StartAndStopAreIdempotent(t *testing.T) {
	s, rec, clock := newTestScheduler(t, t0.Add(time.Hour))

	s.Stop()
	s.Start()
	s.Start()
	rec.immediate(t)
	rec.none(t)

	clock.Advance(time.Second)
	rec.next(t)
	rec.none(t)

	s.Stop()
	s.Stop()
}

func TestScheduler_RepublishesExpiredBoard(t *testing.T) {
	s, rec, clock := newTestScheduler(t, t0.Add(1500*time.Millisecond))

	s.Start()
	first := rec.immediate(t)
	if first.Fields.Expired {
		t.Fatal("board should still be running")
	}

	clock.Advance(time.Second)
	rec.next(t)
	clock.Advance(time.Second)
	a := rec.next(t)
	clock.Advance(time.Second)
	b := rec.next(t)

	if !a.Fields.Expired || !b.Fields.Expired {
		t.Fatalf("expected expired frames, got %+v and %+v", a.Fields, b.Fields)
	}
	if a.Digits != b.Digits || len(a.Tiles) != len(b.Tiles) {
		t.Fatal("expired frames differ")
	}
	for i := range a.Tiles {
		if a.Tiles[i] != b.Tiles[i] {
			t.Fatalf("tile %d differs between identical frames", i+1)
		}
	}
}

type failingBuilder struct{}

func (failingBuilder) Frame(time.Time) (model.Frame, error) {
	return model.Frame{}, errors.New("boom")
}

func TestScheduler_BuildErrorSkipsPublish(t *testing.T) {
	clock := clockwork.NewFakeClockAt(t0)
	rec := newRecorder()
	s := New(failingBuilder{}, rec, Config{Clock: clock, Interval: 500 * time.Millisecond})
	t.Cleanup(s.Stop)

	if got := s.Interval(); got != 500*time.Millisecond {
		t.Fatalf("interval = %s", got)
	}

	s.Start()
	clock.Advance(500 * time.Millisecond)
	rec.none(t)
	if !s.Active() {
		t.Fatal("scheduler should stay active after build errors")
	}
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	})
	return &buf
}

func TestScheduler_LogsExpiryOncePerActivation(t *testing.T) {
	buf := captureLog(t)
	s, rec, clock := newTestScheduler(t, t0.Add(-time.Minute))

	s.Start()
	if f := rec.immediate(t); !f.Fields.Expired {
		t.Fatal("first frame should be expired")
	}
	clock.Advance(time.Second)
	rec.next(t)
	s.Stop()

	if got := strings.Count(buf.String(), "countdown reached target"); got != 1 {
		t.Fatalf("expiry logged %d times in first activation, want 1:\n%s", got, buf.String())
	}

	s.Start()
	rec.immediate(t)
	s.Stop()

	if got := strings.Count(buf.String(), "countdown reached target"); got != 2 {
		t.Fatalf("expiry logged %d times after reactivation, want 2:\n%s", got, buf.String())
	}
}

func TestScheduler_LogsExpiryOnTransition(t *testing.T) {
	buf := captureLog(t)
	s, rec, clock := newTestScheduler(t, t0.Add(1500*time.Millisecond))

	s.Start()
	rec.immediate(t)
	for i := 0; i < 3; i++ {
		clock.Advance(time.Second)
		rec.next(t)
	}
	s.Stop()

	if got := strings.Count(buf.String(), "countdown reached target"); got != 1 {
		t.Fatalf("expiry logged %d times, want 1:\n%s", got, buf.String())
	}
}
