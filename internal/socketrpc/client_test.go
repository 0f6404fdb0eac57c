package socketrpc_test

import (
	"bufio"
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/tinytelemetry/flapboard/internal/broadcast"
	"github.com/tinytelemetry/flapboard/internal/model"
	"github.com/tinytelemetry/flapboard/internal/socketrpc"
	"github.com/tinytelemetry/flapboard/internal/splitflap"
)

var (
	target = time.Date(2026, 12, 31, 23, 0, 0, 0, time.UTC)
	now    = target.Add(-(3*24*time.Hour + 4*time.Hour + 5*time.Minute + 6*time.Second))
)

func startTestServer(t *testing.T) (string, *socketrpc.Server, *broadcast.Hub) {
	t.Helper()
	hub := broadcast.New()
	sockPath := filepath.Join(t.TempDir(), "test.sock")
	srv := socketrpc.NewServer(sockPath, hub, target)
	if err := srv.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	return sockPath, srv, hub
}

func publish(t *testing.T, hub *broadcast.Hub, at time.Time) {
	t.Helper()
	e, err := splitflap.NewEngine(target)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	f, err := e.Frame(at)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	hub.Publish(f)
}

func TestRoundtrip(t *testing.T) {
	sockPath, srv, hub := startTestServer(t)
	defer srv.Stop()

	client, err := socketrpc.Dial(sockPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	var rpcErr *socketrpc.RPCError
	if _, err := client.Snapshot(); !errors.As(err, &rpcErr) {
		t.Fatalf("Snapshot before publish err = %v, want RPCError", err)
	}

	publish(t, hub, now)

	f, err := client.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if got := f.Digits.String(); got != "03040506" {
		t.Errorf("digits = %s, want 03040506", got)
	}
	if got := f.Fields.Labels(); got != (model.Labels{Days: "03", Hours: "04", Minutes: "05", Seconds: "06"}) {
		t.Errorf("labels = %+v", got)
	}

	got, err := client.Target()
	if err != nil {
		t.Fatalf("Target: %v", err)
	}
	if !got.Equal(target) {
		t.Errorf("target = %s, want %s", got, target)
	}

	tile, err := client.Tile(126)
	if err != nil {
		t.Fatalf("Tile: %v", err)
	}
	if tile.Index != 126 {
		t.Errorf("tile index = %d", tile.Index)
	}
	if _, err := client.Tile(0); !errors.As(err, &rpcErr) {
		t.Errorf("Tile(0) err = %v, want RPCError", err)
	}
}

func TestMalformedRequest(t *testing.T) {
	sockPath, srv, _ := startTestServer(t)
	defer srv.Stop()

	conn, err := net.Dial("unix", sockPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("{not json\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	scanner := bufio.NewScanner(conn)
	if !scanner.Scan() {
		t.Fatalf("no response: %v", scanner.Err())
	}
	var resp socketrpc.Response
	if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != -32700 {
		t.Fatalf("error = %+v, want parse error", resp.Error)
	}
}

func TestStopWithConnectedClient(t *testing.T) {
	sockPath, srv, _ := startTestServer(t)

	client, err := socketrpc.Dial(sockPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	stopped := make(chan struct{})
	go func() {
		srv.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(3 * time.Second):
		t.Fatal("Stop blocked on an idle client connection")
	}
	if _, err := os.Stat(sockPath); !os.IsNotExist(err) {
		t.Errorf("socket file still present: %v", err)
	}
}

func TestSecondServerRefused(t *testing.T) {
	sockPath, srv, hub := startTestServer(t)
	defer srv.Stop()

	other := socketrpc.NewServer(sockPath, hub, target)
	if err := other.Start(); err == nil {
		other.Stop()
		t.Fatal("second server started on a live socket")
	}
}

func TestPoller(t *testing.T) {
	sockPath, srv, hub := startTestServer(t)
	defer srv.Stop()

	client, err := socketrpc.Dial(sockPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	publish(t, hub, now)

	clock := clockwork.NewFakeClockAt(now)
	frames, cancel := socketrpc.NewPoller(client, time.Second, clock).Subscribe()
	defer cancel()

	first := recv(t, frames)
	if got := first.Digits.String(); got != "03040506" {
		t.Fatalf("first digits = %s", got)
	}

	publish(t, hub, now.Add(time.Second))
	clock.Advance(time.Second)
	second := recv(t, frames)
	if got := second.Digits.String(); got != "03040505" {
		t.Fatalf("second digits = %s", got)
	}

	cancel()
	for range frames {
	}
}

func recv(t *testing.T, ch <-chan model.Frame) model.Frame {
	t.Helper()
	select {
	case f, ok := <-ch:
		if !ok {
			t.Fatal("frame channel closed")
		}
		return f
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for frame")
		return model.Frame{}
	}
}
