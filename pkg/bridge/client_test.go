package bridge

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-rover/pkg/protocol"
)

var upgrader = websocket.Upgrader{}

// newBaseStation runs a fake base station and returns its ws:// URL plus a
// channel of accepted server-side connections.
func newBaseStation(t *testing.T) (string, chan *websocket.Conn) {
	t.Helper()
	conns := make(chan *websocket.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conns <- conn
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http"), conns
}

func TestBridgeForwardsCommands(t *testing.T) {
	url, conns := newBaseStation(t)

	lines := make(chan string, 1)
	c := New(url)
	c.OnCommand = func(line string) { lines <- line }

	go c.Run()
	defer c.Stop()

	var server *websocket.Conn
	select {
	case server = <-conns:
	case <-time.After(2 * time.Second):
		t.Fatal("bridge never connected")
	}

	msg, _ := protocol.NewCommandMessage("REPLAY")
	data, _ := msg.Bytes()
	if err := server.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case line := <-lines:
		if line != "REPLAY" {
			t.Errorf("line: got %q, want REPLAY", line)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("command was not forwarded")
	}
}

func TestBridgePublishesState(t *testing.T) {
	url, conns := newBaseStation(t)

	c := New(url)
	go c.Run()
	defer c.Stop()

	var server *websocket.Conn
	select {
	case server = <-conns:
	case <-time.After(2 * time.Second):
		t.Fatal("bridge never connected")
	}

	// Wait until the client marks the link up
	deadline := time.After(2 * time.Second)
	for !c.Connected() {
		select {
		case <-deadline:
			t.Fatal("link never came up")
		case <-time.After(5 * time.Millisecond):
		}
	}

	msg, _ := protocol.NewStateMessage("idle", 0, 100, 0, "")
	if err := c.Publish(msg); err != nil {
		t.Fatalf("publish: %v", err)
	}

	server.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := server.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	parsed, err := protocol.ParseMessage(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Type != protocol.TypeState {
		t.Errorf("type: got %v, want state", parsed.Type)
	}
}

func TestBridgeAnswersPing(t *testing.T) {
	url, conns := newBaseStation(t)

	c := New(url)
	go c.Run()
	defer c.Stop()

	var server *websocket.Conn
	select {
	case server = <-conns:
	case <-time.After(2 * time.Second):
		t.Fatal("bridge never connected")
	}

	deadline := time.After(2 * time.Second)
	for !c.Connected() {
		select {
		case <-deadline:
			t.Fatal("link never came up")
		case <-time.After(5 * time.Millisecond):
		}
	}

	ping, _ := protocol.NewPingMessage("x", time.Now().UnixMilli())
	data, _ := ping.Bytes()
	if err := server.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("write: %v", err)
	}

	server.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := server.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	parsed, _ := protocol.ParseMessage(data)
	if parsed.Type != protocol.TypePong {
		t.Errorf("type: got %v, want pong", parsed.Type)
	}
}
