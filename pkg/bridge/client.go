// Package bridge maintains the rover's outbound link to a base station.
// It is the radio-link analog: command lines arrive from the operator over
// the websocket, and state/telemetry flow back.
package bridge

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-rover/internal/log"
	"github.com/teslashibe/go-rover/pkg/protocol"
)

const (
	dialTimeout    = 10 * time.Second
	reconnectDelay = 5 * time.Second
)

// Client is a dial-out websocket link to the base station.
type Client struct {
	url       string
	sessionID string

	// OnCommand receives operator command lines. Set before Run.
	OnCommand func(line string)

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool

	stop chan struct{}
}

// New creates a bridge client for the given ws:// URL.
func New(url string) *Client {
	return &Client{
		url:       url,
		sessionID: uuid.New().String(),
		stop:      make(chan struct{}),
	}
}

// SessionID returns this link's session identifier.
func (c *Client) SessionID() string {
	return c.sessionID
}

// Connected reports whether the link is currently up.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Run maintains the connection, reconnecting with a fixed delay.
// Blocks until Stop is called.
func (c *Client) Run() {
	for {
		select {
		case <-c.stop:
			return
		default:
		}

		if err := c.connect(); err != nil {
			log.Warn("base station connect failed", "url", c.url, "error", err)
		} else {
			c.readLoop() // blocks until the connection drops
		}

		select {
		case <-c.stop:
			return
		case <-time.After(reconnectDelay):
		}
	}
}

// Stop closes the link and halts the reconnect loop.
func (c *Client) Stop() {
	close(c.stop)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.conn.Close()
	}
}

// Publish sends a protocol message to the base station.
// A no-op returning nil while the link is down; state is republished on
// the next broadcast anyway.
func (c *Client) Publish(msg *protocol.Message) error {
	data, err := msg.Bytes()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected || c.conn == nil {
		return nil
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// connect dials the base station.
func (c *Client) connect() error {
	dialer := websocket.Dialer{
		HandshakeTimeout: dialTimeout,
	}

	conn, _, err := dialer.Dial(c.url, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	log.Info("base station connected", "url", c.url, "session", c.sessionID)
	return nil
}

// readLoop consumes inbound messages until the connection drops.
func (c *Client) readLoop() {
	defer func() {
		c.mu.Lock()
		if c.conn != nil {
			c.conn.Close()
			c.conn = nil
		}
		c.connected = false
		c.mu.Unlock()
		log.Info("base station disconnected", "url", c.url)
	}()

	for {
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn == nil {
			return
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		c.handleMessage(data)
	}
}

// handleMessage dispatches one inbound base-station message.
func (c *Client) handleMessage(data []byte) {
	msg, err := protocol.ParseMessage(data)
	if err != nil {
		log.Warn("base station sent unparseable message", "error", err)
		return
	}

	switch msg.Type {
	case protocol.TypeCommand:
		cmd, err := msg.GetCommandData()
		if err != nil || cmd.Line == "" {
			log.Warn("base station sent bad command payload", "error", err)
			return
		}
		if c.OnCommand != nil {
			c.OnCommand(cmd.Line)
		}

	case protocol.TypePing:
		if pong, err := protocol.NewPongMessage(c.sessionID, msg.Timestamp, time.Now().UnixMilli()); err == nil {
			c.Publish(pong)
		}
	}
}
