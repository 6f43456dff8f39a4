// Package protocol defines the WebSocket message types for the rover's
// operator links. It is shared by the dashboard hub and the base-station
// bridge.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Operator → Rover messages
	TypeCommand MessageType = "command" // One text command line

	// Rover → Operator messages
	TypeState     MessageType = "state"     // Drive controller state
	TypeLog       MessageType = "log"       // Diagnostic event
	TypeTelemetry MessageType = "telemetry" // Water-quality sample

	// Bidirectional
	TypePing MessageType = "ping" // Health check
	TypePong MessageType = "pong" // Health check response
)

// Message is the base wrapper for all WebSocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v interface{}) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	return &msg, nil
}

// =============================================================================
// Operator → Rover Message Types
// =============================================================================

// CommandData carries one text command line, exactly as the serial console
// would deliver it (LEARN / STOP / REPLAY / <A>:<ms>).
type CommandData struct {
	Line string `json:"line"`
}

// =============================================================================
// Rover → Operator Message Types
// =============================================================================

// StateData contains the drive controller state
type StateData struct {
	Mode        string `json:"mode"` // idle, learn, replay
	StepCount   int    `json:"step_count"`
	Capacity    int    `json:"capacity"`
	ReplayIndex int    `json:"replay_index"`
	LastCommand string `json:"last_command,omitempty"`
}

// LogData contains one diagnostic event
type LogData struct {
	Kind    string `json:"kind"` // info, mode, learn, replay, error
	Message string `json:"message"`
}

// TelemetryData contains one water-quality sample
type TelemetryData struct {
	Temperature float64 `json:"temperature"` // Celsius
	PH          float64 `json:"ph"`
	Turbidity   float64 `json:"turbidity"` // NTU
	FlowRate    float64 `json:"flow_rate"` // L/min
}

// =============================================================================
// Bidirectional Message Types
// =============================================================================

// PingData contains ping information
type PingData struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"ts"`
}

// PongData contains pong response
type PongData struct {
	ID        string `json:"id"`
	PingTS    int64  `json:"ping_ts"`
	PongTS    int64  `json:"pong_ts"`
	LatencyMs int64  `json:"latency_ms"`
}
