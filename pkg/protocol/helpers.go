package protocol

// =============================================================================
// Helper functions for creating messages
// =============================================================================

// NewCommandMessage creates a command message from one text line
func NewCommandMessage(line string) (*Message, error) {
	return NewMessage(TypeCommand, CommandData{Line: line})
}

// NewStateMessage creates a drive state message
func NewStateMessage(mode string, stepCount, capacity, replayIndex int, lastCommand string) (*Message, error) {
	return NewMessage(TypeState, StateData{
		Mode:        mode,
		StepCount:   stepCount,
		Capacity:    capacity,
		ReplayIndex: replayIndex,
		LastCommand: lastCommand,
	})
}

// NewLogMessage creates a diagnostic event message
func NewLogMessage(kind, message string) (*Message, error) {
	return NewMessage(TypeLog, LogData{Kind: kind, Message: message})
}

// NewTelemetryMessage creates a telemetry sample message
func NewTelemetryMessage(temperature, ph, turbidity, flowRate float64) (*Message, error) {
	return NewMessage(TypeTelemetry, TelemetryData{
		Temperature: temperature,
		PH:          ph,
		Turbidity:   turbidity,
		FlowRate:    flowRate,
	})
}

// NewPingMessage creates a ping message
func NewPingMessage(id string, ts int64) (*Message, error) {
	return NewMessage(TypePing, PingData{ID: id, Timestamp: ts})
}

// NewPongMessage creates a pong response message
func NewPongMessage(id string, pingTS, pongTS int64) (*Message, error) {
	return NewMessage(TypePong, PongData{
		ID:        id,
		PingTS:    pingTS,
		PongTS:    pongTS,
		LatencyMs: pongTS - pingTS,
	})
}

// =============================================================================
// Typed data accessors
// =============================================================================

// GetCommandData extracts command data from the message
func (m *Message) GetCommandData() (*CommandData, error) {
	var data CommandData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetStateData extracts state data from the message
func (m *Message) GetStateData() (*StateData, error) {
	var data StateData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetLogData extracts log data from the message
func (m *Message) GetLogData() (*LogData, error) {
	var data LogData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetTelemetryData extracts telemetry data from the message
func (m *Message) GetTelemetryData() (*TelemetryData, error) {
	var data TelemetryData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}
