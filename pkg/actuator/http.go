package actuator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/teslashibe/go-rover/internal/httpc"
)

// motorClient has a short timeout so a dead daemon can't stall the control
// loop. Shared by all HTTPDriver instances.
var motorClient = httpc.NewClient(2 * time.Second)

// HTTPDriver implements Driver using the motor daemon's HTTP API.
// This is the production transport to the H-bridge hardware.
type HTTPDriver struct {
	BaseURL string
}

// NewHTTPDriver creates a driver talking to the motor daemon at baseURL.
func NewHTTPDriver(baseURL string) *HTTPDriver {
	return &HTTPDriver{BaseURL: baseURL}
}

// Drive sets one motor's speed and direction.
func (d *HTTPDriver) Drive(side Side, speed int, dir Direction) error {
	payload := map[string]interface{}{
		"side":      string(side),
		"speed":     ClampSpeed(speed),
		"direction": string(dir),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal motor payload: %w", err)
	}

	resp, err := motorClient.Post(d.BaseURL+"/api/motor/set", "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("motor set request failed: %w", err)
	}
	resp.Body.Close()

	return nil
}

// StopAll halts both motors.
func (d *HTTPDriver) StopAll() error {
	resp, err := motorClient.Post(d.BaseURL+"/api/motor/stop", "application/json", bytes.NewReader(nil))
	if err != nil {
		return fmt.Errorf("motor stop request failed: %w", err)
	}
	resp.Body.Close()

	return nil
}
