// Package config provides configuration helpers for go-rover commands.
package config

import (
	"os"
	"strconv"
)

// Default rover configuration.
const (
	DefaultWebPort    = "8090"
	DefaultDrivePort  = "8000"
	DefaultRoutineCap = 100
)

// WebPort returns the dashboard port from ROVER_WEB_PORT or the default.
func WebPort() string {
	if port := os.Getenv("ROVER_WEB_PORT"); port != "" {
		return port
	}
	return DefaultWebPort
}

// DriveURL returns the motor daemon base URL from DRIVE_URL, or builds one
// from DRIVE_IP. Empty when neither is set (dry-run wiring).
func DriveURL() string {
	if url := os.Getenv("DRIVE_URL"); url != "" {
		return url
	}
	if ip := os.Getenv("DRIVE_IP"); ip != "" {
		return "http://" + ip + ":" + DefaultDrivePort
	}
	return ""
}

// BridgeURL returns the base-station websocket URL from ROVER_BRIDGE_URL.
// Empty means the bridge is disabled.
func BridgeURL() string {
	return os.Getenv("ROVER_BRIDGE_URL")
}

// TelemetryURL returns the backend ingest URL from TELEMETRY_URL.
// Empty means samples are only published locally.
func TelemetryURL() string {
	return os.Getenv("TELEMETRY_URL")
}

// LogLevel returns the log level from LOG_LEVEL or "info".
func LogLevel() string {
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		return lvl
	}
	return "info"
}

// DryRun reports whether DRY_RUN is set to a truthy value.
// In dry-run mode motor commands are recorded instead of sent.
func DryRun() bool {
	v, err := strconv.ParseBool(os.Getenv("DRY_RUN"))
	return err == nil && v
}

// RoutineCapacity returns the recorded-routine capacity from
// ROVER_ROUTINE_CAP or the default.
func RoutineCapacity() int {
	if s := os.Getenv("ROVER_ROUTINE_CAP"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return DefaultRoutineCap
}
