// Package web provides the rover's operator dashboard and command API.
package web

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-rover/internal/log"
	"github.com/teslashibe/go-rover/pkg/drive"
	"github.com/teslashibe/go-rover/pkg/hub"
	"github.com/teslashibe/go-rover/pkg/protocol"
)

// DriveStatus provides read access to the drive controller.
type DriveStatus interface {
	Snapshot() drive.State
	Routine() []drive.RecordedStep
}

// LogEntry represents one diagnostic line for the dashboard
type LogEntry struct {
	Time    string `json:"time"`
	Kind    string `json:"kind"` // info, mode, learn, replay, error
	Message string `json:"message"`
}

// maxLogEntries bounds the diagnostic ring buffer
const maxLogEntries = 500

// Server is the dashboard server
type Server struct {
	app  *fiber.App
	port string

	status DriveStatus

	// Latest telemetry sample
	telemetry   *protocol.TelemetryData
	telemetryMu sync.RWMutex

	// Log buffer (last maxLogEntries entries)
	logs   []LogEntry
	logsMu sync.RWMutex

	// Hubs for websocket broadcast (thread-safe!)
	statusHub  *hub.Hub
	logHub     *hub.Hub
	controlHub *hub.Hub

	// Command injection callback: lines go to the drive controller's
	// input channel, the same path as the serial console
	OnCommand func(line string)
}

// NewServer creates a new dashboard server
func NewServer(port string, status DriveStatus) *Server {
	s := &Server{
		port:       port,
		status:     status,
		logs:       make([]LogEntry, 0, maxLogEntries),
		statusHub:  hub.New("status"),
		logHub:     hub.New("logs"),
		controlHub: hub.New("control"),
	}

	s.controlHub.OnLine(func(clientID, line string) {
		if s.OnCommand != nil {
			s.OnCommand(line)
		}
	})

	app := fiber.New(fiber.Config{
		AppName:               "Rover Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/routine", s.handleRoutine)
	api.Get("/logs", s.handleGetLogs)
	api.Post("/command", s.handleCommand)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/status", websocket.New(s.handleStatusWS))
	app.Get("/ws/logs", websocket.New(s.handleLogsWS))
	app.Get("/ws/control", websocket.New(s.handleControlWS))

	s.app = app
	return s
}

// Start starts the dashboard server
func (s *Server) Start() error {
	log.Info("dashboard listening", "port", s.port)

	// Start all hubs
	go s.statusHub.Run()
	go s.logHub.Run()
	go s.controlHub.Run()

	return s.app.Listen(":" + s.port)
}

// StartAsync starts the dashboard server in a goroutine
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("dashboard server error", "error", err)
		}
	}()
}

// AddLog records a diagnostic event and broadcasts it to clients.
// Wired as the drive controller's event sink.
func (s *Server) AddLog(kind, message string) {
	entry := LogEntry{
		Time:    time.Now().Format("15:04:05"),
		Kind:    kind,
		Message: message,
	}

	s.logsMu.Lock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > maxLogEntries {
		s.logs = s.logs[1:]
	}
	s.logsMu.Unlock()

	if msg, err := protocol.NewLogMessage(kind, message); err == nil {
		s.logHub.BroadcastMessage(msg)
	}
}

// PublishState broadcasts the drive state to status and control clients.
func (s *Server) PublishState(state drive.State) {
	msg, err := protocol.NewStateMessage(string(state.Mode), state.StepCount,
		state.Capacity, state.ReplayIndex, state.LastCommand)
	if err != nil {
		return
	}
	s.statusHub.BroadcastMessage(msg)
	s.controlHub.BroadcastMessage(msg)
}

// PublishTelemetry stores the latest sample and broadcasts it.
func (s *Server) PublishTelemetry(sample protocol.TelemetryData) {
	s.telemetryMu.Lock()
	s.telemetry = &sample
	s.telemetryMu.Unlock()

	msg, err := protocol.NewTelemetryMessage(sample.Temperature, sample.PH,
		sample.Turbidity, sample.FlowRate)
	if err != nil {
		return
	}
	s.statusHub.BroadcastMessage(msg)
}

// Shutdown gracefully stops the dashboard server
func (s *Server) Shutdown() error {
	s.statusHub.Stop()
	s.logHub.Stop()
	s.controlHub.Stop()
	return s.app.Shutdown()
}
