package web

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-rover/pkg/hub"
	"github.com/teslashibe/go-rover/pkg/protocol"
)

// StatusResponse is the /api/status payload
type StatusResponse struct {
	Drive     interface{}             `json:"drive"`
	Telemetry *protocol.TelemetryData `json:"telemetry,omitempty"`
	Clients   int                     `json:"clients"`
}

// handleStatus returns the rover's current state
func (s *Server) handleStatus(c *fiber.Ctx) error {
	s.telemetryMu.RLock()
	telemetry := s.telemetry
	s.telemetryMu.RUnlock()

	return c.JSON(StatusResponse{
		Drive:     s.status.Snapshot(),
		Telemetry: telemetry,
		Clients:   s.statusHub.ClientCount() + s.controlHub.ClientCount(),
	})
}

// handleRoutine returns the recorded routine
func (s *Server) handleRoutine(c *fiber.Ctx) error {
	steps := s.status.Routine()
	return c.JSON(fiber.Map{
		"steps": steps,
		"count": len(steps),
	})
}

// handleGetLogs returns recent diagnostics
func (s *Server) handleGetLogs(c *fiber.Ctx) error {
	s.logsMu.RLock()
	defer s.logsMu.RUnlock()
	return c.JSON(s.logs)
}

// CommandRequest is the request body for injecting a command line
type CommandRequest struct {
	Line string `json:"line"`
}

// handleCommand injects one command line into the drive controller
func (s *Server) handleCommand(c *fiber.Ctx) error {
	var req CommandRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	line := strings.TrimSpace(req.Line)
	if line == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "empty command line"})
	}

	if s.OnCommand == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "controller not attached"})
	}
	s.OnCommand(line)

	return c.JSON(fiber.Map{"status": "accepted", "line": line})
}

// handleStatusWS streams state and telemetry broadcasts
func (s *Server) handleStatusWS(c *websocket.Conn) {
	client := hub.NewClient(s.statusHub, c)
	client.Run()
}

// handleLogsWS streams diagnostic events
func (s *Server) handleLogsWS(c *websocket.Conn) {
	client := hub.NewClient(s.logHub, c)
	client.Run()
}

// handleControlWS is bidirectional: inbound text lines are forwarded to
// the controller, state broadcasts flow back
func (s *Server) handleControlWS(c *websocket.Conn) {
	client := hub.NewClient(s.controlHub, c)
	client.Run()
}
