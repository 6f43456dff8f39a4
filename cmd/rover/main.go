// Rover - learn/replay drive controller for the trash-collecting water rover.
//
// Operator command lines arrive from stdin (the serial console analog), the
// dashboard API/websocket, and the optional base-station bridge. All of them
// feed the same control loop, which drives the motor daemon.
package main

import (
	"bufio"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teslashibe/go-rover/internal/config"
	"github.com/teslashibe/go-rover/internal/log"
	"github.com/teslashibe/go-rover/pkg/actuator"
	"github.com/teslashibe/go-rover/pkg/bridge"
	"github.com/teslashibe/go-rover/pkg/drive"
	"github.com/teslashibe/go-rover/pkg/protocol"
	"github.com/teslashibe/go-rover/pkg/telemetry"
	"github.com/teslashibe/go-rover/pkg/web"
)

// statePublishPeriod is how often the drive state is pushed to operators.
const statePublishPeriod = 200 * time.Millisecond

func main() {
	log.Init(config.LogLevel())

	// Actuator: real motor daemon, or a recorder on the bench
	var driver actuator.Driver
	if config.DryRun() || config.DriveURL() == "" {
		log.Info("dry run: motor commands recorded, not sent")
		driver = actuator.NewRecorder()
	} else {
		log.Info("motor daemon", "url", config.DriveURL())
		driver = actuator.NewHTTPDriver(config.DriveURL())
	}

	ctrl := drive.NewController(driver, config.RoutineCapacity())

	// Every transport feeds the same line channel; the control loop is the
	// only consumer.
	lines := make(chan string, 64)
	submit := func(line string) {
		select {
		case lines <- line:
		default:
			log.Warn("command queue full, dropping line", "line", line)
		}
	}

	// Dashboard
	server := web.NewServer(config.WebPort(), ctrl)
	server.OnCommand = submit
	ctrl.SetNotify(func(kind, msg string) {
		log.Info(msg, "kind", kind)
		server.AddLog(kind, msg)
	})
	server.StartAsync()

	// Base-station bridge (optional)
	var link *bridge.Client
	if url := config.BridgeURL(); url != "" {
		link = bridge.New(url)
		link.OnCommand = submit
		go link.Run()
	}

	// Telemetry: simulated frontend unless the sensor daemon is wired in
	poller := telemetry.NewPoller(telemetry.NewSimSampler(), 10*time.Second)
	poller.SetReportURL(config.TelemetryURL())
	poller.SetSink(func(s telemetry.Sample) {
		data := protocol.TelemetryData{
			Temperature: s.Temperature,
			PH:          s.PH,
			Turbidity:   s.Turbidity,
			FlowRate:    s.FlowRate,
		}
		server.PublishTelemetry(data)
		if link != nil {
			if msg, err := protocol.NewTelemetryMessage(s.Temperature, s.PH, s.Turbidity, s.FlowRate); err == nil {
				link.Publish(msg)
			}
		}
	})
	go poller.Run()

	// State publisher: push snapshots to operators when they change
	go func() {
		var last drive.State
		ticker := time.NewTicker(statePublishPeriod)
		defer ticker.Stop()
		for range ticker.C {
			state := ctrl.Snapshot()
			if state == last {
				continue
			}
			last = state
			server.PublishState(state)
			if link != nil {
				if msg, err := protocol.NewStateMessage(string(state.Mode), state.StepCount,
					state.Capacity, state.ReplayIndex, state.LastCommand); err == nil {
					link.Publish(msg)
				}
			}
		}
	}()

	// Serial console: stdin lines
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			submit(scanner.Text())
		}
	}()

	// Ctrl+C stops the control loop (which stops the motors)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutting down")
		ctrl.Stop()
	}()

	ctrl.Run(lines)

	poller.Stop()
	if link != nil {
		link.Stop()
	}
	if err := server.Shutdown(); err != nil {
		log.Error("dashboard shutdown failed", "error", err)
	}
}
