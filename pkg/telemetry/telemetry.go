// Package telemetry polls the rover's water-quality sensors and publishes
// samples to the dashboard and, optionally, the ingest backend.
package telemetry

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/teslashibe/go-rover/internal/httpc"
	"github.com/teslashibe/go-rover/internal/log"
)

// Sample is one water-quality reading.
type Sample struct {
	Temperature float64   `json:"temperature"` // Celsius
	PH          float64   `json:"ph"`
	Turbidity   float64   `json:"turbidity"` // NTU
	FlowRate    float64   `json:"flow_rate"` // L/min
	Time        time.Time `json:"time"`
}

// Sampler reads the sensors. Implementations wrap the ADC frontend or, on
// the bench, simulate readings.
type Sampler interface {
	Sample() (Sample, error)
}

// SinkFunc receives each successful sample.
type SinkFunc func(Sample)

// Poller reads the sampler at a fixed period and fans samples out.
// Straight poll-and-post: no retries, no buffering (readings are
// superseded by the next poll anyway).
type Poller struct {
	sampler   Sampler
	interval  time.Duration
	sink      SinkFunc
	reportURL string

	stop chan struct{}

	errorCount uint64
}

// NewPoller creates a poller reading at the given interval.
func NewPoller(sampler Sampler, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Poller{
		sampler:  sampler,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// SetSink sets the local sample consumer (dashboard/bridge publisher).
func (p *Poller) SetSink(fn SinkFunc) {
	p.sink = fn
}

// SetReportURL enables JSON POSTs of each sample to the ingest backend.
func (p *Poller) SetReportURL(url string) {
	p.reportURL = url
}

// Run polls until Stop is called. Blocks.
func (p *Poller) Run() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll()
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			p.poll()
		}
	}
}

// Stop halts the poll loop.
func (p *Poller) Stop() {
	close(p.stop)
}

// poll executes one sample-and-publish cycle.
func (p *Poller) poll() {
	sample, err := p.sampler.Sample()
	if err != nil {
		p.errorCount++
		log.Warn("sensor read failed", "error", err)
		return
	}
	if sample.Time.IsZero() {
		sample.Time = time.Now()
	}

	if p.sink != nil {
		p.sink(sample)
	}

	if p.reportURL != "" {
		if err := p.report(sample); err != nil {
			p.errorCount++
			log.Warn("telemetry report failed", "error", err)
		}
	}
}

// report POSTs one sample to the ingest backend.
func (p *Poller) report(sample Sample) error {
	data, err := json.Marshal(sample)
	if err != nil {
		return fmt.Errorf("failed to marshal sample: %w", err)
	}

	resp, err := httpc.Post(p.reportURL, "application/json", data)
	if err != nil {
		return fmt.Errorf("ingest request failed: %w", err)
	}
	resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("ingest rejected sample: status %d", resp.StatusCode)
	}
	return nil
}

// SimSampler produces plausible drifting readings for bench runs without
// the sensor frontend attached.
type SimSampler struct {
	start time.Time
}

// NewSimSampler creates a simulated sensor frontend.
func NewSimSampler() *SimSampler {
	return &SimSampler{start: time.Now()}
}

// Sample returns a reading that drifts slowly around nominal pond values.
func (s *SimSampler) Sample() (Sample, error) {
	t := time.Since(s.start).Seconds()
	return Sample{
		Temperature: 24.0 + 2.0*math.Sin(t/60),
		PH:          7.2 + 0.3*math.Sin(t/90),
		Turbidity:   3.5 + 1.5*math.Sin(t/45),
		FlowRate:    12.0 + 4.0*math.Sin(t/30),
		Time:        time.Now(),
	}, nil
}
