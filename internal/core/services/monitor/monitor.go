package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/avelasq/wifisentry/internal/core/domain"
	"github.com/avelasq/wifisentry/internal/core/ports"
	"github.com/avelasq/wifisentry/internal/core/services/scan"
	"github.com/avelasq/wifisentry/internal/telemetry"
)

var (
	ErrAlreadyRunning = errors.New("monitoring is already running")
	ErrNotRunning     = errors.New("monitoring is not running")
)

// Option configures a Monitor.
type Option func(*Monitor)

// WithInterval sets the periodic scan interval for Start.
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) { m.interval = d }
}

// WithEnabledThreatTypes restricts which threat types are reported. An empty
// set means all types.
func WithEnabledThreatTypes(types []domain.ThreatType) Option {
	return func(m *Monitor) {
		if len(types) == 0 {
			m.enabled = nil
			return
		}
		m.enabled = make(map[domain.ThreatType]struct{}, len(types))
		for _, t := range types {
			m.enabled[t] = struct{}{}
		}
	}
}

// WithClock overrides the time source. Tests use this to drive the sliding
// windows deterministically.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

// Monitor owns one monitoring session: the scan source, the accumulated
// MonitoringState and the cancellation of the periodic loop. Callers
// construct it once per session and pass it explicitly to whatever schedules
// scans; there is no process-wide instance.
//
// All state access is serialized through mu: at most one detection pass runs
// at a time, and its effects (history, counters, previous networks) become
// visible atomically.
type Monitor struct {
	source   ports.ScanSource
	lists    ports.ListProvider
	detector *Detector
	sinks    []ports.ThreatSink
	hooks    []func([]domain.NetworkRecord, []domain.DetectedThreat)

	interval time.Duration
	enabled  map[domain.ThreatType]struct{}
	now      func() time.Time

	mu      sync.Mutex
	state   *domain.MonitoringState
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a monitor session around a scan source and list provider.
func New(source ports.ScanSource, lists ports.ListProvider, opts ...Option) *Monitor {
	m := &Monitor{
		source:   source,
		lists:    lists,
		detector: NewDetector(),
		interval: 30 * time.Second,
		now:      time.Now,
		state:    domain.NewMonitoringState(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddSink registers a threat consumer. Not safe to call after Start.
func (m *Monitor) AddSink(sink ports.ThreatSink) {
	m.sinks = append(m.sinks, sink)
}

// AddScanHook registers a callback invoked after every completed pass with
// the parsed batch and the reported threats. Not safe to call after Start.
func (m *Monitor) AddScanHook(hook func([]domain.NetworkRecord, []domain.DetectedThreat)) {
	m.hooks = append(m.hooks, hook)
}

// Running reports whether the periodic loop is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// ScanCount returns the number of completed detection passes this session.
func (m *Monitor) ScanCount() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.ScanCount
}

// Start launches the periodic scan loop. It fails if the session is already
// running.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}
	loopCtx, cancel := context.WithCancel(ctx)
	m.running = true
	m.cancel = cancel
	m.done = make(chan struct{})
	m.mu.Unlock()

	go m.loop(loopCtx)
	slog.Info("Monitoring started", "interval", m.interval)
	return nil
}

// Stop cancels the periodic loop and waits for the in-flight pass to finish.
func (m *Monitor) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return ErrNotRunning
	}
	cancel := m.cancel
	done := m.done
	m.mu.Unlock()

	cancel()
	<-done

	m.mu.Lock()
	m.running = false
	m.mu.Unlock()
	slog.Info("Monitoring stopped")
	return nil
}

func (m *Monitor) loop(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		if _, _, err := m.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("Scan pass failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce executes one full scan cycle: acquire raw text from the adapter,
// parse and annotate the batch, then run the detection pass against the
// session state. The external adapter wait happens before the state lock is
// taken, so a slow radio never blocks state readers.
func (m *Monitor) RunOnce(ctx context.Context) ([]domain.NetworkRecord, []domain.DetectedThreat, error) {
	raw, err := m.source.Scan(ctx)
	if err != nil {
		return nil, nil, err
	}

	batch := scan.Parse(raw)
	scan.TagEvilTwins(batch)

	whitelist, err := m.lists.Whitelist(ctx)
	if err != nil {
		slog.Warn("Whitelist unavailable, rule disabled for this pass", "error", err)
		whitelist = domain.BSSIDSet{}
	}
	blacklist, err := m.lists.Blacklist(ctx)
	if err != nil {
		slog.Warn("Blacklist unavailable for this pass", "error", err)
		blacklist = domain.BSSIDSet{}
	}

	m.mu.Lock()
	threats := m.detector.Detect(batch, m.state, whitelist, blacklist, m.now())
	m.mu.Unlock()

	threats = m.filterEnabled(threats)

	telemetry.ScansTotal.Inc()
	telemetry.NetworksObserved.Add(float64(len(batch)))
	for _, t := range threats {
		telemetry.ThreatsDetected.WithLabelValues(string(t.Type), string(t.Severity)).Inc()
		slog.Info("Threat detected",
			"type", t.Type,
			"severity", t.Severity,
			"ssid", t.Subject.DisplaySSID(),
			"bssid", t.Subject.DisplayBSSID(),
		)
		for _, sink := range m.sinks {
			sink.PublishThreat(t)
		}
	}

	for _, hook := range m.hooks {
		hook(batch, threats)
	}

	return batch, threats, nil
}

// RecordConnectionFailure is the entry point for the connection collaborator.
// The event feeds the deauthentication rule; entries expire after the
// failure window.
func (m *Monitor) RecordConnectionFailure(ssid, bssid, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.RecordFailure(ssid, bssid, reason, m.now())
	telemetry.ConnectionFailures.Inc()
}

func (m *Monitor) filterEnabled(threats []domain.DetectedThreat) []domain.DetectedThreat {
	if m.enabled == nil {
		return threats
	}
	kept := threats[:0]
	for _, t := range threats {
		if _, ok := m.enabled[t.Type]; ok {
			kept = append(kept, t)
		}
	}
	return kept
}
