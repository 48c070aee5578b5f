package domain

import "time"

// Capacity of the rolling signal queues kept per BSSID.
const SignalWindow = 10

// HistoryTTL is how long an unseen BSSID survives in the history map.
const HistoryTTL = 5 * time.Minute

// FailureWindow is the sliding window kept for connection failures.
const FailureWindow = 60 * time.Second

// NetworkHistory is the rolling per-BSSID record accumulated across scans.
type NetworkHistory struct {
	SSID            string    `json:"ssid"`
	BSSID           string    `json:"bssid"`
	SignalStrength  int       `json:"signal_strength"`
	FirstSeen       time.Time `json:"first_seen"`
	LastSeen        time.Time `json:"last_seen"`
	AppearanceCount int       `json:"appearance_count"`
	PreviousSignals []int     `json:"previous_signals"`
}

// ConnectionFailure is one failed connection attempt, pushed in by the
// connection collaborator and consumed by the deauth rule.
type ConnectionFailure struct {
	NetworkSSID  string    `json:"network_ssid"`
	NetworkBSSID string    `json:"network_bssid"`
	Timestamp    time.Time `json:"timestamp"`
	Reason       string    `json:"reason"`
}

// MonitoringState is the aggregate root owning everything the detector
// remembers between scans. It has exactly one writer at a time: each
// detection pass takes it by exclusive reference, mutates it, and returns.
type MonitoringState struct {
	PreviousNetworks   []NetworkRecord
	NetworkHistory     map[string]*NetworkHistory
	ConnectionFailures []ConnectionFailure
	SignalBaselines    map[string][]int
	ScanCount          uint64
	LastScanTime       time.Time
}

// NewMonitoringState creates an empty state for a fresh monitoring session.
func NewMonitoringState() *MonitoringState {
	return &MonitoringState{
		NetworkHistory:  make(map[string]*NetworkHistory),
		SignalBaselines: make(map[string][]int),
	}
}

// RecordFailure appends a connection failure event. Old entries are purged
// by the detection pass, not here.
func (s *MonitoringState) RecordFailure(ssid, bssid, reason string, ts time.Time) {
	s.ConnectionFailures = append(s.ConnectionFailures, ConnectionFailure{
		NetworkSSID:  ssid,
		NetworkBSSID: CanonicalBSSID(bssid),
		Timestamp:    ts,
		Reason:       reason,
	})
}
