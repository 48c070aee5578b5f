package domain

import "time"

// ListKind distinguishes the two user-managed BSSID lists.
type ListKind string

const (
	ListWhitelist ListKind = "whitelist"
	ListBlacklist ListKind = "blacklist"
)

// ScanSummary is the per-pass aggregate persisted for the analytics views.
type ScanSummary struct {
	Timestamp    time.Time `json:"timestamp"`
	NetworkCount int       `json:"network_count"`
	ThreatCount  int       `json:"threat_count"`
	HighRisk     int       `json:"high_risk"`
	EvilTwins    int       `json:"evil_twins"`
}

// ThreatStats aggregates the persisted threat log by type and severity.
type ThreatStats struct {
	Total      int                `json:"total"`
	ByType     map[ThreatType]int `json:"by_type"`
	BySeverity map[Severity]int   `json:"by_severity"`
}

// NewThreatStats initializes a stats object with empty maps to prevent nil
// access in callers.
func NewThreatStats() ThreatStats {
	return ThreatStats{
		ByType:     make(map[ThreatType]int),
		BySeverity: make(map[Severity]int),
	}
}
