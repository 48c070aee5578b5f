package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ThreatType defines the category of a detected threat.
type ThreatType string

const (
	ThreatMACSpoof       ThreatType = "mac_spoof"
	ThreatDeauthAttack   ThreatType = "deauth_attack"
	ThreatFloodAttack    ThreatType = "flood_attack"
	ThreatUnauthorized   ThreatType = "unauthorized_client"
	ThreatProbeAnomaly   ThreatType = "probe_anomaly"
	ThreatRFJamming      ThreatType = "rf_jamming"
	ThreatBlacklistedNet ThreatType = "blacklisted_network"
)

// Severity represents the criticality of a detected threat.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
)

// SubjectKind distinguishes whether a threat points at one concrete network
// or spans many of them. This replaces the "Multiple"/"Hidden"/"Unknown"
// sentinel strings with a closed enumeration.
type SubjectKind string

const (
	SubjectNetwork   SubjectKind = "network"
	SubjectAggregate SubjectKind = "aggregate"
	SubjectHidden    SubjectKind = "hidden"
	SubjectUnknown   SubjectKind = "unknown"
)

// Sentinel labels rendered for non-network subjects. These are part of the
// display contract, never compared against internally.
const (
	labelMultiple = "Multiple"
	labelHidden   = "Hidden"
	labelUnknown  = "Unknown"
)

// ThreatSubject identifies what a threat is about.
type ThreatSubject struct {
	Kind  SubjectKind
	SSID  string
	BSSID string
}

// NetworkSubject points at a single observed network.
func NetworkSubject(ssid, bssid string) ThreatSubject {
	return ThreatSubject{Kind: SubjectNetwork, SSID: ssid, BSSID: CanonicalBSSID(bssid)}
}

// AggregateSubject marks a threat that spans many networks at once.
func AggregateSubject() ThreatSubject {
	return ThreatSubject{Kind: SubjectAggregate}
}

// HiddenSubject marks a threat about hidden/broadcast networks collectively.
func HiddenSubject() ThreatSubject {
	return ThreatSubject{Kind: SubjectHidden}
}

// UnknownSubject marks a threat whose network identity is unavailable.
func UnknownSubject() ThreatSubject {
	return ThreatSubject{Kind: SubjectUnknown}
}

// DisplaySSID renders the subject's SSID for output.
func (s ThreatSubject) DisplaySSID() string {
	switch s.Kind {
	case SubjectNetwork:
		if s.SSID == "" {
			return labelUnknown
		}
		return s.SSID
	case SubjectAggregate:
		return labelMultiple
	case SubjectHidden:
		return labelHidden
	default:
		return labelUnknown
	}
}

// DisplayBSSID renders the subject's BSSID for output.
func (s ThreatSubject) DisplayBSSID() string {
	switch s.Kind {
	case SubjectNetwork:
		if s.BSSID == "" {
			return labelUnknown
		}
		return s.BSSID
	case SubjectAggregate, SubjectHidden:
		return labelMultiple
	default:
		return labelUnknown
	}
}

// DetectedThreat is an immutable event produced by the threat detector.
// Details always embeds the concrete numbers that triggered the rule.
type DetectedThreat struct {
	ID        string
	Type      ThreatType
	Severity  Severity
	Subject   ThreatSubject
	Details   string
	Timestamp time.Time
}

// NewThreat assembles a threat event with a fresh identifier.
func NewThreat(t ThreatType, sev Severity, subject ThreatSubject, details string, ts time.Time) DetectedThreat {
	return DetectedThreat{
		ID:        uuid.NewString(),
		Type:      t,
		Severity:  sev,
		Subject:   subject,
		Details:   details,
		Timestamp: ts,
	}
}

// threatJSON is the wire shape consumed by the frontend and the alert log.
type threatJSON struct {
	ID           string     `json:"id"`
	ThreatType   ThreatType `json:"threat_type"`
	Severity     Severity   `json:"severity"`
	NetworkSSID  string     `json:"network_ssid"`
	NetworkBSSID string     `json:"network_bssid"`
	Details      string     `json:"details"`
	Timestamp    time.Time  `json:"timestamp"`
}

func (t DetectedThreat) MarshalJSON() ([]byte, error) {
	return json.Marshal(threatJSON{
		ID:           t.ID,
		ThreatType:   t.Type,
		Severity:     t.Severity,
		NetworkSSID:  t.Subject.DisplaySSID(),
		NetworkBSSID: t.Subject.DisplayBSSID(),
		Details:      t.Details,
		Timestamp:    t.Timestamp,
	})
}

func (t *DetectedThreat) UnmarshalJSON(data []byte) error {
	var w threatJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	t.ID = w.ID
	t.Type = w.ThreatType
	t.Severity = w.Severity
	t.Details = w.Details
	t.Timestamp = w.Timestamp
	t.Subject = subjectFromLabels(w.NetworkSSID, w.NetworkBSSID)
	return nil
}

func subjectFromLabels(ssid, bssid string) ThreatSubject {
	switch {
	case ssid == labelMultiple && bssid == labelMultiple:
		return AggregateSubject()
	case ssid == labelHidden:
		return HiddenSubject()
	case ssid == labelUnknown && bssid == labelUnknown:
		return UnknownSubject()
	default:
		return ThreatSubject{Kind: SubjectNetwork, SSID: ssid, BSSID: bssid}
	}
}

// ValidSeverity reports whether s is one of the known levels.
func ValidSeverity(s Severity) bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium:
		return true
	}
	return false
}
