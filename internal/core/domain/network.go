package domain

import (
	"strconv"
	"strings"
)

// RiskLevel is the qualitative rating assigned to a scanned network.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// NetworkRecord represents one access point observed in a single scan.
// Risk and IsEvilTwin are derived fields filled in by the annotation pass;
// everything else comes straight from the adapter's scan output.
type NetworkRecord struct {
	SSID           string    `json:"ssid"`
	BSSID          string    `json:"bssid"`
	Authentication string    `json:"authentication"`
	Encryption     string    `json:"encryption"`
	Signal         string    `json:"signal"` // percentage as reported, e.g. "87%"
	Risk           RiskLevel `json:"risk"`
	IsEvilTwin     bool      `json:"is_evil_twin"`
}

// CanonicalBSSID lowercases and trims a hardware identifier so it can be
// used as a map key. BSSIDs compare case-insensitively everywhere.
func CanonicalBSSID(bssid string) string {
	return strings.ToLower(strings.TrimSpace(bssid))
}

// ParseSignal converts the textual signal field ("87%", "87") to an integer.
// Unparsable values degrade to 0 rather than erroring.
func ParseSignal(signal string) int {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(signal), "%"))
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

// BSSIDSet is a case-insensitive set of hardware identifiers, used for the
// user-supplied whitelist and blacklist.
type BSSIDSet map[string]struct{}

// NewBSSIDSet builds a set from raw entries, canonicalizing each one.
func NewBSSIDSet(entries []string) BSSIDSet {
	set := make(BSSIDSet, len(entries))
	for _, e := range entries {
		set.Add(e)
	}
	return set
}

func (s BSSIDSet) Add(bssid string) {
	if c := CanonicalBSSID(bssid); c != "" {
		s[c] = struct{}{}
	}
}

func (s BSSIDSet) Contains(bssid string) bool {
	_, ok := s[CanonicalBSSID(bssid)]
	return ok
}

func (s BSSIDSet) Len() int { return len(s) }
