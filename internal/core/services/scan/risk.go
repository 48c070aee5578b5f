package scan

import (
	"strings"

	"github.com/avelasq/wifisentry/internal/core/domain"
)

// Score thresholds on the accumulated risk points.
const (
	highRiskThreshold   = 60
	mediumRiskThreshold = 30
)

// SSID fragments that commonly appear on lure networks.
var suspiciousSSIDFragments = []string{"free", "public", "guest", "hotspot"}

// Score computes the qualitative risk rating for one network. It is a pure
// function: the same inputs always produce the same label, and every input
// combination (including empty strings) maps to a label. Open or missing
// authentication, weak or absent encryption, a very strong signal and a
// hidden or bait-looking SSID each raise the rating independently.
func Score(authentication, encryption, signal, ssid string) domain.RiskLevel {
	points := 0

	auth := strings.ToLower(strings.TrimSpace(authentication))
	switch {
	case auth == "" || strings.Contains(auth, "open"):
		points += 40
	case strings.Contains(auth, "wep"):
		points += 30
	case strings.Contains(auth, "wpa3"):
		// current best practice, no penalty
	case strings.Contains(auth, "wpa"):
		points += 5
	default:
		points += 10
	}

	enc := strings.ToLower(strings.TrimSpace(encryption))
	switch {
	case enc == "" || strings.Contains(enc, "none"):
		points += 30
	case strings.Contains(enc, "wep"):
		points += 25
	case strings.Contains(enc, "tkip"):
		points += 15
	case strings.Contains(enc, "ccmp"), strings.Contains(enc, "aes"), strings.Contains(enc, "gcmp"):
		// strong cipher, no penalty
	default:
		points += 10
	}

	// A transmitter this loud is close by; risky networks nearby matter more.
	if domain.ParseSignal(signal) >= 80 {
		points += 10
	}

	name := strings.ToLower(strings.TrimSpace(ssid))
	if name == "" || name == "-" {
		points += 15
	} else {
		for _, fragment := range suspiciousSSIDFragments {
			if strings.Contains(name, fragment) {
				points += 10
				break
			}
		}
	}

	switch {
	case points >= highRiskThreshold:
		return domain.RiskHigh
	case points >= mediumRiskThreshold:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}
