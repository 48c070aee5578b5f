package scan

import (
	"testing"

	"github.com/avelasq/wifisentry/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestScore_Deterministic(t *testing.T) {
	a := Score("Open", "None", "91%", "CoffeeShop Free")
	b := Score("Open", "None", "91%", "CoffeeShop Free")
	assert.Equal(t, a, b)
}

func TestScore_TotalOnEmptyInput(t *testing.T) {
	// Every combination, including all-empty, must yield a label.
	level := Score("", "", "", "")
	assert.Contains(t, []domain.RiskLevel{domain.RiskLow, domain.RiskMedium, domain.RiskHigh}, level)
	assert.Equal(t, domain.RiskHigh, level, "no auth, no encryption and a hidden SSID is as bad as it gets")
}

func TestScore_Levels(t *testing.T) {
	cases := []struct {
		name                    string
		auth, enc, signal, ssid string
		want                    domain.RiskLevel
	}{
		{"wpa3 network", "WPA3-Personal", "CCMP", "60%", "Home", domain.RiskLow},
		{"wpa2 network", "WPA2-Personal", "CCMP", "60%", "Home", domain.RiskLow},
		{"open strong lure", "Open", "None", "91%", "Airport Free WiFi", domain.RiskHigh},
		{"wep legacy", "WEP", "WEP", "40%", "OldRouter", domain.RiskMedium},
		{"wpa2 tkip", "WPA2-Personal", "TKIP", "30%", "Home", domain.RiskLow},
		{"hidden open", "Open", "None", "20%", "-", domain.RiskHigh},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Score(tc.auth, tc.enc, tc.signal, tc.ssid))
		})
	}
}

func TestScore_IndependentSignals(t *testing.T) {
	base := Score("WPA2-Personal", "CCMP", "50%", "Home")
	assert.Equal(t, domain.RiskLow, base)

	// Each weakened attribute on its own moves the needle relative to a
	// fully healthy network.
	assert.Equal(t, domain.RiskMedium, Score("Open", "CCMP", "50%", "Home"))
	assert.Equal(t, domain.RiskMedium, Score("WPA2-Personal", "None", "50%", "Home"))
}
