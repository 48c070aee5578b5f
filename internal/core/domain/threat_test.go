package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectDisplayLabels(t *testing.T) {
	assert.Equal(t, "Multiple", AggregateSubject().DisplaySSID())
	assert.Equal(t, "Multiple", AggregateSubject().DisplayBSSID())
	assert.Equal(t, "Hidden", HiddenSubject().DisplaySSID())
	assert.Equal(t, "Unknown", UnknownSubject().DisplaySSID())
	assert.Equal(t, "Unknown", UnknownSubject().DisplayBSSID())

	net := NetworkSubject("Home", "AA:BB:CC:DD:EE:FF")
	assert.Equal(t, "Home", net.DisplaySSID())
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", net.DisplayBSSID())
}

func TestNetworkSubjectCanonicalizesBSSID(t *testing.T) {
	s := NetworkSubject("Home", "  AA:BB:CC:DD:EE:FF ")
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", s.BSSID)
}

func TestThreatJSONWireShape(t *testing.T) {
	ts := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	threat := NewThreat(ThreatFloodAttack, SeverityHigh, AggregateSubject(),
		"Sudden appearance of 11 new networks detected", ts)

	data, err := json.Marshal(threat)
	require.NoError(t, err)

	var wire map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &wire))

	assert.Equal(t, "flood_attack", wire["threat_type"])
	assert.Equal(t, "High", wire["severity"])
	assert.Equal(t, "Multiple", wire["network_ssid"])
	assert.Equal(t, "Multiple", wire["network_bssid"])
	assert.Equal(t, "Sudden appearance of 11 new networks detected", wire["details"])
	assert.NotEmpty(t, wire["id"])
}

func TestThreatJSONRoundTrip(t *testing.T) {
	cases := []ThreatSubject{
		NetworkSubject("Office", "11:22:33:44:55:66"),
		AggregateSubject(),
		HiddenSubject(),
		UnknownSubject(),
	}

	for _, subject := range cases {
		original := NewThreat(ThreatRFJamming, SeverityCritical, subject, "details", time.Now().UTC())

		data, err := json.Marshal(original)
		require.NoError(t, err)

		var decoded DetectedThreat
		require.NoError(t, json.Unmarshal(data, &decoded))

		assert.Equal(t, original.ID, decoded.ID)
		assert.Equal(t, original.Type, decoded.Type)
		assert.Equal(t, subject.Kind, decoded.Subject.Kind)
		assert.Equal(t, original.Subject.DisplaySSID(), decoded.Subject.DisplaySSID())
		assert.Equal(t, original.Subject.DisplayBSSID(), decoded.Subject.DisplayBSSID())
	}
}

func TestValidSeverity(t *testing.T) {
	assert.True(t, ValidSeverity(SeverityCritical))
	assert.True(t, ValidSeverity(SeverityHigh))
	assert.True(t, ValidSeverity(SeverityMedium))
	assert.False(t, ValidSeverity(Severity("Low")))
	assert.False(t, ValidSeverity(Severity("")))
}

func TestNewThreatAssignsUniqueIDs(t *testing.T) {
	a := NewThreat(ThreatMACSpoof, SeverityCritical, UnknownSubject(), "d", time.Now())
	b := NewThreat(ThreatMACSpoof, SeverityCritical, UnknownSubject(), "d", time.Now())
	assert.NotEqual(t, a.ID, b.ID)
}
