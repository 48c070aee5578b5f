package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelasq/wifisentry/internal/core/domain"
)

func newTestAdapter(t *testing.T) *SQLiteAdapter {
	t.Helper()
	adapter, err := NewSQLiteAdapter(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = adapter.Close() })
	return adapter
}

func TestThreatRoundTrip(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	threats := []domain.DetectedThreat{
		domain.NewThreat(domain.ThreatMACSpoof, domain.SeverityCritical,
			domain.NetworkSubject("Home", "AA:BB:CC:DD:EE:FF"),
			"BSSID AA:BB:CC:DD:EE:FF is broadcasting 2 different SSIDs", now.Add(-time.Minute)),
		domain.NewThreat(domain.ThreatFloodAttack, domain.SeverityHigh,
			domain.AggregateSubject(),
			"Sudden appearance of 11 new networks detected", now),
	}

	require.NoError(t, adapter.SaveThreats(ctx, threats))

	got, err := adapter.ListThreats(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Newest first.
	assert.Equal(t, domain.ThreatFloodAttack, got[0].Type)
	assert.Equal(t, domain.SubjectAggregate, got[0].Subject.Kind)
	assert.Equal(t, "Multiple", got[0].Subject.DisplaySSID())

	assert.Equal(t, domain.ThreatMACSpoof, got[1].Type)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", got[1].Subject.BSSID)
}

func TestSaveThreatsIgnoresDuplicateIDs(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	threat := domain.NewThreat(domain.ThreatDeauthAttack, domain.SeverityHigh,
		domain.NetworkSubject("Office", "11:22:33:44:55:66"),
		"Possible deauthentication attack: 4 failures in 30 seconds", time.Now())

	require.NoError(t, adapter.SaveThreats(ctx, []domain.DetectedThreat{threat}))
	require.NoError(t, adapter.SaveThreats(ctx, []domain.DetectedThreat{threat}))

	got, err := adapter.ListThreats(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestListThreatsLimit(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()
	base := time.Now()

	var threats []domain.DetectedThreat
	for i := 0; i < 5; i++ {
		threats = append(threats, domain.NewThreat(
			domain.ThreatProbeAnomaly, domain.SeverityMedium,
			domain.HiddenSubject(),
			"6 hidden networks detected (possible probing)",
			base.Add(time.Duration(i)*time.Second)))
	}
	require.NoError(t, adapter.SaveThreats(ctx, threats))

	got, err := adapter.ListThreats(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestThreatStats(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, adapter.SaveThreats(ctx, []domain.DetectedThreat{
		domain.NewThreat(domain.ThreatMACSpoof, domain.SeverityCritical, domain.NetworkSubject("A", "aa:aa:aa:aa:aa:aa"), "d", now),
		domain.NewThreat(domain.ThreatMACSpoof, domain.SeverityCritical, domain.NetworkSubject("B", "bb:bb:bb:bb:bb:bb"), "d", now),
		domain.NewThreat(domain.ThreatRFJamming, domain.SeverityHigh, domain.NetworkSubject("C", "cc:cc:cc:cc:cc:cc"), "d", now),
	}))

	stats, err := adapter.ThreatStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByType[domain.ThreatMACSpoof])
	assert.Equal(t, 1, stats.ByType[domain.ThreatRFJamming])
	assert.Equal(t, 2, stats.BySeverity[domain.SeverityCritical])
	assert.Equal(t, 1, stats.BySeverity[domain.SeverityHigh])
}

func TestThreatStatsEmptyLog(t *testing.T) {
	adapter := newTestAdapter(t)

	stats, err := adapter.ThreatStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.NotNil(t, stats.ByType)
	assert.NotNil(t, stats.BySeverity)
}

func TestScanSummaries(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, adapter.SaveScanSummary(ctx, domain.ScanSummary{
		Timestamp: now.Add(-time.Minute), NetworkCount: 8, ThreatCount: 0, HighRisk: 1,
	}))
	require.NoError(t, adapter.SaveScanSummary(ctx, domain.ScanSummary{
		Timestamp: now, NetworkCount: 12, ThreatCount: 2, HighRisk: 3, EvilTwins: 2,
	}))

	got, err := adapter.ListScanSummaries(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 12, got[0].NetworkCount)
	assert.Equal(t, 2, got[0].EvilTwins)
}

func TestListCRUD(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Add(ctx, domain.ListWhitelist, "AA:BB:CC:DD:EE:FF"))
	require.NoError(t, adapter.Add(ctx, domain.ListWhitelist, "aa:bb:cc:dd:ee:ff"))
	require.NoError(t, adapter.Add(ctx, domain.ListBlacklist, "11:22:33:44:55:66"))

	white, err := adapter.Entries(ctx, domain.ListWhitelist)
	require.NoError(t, err)
	assert.Equal(t, []string{"aa:bb:cc:dd:ee:ff"}, white)

	black, err := adapter.Entries(ctx, domain.ListBlacklist)
	require.NoError(t, err)
	assert.Equal(t, []string{"11:22:33:44:55:66"}, black)

	set, err := adapter.Blacklist(ctx)
	require.NoError(t, err)
	assert.True(t, set.Contains("11:22:33:44:55:66"))

	require.NoError(t, adapter.Remove(ctx, domain.ListWhitelist, "AA:BB:CC:DD:EE:FF"))
	white, err = adapter.Entries(ctx, domain.ListWhitelist)
	require.NoError(t, err)
	assert.Empty(t, white)

	// Removing an absent entry is a no-op.
	require.NoError(t, adapter.Remove(ctx, domain.ListWhitelist, "ff:ff:ff:ff:ff:ff"))
}
