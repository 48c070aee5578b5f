package ports

import (
	"context"

	"github.com/avelasq/wifisentry/internal/core/domain"
)

// ThreatStore persists the threat log and per-scan summaries.
type ThreatStore interface {
	SaveThreats(ctx context.Context, threats []domain.DetectedThreat) error
	ListThreats(ctx context.Context, limit int) ([]domain.DetectedThreat, error)
	ThreatStats(ctx context.Context) (domain.ThreatStats, error)
	SaveScanSummary(ctx context.Context, summary domain.ScanSummary) error
	ListScanSummaries(ctx context.Context, limit int) ([]domain.ScanSummary, error)
}

// ListStore persists the user-managed whitelist and blacklist.
type ListStore interface {
	Entries(ctx context.Context, kind domain.ListKind) ([]string, error)
	Add(ctx context.Context, kind domain.ListKind, bssid string) error
	Remove(ctx context.Context, kind domain.ListKind, bssid string) error
}
