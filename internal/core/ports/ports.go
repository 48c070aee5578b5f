package ports

import (
	"context"

	"github.com/avelasq/wifisentry/internal/core/domain"
)

// ScanSource acquires one raw scan report from the wireless adapter.
// Implementations may block for several seconds while the radio completes a
// sweep, so they must honor context cancellation and deadlines.
type ScanSource interface {
	Scan(ctx context.Context) (string, error)
}

// ThreatSink receives detected threats for display or forwarding. Publish
// must not block the detection pass.
type ThreatSink interface {
	PublishThreat(threat domain.DetectedThreat)
}

// ListProvider supplies the user-managed BSSID lists consumed by the
// detector. Implementations resolve them fresh per pass so edits take
// effect on the next scan.
type ListProvider interface {
	Whitelist(ctx context.Context) (domain.BSSIDSet, error)
	Blacklist(ctx context.Context) (domain.BSSIDSet, error)
}
