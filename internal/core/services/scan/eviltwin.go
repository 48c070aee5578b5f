package scan

import "github.com/avelasq/wifisentry/internal/core/domain"

// TagEvilTwins flags records whose SSID is advertised by more than one
// distinct BSSID with conflicting security postures within this batch.
// It works in place over the whole batch: twin relationships can only be
// judged seeing every record of the scan at once. Re-tagging an already
// tagged batch yields the same flags.
func TagEvilTwins(batch []domain.NetworkRecord) {
	type group struct {
		indices  []int
		bssids   map[string]struct{}
		postures map[string]struct{}
	}

	groups := make(map[string]*group)
	for i := range batch {
		r := &batch[i]
		if r.SSID == "" {
			continue
		}
		g, ok := groups[r.SSID]
		if !ok {
			g = &group{
				bssids:   make(map[string]struct{}),
				postures: make(map[string]struct{}),
			}
			groups[r.SSID] = g
		}
		g.indices = append(g.indices, i)
		g.bssids[domain.CanonicalBSSID(r.BSSID)] = struct{}{}
		g.postures[r.Authentication+"/"+r.Encryption] = struct{}{}
	}

	for _, g := range groups {
		if len(g.bssids) > 1 && len(g.postures) > 1 {
			for _, i := range g.indices {
				batch[i].IsEvilTwin = true
			}
		}
	}
}
