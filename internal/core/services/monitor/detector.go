package monitor

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/avelasq/wifisentry/internal/core/domain"
)

// Rule thresholds. All comparisons are exclusive: the threat fires strictly
// above the named value.
const (
	spoofBSSIDsPerSSID  = 3  // >3 distinct BSSIDs advertising one SSID
	deauthFailures      = 3  // >3 connection failures in the deauth window
	floodDelta          = 10 // >10 BSSIDs appearing or disappearing per scan
	probeHiddenCount    = 5  // >5 hidden/placeholder SSIDs per scan
	jammingMinBaseline  = 3  // prior samples required before judging a drop
	jammingMultiNetwork = 3  // >3 simultaneous drops escalate to Critical
)

// deauthWindow is the lookback for counting connection failures.
const deauthWindow = 30 * time.Second

// pass carries everything a rule may read during one detection pass.
// History and baselines have already been updated for the current batch;
// PreviousNetworks and the counters still hold the prior scan's values.
type pass struct {
	current   []domain.NetworkRecord
	state     *domain.MonitoringState
	whitelist domain.BSSIDSet
	blacklist domain.BSSIDSet
	now       time.Time
}

// rule is one detection heuristic evaluated against a pass.
type rule interface {
	Name() string
	Evaluate(p *pass) []domain.DetectedThreat
}

// Detector evaluates a fixed, ordered set of rules over each scan.
type Detector struct {
	rules []rule
}

// NewDetector creates a detector with the standard rule set.
func NewDetector() *Detector {
	return &Detector{
		rules: []rule{
			macSpoofRule{},
			deauthRule{},
			floodRule{},
			unauthorizedRule{},
			probeAnomalyRule{},
			jammingRule{},
			blacklistRule{},
		},
	}
}

// Detect runs one detection pass: fold the batch into history, evaluate
// every rule in order, then commit the frame delta (previous networks, scan
// counter, last scan time) and purge expired connection failures. The pass
// is a single logical transaction over the state; the caller must not allow
// a second pass to interleave on the same MonitoringState.
//
// Detect never fails: malformed or absent inputs degrade to neutral values.
func (d *Detector) Detect(current []domain.NetworkRecord, state *domain.MonitoringState, whitelist, blacklist domain.BSSIDSet, now time.Time) []domain.DetectedThreat {
	UpdateHistory(current, state, now)

	p := &pass{
		current:   current,
		state:     state,
		whitelist: whitelist,
		blacklist: blacklist,
		now:       now,
	}

	var threats []domain.DetectedThreat
	for _, r := range d.rules {
		found := r.Evaluate(p)
		if len(found) > 0 {
			slog.Debug("Detection rule matched", "rule", r.Name(), "threats", len(found))
		}
		threats = append(threats, found...)
	}

	state.PreviousNetworks = append([]domain.NetworkRecord(nil), current...)
	state.ScanCount++
	state.LastScanTime = now

	failureCutoff := now.Add(-domain.FailureWindow)
	kept := make([]domain.ConnectionFailure, 0, len(state.ConnectionFailures))
	for _, f := range state.ConnectionFailures {
		if f.Timestamp.After(failureCutoff) {
			kept = append(kept, f)
		}
	}
	state.ConnectionFailures = kept

	return threats
}

// macSpoofRule flags one BSSID advertising several SSIDs (Critical) and one
// SSID spread across suspiciously many BSSIDs (High). Both maps are built
// from the current batch only; records missing either identifier are skipped.
type macSpoofRule struct{}

func (macSpoofRule) Name() string { return "mac_spoof" }

func (macSpoofRule) Evaluate(p *pass) []domain.DetectedThreat {
	bssidToSSIDs := make(map[string]map[string]struct{})
	ssidToBSSIDs := make(map[string]map[string]struct{})

	for _, rec := range p.current {
		bssid := domain.CanonicalBSSID(rec.BSSID)
		ssid := rec.SSID
		if strings.TrimSpace(ssid) == "" || bssid == "" {
			continue
		}
		if bssidToSSIDs[bssid] == nil {
			bssidToSSIDs[bssid] = make(map[string]struct{})
		}
		bssidToSSIDs[bssid][ssid] = struct{}{}
		if ssidToBSSIDs[ssid] == nil {
			ssidToBSSIDs[ssid] = make(map[string]struct{})
		}
		ssidToBSSIDs[ssid][bssid] = struct{}{}
	}

	var threats []domain.DetectedThreat
	for _, bssid := range sortedKeys(bssidToSSIDs) {
		ssids := bssidToSSIDs[bssid]
		if len(ssids) <= 1 {
			continue
		}
		names := sortedKeys(ssids)
		threats = append(threats, domain.NewThreat(
			domain.ThreatMACSpoof,
			domain.SeverityCritical,
			domain.NetworkSubject(names[0], bssid),
			fmt.Sprintf("BSSID %s appears with multiple SSIDs: %s", bssid, strings.Join(names, ", ")),
			p.now,
		))
	}

	for _, ssid := range sortedKeys(ssidToBSSIDs) {
		bssids := ssidToBSSIDs[ssid]
		if len(bssids) <= spoofBSSIDsPerSSID {
			continue
		}
		threats = append(threats, domain.NewThreat(
			domain.ThreatMACSpoof,
			domain.SeverityHigh,
			domain.NetworkSubject(ssid, sortedKeys(bssids)[0]),
			fmt.Sprintf("SSID %s has %d different BSSIDs, possible MAC spoofing attack", ssid, len(bssids)),
			p.now,
		))
	}

	return threats
}

// deauthRule counts recent connection failures per network. A burst of
// failures against one network within the window looks like forced
// disconnects rather than bad luck.
type deauthRule struct{}

func (deauthRule) Name() string { return "deauth_attack" }

func (deauthRule) Evaluate(p *pass) []domain.DetectedThreat {
	type networkKey struct {
		ssid  string
		bssid string
	}

	cutoff := p.now.Add(-deauthWindow)
	counts := make(map[networkKey]int)
	var order []networkKey
	for _, f := range p.state.ConnectionFailures {
		if !f.Timestamp.After(cutoff) {
			continue
		}
		key := networkKey{ssid: f.NetworkSSID, bssid: f.NetworkBSSID}
		if counts[key] == 0 {
			order = append(order, key)
		}
		counts[key]++
	}

	var threats []domain.DetectedThreat
	for _, key := range order {
		count := counts[key]
		if count <= deauthFailures {
			continue
		}
		threats = append(threats, domain.NewThreat(
			domain.ThreatDeauthAttack,
			domain.SeverityHigh,
			domain.NetworkSubject(key.ssid, key.bssid),
			fmt.Sprintf("Rapid connection failures detected (%d failures in 30 seconds), possible deauthentication attack", count),
			p.now,
		))
	}
	return threats
}

// floodRule compares the current BSSID population against the previous
// scan's. The first scan of a session has no baseline and never fires.
// Appearance and disappearance are judged independently and may both fire.
type floodRule struct{}

func (floodRule) Name() string { return "flood_attack" }

func (floodRule) Evaluate(p *pass) []domain.DetectedThreat {
	if len(p.state.PreviousNetworks) == 0 {
		return nil
	}

	prev := make(map[string]struct{}, len(p.state.PreviousNetworks))
	for _, rec := range p.state.PreviousNetworks {
		prev[domain.CanonicalBSSID(rec.BSSID)] = struct{}{}
	}
	curr := make(map[string]struct{}, len(p.current))
	for _, rec := range p.current {
		curr[domain.CanonicalBSSID(rec.BSSID)] = struct{}{}
	}

	appeared := 0
	for bssid := range curr {
		if _, ok := prev[bssid]; !ok {
			appeared++
		}
	}
	disappeared := 0
	for bssid := range prev {
		if _, ok := curr[bssid]; !ok {
			disappeared++
		}
	}

	var threats []domain.DetectedThreat
	if appeared > floodDelta {
		threats = append(threats, domain.NewThreat(
			domain.ThreatFloodAttack,
			domain.SeverityHigh,
			domain.AggregateSubject(),
			fmt.Sprintf("Rapid network appearance detected: %d new networks appeared in single scan, possible flood attack", appeared),
			p.now,
		))
	}
	if disappeared > floodDelta {
		threats = append(threats, domain.NewThreat(
			domain.ThreatFloodAttack,
			domain.SeverityMedium,
			domain.AggregateSubject(),
			fmt.Sprintf("Rapid network disappearance detected: %d networks disappeared in single scan", disappeared),
			p.now,
		))
	}
	return threats
}

// unauthorizedRule is opt-in: with an empty whitelist it is disabled
// entirely. Otherwise every network outside the whitelist is reported.
type unauthorizedRule struct{}

func (unauthorizedRule) Name() string { return "unauthorized_client" }

func (unauthorizedRule) Evaluate(p *pass) []domain.DetectedThreat {
	if p.whitelist.Len() == 0 {
		return nil
	}

	var threats []domain.DetectedThreat
	for _, rec := range p.current {
		bssid := domain.CanonicalBSSID(rec.BSSID)
		if p.whitelist.Contains(bssid) {
			continue
		}
		threats = append(threats, domain.NewThreat(
			domain.ThreatUnauthorized,
			domain.SeverityMedium,
			domain.NetworkSubject(rec.SSID, bssid),
			fmt.Sprintf("Unauthorized network detected: %s (BSSID: %s) not in whitelist", rec.SSID, bssid),
			p.now,
		))
	}
	return threats
}

// probeAnomalyRule counts hidden or placeholder SSIDs in the batch. A pile
// of them in one scan suggests a probe flood rather than ordinary cloaked
// networks.
type probeAnomalyRule struct{}

func (probeAnomalyRule) Name() string { return "probe_anomaly" }

func (probeAnomalyRule) Evaluate(p *pass) []domain.DetectedThreat {
	hidden := 0
	for _, rec := range p.current {
		if strings.TrimSpace(rec.SSID) == "" || rec.SSID == "-" {
			hidden++
		}
	}
	if hidden <= probeHiddenCount {
		return nil
	}
	return []domain.DetectedThreat{domain.NewThreat(
		domain.ThreatProbeAnomaly,
		domain.SeverityMedium,
		domain.HiddenSubject(),
		fmt.Sprintf("Excessive hidden network probes detected: %d hidden networks, possible probe flood", hidden),
		p.now,
	)}
}

// jammingRule compares each network's current signal against the rolling
// average of its prior samples. The baseline queue was already extended with
// the current sample by the history update, so the newest entry is dropped
// before averaging. A drop below half the average fires per network; more
// than jammingMultiNetwork simultaneous drops escalate to one Critical
// summary threat.
type jammingRule struct{}

func (jammingRule) Name() string { return "rf_jamming" }

func (jammingRule) Evaluate(p *pass) []domain.DetectedThreat {
	var threats []domain.DetectedThreat
	drops := 0

	for _, rec := range p.current {
		bssid := domain.CanonicalBSSID(rec.BSSID)
		current := domain.ParseSignal(rec.Signal)

		baseline := p.state.SignalBaselines[bssid]
		if len(baseline) == 0 {
			continue
		}
		prior := baseline[:len(baseline)-1]
		if len(prior) < jammingMinBaseline {
			continue
		}

		sum := 0
		for _, s := range prior {
			sum += s
		}
		avg := sum / len(prior)
		if avg <= 0 || current >= avg/2 {
			continue
		}

		drops++
		decrease := ((avg - current) * 100) / avg
		threats = append(threats, domain.NewThreat(
			domain.ThreatRFJamming,
			domain.SeverityHigh,
			domain.NetworkSubject(rec.SSID, bssid),
			fmt.Sprintf("Sudden signal strength drop detected: %d%% -> %d%% (%d%% decrease), possible RF jamming", avg, current, decrease),
			p.now,
		))
	}

	if drops > jammingMultiNetwork {
		threats = append(threats, domain.NewThreat(
			domain.ThreatRFJamming,
			domain.SeverityCritical,
			domain.AggregateSubject(),
			fmt.Sprintf("Multiple networks (%d) showing simultaneous signal drops, likely RF jamming attack", drops),
			p.now,
		))
	}
	return threats
}

// blacklistRule reports every current network whose BSSID the user has
// explicitly blacklisted.
type blacklistRule struct{}

func (blacklistRule) Name() string { return "blacklisted_network" }

func (blacklistRule) Evaluate(p *pass) []domain.DetectedThreat {
	var threats []domain.DetectedThreat
	for _, rec := range p.current {
		bssid := domain.CanonicalBSSID(rec.BSSID)
		if !p.blacklist.Contains(bssid) {
			continue
		}
		threats = append(threats, domain.NewThreat(
			domain.ThreatBlacklistedNet,
			domain.SeverityCritical,
			domain.NetworkSubject(rec.SSID, bssid),
			fmt.Sprintf("Blacklisted network detected: %s (BSSID: %s), avoid connecting", rec.SSID, bssid),
			p.now,
		))
	}
	return threats
}

// sortedKeys gives rules deterministic output ordering over map iteration.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
