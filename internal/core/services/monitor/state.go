package monitor

import (
	"time"

	"github.com/avelasq/wifisentry/internal/core/domain"
)

// UpdateHistory folds one scan batch into the cross-scan state: per-BSSID
// history upserts, rolling signal queues, and the staleness sweep. It runs
// at the start of every detection pass, before any rule reads the state.
func UpdateHistory(current []domain.NetworkRecord, state *domain.MonitoringState, now time.Time) {
	for _, rec := range current {
		bssid := domain.CanonicalBSSID(rec.BSSID)
		signal := domain.ParseSignal(rec.Signal)

		history, ok := state.NetworkHistory[bssid]
		if !ok {
			history = &domain.NetworkHistory{
				SSID:      rec.SSID,
				BSSID:     bssid,
				FirstSeen: now,
			}
			state.NetworkHistory[bssid] = history
		}
		history.LastSeen = now
		history.AppearanceCount++
		history.SignalStrength = signal
		history.SSID = rec.SSID

		state.SignalBaselines[bssid] = appendBounded(state.SignalBaselines[bssid], signal)
		history.PreviousSignals = appendBounded(history.PreviousSignals, signal)
	}

	cutoff := now.Add(-domain.HistoryTTL)
	for bssid, history := range state.NetworkHistory {
		if !history.LastSeen.After(cutoff) {
			delete(state.NetworkHistory, bssid)
		}
	}
}

// appendBounded appends a sample and drops the oldest one once the queue
// exceeds its capacity.
func appendBounded(queue []int, sample int) []int {
	queue = append(queue, sample)
	if len(queue) > domain.SignalWindow {
		queue = queue[1:]
	}
	return queue
}
