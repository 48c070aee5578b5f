package scan

import (
	"strings"

	"github.com/avelasq/wifisentry/internal/core/domain"
)

// Parse converts the wireless utility's textual report into an ordered batch
// of network records. The report is a flat sequence of labeled lines
// ("SSID 1 : Home", "BSSID 1 : aa:bb:..."); a logical network starts at an
// SSID line and each BSSID line under it opens one record. Malformed lines
// are skipped, never errored on.
func Parse(raw string) []domain.NetworkRecord {
	var (
		records     []domain.NetworkRecord
		currentSSID string
		currentAuth string
		currentEnc  string
		inProgress  *domain.NetworkRecord
	)

	flush := func() {
		if inProgress != nil {
			records = append(records, *inProgress)
			inProgress = nil
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.Contains(trimmed, ":") {
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "SSID"):
			flush()
			// Empty value means a numbered continuation line, not a new
			// network block. Accumulators stay untouched.
			if v := labelValue(trimmed); v != "" {
				currentSSID = v
				currentAuth = ""
				currentEnc = ""
			}
		case strings.HasPrefix(trimmed, "Authentication"):
			currentAuth = labelValue(trimmed)
		case strings.HasPrefix(trimmed, "Encryption"):
			currentEnc = labelValue(trimmed)
		case strings.HasPrefix(trimmed, "BSSID"):
			flush()
			if bssid := labelValue(trimmed); currentSSID != "" && bssid != "" {
				inProgress = &domain.NetworkRecord{
					SSID:           currentSSID,
					BSSID:          bssid,
					Authentication: currentAuth,
					Encryption:     currentEnc,
				}
			}
		case strings.HasPrefix(trimmed, "Signal"):
			if inProgress != nil {
				inProgress.Signal = labelValue(trimmed)
			}
		}
	}
	flush()

	for i := range records {
		r := &records[i]
		r.Risk = Score(r.Authentication, r.Encryption, r.Signal, r.SSID)
	}

	return records
}

// labelValue extracts the part after the first colon, trimmed. Lines without
// a colon never reach this point.
func labelValue(line string) string {
	_, value, ok := strings.Cut(line, ":")
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}
