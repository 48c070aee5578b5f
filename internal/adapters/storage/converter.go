package storage

import (
	"github.com/avelasq/wifisentry/internal/core/domain"
)

func threatToModel(t domain.DetectedThreat) ThreatModel {
	return ThreatModel{
		ID:          t.ID,
		ThreatType:  string(t.Type),
		Severity:    string(t.Severity),
		SubjectKind: string(t.Subject.Kind),
		SSID:        t.Subject.SSID,
		BSSID:       t.Subject.BSSID,
		Details:     t.Details,
		Timestamp:   t.Timestamp,
	}
}

func threatFromModel(m ThreatModel) domain.DetectedThreat {
	return domain.DetectedThreat{
		ID:       m.ID,
		Type:     domain.ThreatType(m.ThreatType),
		Severity: domain.Severity(m.Severity),
		Subject: domain.ThreatSubject{
			Kind:  domain.SubjectKind(m.SubjectKind),
			SSID:  m.SSID,
			BSSID: m.BSSID,
		},
		Details:   m.Details,
		Timestamp: m.Timestamp,
	}
}
