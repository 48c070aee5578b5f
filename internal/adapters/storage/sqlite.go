package storage

import (
	"context"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/avelasq/wifisentry/internal/core/domain"
)

// SQLiteAdapter implements ports.ThreatStore, ports.ListStore and
// ports.ListProvider using GORM and SQLite.
type SQLiteAdapter struct {
	db *gorm.DB
}

// ThreatModel is the GORM model for detected threats.
type ThreatModel struct {
	ID          string `gorm:"primaryKey"`
	ThreatType  string `gorm:"index"`
	Severity    string `gorm:"index"`
	SubjectKind string
	SSID        string
	BSSID       string
	Details     string
	Timestamp   time.Time `gorm:"index"`
}

// ScanSummaryModel is the GORM model for per-scan aggregates.
type ScanSummaryModel struct {
	ID           uint      `gorm:"primaryKey"`
	Timestamp    time.Time `gorm:"index"`
	NetworkCount int
	ThreatCount  int
	HighRisk     int
	EvilTwins    int
}

// ListEntryModel stores one whitelist or blacklist BSSID.
type ListEntryModel struct {
	ID    uint   `gorm:"primaryKey"`
	Kind  string `gorm:"uniqueIndex:idx_list_kind_bssid"`
	BSSID string `gorm:"uniqueIndex:idx_list_kind_bssid"`
}

// NewSQLiteAdapter initializes the database and migrates schema.
func NewSQLiteAdapter(path string) (*SQLiteAdapter, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&ThreatModel{}, &ScanSummaryModel{}, &ListEntryModel{}); err != nil {
		return nil, err
	}

	db.Exec("CREATE INDEX IF NOT EXISTS idx_threats_type_severity ON threat_models(threat_type, severity)")

	return &SQLiteAdapter{db: db}, nil
}

// SaveThreats persists a batch of detected threats.
func (a *SQLiteAdapter) SaveThreats(ctx context.Context, threats []domain.DetectedThreat) error {
	if len(threats) == 0 {
		return nil
	}
	models := make([]ThreatModel, 0, len(threats))
	for _, t := range threats {
		models = append(models, threatToModel(t))
	}
	return a.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&models).Error
}

// ListThreats returns up to limit threats, newest first. A non-positive
// limit returns the full log.
func (a *SQLiteAdapter) ListThreats(ctx context.Context, limit int) ([]domain.DetectedThreat, error) {
	var models []ThreatModel
	q := a.db.WithContext(ctx).Order("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	threats := make([]domain.DetectedThreat, 0, len(models))
	for _, m := range models {
		threats = append(threats, threatFromModel(m))
	}
	return threats, nil
}

// ThreatStats aggregates the persisted log by type and severity.
func (a *SQLiteAdapter) ThreatStats(ctx context.Context) (domain.ThreatStats, error) {
	stats := domain.NewThreatStats()

	type bucket struct {
		Key   string
		Count int
	}

	var byType []bucket
	if err := a.db.WithContext(ctx).Model(&ThreatModel{}).
		Select("threat_type AS key, COUNT(*) AS count").
		Group("threat_type").Scan(&byType).Error; err != nil {
		return stats, err
	}
	for _, b := range byType {
		stats.ByType[domain.ThreatType(b.Key)] = b.Count
		stats.Total += b.Count
	}

	var bySeverity []bucket
	if err := a.db.WithContext(ctx).Model(&ThreatModel{}).
		Select("severity AS key, COUNT(*) AS count").
		Group("severity").Scan(&bySeverity).Error; err != nil {
		return stats, err
	}
	for _, b := range bySeverity {
		stats.BySeverity[domain.Severity(b.Key)] = b.Count
	}

	return stats, nil
}

// SaveScanSummary appends one per-scan aggregate row.
func (a *SQLiteAdapter) SaveScanSummary(ctx context.Context, summary domain.ScanSummary) error {
	model := ScanSummaryModel{
		Timestamp:    summary.Timestamp,
		NetworkCount: summary.NetworkCount,
		ThreatCount:  summary.ThreatCount,
		HighRisk:     summary.HighRisk,
		EvilTwins:    summary.EvilTwins,
	}
	return a.db.WithContext(ctx).Create(&model).Error
}

// ListScanSummaries returns up to limit summaries, newest first.
func (a *SQLiteAdapter) ListScanSummaries(ctx context.Context, limit int) ([]domain.ScanSummary, error) {
	var models []ScanSummaryModel
	q := a.db.WithContext(ctx).Order("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	summaries := make([]domain.ScanSummary, 0, len(models))
	for _, m := range models {
		summaries = append(summaries, domain.ScanSummary{
			Timestamp:    m.Timestamp,
			NetworkCount: m.NetworkCount,
			ThreatCount:  m.ThreatCount,
			HighRisk:     m.HighRisk,
			EvilTwins:    m.EvilTwins,
		})
	}
	return summaries, nil
}

// Entries returns the stored BSSIDs for one list kind.
func (a *SQLiteAdapter) Entries(ctx context.Context, kind domain.ListKind) ([]string, error) {
	var models []ListEntryModel
	if err := a.db.WithContext(ctx).
		Where("kind = ?", string(kind)).
		Order("bssid ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	entries := make([]string, 0, len(models))
	for _, m := range models {
		entries = append(entries, m.BSSID)
	}
	return entries, nil
}

// Add inserts a BSSID into a list. Duplicates are ignored.
func (a *SQLiteAdapter) Add(ctx context.Context, kind domain.ListKind, bssid string) error {
	entry := ListEntryModel{Kind: string(kind), BSSID: domain.CanonicalBSSID(bssid)}
	return a.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error
}

// Remove deletes a BSSID from a list. Removing an absent entry is a no-op.
func (a *SQLiteAdapter) Remove(ctx context.Context, kind domain.ListKind, bssid string) error {
	return a.db.WithContext(ctx).
		Where("kind = ? AND bssid = ?", string(kind), domain.CanonicalBSSID(bssid)).
		Delete(&ListEntryModel{}).Error
}

// Whitelist resolves the whitelist as a lookup set for the detector.
func (a *SQLiteAdapter) Whitelist(ctx context.Context) (domain.BSSIDSet, error) {
	return a.listSet(ctx, domain.ListWhitelist)
}

// Blacklist resolves the blacklist as a lookup set for the detector.
func (a *SQLiteAdapter) Blacklist(ctx context.Context) (domain.BSSIDSet, error) {
	return a.listSet(ctx, domain.ListBlacklist)
}

func (a *SQLiteAdapter) listSet(ctx context.Context, kind domain.ListKind) (domain.BSSIDSet, error) {
	entries, err := a.Entries(ctx, kind)
	if err != nil {
		return nil, err
	}
	return domain.NewBSSIDSet(entries), nil
}

// Close releases the underlying database handle.
func (a *SQLiteAdapter) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
