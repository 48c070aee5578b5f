package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avelasq/wifisentry/internal/adapters/storage"
	"github.com/avelasq/wifisentry/internal/adapters/web"
	"github.com/avelasq/wifisentry/internal/adapters/wifi"
	"github.com/avelasq/wifisentry/internal/config"
	"github.com/avelasq/wifisentry/internal/core/domain"
	"github.com/avelasq/wifisentry/internal/core/ports"
	"github.com/avelasq/wifisentry/internal/core/services/monitor"
	"github.com/avelasq/wifisentry/internal/telemetry"
)

// Application wires the scan source, monitor session, storage and web
// server together. It is the composition root; nothing below this package
// knows about the concrete adapters.
type Application struct {
	Config    *config.Config
	Store     *storage.SQLiteAdapter
	Monitor   *monitor.Monitor
	WebServer *web.Server
	WSManager *web.WSManager
}

// New creates a new Application instance and bootstraps its components.
func New(cfg *config.Config) (*Application, error) {
	app := &Application{Config: cfg}
	if err := app.bootstrap(); err != nil {
		return nil, fmt.Errorf("application bootstrap failed: %w", err)
	}
	return app, nil
}

func (app *Application) bootstrap() error {
	telemetry.InitMetrics()

	store, err := storage.NewSQLiteAdapter(app.Config.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	app.Store = store

	if err := app.seedLists(); err != nil {
		return err
	}

	var source ports.ScanSource
	if app.Config.MockMode {
		slog.Info("Using mock scan source")
		source = wifi.NewMockSource(time.Now().UnixNano(), 10)
	} else {
		source = wifi.NewNetshSource()
	}

	app.Monitor = monitor.New(source, store,
		monitor.WithInterval(app.Config.Interval),
		monitor.WithEnabledThreatTypes(app.Config.Settings.EnabledThreatTypes()),
	)

	app.WSManager = web.NewWSManager(64)
	app.Monitor.AddSink(app.WSManager)
	app.Monitor.AddSink(threatPersister{store: store})
	app.Monitor.AddScanHook(app.recordSummary)

	app.WebServer = web.NewServer(app.Config.Addr, app.Monitor, store, store, app.WSManager, []byte(app.Config.APIKeyHash))
	return nil
}

// seedLists imports list entries from the settings file. Existing entries
// are kept; seeding never removes anything.
func (app *Application) seedLists() error {
	ctx := context.Background()
	for _, bssid := range app.Config.Settings.Whitelist {
		if err := app.Store.Add(ctx, domain.ListWhitelist, bssid); err != nil {
			return fmt.Errorf("failed to seed whitelist: %w", err)
		}
	}
	for _, bssid := range app.Config.Settings.Blacklist {
		if err := app.Store.Add(ctx, domain.ListBlacklist, bssid); err != nil {
			return fmt.Errorf("failed to seed blacklist: %w", err)
		}
	}
	return nil
}

func (app *Application) recordSummary(networks []domain.NetworkRecord, threats []domain.DetectedThreat) {
	summary := domain.ScanSummary{
		Timestamp:    time.Now(),
		NetworkCount: len(networks),
		ThreatCount:  len(threats),
	}
	for _, n := range networks {
		if n.Risk == domain.RiskHigh {
			summary.HighRisk++
		}
		if n.IsEvilTwin {
			summary.EvilTwins++
		}
	}

	if err := app.Store.SaveScanSummary(context.Background(), summary); err != nil {
		slog.Error("Failed to persist scan summary", "error", err)
	}
}

// Run starts the web server and blocks until ctx is cancelled. The monitor
// loop is started on demand through the API, not here.
func (app *Application) Run(ctx context.Context) error {
	defer func() {
		if app.Monitor.Running() {
			if err := app.Monitor.Stop(); err != nil {
				slog.Error("Failed to stop monitor", "error", err)
			}
		}
		if err := app.Store.Close(); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}()

	return app.WebServer.Run(ctx)
}

// threatPersister writes detected threats to the threat log. It implements
// ports.ThreatSink.
type threatPersister struct {
	store ports.ThreatStore
}

func (p threatPersister) PublishThreat(threat domain.DetectedThreat) {
	if err := p.store.SaveThreats(context.Background(), []domain.DetectedThreat{threat}); err != nil {
		slog.Error("Failed to persist threat", "error", err, "type", threat.Type)
	}
}
