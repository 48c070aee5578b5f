package wifi

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Errors surfaced to the caller before any scan text reaches the core.
var (
	ErrNoAdapter      = errors.New("no WiFi adapter found, ensure your WiFi adapter is installed and enabled")
	ErrAdapterOff     = errors.New("WiFi adapter is turned off, enable WiFi in system settings")
	ErrAdapterNotUp   = errors.New("WiFi adapter is not ready for scanning")
	ErrAdapterPowered = errors.New("WiFi adapter is powered down")
)

// settleDelay gives the radio time to finish a sweep after the scan trigger.
const settleDelay = 2 * time.Second

// NetshSource acquires scan reports through the Windows wireless utility.
// It implements ports.ScanSource. Every invocation checks the adapter state
// first so adapter problems surface as descriptive errors instead of empty
// parses.
type NetshSource struct {
	// runner executes a command and returns its stdout. Overridable in tests.
	runner func(ctx context.Context, name string, args ...string) (string, error)
	settle time.Duration
}

// NewNetshSource creates a scan source backed by netsh.
func NewNetshSource() *NetshSource {
	return &NetshSource{runner: runCommand, settle: settleDelay}
}

func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	return string(out), err
}

// Scan checks the adapter, triggers a fresh sweep, waits for the radio to
// settle and returns the raw BSSID-mode report. The wait is bounded by ctx.
func (s *NetshSource) Scan(ctx context.Context) (string, error) {
	if err := s.checkAdapter(ctx); err != nil {
		return "", err
	}

	// Best effort: some drivers refresh the cache only on an explicit
	// trigger. Failure here is not fatal, the show command still returns
	// the last known population.
	_, _ = s.runner(ctx, "netsh", "wlan", "scan")

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(s.settle):
	}

	out, err := s.runner(ctx, "netsh", "wlan", "show", "networks", "mode=bssid")
	if err != nil {
		return "", fmt.Errorf("failed to scan WiFi networks: %w", err)
	}

	if strings.Contains(out, "wireless local area network interface is powered down") {
		return "", ErrAdapterPowered
	}
	if strings.Contains(out, "doesn't support the requested operation") {
		return "", ErrAdapterNotUp
	}

	return out, nil
}

// checkAdapter inspects the interface listing for presence and radio state.
func (s *NetshSource) checkAdapter(ctx context.Context) error {
	out, err := s.runner(ctx, "netsh", "wlan", "show", "interfaces")
	if err != nil {
		return fmt.Errorf("failed to check WiFi adapter state: %w", err)
	}

	hasInterface := false
	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "State") {
			hasInterface = true
		}
		if strings.Contains(trimmed, "Software Off") {
			return ErrAdapterOff
		}
	}

	if !hasInterface {
		return ErrNoAdapter
	}
	return nil
}
