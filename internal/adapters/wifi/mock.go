package wifi

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
)

// Common SSIDs for realistic mock reports
var commonSSIDs = []string{
	"HomeNetwork", "NETGEAR-5G", "Starbucks WiFi", "TP-Link_2.4GHz",
	"Linksys", "ATT-WiFi", "Xfinity", "Google Fiber",
	"Office-Network", "Guest-WiFi", "MyWiFi", "Home-2.4G",
	"CoffeeShop_Free", "Airport_WiFi", "Hotel-Guest", "Apartment_5G",
}

// Vendor OUI prefixes (first 3 bytes of MAC)
var vendorPrefixes = []string{
	"00:17:F2", "00:12:FB", "00:1E:BD", "50:C7:BF", "A0:63:91",
	"00:14:BF", "F4:F5:D8", "FC:A6:67", "34:CE:00", "00:E0:FC",
	"00:1F:C6", "00:17:9A", "00:11:50", "00:1C:62",
}

type securityProfile struct {
	auth string
	enc  string
}

var securityProfiles = []securityProfile{
	{"WPA2-Personal", "CCMP"},
	{"WPA3-Personal", "CCMP"},
	{"WPA2-Personal", "TKIP"},
	{"Open", "None"},
	{"WEP", "WEP"},
}

// MockSource emits synthetic scan reports in the same text layout the real
// wireless utility produces. It implements ports.ScanSource and exists so the
// full pipeline can run on machines without a WiFi adapter.
type MockSource struct {
	rng          *rand.Rand
	networkCount int
}

// NewMockSource creates a mock source emitting count networks per scan.
// A non-positive count defaults to 8.
func NewMockSource(seed int64, count int) *MockSource {
	if count <= 0 {
		count = 8
	}
	return &MockSource{
		rng:          rand.New(rand.NewSource(seed)),
		networkCount: count,
	}
}

// Scan returns a synthetic BSSID-mode report.
func (s *MockSource) Scan(_ context.Context) (string, error) {
	var b strings.Builder
	b.WriteString("Interface name : Wi-Fi\n")
	fmt.Fprintf(&b, "There are %d networks currently visible.\n\n", s.networkCount)

	for i := 0; i < s.networkCount; i++ {
		ssid := commonSSIDs[s.rng.Intn(len(commonSSIDs))]
		if s.rng.Intn(10) == 0 {
			ssid = ""
		}
		profile := securityProfiles[s.rng.Intn(len(securityProfiles))]
		prefix := vendorPrefixes[s.rng.Intn(len(vendorPrefixes))]
		bssid := fmt.Sprintf("%s:%02x:%02x:%02x",
			strings.ToLower(prefix), s.rng.Intn(256), s.rng.Intn(256), s.rng.Intn(256))
		signal := 20 + s.rng.Intn(80)

		fmt.Fprintf(&b, "SSID %d : %s\n", i+1, ssid)
		fmt.Fprintf(&b, "    Authentication          : %s\n", profile.auth)
		fmt.Fprintf(&b, "    Encryption              : %s\n", profile.enc)
		fmt.Fprintf(&b, "    BSSID 1                 : %s\n", bssid)
		fmt.Fprintf(&b, "         Signal             : %d%%\n", signal)
		fmt.Fprintf(&b, "         Channel            : %d\n", 1+s.rng.Intn(11))
		b.WriteString("\n")
	}

	return b.String(), nil
}
