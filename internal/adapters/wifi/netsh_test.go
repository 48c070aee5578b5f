package wifi

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelasq/wifisentry/internal/core/services/scan"
)

const interfacesUp = `
There is 1 interface on the system:

    Name                   : Wi-Fi
    State                  : connected
    Radio status           : Hardware On
                             Software On
`

const interfacesOff = `
There is 1 interface on the system:

    Name                   : Wi-Fi
    State                  : disconnected
    Radio status           : Hardware On
                             Software Off
`

func fakeRunner(responses map[string]string, err error) func(context.Context, string, ...string) (string, error) {
	return func(_ context.Context, _ string, args ...string) (string, error) {
		if err != nil {
			return "", err
		}
		key := args[len(args)-1]
		return responses[key], nil
	}
}

func TestNetshScanHappyPath(t *testing.T) {
	src := NewNetshSource()
	src.settle = 0
	src.runner = fakeRunner(map[string]string{
		"interfaces": interfacesUp,
		"mode=bssid": "SSID 1 : HomeNetwork\n    Authentication : WPA2-Personal\n    Encryption : CCMP\n    BSSID 1 : aa:bb:cc:dd:ee:ff\n         Signal : 70%\n",
	}, nil)

	out, err := src.Scan(context.Background())
	require.NoError(t, err)

	nets := scan.Parse(out)
	require.Len(t, nets, 1)
	assert.Equal(t, "HomeNetwork", nets[0].SSID)
}

func TestNetshScanAdapterOff(t *testing.T) {
	src := NewNetshSource()
	src.runner = fakeRunner(map[string]string{"interfaces": interfacesOff}, nil)

	_, err := src.Scan(context.Background())
	assert.ErrorIs(t, err, ErrAdapterOff)
}

func TestNetshScanNoAdapter(t *testing.T) {
	src := NewNetshSource()
	src.runner = fakeRunner(map[string]string{"interfaces": "There is 0 interface on the system:\n"}, nil)

	_, err := src.Scan(context.Background())
	assert.ErrorIs(t, err, ErrNoAdapter)
}

func TestNetshScanPoweredDown(t *testing.T) {
	src := NewNetshSource()
	src.settle = 0
	src.runner = fakeRunner(map[string]string{
		"interfaces": interfacesUp,
		"mode=bssid": "The wireless local area network interface is powered down and doesn't support the requested operation.\n",
	}, nil)

	_, err := src.Scan(context.Background())
	assert.ErrorIs(t, err, ErrAdapterPowered)
}

func TestNetshScanCommandFailure(t *testing.T) {
	src := NewNetshSource()
	src.runner = fakeRunner(nil, errors.New("exec: not found"))

	_, err := src.Scan(context.Background())
	assert.Error(t, err)
}

func TestNetshScanContextCancelled(t *testing.T) {
	src := NewNetshSource()
	src.runner = fakeRunner(map[string]string{"interfaces": interfacesUp}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := src.Scan(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMockSourceProducesParsableReport(t *testing.T) {
	src := NewMockSource(42, 12)

	out, err := src.Scan(context.Background())
	require.NoError(t, err)

	nets := scan.Parse(out)
	assert.NotEmpty(t, nets)
	for _, n := range nets {
		assert.NotEmpty(t, n.BSSID)
	}
}
