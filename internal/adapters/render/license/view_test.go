package license

import (
	"testing"

	"github.com/bnema/cps-kiosk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderAuthorizedLicense(t *testing.T) {
	output, err := Render(View{
		Device: "dev-1",
		Record: domain.LicenseRecord{
			Authorized:    true,
			SerialNumber:  "SN-1",
			EmailAddress:  "owner@example.com",
			BoundDeviceID: "dev-1",
		},
	})

	require.NoError(t, err)
	assert.Contains(t, output, "CPS Kiosk License")
	assert.Contains(t, output, "device: dev-1")
	assert.Contains(t, output, "authorized")
	assert.NotContains(t, output, "not authorized")
	assert.Contains(t, output, "SN-1")
	assert.Contains(t, output, "owner@example.com")
}

func TestRenderEmptyLicense(t *testing.T) {
	output, err := Render(View{Device: "dev-1"})

	require.NoError(t, err)
	assert.Contains(t, output, "not authorized")
	assert.Contains(t, output, "No license has been activated on this device.")
}

func TestRenderDenialMessage(t *testing.T) {
	output, err := Render(View{Device: "dev-1", Message: domain.DenyInUse.Message()})

	require.NoError(t, err)
	assert.Contains(t, output, "Serial number is already activated on another device")
}
