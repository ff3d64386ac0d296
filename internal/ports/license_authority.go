package ports

import (
	"context"

	"github.com/bnema/cps-kiosk/internal/domain"
)

// LicenseAuthority is the narrow contract against the remote serial-number store.
type LicenseAuthority interface {
	// FetchSerial returns domain.ErrSerialNotFound when no entry exists.
	FetchSerial(ctx context.Context, serial string) (domain.SerialEntry, error)
	// ClaimSerial marks an inactive serial active and bound to the device. It reports false
	// when the serial was no longer inactive at write time.
	ClaimSerial(ctx context.Context, serial string, device domain.DeviceID) (bool, error)
}
