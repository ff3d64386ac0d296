package ports

import (
	"context"

	"github.com/bnema/cps-kiosk/internal/domain"
)

type DeviceRepository interface {
	// Ensure returns the device record, creating it with defaults on first run.
	Ensure(ctx context.Context, id domain.DeviceID) (domain.DeviceConfig, bool, error)
	GetByID(ctx context.Context, id domain.DeviceID) (domain.DeviceConfig, error)
	SaveLicense(ctx context.Context, id domain.DeviceID, license domain.LicenseRecord) error
	SaveUI(ctx context.Context, id domain.DeviceID, ui domain.UIConfig) error
	SaveClient(ctx context.Context, id domain.DeviceID, client domain.PairedClient) error
}
