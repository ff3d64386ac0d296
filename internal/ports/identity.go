package ports

import (
	"context"

	"github.com/bnema/cps-kiosk/internal/domain"
)

type DeviceIdentity interface {
	DeviceID(ctx context.Context) (domain.DeviceID, error)
}
