package machine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/user"
	"strings"

	"github.com/bnema/cps-kiosk/internal/domain"
	"github.com/bnema/cps-kiosk/internal/ports"
	"github.com/denisbrodbeck/machineid"
)

const DefaultAppKey = "cps-kiosk"

// Identity derives a stable device id from the OS machine id, the host name and the login
// user. The raw machine id never leaves the process; only an app-keyed HMAC of it does.
type Identity struct {
	override  string
	appKey    string
	protected func(appID string) (string, error)
	hostname  func() (string, error)
	username  func() (string, error)
}

var _ ports.DeviceIdentity = (*Identity)(nil)

func New(override string, appKey string) *Identity {
	if strings.TrimSpace(appKey) == "" {
		appKey = DefaultAppKey
	}

	return &Identity{
		override:  strings.TrimSpace(override),
		appKey:    appKey,
		protected: machineid.ProtectedID,
		hostname:  os.Hostname,
		username:  currentUsername,
	}
}

func (i *Identity) DeviceID(ctx context.Context) (domain.DeviceID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if i.override != "" {
		return domain.DeviceID(i.override), nil
	}

	host, err := i.hostname()
	if err != nil {
		return "", fmt.Errorf("resolve hostname: %w", err)
	}
	name, err := i.username()
	if err != nil {
		return "", fmt.Errorf("resolve username: %w", err)
	}

	id, err := i.protected(strings.Join([]string{i.appKey, host, name}, "|"))
	if err != nil {
		return "", fmt.Errorf("read machine id: %w", err)
	}
	if id == "" {
		return "", errors.New("machine id is empty")
	}

	return domain.DeviceID(id), nil
}

func currentUsername() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return u.Username, nil
}
