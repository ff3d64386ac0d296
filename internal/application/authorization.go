package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/bnema/cps-kiosk/internal/domain"
	"github.com/bnema/cps-kiosk/internal/ports"
	"github.com/sirupsen/logrus"
)

var ErrInvalidActivationInput = errors.New("serial number, email address and device id are required")

type AuthorizationOptions struct {
	// ClaimOnActivate writes active=true and the device binding back to the authority when an
	// inactive serial is authorized. When false, first activation is advisory only.
	ClaimOnActivate bool
	Logger          logrus.FieldLogger
}

// AuthorizationGate decides whether a serial/email/device combination may run sessions.
// A denial is a Decision; an error always wraps domain.ErrAuthorizationUnavailable.
type AuthorizationGate struct {
	authority ports.LicenseAuthority
	claim     bool
	log       logrus.FieldLogger

	mu    sync.Mutex
	locks map[string]*keyLock
}

// keyLock is dropped from the map once no caller holds or waits for it.
type keyLock struct {
	mu    sync.Mutex
	users int
}

func NewAuthorizationGate(authority ports.LicenseAuthority, opts AuthorizationOptions) *AuthorizationGate {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	return &AuthorizationGate{
		authority: authority,
		claim:     opts.ClaimOnActivate,
		log:       opts.Logger.WithField("component", "authorization"),
		locks:     map[string]*keyLock{},
	}
}

func (g *AuthorizationGate) Authorize(ctx context.Context, serial, email string, device domain.DeviceID) (domain.Decision, error) {
	serial = strings.TrimSpace(serial)
	email = strings.TrimSpace(email)
	if serial == "" || email == "" || device == "" {
		return domain.Decision{}, fmt.Errorf("authorize serial: %w", ErrInvalidActivationInput)
	}

	unlock := g.lock(serial, device)
	defer unlock()

	log := g.log.WithFields(logrus.Fields{"serial_number": serial, "device_id": device})

	entry, err := g.authority.FetchSerial(ctx, serial)
	if err != nil {
		if errors.Is(err, domain.ErrSerialNotFound) {
			log.Info("serial number not found")
			return domain.Deny(domain.DenyNotFound), nil
		}
		log.WithError(err).Warn("license authority unavailable")
		return domain.Decision{}, unavailable("fetch serial", err)
	}

	decision, claimable := evaluate(entry, email, device)
	if !claimable {
		log.WithField("reason", decision.Reason).Info("authorization evaluated")
		return decision, nil
	}

	if !g.claim {
		log.Info("serial inactive, authorized without claim")
		return domain.Allow(false), nil
	}

	won, err := g.authority.ClaimSerial(ctx, serial, device)
	if err != nil {
		log.WithError(err).Warn("claim serial failed")
		return domain.Decision{}, unavailable("claim serial", err)
	}
	if won {
		log.Info("serial claimed")
		return domain.Allow(true), nil
	}

	// Someone else changed the entry between fetch and claim; evaluate the fresh state once.
	entry, err = g.authority.FetchSerial(ctx, serial)
	if err != nil {
		if errors.Is(err, domain.ErrSerialNotFound) {
			return domain.Deny(domain.DenyNotFound), nil
		}
		return domain.Decision{}, unavailable("refetch serial", err)
	}
	decision, claimable = evaluate(entry, email, device)
	if claimable {
		return domain.Decision{}, unavailable("claim serial", errors.New("serial stayed inactive after a lost claim"))
	}
	log.WithField("reason", decision.Reason).Info("authorization evaluated after lost claim")
	return decision, nil
}

// evaluate applies the ownership and binding rules. claimable reports an inactive entry that
// the caller may activate for device.
func evaluate(entry domain.SerialEntry, email string, device domain.DeviceID) (domain.Decision, bool) {
	if !entry.OwnedBy(email) {
		return domain.Deny(domain.DenyEmailMismatch), false
	}
	if !entry.Active {
		return domain.Decision{}, true
	}
	if entry.BoundTo(device) {
		return domain.Allow(false), false
	}
	return domain.Deny(domain.DenyInUse), false
}

func (g *AuthorizationGate) lock(serial string, device domain.DeviceID) func() {
	key := serial + "\x00" + string(device)

	g.mu.Lock()
	l, ok := g.locks[key]
	if !ok {
		l = &keyLock{}
		g.locks[key] = l
	}
	l.users++
	g.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		g.mu.Lock()
		l.users--
		if l.users == 0 {
			delete(g.locks, key)
		}
		g.mu.Unlock()
	}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(domain.ErrAuthorizationUnavailable, err))
}
