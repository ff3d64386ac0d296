package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bnema/cps-kiosk/internal/domain"
	"github.com/bnema/cps-kiosk/internal/ports"
	"github.com/sirupsen/logrus"
)

type ActivationResult struct {
	Decision domain.Decision
	Record   domain.LicenseRecord
	// PersistErr reports a local write failure after a successful authorization. The
	// authorization itself still stands.
	PersistErr error
}

// LicenseService runs the authorization gate for this device and keeps the local License
// Record in step with the outcome.
type LicenseService struct {
	gate     *AuthorizationGate
	repo     ports.DeviceRepository
	notifier ports.Notifier
	device   domain.DeviceID
	log      logrus.FieldLogger

	mu         sync.Mutex
	authorized atomic.Bool
}

func NewLicenseService(gate *AuthorizationGate, repo ports.DeviceRepository, notifier ports.Notifier, device domain.DeviceID, log logrus.FieldLogger) *LicenseService {
	if notifier == nil {
		notifier = ports.NotifierFunc(func(domain.Event) {})
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &LicenseService{
		gate:     gate,
		repo:     repo,
		notifier: notifier,
		device:   device,
		log:      log.WithFields(logrus.Fields{"component": "license", "device_id": device}),
	}
}

func (s *LicenseService) Device() domain.DeviceID {
	return s.device
}

// Load primes the in-memory authorized flag from the device record.
func (s *LicenseService) Load(ctx context.Context) (domain.LicenseRecord, error) {
	record, err := s.Status(ctx)
	if err != nil {
		return domain.LicenseRecord{}, err
	}
	s.authorized.Store(record.Authorized)
	return record, nil
}

func (s *LicenseService) Status(ctx context.Context) (domain.LicenseRecord, error) {
	cfg, err := s.repo.GetByID(ctx, s.device)
	if err != nil {
		return domain.LicenseRecord{}, fmt.Errorf("get device config: %w", err)
	}
	return cfg.License, nil
}

func (s *LicenseService) Authorized() bool {
	return s.authorized.Load()
}

// Licensed is Authorized with a fallback to the device record while the flag is unset, so an
// activation written by another cps process unlocks this one without a restart.
func (s *LicenseService) Licensed(ctx context.Context) bool {
	if s.authorized.Load() {
		return true
	}

	record, err := s.Status(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrDeviceNotFound) {
			s.log.WithError(err).Warn("could not re-read license record")
		}
		return false
	}
	if !record.Authorized {
		return false
	}

	s.authorized.Store(true)
	s.log.WithField("serial_number", record.SerialNumber).Info("license record activated outside this process")
	return true
}

// Activate holds the service lock for the whole fetch/claim/write sequence so two attempts on
// this device never interleave.
func (s *LicenseService) Activate(ctx context.Context, serial, email string) (ActivationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	decision, err := s.gate.Authorize(ctx, serial, email, s.device)
	if err != nil {
		return ActivationResult{}, fmt.Errorf("authorize device: %w", err)
	}

	result := ActivationResult{Decision: decision}
	if !decision.Authorized {
		s.log.WithField("reason", decision.Reason).Info("license activation denied")
		return result, nil
	}

	record := domain.LicenseRecord{
		Authorized:    true,
		SerialNumber:  strings.TrimSpace(serial),
		EmailAddress:  strings.TrimSpace(email),
		BoundDeviceID: s.device,
	}
	result.Record = record
	s.authorized.Store(true)

	if err := s.repo.SaveLicense(ctx, s.device, record); err != nil {
		result.PersistErr = fmt.Errorf("save license record: %w", err)
		s.log.WithError(err).Error("license authorized but record could not be written")
	}

	s.notifier.Notify(domain.LicenseUpdatedEvent(record))
	s.log.WithField("claimed", decision.Claimed).Info("license activated")
	return result, nil
}
