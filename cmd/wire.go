package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/bnema/cps-kiosk/internal/adapters/authority/postgres"
	"github.com/bnema/cps-kiosk/internal/adapters/authority/supabase"
	"github.com/bnema/cps-kiosk/internal/adapters/identity/machine"
	"github.com/bnema/cps-kiosk/internal/adapters/present/logsink"
	licenserender "github.com/bnema/cps-kiosk/internal/adapters/render/license"
	tomlrepo "github.com/bnema/cps-kiosk/internal/adapters/repo/toml"
	chainstore "github.com/bnema/cps-kiosk/internal/adapters/secrets/chain"
	"github.com/bnema/cps-kiosk/internal/application"
	"github.com/bnema/cps-kiosk/internal/domain"
	"github.com/bnema/cps-kiosk/internal/logging"
	"github.com/bnema/cps-kiosk/internal/ports"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type app struct {
	settings        *viper.Viper
	log             *logrus.Logger
	repo            ports.DeviceRepository
	identity        ports.DeviceIdentity
	secretStore     ports.SecretStore
	licenseRenderer func(licenserender.View) (string, error)
	httpClient      *http.Client
}

func wireApp(settings *viper.Viper, logOutput io.Writer) (*app, error) {
	log, err := logging.New(logging.Options{
		Level:  settings.GetString(keyLogLevel),
		Format: settings.GetString(keyLogFormat),
		Output: logOutput,
	})
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	repo, err := tomlrepo.NewRepository(settings)
	if err != nil {
		return nil, fmt.Errorf("wire device repository: %w", err)
	}

	configDir, err := appConfigDir()
	if err != nil {
		return nil, err
	}

	secretStore, err := chainstore.NewPassFirstWithFileFallback(authorityKeyNamespace, filepath.Join(configDir, "secrets"))
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	return &app{
		settings:        settings,
		log:             log,
		repo:            repo,
		identity:        machine.New(settings.GetString(keyDeviceID), settings.GetString(keyAppKey)),
		secretStore:     secretStore,
		licenseRenderer: licenserender.Render,
		httpClient:      http.DefaultClient,
	}, nil
}

func (a *app) deviceID(ctx context.Context) (domain.DeviceID, error) {
	id, err := a.identity.DeviceID(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve device id: %w", err)
	}
	return id, nil
}

// openAuthority builds the configured license authority. The returned func releases it.
func (a *app) openAuthority(ctx context.Context) (ports.LicenseAuthority, func(), error) {
	table := a.settings.GetString(keyAuthorityTable)

	switch driver := strings.ToLower(strings.TrimSpace(a.settings.GetString(keyAuthorityDriver))); driver {
	case driverSupabase:
		key, err := a.authorityKey(ctx)
		if err != nil {
			return nil, nil, err
		}
		return supabase.Client{
			BaseURL:        a.settings.GetString(keyAuthorityURL),
			APIKey:         key,
			Table:          table,
			HTTPClient:     a.httpClient,
			RequestTimeout: a.settings.GetDuration(keyAuthorityTimeout),
		}, func() {}, nil
	case driverPostgres:
		store, err := postgres.Open(ctx, a.settings.GetString(keyAuthorityDSN), table)
		if err != nil {
			return nil, nil, fmt.Errorf("open license authority: %w", err)
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported authority driver %q", driver)
	}
}

// authorityKey prefers the configured key and falls back to the secret store. A key missing
// from both is left empty so the authority reports missing credentials when it is used.
func (a *app) authorityKey(ctx context.Context) (string, error) {
	if key := strings.TrimSpace(a.settings.GetString(keyAuthorityKey)); key != "" {
		return key, nil
	}

	key, err := a.secretStore.Get(ctx, a.settings.GetString(keyAuthorityKeyRef))
	if errors.Is(err, domain.ErrCredentialNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load authority key: %w", err)
	}
	return key, nil
}

func (a *app) authorizationGate(authority ports.LicenseAuthority) *application.AuthorizationGate {
	return application.NewAuthorizationGate(authority, application.AuthorizationOptions{
		ClaimOnActivate: a.settings.GetBool(keyClaimOnActivate),
		Logger:          a.log,
	})
}

// logNotifier reports events through the log when no dispatcher is running.
func (a *app) logNotifier(ctx context.Context) ports.Notifier {
	sink := logsink.New(a.log)
	return ports.NotifierFunc(func(event domain.Event) {
		_ = sink.Present(ctx, event)
	})
}
