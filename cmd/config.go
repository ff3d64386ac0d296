package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/cps-kiosk/internal/adapters/authority/supabase"
	"github.com/bnema/cps-kiosk/internal/adapters/identity/machine"
	redispresenter "github.com/bnema/cps-kiosk/internal/adapters/present/redis"
	"github.com/bnema/cps-kiosk/internal/application"
	"github.com/bnema/cps-kiosk/internal/domain"
	"github.com/spf13/viper"
)

const (
	appDirName     = "cps"
	configFileName = "cps"

	keyLogLevel  = "log.level"
	keyLogFormat = "log.format"
	keyLogFile   = "log.file"

	keyDeviceID = "identity.device_id"
	keyAppKey   = "identity.app_key"

	keyPairID          = "ingest.pair_id"
	keyServerHWID      = "ingest.server_hwid"
	keyServerAddress   = "ingest.server_address"
	keyQueueSize       = "ingest.queue_size"
	keyEnqueueTimeout  = "ingest.enqueue_timeout"
	keyShutdownTimeout = "ingest.shutdown_timeout"

	keySecondsPerCredit = "session.seconds_per_credit"
	keyTick             = "session.tick"

	keyLicenseRequired = "license.required"
	keyClaimOnActivate = "license.claim_on_activate"

	keyAuthorityDriver  = "authority.driver"
	keyAuthorityURL     = "authority.url"
	keyAuthorityKey     = "authority.key"
	keyAuthorityKeyRef  = "authority.key_ref"
	keyAuthorityTable   = "authority.table"
	keyAuthorityDSN     = "authority.dsn"
	keyAuthorityTimeout = "authority.timeout"

	keyNotifyQueueSize    = "notify.queue_size"
	keyNotifyTimeout      = "notify.timeout"
	keyNotifyRedisAddr    = "notify.redis.addr"
	keyNotifyRedisChannel = "notify.redis.channel"

	driverSupabase = "supabase"
	driverPostgres = "postgres"

	// Secret store keys are confined to this prefix.
	authorityKeyNamespace  = "cps/authority/"
	defaultAuthorityKeyRef = authorityKeyNamespace + "api_key"
)

func newSettings() *viper.Viper {
	v := viper.New()

	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogFormat, "text")
	v.SetDefault(keyAppKey, machine.DefaultAppKey)

	v.SetDefault(keyPairID, application.DefaultPairID)
	v.SetDefault(keyServerHWID, application.DefaultServerHWID)
	v.SetDefault(keyServerAddress, application.DefaultServerAddress)
	v.SetDefault(keyQueueSize, application.DefaultCreditQueueSize)
	v.SetDefault(keyEnqueueTimeout, application.DefaultCreditEnqueueTimeout)
	v.SetDefault(keyShutdownTimeout, 5*time.Second)

	v.SetDefault(keySecondsPerCredit, domain.DefaultSecondsPerCredit)
	v.SetDefault(keyTick, application.DefaultTickInterval)

	v.SetDefault(keyLicenseRequired, true)
	v.SetDefault(keyClaimOnActivate, true)

	v.SetDefault(keyAuthorityDriver, driverSupabase)
	v.SetDefault(keyAuthorityKeyRef, defaultAuthorityKeyRef)
	v.SetDefault(keyAuthorityTable, supabase.DefaultTable)
	v.SetDefault(keyAuthorityTimeout, 10*time.Second)

	v.SetDefault(keyNotifyQueueSize, application.DefaultNotifyQueueSize)
	v.SetDefault(keyNotifyTimeout, application.DefaultNotifyTimeout)
	v.SetDefault(keyNotifyRedisChannel, redispresenter.DefaultChannel)

	v.SetEnvPrefix("CPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The original deployment exports the Supabase project settings under these names.
	_ = v.BindEnv(keyAuthorityURL, "CPS_AUTHORITY_URL", "SUPABASE_URL")
	_ = v.BindEnv(keyAuthorityKey, "CPS_AUTHORITY_KEY", "SUPABASE_KEY")

	return v
}

// loadSettings reads cps.toml from the user config dir, or configFile when set. Only an
// explicitly named file is required to exist.
func loadSettings(configFile string) (*viper.Viper, error) {
	v := newSettings()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		dir, err := appConfigDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName(configFileName)
		v.SetConfigType("toml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read settings: %w", err)
		}
	}

	return v, nil
}

func appConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(dir, appDirName), nil
}
