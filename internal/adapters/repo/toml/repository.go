package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/cps-kiosk/internal/domain"
	"github.com/bnema/cps-kiosk/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	StorePathKey    = "store.path"
	storeFileMode   = 0o600
	storeDirMode    = 0o700
	storeConfigDir  = "cps"
	storeConfigFile = "appconfig.toml"
	tempFilePattern = ".appconfig-*.toml.tmp"
)

// Repository keeps one record per device in a single TOML file.
type Repository struct {
	path string
	mu   *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.DeviceRepository = (*Repository)(nil)

func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}

	return filepath.Join(configDir, storeConfigDir, storeConfigFile), nil
}

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	path := cfg.GetString(StorePathKey)
	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	path, err := normalizeStorePath(path)
	if err != nil {
		return nil, err
	}

	return &Repository{path: path, mu: lockForPath(path)}, nil
}

func (r *Repository) Path() string {
	return r.path
}

// Ensure creates the device record with defaults when it does not exist yet. The bool reports
// whether a record was created.
func (r *Repository) Ensure(ctx context.Context, id domain.DeviceID) (domain.DeviceConfig, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.DeviceConfig{}, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.DeviceConfig{}, false, err
	}

	if entry, ok := file.Devices[string(id)]; ok {
		return fromSchema(id, entry), false, nil
	}

	cfg := domain.NewDeviceConfig(id)
	file.Devices[string(id)] = toSchema(cfg)

	if err := ctx.Err(); err != nil {
		return domain.DeviceConfig{}, false, err
	}
	if err := r.writeSchema(file); err != nil {
		return domain.DeviceConfig{}, false, err
	}

	return cfg, true, nil
}

func (r *Repository) GetByID(ctx context.Context, id domain.DeviceID) (domain.DeviceConfig, error) {
	if err := ctx.Err(); err != nil {
		return domain.DeviceConfig{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.DeviceConfig{}, err
	}

	entry, ok := file.Devices[string(id)]
	if !ok {
		return domain.DeviceConfig{}, domain.ErrDeviceNotFound
	}

	return fromSchema(id, entry), nil
}

func (r *Repository) SaveLicense(ctx context.Context, id domain.DeviceID, license domain.LicenseRecord) error {
	return r.update(ctx, id, func(cfg *domain.DeviceConfig) {
		cfg.License = license
	})
}

func (r *Repository) SaveUI(ctx context.Context, id domain.DeviceID, ui domain.UIConfig) error {
	return r.update(ctx, id, func(cfg *domain.DeviceConfig) {
		cfg.UI = ui
	})
}

func (r *Repository) SaveClient(ctx context.Context, id domain.DeviceID, client domain.PairedClient) error {
	if client.HWID == "" {
		return errors.New("paired client hwid is empty")
	}

	return r.update(ctx, id, func(cfg *domain.DeviceConfig) {
		cfg.Clients[client.HWID] = client
	})
}

// update applies fn to the device record under the write lock, starting from defaults when the
// device has no record yet.
func (r *Repository) update(ctx context.Context, id domain.DeviceID, fn func(*domain.DeviceConfig)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	cfg := domain.NewDeviceConfig(id)
	if entry, ok := file.Devices[string(id)]; ok {
		cfg = fromSchema(id, entry)
	}
	fn(&cfg)
	file.Devices[string(id)] = toSchema(cfg)

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			file := fileSchema{}
			file.applyDefaults()
			return file, nil
		}
		return fileSchema{}, fmt.Errorf("read device config file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode device config file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func normalizeStorePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve device config path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.path), storeDirMode); err != nil {
		return fmt.Errorf("create device config directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode device config file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp device config file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp device config file: %w", err)
	}

	if err := tempFile.Chmod(storeFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp device config file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp device config file: %w", err)
	}

	if err := os.Rename(tempName, r.path); err != nil {
		return fmt.Errorf("replace device config file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(r.path, storeFileMode); err != nil {
		return fmt.Errorf("chmod device config file: %w", err)
	}

	return nil
}

func toSchema(cfg domain.DeviceConfig) deviceSchema {
	clients := make(map[string]clientSchema, len(cfg.Clients))
	for hwid, client := range cfg.Clients {
		clients[hwid] = clientSchema{
			Address:  client.Address,
			HWID:     client.HWID,
			PairedAt: formatTime(client.PairedAt),
		}
	}

	return deviceSchema{
		Server: serverSchema{
			Address:    cfg.Server.Address,
			Port:       cfg.Server.Port,
			HWID:       cfg.Server.HWID,
			Password:   cfg.Server.Password,
			ConfigPath: cfg.Server.ConfigPath,
		},
		License: licenseSchema{
			Authorized:    cfg.License.Authorized,
			SerialNumber:  cfg.License.SerialNumber,
			EmailAddress:  cfg.License.EmailAddress,
			BoundDeviceID: string(cfg.License.BoundDeviceID),
		},
		UI: uiSchema{
			CafeName:          cfg.UI.CafeName,
			StationID:         cfg.UI.StationID,
			InsertCoinText:    cfg.UI.InsertCoinText,
			AutoShutdownText:  cfg.UI.AutoShutdownText,
			SmallWindowCorner: cfg.UI.SmallWindowCorner,
			BackgroundImage:   cfg.UI.BackgroundImage,
			CountdownTimer:    cfg.UI.CountdownTimer,
		},
		Clients: clients,
	}
}

func fromSchema(id domain.DeviceID, entry deviceSchema) domain.DeviceConfig {
	cfg := domain.DeviceConfig{
		ID: id,
		Server: domain.ServerConfig{
			Address:    entry.Server.Address,
			Port:       entry.Server.Port,
			HWID:       entry.Server.HWID,
			Password:   entry.Server.Password,
			ConfigPath: entry.Server.ConfigPath,
		},
		License: domain.LicenseRecord{
			Authorized:    entry.License.Authorized,
			SerialNumber:  entry.License.SerialNumber,
			EmailAddress:  entry.License.EmailAddress,
			BoundDeviceID: domain.DeviceID(entry.License.BoundDeviceID),
		},
		UI:      uiFromSchema(entry.UI),
		Clients: make(map[string]domain.PairedClient, len(entry.Clients)),
	}

	for hwid, client := range entry.Clients {
		cfg.Clients[hwid] = domain.PairedClient{
			Address:  client.Address,
			HWID:     client.HWID,
			PairedAt: parseTime(client.PairedAt),
		}
	}

	return cfg
}

// uiFromSchema fills fields missing from older files with the built-in defaults.
func uiFromSchema(ui uiSchema) domain.UIConfig {
	defaults := domain.DefaultUIConfig()

	out := domain.UIConfig{
		CafeName:          ui.CafeName,
		StationID:         ui.StationID,
		InsertCoinText:    ui.InsertCoinText,
		AutoShutdownText:  ui.AutoShutdownText,
		SmallWindowCorner: ui.SmallWindowCorner,
		BackgroundImage:   ui.BackgroundImage,
		CountdownTimer:    ui.CountdownTimer,
	}
	if out.CafeName == "" {
		out.CafeName = defaults.CafeName
	}
	if out.StationID == "" {
		out.StationID = defaults.StationID
	}
	if out.InsertCoinText == "" {
		out.InsertCoinText = defaults.InsertCoinText
	}
	if out.AutoShutdownText == "" {
		out.AutoShutdownText = defaults.AutoShutdownText
	}
	if out.SmallWindowCorner == "" {
		out.SmallWindowCorner = defaults.SmallWindowCorner
	}
	if out.BackgroundImage == "" {
		out.BackgroundImage = defaults.BackgroundImage
	}
	if out.CountdownTimer == 0 {
		out.CountdownTimer = defaults.CountdownTimer
	}

	return out
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.Format(time.RFC3339)
}
