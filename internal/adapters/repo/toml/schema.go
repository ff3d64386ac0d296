package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version int                     `toml:"version"`
	Devices map[string]deviceSchema `toml:"devices"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
	if s.Devices == nil {
		s.Devices = map[string]deviceSchema{}
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported device schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type deviceSchema struct {
	Server  serverSchema            `toml:"server"`
	License licenseSchema           `toml:"license"`
	UI      uiSchema                `toml:"ui"`
	Clients map[string]clientSchema `toml:"clients,omitempty"`
}

type serverSchema struct {
	Address    string `toml:"address"`
	Port       int    `toml:"port"`
	HWID       string `toml:"hwid"`
	Password   string `toml:"password"`
	ConfigPath string `toml:"configpath"`
}

type licenseSchema struct {
	Authorized    bool   `toml:"authorized"`
	SerialNumber  string `toml:"serial_number"`
	EmailAddress  string `toml:"email_address"`
	BoundDeviceID string `toml:"bound_device_id,omitempty"`
}

type uiSchema struct {
	CafeName          string `toml:"cafe_name"`
	StationID         string `toml:"station_id"`
	InsertCoinText    string `toml:"insert_coin_text"`
	AutoShutdownText  string `toml:"autoshutdown_text"`
	SmallWindowCorner string `toml:"smwindow_position"`
	BackgroundImage   string `toml:"background_img"`
	CountdownTimer    uint8  `toml:"countdown_timer"`
}

type clientSchema struct {
	Address  string `toml:"address"`
	HWID     string `toml:"hwid"`
	PairedAt string `toml:"paired_at"`
}
