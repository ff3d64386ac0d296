package domain

import (
	"net"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBindAddress = "127.0.0.1"
	DefaultBindPort    = 3000
)

// DeviceID is an opaque, stable per-machine key.
type DeviceID string

type ServerConfig struct {
	Address    string
	Port       int
	HWID       string
	Password   string
	ConfigPath string
}

// BindAddress falls back to 127.0.0.1:3000 for unset fields.
func (s ServerConfig) BindAddress() string {
	host := strings.TrimSpace(s.Address)
	if host == "" {
		host = DefaultBindAddress
	}
	port := s.Port
	if port <= 0 {
		port = DefaultBindPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

type UIConfig struct {
	CafeName          string `json:"cafe_name"`
	StationID         string `json:"station_id"`
	InsertCoinText    string `json:"insert_coin_text"`
	AutoShutdownText  string `json:"autoshutdown_text"`
	SmallWindowCorner string `json:"smwindow_position"`
	BackgroundImage   string `json:"background_img"`
	CountdownTimer    uint8  `json:"countdown_timer"`
}

func DefaultUIConfig() UIConfig {
	return UIConfig{
		CafeName:          "MPG Cafe",
		StationID:         "station-01",
		InsertCoinText:    "Insert Coin",
		AutoShutdownText:  "Auto Shutdown in",
		SmallWindowCorner: "top-right",
		BackgroundImage:   "none",
		CountdownTimer:    100,
	}
}

// PairedClient is an acceptor device that completed the register handshake.
type PairedClient struct {
	Address  string
	HWID     string
	PairedAt time.Time
}

type DeviceConfig struct {
	ID      DeviceID
	Server  ServerConfig
	License LicenseRecord
	UI      UIConfig
	Clients map[string]PairedClient
}

func NewDeviceConfig(id DeviceID) DeviceConfig {
	return DeviceConfig{
		ID: id,
		Server: ServerConfig{
			Address: DefaultBindAddress,
			Port:    DefaultBindPort,
		},
		UI:      DefaultUIConfig(),
		Clients: map[string]PairedClient{},
	}
}
