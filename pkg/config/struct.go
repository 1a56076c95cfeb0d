package config

import "time"

// Config is the base struct populated from the configuration
// file on disk by viper
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Streaming    StreamingConfig
	Capabilities CapabilitiesConfig
	Library      LibraryConfig
	Rclone       RcloneConfig
}

// ServerConfig is for server settings
type ServerConfig struct {
	Port              int
	Verbose           bool
	DBLog             bool
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
	Zeroconf          ZeroconfConfig
	RequireTickets    bool
	TicketSecret      string
}

type ZeroconfConfig struct {
	Enabled bool
	Domain  string
}

type DatabaseConfig struct {
	Connection string
}

// StreamingConfig controls the media server's copy loop and range policy.
type StreamingConfig struct {
	ChunkSize    int
	WriteTimeout time.Duration
	StrictRanges bool
	ImageRanges  bool
}

type CapabilitiesConfig struct {
	Static     []string
	SessionTTL time.Duration
}

// LibraryConfig is for library settings
type LibraryConfig struct {
	Path  string
	Watch bool
}

type RcloneConfig struct {
	Config string
}
