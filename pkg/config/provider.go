// Package config provides configuration loading for the rainflow
// tooling from YAML files or SQLite databases.
package config

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetChannels() ([]ChannelData, error)
	GetStorageConfig() (*StorageData, error)
	GetServerConfig() (*ServerData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Channels []ChannelData `json:"channels"`
	Storage  StorageData   `json:"storage,omitempty"`
	Server   *ServerData   `json:"server,omitempty"`
}

// ChannelData holds configuration for one monitored load channel
type ChannelData struct {
	Name         string `json:"name"`
	Source       string `json:"source"` // "serial" or "csv"
	SerialDevice string `json:"serial_device,omitempty"`
	Baud         int    `json:"baud,omitempty"`
	Path         string `json:"path,omitempty"`
	Column       int    `json:"column,omitempty"`
	SkipHeader   bool   `json:"skip_header,omitempty"`

	// WindowSize is the number of samples collected before a live
	// channel's window is analyzed.
	WindowSize int `json:"window_size,omitempty"`

	// Bins sets the binned-spectrum resolution for reports.
	Bins int `json:"bins,omitempty"`
}

// StorageData holds the configuration for results storage backends
type StorageData struct {
	Postgres *PostgresData `json:"postgres,omitempty"`
}

// PostgresData configures the Postgres results database
type PostgresData struct {
	ConnectionString string `json:"connection_string"`
}

// ServerData configures the REST API server
type ServerData struct {
	ListenAddr string `json:"listen_addr,omitempty"`
	Port       int    `json:"port"`
}
