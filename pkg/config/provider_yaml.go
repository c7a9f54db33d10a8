package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		Channels []channelYAML `yaml:"channels"`
		Storage  storageYAML   `yaml:"storage,omitempty"`
		Server   *serverYAML   `yaml:"server,omitempty"`
	}

	err = yaml.Unmarshal(cfgFile, &yamlConfig)
	if err != nil {
		return nil, err
	}

	// Convert to our internal format
	config := &ConfigData{
		Channels: make([]ChannelData, len(yamlConfig.Channels)),
	}

	for i, ch := range yamlConfig.Channels {
		if ch.Name == "" {
			return nil, fmt.Errorf("channel %d: name is required", i)
		}
		config.Channels[i] = ChannelData{
			Name:         ch.Name,
			Source:       ch.Source,
			SerialDevice: ch.SerialDevice,
			Baud:         ch.Baud,
			Path:         ch.Path,
			Column:       ch.Column,
			SkipHeader:   ch.SkipHeader,
			WindowSize:   ch.WindowSize,
			Bins:         ch.Bins,
		}
	}

	if yamlConfig.Storage.Postgres != nil {
		config.Storage.Postgres = &PostgresData{
			ConnectionString: yamlConfig.Storage.Postgres.ConnectionString,
		}
	}

	if yamlConfig.Server != nil {
		config.Server = &ServerData{
			ListenAddr: yamlConfig.Server.ListenAddr,
			Port:       yamlConfig.Server.Port,
		}
	}

	y.config = config
	return config, nil
}

// GetChannels returns channel configurations
func (y *YAMLProvider) GetChannels() ([]ChannelData, error) {
	if y.config == nil {
		if _, err := y.LoadConfig(); err != nil {
			return nil, err
		}
	}
	return y.config.Channels, nil
}

// GetStorageConfig returns the storage configuration
func (y *YAMLProvider) GetStorageConfig() (*StorageData, error) {
	if y.config == nil {
		if _, err := y.LoadConfig(); err != nil {
			return nil, err
		}
	}
	return &y.config.Storage, nil
}

// GetServerConfig returns the REST server configuration
func (y *YAMLProvider) GetServerConfig() (*ServerData, error) {
	if y.config == nil {
		if _, err := y.LoadConfig(); err != nil {
			return nil, err
		}
	}
	return y.config.Server, nil
}

// IsReadOnly returns true: YAML configs are not modified at runtime
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML providers
func (y *YAMLProvider) Close() error {
	return nil
}

// YAML mapping structs

type channelYAML struct {
	Name         string `yaml:"name"`
	Source       string `yaml:"source"`
	SerialDevice string `yaml:"serial_device,omitempty"`
	Baud         int    `yaml:"baud,omitempty"`
	Path         string `yaml:"path,omitempty"`
	Column       int    `yaml:"column,omitempty"`
	SkipHeader   bool   `yaml:"skip_header,omitempty"`
	WindowSize   int    `yaml:"window_size,omitempty"`
	Bins         int    `yaml:"bins,omitempty"`
}

type storageYAML struct {
	Postgres *postgresYAML `yaml:"postgres,omitempty"`
}

type postgresYAML struct {
	ConnectionString string `yaml:"connection_string"`
}

type serverYAML struct {
	ListenAddr string `yaml:"listen_addr,omitempty"`
	Port       int    `yaml:"port"`
}
