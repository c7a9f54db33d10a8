package config

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	channels, err := s.GetChannels()
	if err != nil {
		return nil, fmt.Errorf("failed to load channels: %w", err)
	}
	config.Channels = channels

	storage, err := s.GetStorageConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}
	config.Storage = *storage

	server, err := s.GetServerConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}
	config.Server = server

	return config, nil
}

// GetChannels returns channel configurations from the database
func (s *SQLiteProvider) GetChannels() ([]ChannelData, error) {
	query := `
		SELECT name, source, serial_device, baud, path, column_index,
		       skip_header, window_size, bins
		FROM channels
		ORDER BY name
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query channels: %w", err)
	}
	defer rows.Close()

	var channels []ChannelData
	for rows.Next() {
		var ch ChannelData
		var serialDevice, path sql.NullString
		var baud, column, windowSize, bins sql.NullInt64
		var skipHeader sql.NullBool

		err := rows.Scan(&ch.Name, &ch.Source, &serialDevice, &baud, &path,
			&column, &skipHeader, &windowSize, &bins)
		if err != nil {
			return nil, fmt.Errorf("failed to scan channel row: %w", err)
		}

		ch.SerialDevice = serialDevice.String
		ch.Baud = int(baud.Int64)
		ch.Path = path.String
		ch.Column = int(column.Int64)
		ch.SkipHeader = skipHeader.Bool
		ch.WindowSize = int(windowSize.Int64)
		ch.Bins = int(bins.Int64)

		channels = append(channels, ch)
	}

	return channels, rows.Err()
}

// GetStorageConfig returns the storage configuration from the database
func (s *SQLiteProvider) GetStorageConfig() (*StorageData, error) {
	storage := &StorageData{}

	var connectionString sql.NullString
	err := s.db.QueryRow(`SELECT connection_string FROM storage WHERE backend = 'postgres'`).
		Scan(&connectionString)
	if err == sql.ErrNoRows {
		return storage, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query storage config: %w", err)
	}

	if connectionString.Valid {
		storage.Postgres = &PostgresData{ConnectionString: connectionString.String}
	}
	return storage, nil
}

// GetServerConfig returns the REST server configuration from the database
func (s *SQLiteProvider) GetServerConfig() (*ServerData, error) {
	var server ServerData
	var listenAddr sql.NullString

	err := s.db.QueryRow(`SELECT listen_addr, port FROM server LIMIT 1`).
		Scan(&listenAddr, &server.Port)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query server config: %w", err)
	}

	server.ListenAddr = listenAddr.String
	return &server, nil
}

// IsReadOnly returns true: runtime config edits are not supported yet
func (s *SQLiteProvider) IsReadOnly() bool {
	return true
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	return s.db.Close()
}
