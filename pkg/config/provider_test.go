package config

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

const testYAML = `
channels:
  - name: axle-strain
    source: serial
    serial_device: /dev/ttyUSB0
    baud: 115200
    window_size: 4096
    bins: 32
  - name: bench-history
    source: csv
    path: /var/lib/rainflow/bench.csv
    column: 1
    skip_header: true
storage:
  postgres:
    connection_string: "host=localhost dbname=rainflow"
server:
  listen_addr: 127.0.0.1
  port: 8080
`

func writeTestYAML(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestYAMLProvider(t *testing.T) {
	provider := NewYAMLProvider(writeTestYAML(t))
	defer provider.Close()

	cfg, err := provider.LoadConfig()
	if err != nil {
		t.Fatal(err)
	}

	if len(cfg.Channels) != 2 {
		t.Fatalf("expected 2 channels, got %d", len(cfg.Channels))
	}
	serial := cfg.Channels[0]
	if serial.Name != "axle-strain" || serial.Source != "serial" {
		t.Errorf("unexpected first channel %+v", serial)
	}
	if serial.SerialDevice != "/dev/ttyUSB0" || serial.Baud != 115200 {
		t.Errorf("unexpected serial settings %+v", serial)
	}
	if serial.WindowSize != 4096 || serial.Bins != 32 {
		t.Errorf("unexpected window settings %+v", serial)
	}

	csvCh := cfg.Channels[1]
	if csvCh.Source != "csv" || csvCh.Column != 1 || !csvCh.SkipHeader {
		t.Errorf("unexpected csv channel %+v", csvCh)
	}

	if cfg.Storage.Postgres == nil || cfg.Storage.Postgres.ConnectionString == "" {
		t.Error("expected postgres storage config")
	}
	if cfg.Server == nil || cfg.Server.Port != 8080 || cfg.Server.ListenAddr != "127.0.0.1" {
		t.Errorf("unexpected server config %+v", cfg.Server)
	}

	if !provider.IsReadOnly() {
		t.Error("YAML provider must report read-only")
	}
}

func TestYAMLProviderRequiresChannelName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("channels:\n  - source: csv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewYAMLProvider(path).LoadConfig(); err == nil {
		t.Error("expected an error for a nameless channel")
	}
}

func TestSQLiteProvider(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "config.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	schema := `
		CREATE TABLE channels (
			name TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			serial_device TEXT,
			baud INTEGER,
			path TEXT,
			column_index INTEGER,
			skip_header BOOLEAN,
			window_size INTEGER,
			bins INTEGER
		);
		CREATE TABLE storage (backend TEXT PRIMARY KEY, connection_string TEXT);
		CREATE TABLE server (listen_addr TEXT, port INTEGER NOT NULL);
		INSERT INTO channels (name, source, serial_device, baud, window_size, bins)
			VALUES ('axle-strain', 'serial', '/dev/ttyUSB0', 115200, 4096, 32);
		INSERT INTO storage VALUES ('postgres', 'host=localhost dbname=rainflow');
		INSERT INTO server VALUES ('0.0.0.0', 9090);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	db.Close()

	provider, err := NewSQLiteProvider(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer provider.Close()

	cfg, err := provider.LoadConfig()
	if err != nil {
		t.Fatal(err)
	}

	if len(cfg.Channels) != 1 {
		t.Fatalf("expected 1 channel, got %d", len(cfg.Channels))
	}
	ch := cfg.Channels[0]
	if ch.Name != "axle-strain" || ch.Baud != 115200 || ch.WindowSize != 4096 {
		t.Errorf("unexpected channel %+v", ch)
	}
	if cfg.Storage.Postgres == nil {
		t.Fatal("expected postgres storage config")
	}
	if cfg.Server == nil || cfg.Server.Port != 9090 {
		t.Errorf("unexpected server config %+v", cfg.Server)
	}
}
