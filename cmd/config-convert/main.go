// Command config-convert converts a YAML configuration file into the
// SQLite configuration backend.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/strainlab/rainflow/pkg/config"
	_ "modernc.org/sqlite"
)

func main() {
	var (
		yamlFile   = flag.String("yaml", "", "Path to YAML configuration file (required)")
		sqliteFile = flag.String("sqlite", "", "Path to SQLite database file (required)")
		force      = flag.Bool("force", false, "Overwrite existing SQLite database")
		dryRun     = flag.Bool("dry-run", false, "Show what would be done without executing")
	)
	flag.Parse()

	if *yamlFile == "" || *sqliteFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -yaml <config.yaml> -sqlite <config.db>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	if _, err := os.Stat(*yamlFile); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: YAML file does not exist: %s\n", *yamlFile)
		os.Exit(1)
	}

	if _, err := os.Stat(*sqliteFile); err == nil && !*force {
		fmt.Fprintf(os.Stderr, "Error: SQLite file already exists: %s\n", *sqliteFile)
		fmt.Fprintf(os.Stderr, "Use -force to overwrite or choose a different filename\n")
		os.Exit(1)
	}

	fmt.Printf("Converting YAML configuration to SQLite...\n")
	fmt.Printf("  Source: %s\n", *yamlFile)
	fmt.Printf("  Target: %s\n", *sqliteFile)

	fmt.Printf("Loading YAML configuration...\n")
	configData, err := config.NewYAMLProvider(*yamlFile).LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading YAML configuration: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  Loaded %d channels\n", len(configData.Channels))

	if *dryRun {
		printConfigSummary(configData)
		fmt.Println("DRY RUN complete - no database created")
		return
	}

	if *force {
		if err := os.Remove(*sqliteFile); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error removing existing SQLite file: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Creating SQLite database...\n")
	if err := writeSQLiteConfig(*sqliteFile, configData); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing SQLite configuration: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Conversion completed successfully!\n")
	fmt.Printf("You can now use the SQLite backend with: -config-backend sqlite -config %s\n", *sqliteFile)
}

const schema = `
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
CREATE TABLE storage (
	backend TEXT PRIMARY KEY,
	connection_string TEXT
);
CREATE TABLE server (
	listen_addr TEXT,
	port INTEGER NOT NULL
);
`

func writeSQLiteConfig(path string, cfg *config.ConfigData) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, ch := range cfg.Channels {
		_, err := tx.Exec(`INSERT INTO channels
			(name, source, serial_device, baud, path, column_index, skip_header, window_size, bins)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			ch.Name, ch.Source, ch.SerialDevice, ch.Baud, ch.Path,
			ch.Column, ch.SkipHeader, ch.WindowSize, ch.Bins)
		if err != nil {
			return fmt.Errorf("inserting channel %s: %w", ch.Name, err)
		}
	}

	if cfg.Storage.Postgres != nil {
		_, err := tx.Exec(`INSERT INTO storage (backend, connection_string) VALUES ('postgres', ?)`,
			cfg.Storage.Postgres.ConnectionString)
		if err != nil {
			return fmt.Errorf("inserting storage config: %w", err)
		}
	}

	if cfg.Server != nil {
		_, err := tx.Exec(`INSERT INTO server (listen_addr, port) VALUES (?, ?)`,
			cfg.Server.ListenAddr, cfg.Server.Port)
		if err != nil {
			return fmt.Errorf("inserting server config: %w", err)
		}
	}

	return tx.Commit()
}

func printConfigSummary(cfg *config.ConfigData) {
	fmt.Println("\nConfiguration summary:")
	for _, ch := range cfg.Channels {
		fmt.Printf("  channel %-20s source=%s\n", ch.Name, ch.Source)
	}
	if cfg.Storage.Postgres != nil {
		fmt.Println("  storage: postgres")
	}
	if cfg.Server != nil {
		fmt.Printf("  server: %s:%d\n", cfg.Server.ListenAddr, cfg.Server.Port)
	}
}
