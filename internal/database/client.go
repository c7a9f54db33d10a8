// Package database persists analysis runs and their cycle counts to
// Postgres through GORM.
package database

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/strainlab/rainflow/internal/analysis"
	"github.com/strainlab/rainflow/internal/log"
	"go.uber.org/zap"
)

// ErrRunNotFound is returned when a run ID has no stored record.
var ErrRunNotFound = errors.New("database: analysis run not found")

// Client holds the connection to the results database
type Client struct {
	DB     *gorm.DB // Exported so it can be accessed from other packages
	dsn    string
	logger *zap.SugaredLogger
}

// NewClient creates a new database client
func NewClient(dsn string, logger *zap.SugaredLogger) *Client {
	return &Client{
		dsn:    dsn,
		logger: logger,
	}
}

// Connect connects to the results database and migrates the schema
func (c *Client) Connect() error {
	// Create a logger for gorm
	dbLogger := logger.New(
		zap.NewStdLog(log.GetZapLogger()),
		logger.Config{
			SlowThreshold:             time.Second, // Slow SQL threshold
			LogLevel:                  logger.Warn, // Log level
			IgnoreRecordNotFoundError: true,        // Ignore ErrRecordNotFound error for logger
			Colorful:                  true,        // Use colors
		},
	)

	log.Info("connecting to results database...")
	db, err := gorm.Open(postgres.Open(c.dsn), &gorm.Config{Logger: dbLogger})
	if err != nil {
		log.Warn("warning: unable to create a results database connection:", err)
		return err
	}
	c.DB = db

	if err := c.DB.AutoMigrate(&RunRecord{}, &CountRecord{}); err != nil {
		return fmt.Errorf("migrating results schema: %w", err)
	}
	log.Info("results database connection successful")

	return nil
}

// SaveRun stores a completed analysis run along with its count rows
func (c *Client) SaveRun(run *analysis.Run) error {
	rec := newRunRecord(run)
	if err := c.DB.Create(rec).Error; err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}
	c.logger.Debugf("saved run %s (%d count rows)", run.ID, len(rec.Counts))
	return nil
}

// GetRun loads one analysis run by ID
func (c *Client) GetRun(id string) (*analysis.Run, error) {
	var rec RunRecord
	err := c.DB.Preload("Counts", func(db *gorm.DB) *gorm.DB {
		return db.Order("cycle_range ASC")
	}).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", id, err)
	}
	return rec.ToRun(), nil
}

// ListRuns returns recent runs, newest first, without count rows
func (c *Client) ListRuns(limit int) ([]*analysis.Run, error) {
	if limit <= 0 {
		limit = 50
	}
	var recs []RunRecord
	if err := c.DB.Order("analyzed_at DESC").Limit(limit).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	runs := make([]*analysis.Run, len(recs))
	for i := range recs {
		runs[i] = recs[i].ToRun()
	}
	return runs, nil
}
