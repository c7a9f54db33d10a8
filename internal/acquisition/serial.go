// Package acquisition collects load samples from live data loggers and
// hands fixed windows of them to the analysis pipeline.
package acquisition

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/strainlab/rainflow/pkg/config"
	serial "github.com/tarm/goserial"
	"go.uber.org/zap"
)

// Sample is one load reading from a logger channel.
type Sample struct {
	Channel string
	Value   float64
}

// SerialSource reads ASCII load samples, one per line, from a serial
// data logger and pushes them to the sample distributor.
type SerialSource struct {
	ctx         context.Context
	wg          *sync.WaitGroup
	cfg         config.ChannelData
	distributor chan<- Sample
	logger      *zap.SugaredLogger
	rwc         io.ReadWriteCloser
}

// NewSerialSource creates a serial sample source for one channel.
func NewSerialSource(ctx context.Context, wg *sync.WaitGroup, cfg config.ChannelData, distributor chan<- Sample, logger *zap.SugaredLogger) *SerialSource {
	return &SerialSource{
		ctx:         ctx,
		wg:          wg,
		cfg:         cfg,
		distributor: distributor,
		logger:      logger,
	}
}

// Name returns the channel name this source feeds.
func (s *SerialSource) Name() string {
	return s.cfg.Name
}

// Start launches the reader goroutine.
func (s *SerialSource) Start() error {
	s.logger.Infof("starting serial logger [%s] on %s", s.cfg.Name, s.cfg.SerialDevice)
	s.wg.Add(1)
	go s.run()
	return nil
}

func (s *SerialSource) run() {
	defer s.wg.Done()
	for {
		if !s.connect() {
			return
		}
		s.readSamples()
		if s.ctx.Err() != nil {
			return
		}
		s.logger.Warnf("logger [%s] stream ended, reconnecting", s.cfg.Name)
	}
}

// connect opens the serial port, retrying until it succeeds or the
// context is cancelled. Returns false on cancellation.
func (s *SerialSource) connect() bool {
	for {
		sc := &serial.Config{Name: s.cfg.SerialDevice, Baud: s.cfg.Baud}
		s.logger.Debugf("attempting to open serial port %s at %d baud", s.cfg.SerialDevice, s.cfg.Baud)
		rwc, err := serial.OpenPort(sc)
		if err == nil {
			s.rwc = rwc
			return true
		}

		s.logger.Errorf("failed to open serial port %s: %v", s.cfg.SerialDevice, err)
		s.logger.Error("sleeping 30 seconds and trying again")

		select {
		case <-s.ctx.Done():
			s.logger.Info("cancellation request received during retry wait")
			return false
		case <-time.After(30 * time.Second):
		}
	}
}

func (s *SerialSource) readSamples() {
	defer s.rwc.Close()

	scanner := bufio.NewScanner(s.rwc)
	for scanner.Scan() {
		if s.ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			s.logger.Warnf("logger [%s]: discarding malformed sample %q", s.cfg.Name, line)
			continue
		}
		select {
		case s.distributor <- Sample{Channel: s.cfg.Name, Value: v}:
		case <-s.ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		s.logger.Errorf("logger [%s] read error: %v", s.cfg.Name, err)
	}
}
