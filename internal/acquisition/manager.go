package acquisition

import (
	"context"
	"fmt"
	"sync"

	"github.com/strainlab/rainflow/internal/analysis"
	"github.com/strainlab/rainflow/pkg/config"
	"go.uber.org/zap"
)

// DefaultWindowSize is used when a channel does not configure one.
const DefaultWindowSize = 1024

// RunSink receives completed analysis runs, typically the results
// database. A nil sink means runs are only logged.
type RunSink interface {
	SaveRun(run *analysis.Run) error
}

// Source is a sample producer feeding the manager's distributor.
type Source interface {
	Name() string
	Start() error
}

// Manager owns the live sources, buffers their samples into fixed
// windows and analyzes each window as it fills.
type Manager struct {
	ctx         context.Context
	wg          *sync.WaitGroup
	analyzer    *analysis.Analyzer
	sink        RunSink
	logger      *zap.SugaredLogger
	sources     []Source
	distributor chan Sample
	windows     map[string][]float64
	windowSizes map[string]int
}

// NewManager creates a Manager populated with a source per configured
// live channel. CSV channels are one-shot inputs and are skipped here.
func NewManager(ctx context.Context, wg *sync.WaitGroup, configProvider config.ConfigProvider, analyzer *analysis.Analyzer, sink RunSink, logger *zap.SugaredLogger) (*Manager, error) {
	channels, err := configProvider.GetChannels()
	if err != nil {
		return nil, fmt.Errorf("error loading channel configuration: %w", err)
	}

	m := &Manager{
		ctx:         ctx,
		wg:          wg,
		analyzer:    analyzer,
		sink:        sink,
		logger:      logger,
		distributor: make(chan Sample, 256),
		windows:     make(map[string][]float64),
		windowSizes: make(map[string]int),
	}

	for _, ch := range channels {
		switch ch.Source {
		case "serial":
			m.sources = append(m.sources, NewSerialSource(ctx, wg, ch, m.distributor, logger))
		case "csv", "":
			continue
		default:
			return nil, fmt.Errorf("channel [%s]: unknown source type %q", ch.Name, ch.Source)
		}

		size := ch.WindowSize
		if size <= 0 {
			size = DefaultWindowSize
		}
		m.windowSizes[ch.Name] = size
	}

	return m, nil
}

// StartSources launches every live source and the windowing loop.
func (m *Manager) StartSources() error {
	for _, src := range m.sources {
		if err := src.Start(); err != nil {
			return fmt.Errorf("failed to start source [%s]: %w", src.Name(), err)
		}
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		for {
			select {
			case sample := <-m.distributor:
				m.ingest(sample)
			case <-m.ctx.Done():
				m.flush()
				return
			}
		}
	}()

	return nil
}

// ingest appends a sample to its channel window and analyzes the
// window once it fills.
func (m *Manager) ingest(sample Sample) {
	m.windows[sample.Channel] = append(m.windows[sample.Channel], sample.Value)

	size, ok := m.windowSizes[sample.Channel]
	if !ok {
		size = DefaultWindowSize
		m.windowSizes[sample.Channel] = size
	}
	if len(m.windows[sample.Channel]) < size {
		return
	}

	window := m.windows[sample.Channel]
	m.windows[sample.Channel] = nil
	m.analyzeWindow(sample.Channel, window)
}

// flush analyzes whatever partial windows remain at shutdown.
func (m *Manager) flush() {
	for channel, window := range m.windows {
		if len(window) < 2 {
			continue
		}
		m.analyzeWindow(channel, window)
	}
}

func (m *Manager) analyzeWindow(channel string, window []float64) {
	run, err := m.analyzer.Analyze(channel, window)
	if err != nil {
		m.logger.Errorf("channel [%s]: window analysis failed: %v", channel, err)
		return
	}
	if m.sink == nil {
		return
	}
	if err := m.sink.SaveRun(run); err != nil {
		m.logger.Errorf("channel [%s]: failed to save run %s: %v", channel, run.ID, err)
	}
}
