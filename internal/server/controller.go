// Package server exposes the analysis pipeline and stored runs over a
// REST API.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/strainlab/rainflow/internal/analysis"
	"github.com/strainlab/rainflow/pkg/config"
	"go.uber.org/zap"
)

// RunStore is the slice of the results database the API needs. A nil
// store disables the stored-run endpoints.
type RunStore interface {
	SaveRun(run *analysis.Run) error
	GetRun(id string) (*analysis.Run, error)
	ListRuns(limit int) ([]*analysis.Run, error)
}

// Controller represents the REST server controller
type Controller struct {
	ctx      context.Context
	wg       *sync.WaitGroup
	cfg      config.ServerData
	Server   http.Server
	analyzer *analysis.Analyzer
	store    RunStore
	logger   *zap.SugaredLogger
	handlers *Handlers
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, cfg config.ServerData, analyzer *analysis.Analyzer, store RunStore, logger *zap.SugaredLogger) (*Controller, error) {
	if cfg.Port == 0 {
		return nil, fmt.Errorf("REST server must have a port configured")
	}

	ctrl := &Controller{
		ctx:      ctx,
		wg:       wg,
		cfg:      cfg,
		analyzer: analyzer,
		store:    store,
		logger:   logger,
	}
	ctrl.handlers = NewHandlers(ctrl)

	router := mux.NewRouter()
	router.HandleFunc("/api/health", ctrl.handlers.Health).Methods(http.MethodGet)
	router.HandleFunc("/api/analyze", ctrl.handlers.Analyze).Methods(http.MethodPost)
	router.HandleFunc("/api/runs", ctrl.handlers.ListRuns).Methods(http.MethodGet)
	router.HandleFunc("/api/runs/{id}", ctrl.handlers.GetRun).Methods(http.MethodGet)
	router.Use(ctrl.requestLogger)

	ctrl.Server = http.Server{
		Addr:         net.JoinHostPort(cfg.ListenAddr, strconv.Itoa(cfg.Port)),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return ctrl, nil
}

// StartServer launches the listener and a shutdown watcher
func (c *Controller) StartServer() error {
	c.logger.Infof("starting REST server on %s", c.Server.Addr)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			c.logger.Errorf("REST server error: %v", err)
		}
	}()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		<-c.ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Server.Shutdown(shutdownCtx); err != nil {
			c.logger.Errorf("REST server shutdown error: %v", err)
		}
	}()

	return nil
}

func (c *Controller) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, req)
		c.logger.Debugf("%s %s %v", req.Method, req.URL.Path, time.Since(start))
	})
}
