package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/strainlab/rainflow/internal/analysis"
	"github.com/strainlab/rainflow/internal/database"
	"github.com/strainlab/rainflow/pkg/rainflow"
	"github.com/strainlab/rainflow/pkg/responseformat"
)

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

// AnalyzeRequest is the POST /api/analyze body
type AnalyzeRequest struct {
	Channel string    `json:"channel"`
	Series  []float64 `json:"series"`
	Bins    int       `json:"bins,omitempty"`
}

// AnalyzeResponse wraps a run with its optional binned spectrum
type AnalyzeResponse struct {
	*analysis.Run
	Spectrum []analysis.Bin `json:"spectrum,omitempty"`
}

// Health reports service liveness
func (h *Handlers) Health(w http.ResponseWriter, req *http.Request) {
	h.formatter.WriteResponse(w, req, map[string]string{"status": "ok"})
}

// Analyze runs the rainflow pipeline over the posted series
func (h *Handlers) Analyze(w http.ResponseWriter, req *http.Request) {
	var ar AnalyzeRequest
	if err := json.NewDecoder(req.Body).Decode(&ar); err != nil {
		h.formatter.WriteError(w, req, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if ar.Channel == "" {
		ar.Channel = "adhoc"
	}

	run, err := h.controller.analyzer.Analyze(ar.Channel, ar.Series)
	if errors.Is(err, rainflow.ErrInsufficientData) {
		h.formatter.WriteError(w, req, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusInternalServerError, err.Error())
		return
	}

	resp := AnalyzeResponse{Run: run}
	if ar.Bins > 0 {
		spectrum, err := analysis.BinnedSpectrum(run.Counts, ar.Bins)
		if err != nil {
			h.formatter.WriteError(w, req, http.StatusBadRequest, err.Error())
			return
		}
		resp.Spectrum = spectrum
	}

	if h.controller.store != nil {
		if err := h.controller.store.SaveRun(run); err != nil {
			// The caller still gets their result; persistence is best
			// effort here.
			h.controller.logger.Warnf("failed to save run %s: %v", run.ID, err)
		}
	}

	h.formatter.WriteResponse(w, req, resp)
}

// ListRuns returns recent stored runs
func (h *Handlers) ListRuns(w http.ResponseWriter, req *http.Request) {
	if h.controller.store == nil {
		h.formatter.WriteError(w, req, http.StatusServiceUnavailable, "results storage is not configured")
		return
	}

	limit := 0
	if v := req.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			h.formatter.WriteError(w, req, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	runs, err := h.controller.store.ListRuns(limit)
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusInternalServerError, err.Error())
		return
	}
	h.formatter.WriteResponse(w, req, runs)
}

// GetRun returns one stored run with its cycle counts
func (h *Handlers) GetRun(w http.ResponseWriter, req *http.Request) {
	if h.controller.store == nil {
		h.formatter.WriteError(w, req, http.StatusServiceUnavailable, "results storage is not configured")
		return
	}

	id := mux.Vars(req)["id"]
	run, err := h.controller.store.GetRun(id)
	if errors.Is(err, database.ErrRunNotFound) {
		h.formatter.WriteError(w, req, http.StatusNotFound, "no such run: "+id)
		return
	}
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusInternalServerError, err.Error())
		return
	}
	h.formatter.WriteResponse(w, req, run)
}
