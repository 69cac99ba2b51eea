package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"adaptkit/internal/adapter"
	"adaptkit/internal/codec"
	"adaptkit/internal/domain"
	"adaptkit/internal/loader"
	"adaptkit/internal/logging"
	"adaptkit/internal/repository"
	"adaptkit/internal/service"
)

// maxModelBytes caps the size of a posted variants model
const maxModelBytes = 1 << 20

// RunHandler handles adapter and extraction run API requests
type RunHandler struct {
	svc      *service.ExtractionService
	registry *adapter.Registry
	log      *slog.Logger
}

// NewRunHandler creates a new run handler
func NewRunHandler(svc *service.ExtractionService, registry *adapter.Registry) *RunHandler {
	return &RunHandler{
		svc:      svc,
		registry: registry,
		log:      logging.New("handler"),
	}
}

// Routes registers the API on mux
func (h *RunHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/adapters", h.ListAdapters)
	mux.HandleFunc("GET /api/kinds/{kind}/owner", h.GetKindOwner)
	mux.HandleFunc("POST /api/resolve", h.Resolve)
	mux.HandleFunc("POST /api/runs", h.CreateRun)
	mux.HandleFunc("GET /api/runs", h.ListRuns)
	mux.HandleFunc("GET /api/runs/{id}", h.GetRun)
}

// Error response structure
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ResolveResponse lists the adapters applicable to a model
type ResolveResponse struct {
	Adapters []adapter.Descriptor `json:"adapters"`
}

// ListAdapters returns every registered adapter
func (h *RunHandler) ListAdapters(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.registry.ListAdapters(), http.StatusOK)
}

// GetKindOwner returns the descriptor of the adapter that owns an element kind
func (h *RunHandler) GetKindOwner(w http.ResponseWriter, r *http.Request) {
	kind := domain.ElementKind(r.PathValue("kind"))
	id, ok := h.registry.OwnerOf(kind)
	if !ok {
		h.writeError(w, "Not found", "no adapter owns kind "+string(kind), http.StatusNotFound)
		return
	}
	d, _ := h.registry.Descriptor(id)
	h.writeJSON(w, d, http.StatusOK)
}

// Resolve reports which adapters apply to the posted YAML model
func (h *RunHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	model, ok := h.readModel(w, r)
	if !ok {
		return
	}

	set, err := h.svc.Resolve(model)
	if err != nil {
		h.writeError(w, "Invalid model", err.Error(), http.StatusBadRequest)
		return
	}

	resp := ResolveResponse{Adapters: make([]adapter.Descriptor, 0, set.Len())}
	for _, id := range set.IDs() {
		if d, ok := h.registry.Descriptor(id); ok {
			resp.Adapters = append(resp.Adapters, d)
		}
	}
	h.writeJSON(w, resp, http.StatusOK)
}

// CreateRun extracts the posted YAML model and returns the report.
// A run canceled by the client disconnecting is still stored.
func (h *RunHandler) CreateRun(w http.ResponseWriter, r *http.Request) {
	model, ok := h.readModel(w, r)
	if !ok {
		return
	}

	report, err := h.svc.Run(r.Context(), model)
	if err != nil {
		if report == nil {
			h.writeError(w, "Invalid model", err.Error(), http.StatusBadRequest)
			return
		}
		h.log.Error("failed to store run", "error", err)
		h.writeError(w, "Failed to store run", err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeReport(w, r, report, http.StatusCreated)
}

// ListRuns returns stored run summaries, newest first
func (h *RunHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.writeError(w, "Invalid limit", v, http.StatusBadRequest)
			return
		}
		limit = n
	}

	runs, err := h.svc.Runs(r.Context(), limit)
	if err != nil {
		h.serviceError(w, "Failed to list runs", err)
		return
	}
	h.writeJSON(w, runs, http.StatusOK)
}

// GetRun returns a stored report
func (h *RunHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, "Invalid run ID", r.PathValue("id"), http.StatusBadRequest)
		return
	}

	report, err := h.svc.GetRun(r.Context(), id)
	if err != nil {
		h.serviceError(w, "Failed to get run", err)
		return
	}
	h.writeReport(w, r, report, http.StatusOK)
}

// Helper methods

func (h *RunHandler) readModel(w http.ResponseWriter, r *http.Request) (*domain.VariantsModel, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxModelBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, "Request body too large", err.Error(), http.StatusRequestEntityTooLarge)
		} else {
			h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		}
		return nil, false
	}
	// Relative leaf paths resolve against the server's working directory
	model, err := loader.ParseYAML(data, "")
	if err != nil {
		h.writeError(w, "Invalid model", err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return model, true
}

// writeReport honors ?format=yaml; JSON otherwise
func (h *RunHandler) writeReport(w http.ResponseWriter, r *http.Request, report *domain.Report, statusCode int) {
	if r.URL.Query().Get("format") != "yaml" {
		h.writeJSON(w, report, statusCode)
		return
	}
	w.Header().Set("Content-Type", "application/x-yaml")
	w.WriteHeader(statusCode)
	if err := codec.NewYAMLCodec().Export(report, w); err != nil {
		h.log.Error("failed to encode YAML", "error", err)
	}
}

func (h *RunHandler) serviceError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, repository.ErrRunNotFound):
		h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrNoRepository):
		h.writeError(w, msg, err.Error(), http.StatusServiceUnavailable)
	default:
		h.log.Error(msg, "error", err)
		h.writeError(w, msg, err.Error(), http.StatusInternalServerError)
	}
}

func (h *RunHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error("failed to encode JSON", "error", err)
	}
}

func (h *RunHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		h.log.Error("failed to encode error response", "error", err)
	}
}
