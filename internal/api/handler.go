package api

import (
	"clientbook/internal/flow"
	"clientbook/internal/types"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

// ClientStore is the part of store.Store the API needs.
type ClientStore interface {
	LoadAll(ctx context.Context) ([]types.ClientRecord, error)
	Get(ctx context.Context, id string) (types.ClientRecord, error)
	Create(ctx context.Context, fields types.ClientFields) (types.ClientRecord, error)
	Update(ctx context.Context, id string, fields types.ClientFields) (types.ClientRecord, error)
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	Store ClientStore
	// Location decides which calendar day and month "now" falls in.
	Location *time.Location

	metrics *metrics
}

func NewHandler(st ClientStore, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		Store:    st,
		Location: loc,
		metrics:  newMetrics(),
	}
}

type scheduleResponse struct {
	Month   string                `json:"month"`
	Entries []types.ScheduleEntry `json:"entries"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /clients", h.metrics.instrument("list", h.handleList))
	mux.HandleFunc("POST /clients", h.metrics.instrument("create", h.handleCreate))
	mux.HandleFunc("GET /clients/{id}", h.metrics.instrument("get", h.handleGet))
	mux.HandleFunc("PUT /clients/{id}", h.metrics.instrument("update", h.handleUpdate))
	mux.HandleFunc("DELETE /clients/{id}", h.metrics.instrument("delete", h.handleDelete))
	mux.HandleFunc("GET /schedule", h.metrics.instrument("schedule", h.handleSchedule))
	mux.HandleFunc("GET /analytics", h.metrics.instrument("analytics", h.handleAnalytics))
	mux.Handle("GET /metrics", h.metrics.handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func (h *Handler) now() time.Time {
	return flow.Now().In(h.Location)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Store.LoadAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	h.metrics.clients.Set(float64(len(clients)))
	if expr := r.URL.Query().Get("filter"); expr != "" {
		f, err := flow.CompileFilter(expr)
		if err != nil {
			writeError(w, err)
			return
		}
		if clients, err = f.Apply(clients); err != nil {
			writeError(w, err)
			return
		}
	}
	writeOK(w, http.StatusOK, clients)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.Store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, c)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	fields, ok := readFields(w, r)
	if !ok {
		return
	}
	c, err := h.Store.Create(r.Context(), fields)
	if err != nil {
		writeError(w, err)
		return
	}
	h.metrics.mutations.WithLabelValues(string(types.OpCreate)).Inc()
	writeOK(w, http.StatusCreated, c)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	fields, ok := readFields(w, r)
	if !ok {
		return
	}
	c, err := h.Store.Update(r.Context(), r.PathValue("id"), fields)
	if err != nil {
		writeError(w, err)
		return
	}
	h.metrics.mutations.WithLabelValues(string(types.OpUpdate)).Inc()
	writeOK(w, http.StatusOK, c)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	h.metrics.mutations.WithLabelValues(string(types.OpDelete)).Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	month, err := flow.MonthOrCurrent(r.URL.Query().Get("month"), h.now())
	if err != nil {
		writeError(w, err)
		return
	}
	clients, err := h.Store.LoadAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, scheduleResponse{Month: month, Entries: flow.ScheduleFor(clients, month)})
}

func (h *Handler) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Store.LoadAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	h.metrics.clients.Set(float64(len(clients)))
	writeOK(w, http.StatusOK, flow.ComputeAnalytics(clients, h.now()))
}

// readFields decodes a client body. On failure it has already written the response.
func readFields(w http.ResponseWriter, r *http.Request) (types.ClientFields, bool) {
	defer func() {
		_ = r.Body.Close()
	}()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "read error"})
		return types.ClientFields{}, false
	}
	if len(body) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "empty body"})
		return types.ClientFields{}, false
	}
	var fields types.ClientFields
	if err := json.Unmarshal(body, &fields); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return types.ClientFields{}, false
	}
	return fields, true
}

// writeError maps the error taxonomy onto status codes.
func writeError(w http.ResponseWriter, err error) {
	var verr *types.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Field: verr.Field})
	case errors.Is(err, types.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, types.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "client not found"})
	default:
		log.WithError(err).Error("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeOK(w http.ResponseWriter, code int, v any) {
	if err := writeJSON(w, code, v); err != nil {
		log.WithError(err).Warn("failed to write response")
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}
