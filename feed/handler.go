// Copyright 2019-present Kuei-chun Chen. All rights reserved.
// handler.go

package feed

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/simagix/gox"
	"github.com/simagix/timeline/decoder"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// OperationsPath is the endpoint queried by graphs
const OperationsPath = "/operations"

// Handler serves the operations endpoint
type Handler struct {
	store  *Store
	logger *zap.SugaredLogger
}

// NewHandler -
func NewHandler(store *Store, logger *zap.SugaredLogger) *Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Handler{store: store, logger: logger}
}

// NewServeMux returns a mux with every route CORS wrapped
func NewServeMux(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", gox.Cors(h.Handle))
	return mux
}

// Handle dispatches on the request path
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		return
	}
	if strings.TrimSuffix(r.URL.Path, "/") == OperationsPath {
		h.operations(w, r)
	} else {
		w.Header().Set("Content-Type", decoder.MIMEJSON)
		json.NewEncoder(w).Encode(bson.M{"ok": 1, "message": "hello timeline!", "operations": h.store.Operations()})
	}
}

func (h *Handler) fail(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", decoder.MIMEJSON)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(bson.M{"ok": 0, "err": err.Error()})
}

func (h *Handler) operations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "bad method; supported OPTIONS, GET", http.StatusBadRequest)
		return
	}
	query := r.URL.Query()
	op := query.Get("graph")
	var since *time.Time
	if value := query.Get("startdate"); value != "" {
		t, err := time.Parse(time.RFC3339Nano, value)
		if err != nil {
			h.fail(w, http.StatusBadRequest, err)
			return
		}
		since = &t
	}
	payload, err := h.store.Query(op, since)
	if err != nil {
		h.fail(w, http.StatusBadRequest, err)
		return
	}
	h.logger.Debugw("operations", "graph", op, "startdate", query.Get("startdate"), "series", len(payload))
	if strings.Contains(r.Header.Get("Accept"), decoder.MIMEBSON) {
		w.Header().Set("Content-Type", decoder.MIMEBSON)
		err = payload.EncodeBSON(w)
	} else {
		w.Header().Set("Content-Type", decoder.MIMEJSON)
		err = payload.EncodeJSON(w)
	}
	if err != nil {
		h.logger.Warnw("operations", "graph", op, "error", err)
	}
}
