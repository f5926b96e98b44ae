package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type statusResponse struct {
	Queued      int    `json:"queued"`
	Verifying   int    `json:"verifying"`
	Ready       int    `json:"ready"`
	Pending     int    `json:"pending"`
	Importing   int    `json:"importing"`
	BadBlocks   int    `json:"bad_blocks"`
	StagedBytes uint64 `json:"staged_bytes"`
	MaxBytes    uint64 `json:"max_bytes"`
	MaxBlocks   int    `json:"max_blocks"`
	TotalSize   int    `json:"total_queue_size"`
	Empty       bool   `json:"is_empty"`
	Full        bool   `json:"is_full"`
}

type blockResponse struct {
	Hash      string `json:"hash"`
	Status    string `json:"status"`
	BadReason string `json:"bad_reason,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type statusHandler struct {
	queue  QueueReader
	logger *zap.Logger
}

// NewHTTPHandler routes the status API and, when metrics is not nil, the metrics endpoint. CORS is open to any origin.
func NewHTTPHandler(queue QueueReader, metrics http.Handler, logger *zap.Logger) (http.Handler, error) {
	if queue == nil {
		return nil, errors.New("status queue is required")
	}
	if logger == nil {
		return nil, errors.New("status logger is required")
	}
	h := &statusHandler{queue: queue, logger: logger.Named("status")}

	router := mux.NewRouter()
	router.HandleFunc("/status", h.status).Methods(http.MethodGet)
	router.HandleFunc("/blocks/{hash}", h.block).Methods(http.MethodGet)
	if metrics != nil {
		router.Handle("/metrics", metrics)
	}
	return cors.Default().Handler(router), nil
}

func (h *statusHandler) status(w http.ResponseWriter, _ *http.Request) {
	status := h.queue.Status()
	info := h.queue.Info()
	h.write(w, http.StatusOK, statusResponse{
		Queued:      status.Queued,
		Verifying:   status.Verifying,
		Ready:       status.Ready,
		Pending:     status.Pending,
		Importing:   status.Importing,
		BadBlocks:   status.BadBlocks,
		StagedBytes: status.StagedBytes,
		MaxBytes:    info.MaxBytes,
		MaxBlocks:   info.MaxBlocks,
		TotalSize:   info.TotalQueueSize(),
		Empty:       info.IsEmpty(),
		Full:        info.IsFull(),
	})
}

func (h *statusHandler) block(w http.ResponseWriter, r *http.Request) {
	hash, err := chainhash.NewHashFromStr(mux.Vars(r)["hash"])
	if err != nil {
		h.write(w, http.StatusBadRequest, errorResponse{Error: "invalid block hash"})
		return
	}

	resp := blockResponse{
		Hash:   hash.String(),
		Status: h.queue.BlockStatus(*hash).String(),
	}
	if reason := h.queue.BadReason(*hash); reason != nil {
		resp.BadReason = reason.Error()
	}
	h.write(w, http.StatusOK, resp)
}

func (h *statusHandler) write(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn("write response", zap.Error(err))
	}
}
