package webui

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"go_renamer/core"
	"go_renamer/logging"
)

// apiHandlers holds the REST endpoint implementations.
type apiHandlers struct {
	pipeline RenameHandler
	store    HistoryReader
	tester   ConnectionTester
	settings func() core.Settings
	logger   *logging.Logger
}

// renameResponse is the wire shape returned to the browser extension.
// SuggestedFilename is null (not omitted) when there is no suggestion, so
// the extension can distinguish "no answer" from a malformed response.
type renameResponse struct {
	SuggestedFilename *string `json:"suggestedFilename"`
	ConflictAction    string  `json:"conflictAction"`
	Outcome           string  `json:"outcome"`
	Error             string  `json:"error,omitempty"`
}

// rename handles POST /api/v1/rename: the download event entry point.
//
// The endpoint always answers 200 with a renameResponse once the event is
// syntactically valid; pipeline failures ride inside the body because the
// extension must release the download either way.
func (h *apiHandlers) rename(w http.ResponseWriter, r *http.Request) {
	var req core.DownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Filename == "" || req.URL == "" {
		writeError(w, http.StatusBadRequest, "filename and url are required")
		return
	}

	// Snapshot settings once per event.
	res := h.pipeline.Handle(r.Context(), req, h.settings())

	resp := renameResponse{
		ConflictAction: "uniquify",
		Outcome:        string(res.Outcome),
	}
	if res.Suggested != "" {
		resp.SuggestedFilename = &res.Suggested
	}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	}
	if res.Outcome == "" {
		// Unprocessable class: tell the extension to proceed untouched.
		resp.Outcome = "ignored"
	}
	writeJSON(w, http.StatusOK, resp)
}

// history handles GET /api/v1/history with an optional limit query param.
func (h *apiHandlers) history(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	entries, err := h.store.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("history query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// stats handles GET /api/v1/stats.
func (h *apiHandlers) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		h.logger.Error("stats query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// testConnection handles POST /api/v1/test-connection.
func (h *apiHandlers) testConnection(w http.ResponseWriter, r *http.Request) {
	result := h.tester.TestConnection(r.Context(), h.settings())
	writeJSON(w, http.StatusOK, result)
}

// health handles GET /health, unauthenticated so the extension can detect
// whether the service is running before it has a token.
func (h *apiHandlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
