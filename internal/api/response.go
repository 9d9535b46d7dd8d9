package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Arwei0/line-chatbot/internal/models"
)

const (
	statusOK    = "ok"
	statusError = "error"
)

// Result is the JSON envelope returned by the API endpoints.
type Result struct {
	Status string         `json:"status"`
	Error  string         `json:"error,omitempty"`
	Assets []models.Asset `json:"assets,omitempty"`
}

func writeJSONResponse(w http.ResponseWriter, statusCode int, result Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		slog.Error("writeJSONResponse: failed to encode response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, statusCode int, msg string) {
	writeJSONResponse(w, statusCode, Result{Status: statusError, Error: msg})
}
