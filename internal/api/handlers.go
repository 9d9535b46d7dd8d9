package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
)

// healthHandler responds to GET / so platform health checks succeed. Any
// other path falls through to 404 here because "/" is the mux catch-all.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

// webhookHandler receives LINE platform callbacks. Signature validation
// happens inside the parser; a request that fails it is rejected with 400
// so the platform sees the misconfiguration. Events are processed in the
// background so the callback can be acknowledged immediately.
func (s *Server) webhookHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	events, err := s.parser.ParseRequest(r)
	if err != nil {
		slog.Error("Server.webhookHandler: failed to parse webhook request", "error", err)
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	slog.Debug("Server.webhookHandler: received webhook events", "count", len(events))
	for _, ev := range events {
		go s.handler.HandleEvent(context.Background(), ev)
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

// assetsHandler lists stored attachments, newest first.
func (s *Server) assetsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	list, err := s.assets.List()
	if err != nil {
		slog.Error("Server.assetsHandler: failed to list assets", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to list assets")
		return
	}
	writeJSONResponse(w, http.StatusOK, Result{Status: statusOK, Assets: list})
}
