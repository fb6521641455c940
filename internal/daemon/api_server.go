package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"taiyaku/internal/config"
	"taiyaku/internal/dispatch"
	"taiyaku/internal/logging"
)

// apiServer is the read-only HTTP view of the store. A nil *apiServer is a
// disabled server.
type apiServer struct {
	bind       string
	logger     *slog.Logger
	dispatcher *dispatch.Dispatcher
	status     Status

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg config.API, d *dispatch.Dispatcher, status Status, logger *slog.Logger) *apiServer {
	bind := strings.TrimSpace(cfg.Bind)
	if bind == "" || d == nil {
		return nil
	}

	srv := &apiServer{
		bind:       bind,
		logger:     logging.NewComponentLogger(logger, "api-server"),
		dispatcher: d,
		status:     status,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", srv.requireToken(cfg.Token, srv.handleStatus))
	mux.HandleFunc("/api/scripts", srv.requireToken(cfg.Token, srv.handleScripts))
	mux.HandleFunc("/api/scripts/", srv.requireToken(cfg.Token, srv.handleScript))

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener
	s.status.APIAddress = listener.Addr().String()
	s.server.BaseContext = func(net.Listener) context.Context {
		return dispatch.WithTransport(context.WithoutCancel(ctx), "http")
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	s.logger.Info("api server listening", logging.String("address", s.status.APIAddress))
	return nil
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) address() string {
	if s == nil {
		return ""
	}
	return s.status.APIAddress
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, withStoreStatus(r.Context(), s.status, s.dispatcher))
}

// handleScripts lists scripts; q, scope, and ignore_case narrow the list.
func (s *apiServer) handleScripts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	query := r.URL.Query()
	ignoreCase := query.Get("ignore_case") == "1" || strings.EqualFold(query.Get("ignore_case"), "true")
	resp, err := s.dispatcher.Search(r.Context(), dispatch.SearchRequest{
		Query:      query.Get("q"),
		Scope:      query.Get("scope"),
		IgnoreCase: ignoreCase,
	})
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) handleScript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	idStr := strings.TrimPrefix(r.URL.Path, "/api/scripts/")
	if idStr == "" || strings.Contains(idStr, "/") {
		s.writeError(w, http.StatusNotFound, "script not found")
		return
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid script id")
		return
	}
	resp, err := s.dispatcher.Get(r.Context(), dispatch.GetRequest{ID: id})
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	if resp.Script == nil {
		s.writeError(w, http.StatusNotFound, "script not found")
		return
	}
	s.writeJSON(w, http.StatusOK, resp.Script)
}

func (s *apiServer) writeFailure(w http.ResponseWriter, err error) {
	failure := dispatch.Classify(err)
	status := http.StatusInternalServerError
	if failure.Kind == dispatch.KindValidation {
		status = http.StatusBadRequest
	}
	s.writeJSON(w, status, map[string]any{"error": failure})
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
