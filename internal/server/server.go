// Package server exposes the engine's state over HTTP for dashboards and
// remote operators.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/grovetools/cellconsole/internal/engine"
	"github.com/grovetools/cellconsole/internal/store"
	"github.com/grovetools/cellconsole/pkg/action"
	"github.com/grovetools/cellconsole/pkg/overlay"
	"github.com/sirupsen/logrus"
)

// unixPrefix selects a Unix socket listener instead of TCP.
const unixPrefix = "unix://"

const (
	maxCanvasSide   = 8192
	defaultPreviewW = 600
	defaultPreviewH = 400
	maxActionBytes  = 32 << 20
	awaitTimeout    = 30 * time.Second
)

// RunningConfig describes the active configuration, served at /api/config.
type RunningConfig struct {
	Host         string        `json:"host"`
	PollInterval time.Duration `json:"poll_interval"`
	ConfigFile   string        `json:"config_file,omitempty"`
	StartedAt    time.Time     `json:"started_at"`
}

// Server serves the engine's state.
type Server struct {
	logger   *logrus.Entry
	server   *http.Server
	engine   *engine.Engine
	metrics  http.Handler
	upgrader websocket.Upgrader

	// mu guards overlay and runningConfig, which config reloads replace
	// while requests read them.
	mu            sync.RWMutex
	overlay       overlay.Options
	runningConfig *RunningConfig
}

// New creates a new Server instance.
func New(logger *logrus.Entry, eng *engine.Engine) *Server {
	return &Server{
		logger:  logger,
		engine:  eng,
		overlay: overlay.DefaultOptions(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// SetMetrics mounts h at /metrics.
func (s *Server) SetMetrics(h http.Handler) {
	s.metrics = h
}

// SetOverlay sets the annotations painted by /api/overlay.png.
func (s *Server) SetOverlay(opts overlay.Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay = opts
}

func (s *Server) overlayOptions() overlay.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overlay
}

// SetRunningConfig sets the running configuration for the server.
func (s *Server) SetRunningConfig(cfg *RunningConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runningConfig = cfg
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/api/state", s.handleGetState)
	mux.HandleFunc("/api/stream", s.handleStreamState)
	mux.HandleFunc("/api/ws", s.handleWebsocket)
	mux.HandleFunc("/api/dispatch", s.handleDispatch)
	mux.HandleFunc("/api/config", s.handleGetConfig)
	mux.HandleFunc("/api/overlay.png", s.handleOverlay)
	mux.HandleFunc("/api/preview.png", s.handlePreview)
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics)
	}
	return mux
}

// ListenAndServe listens on addr, a host:port or unix:///path/to.sock, and
// blocks until the server stops or fails.
func (s *Server) ListenAndServe(addr string) error {
	listener, err := listen(addr)
	if err != nil {
		return err
	}
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.WithField("addr", addr).Info("State server listening")
	err = s.server.Serve(listener)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func listen(addr string) (net.Listener, error) {
	if !strings.HasPrefix(addr, unixPrefix) {
		l, err := net.Listen("tcp", addr)
		if err != nil {
			return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
		}
		return l, nil
	}

	socketPath := strings.TrimPrefix(addr, unixPrefix)
	if _, err := os.Stat(socketPath); err == nil {
		if err := os.Remove(socketPath); err != nil {
			return nil, fmt.Errorf("failed to remove stale socket: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(socketPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create socket directory: %w", err)
	}
	l, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on socket: %w", err)
	}
	if err := os.Chmod(socketPath, 0600); err != nil {
		_ = l.Close()
		return nil, fmt.Errorf("failed to set socket permissions: %w", err)
	}
	return l, nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// stateResponse pairs a snapshot with the sequence number it was taken at.
type stateResponse struct {
	Seq   uint64          `json:"seq"`
	State store.RootState `json:"state"`
}

func (s *Server) snapshot() stateResponse {
	st := s.engine.Store()
	// Seq first: a concurrent Apply can only make the state newer than seq.
	seq := st.Seq()
	return stateResponse{Seq: seq, State: st.Get()}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleGetState returns the complete store state as JSON.
func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.snapshot())
}

// handleStreamState provides Server-Sent Events: the current state first,
// then one event per applied action.
func (s *Server) handleStreamState(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.engine.Store().Subscribe()
	defer s.engine.Store().Unsubscribe(ch)

	fmt.Fprintf(w, ": connected\n\n")
	if data, err := json.Marshal(s.snapshot()); err == nil {
		fmt.Fprintf(w, "event: state\ndata: %s\n\n", data)
	}
	flusher.Flush()

	s.logger.Debug("SSE client connected")

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case update, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(update)
			if err != nil {
				s.logger.WithError(err).Error("Failed to marshal update")
				continue
			}
			fmt.Fprintf(w, "event: update\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// wsMessage is written to websocket clients.
type wsMessage struct {
	Type   string         `json:"type"`
	Seq    uint64         `json:"seq,omitempty"`
	Action *action.Action `json:"action,omitempty"`
	State  interface{}    `json:"state,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// handleWebsocket streams updates like /api/stream and accepts actions in
// the /api/dispatch format from the client.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Debug("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	ch := s.engine.Store().Subscribe()
	defer s.engine.Store().Unsubscribe(ch)

	out := make(chan wsMessage, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			a, err := action.Decode(data)
			if err != nil {
				select {
				case out <- wsMessage{Type: "error", Error: err.Error()}:
				default:
				}
				continue
			}
			s.engine.Dispatch(a)
		}
	}()

	snap := s.snapshot()
	if err := conn.WriteJSON(wsMessage{Type: "state", Seq: snap.Seq, State: snap.State}); err != nil {
		return
	}

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case msg := <-out:
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case update, ok := <-ch:
			if !ok {
				return
			}
			a := update.Action
			if err := conn.WriteJSON(wsMessage{Type: "update", Seq: update.Seq, Action: &a, State: update.State}); err != nil {
				return
			}
		}
	}
}

// handleDispatch decodes an action and dispatches it. With ?await=true it
// waits for the family's outcome and returns it.
func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxActionBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	a, err := action.Decode(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if wait, _ := strconv.ParseBool(r.URL.Query().Get("await")); wait {
		if _, ok := a.Kind.Family(); ok {
			ctx, cancel := context.WithTimeout(r.Context(), awaitTimeout)
			defer cancel()
			outcome, err := s.engine.Await(ctx, a)
			if err != nil {
				writeError(w, http.StatusGatewayTimeout, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, outcome)
			return
		}
	}

	s.engine.Dispatch(a)
	s.logger.WithField("kind", a.Kind).Debug("Action dispatched")
	writeJSON(w, http.StatusAccepted, map[string]action.Kind{"dispatched": a.Kind})
}

// handleGetConfig returns the running configuration as JSON.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	cfg := s.runningConfig
	s.mu.RUnlock()
	if cfg == nil {
		http.Error(w, "config not initialized", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// handleOverlay paints the latest analysis over its image. ?source=app uses
// the pick job's image instead of the camera's; ?w=&h= set the displayed
// size.
func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	size, err := querySize(r, overlay.Size{})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	state := s.engine.State()
	img, res := state.Camera.ImageBase64, state.Camera.Analysis
	if r.URL.Query().Get("source") == "app" {
		img, res = state.App.ImageBase64, state.App.Analysis
	}
	if img == "" {
		writeError(w, http.StatusNotFound, "no image")
		return
	}

	bg, err := overlay.DecodeBase64Image(img)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writePNG(w, overlay.RenderAnalysis(bg, res, size, s.overlayOptions()))
}

// handlePreview renders the DXF preview paths, or the draw paths with
// ?paths=draw.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	size, err := querySize(r, overlay.Size{W: defaultPreviewW, H: defaultPreviewH})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	app := s.engine.State().App
	paths := app.PreviewPaths
	if r.URL.Query().Get("paths") == "draw" {
		paths = app.DrawPaths
	}
	if len(paths) == 0 {
		writeError(w, http.StatusNotFound, "no paths")
		return
	}
	writePNG(w, overlay.RenderPaths(paths, app.Origin, size))
}

// querySize reads ?w=&h=. Missing or non-positive values yield def; sizes
// above maxCanvasSide are rejected.
func querySize(r *http.Request, def overlay.Size) (overlay.Size, error) {
	q := r.URL.Query()
	wv, errW := strconv.Atoi(q.Get("w"))
	hv, errH := strconv.Atoi(q.Get("h"))
	if errW != nil || errH != nil || wv <= 0 || hv <= 0 {
		return def, nil
	}
	if wv > maxCanvasSide || hv > maxCanvasSide {
		return overlay.Size{}, fmt.Errorf("size %dx%d exceeds %d pixels per side", wv, hv, maxCanvasSide)
	}
	return overlay.Size{W: float64(wv), H: float64(hv)}, nil
}

func writePNG(w http.ResponseWriter, c *overlay.ImageCanvas) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := c.EncodePNG(w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
