// Package devserver is a local stand-in for the program service. It accepts
// creation requests, answers with validation problems in the same shape the
// real service uses and serves the movement catalog.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kingrea/regimen/internal/catalog"
	"github.com/kingrea/regimen/internal/submission"
)

// ProtocolVersion is reported by /health.
const ProtocolVersion = "1.0.0"

const rememberedKeys = 256

// Logger records server status information. It matches logging.Logger's signature.
type Logger interface {
	Printf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// Program is a program accepted by the stub.
type Program struct {
	ID        string
	Request   submission.CreationRequest
	CreatedAt time.Time
}

// Server wraps the HTTP listener and handlers of the stub backend.
type Server struct {
	settings Settings
	catalog  *catalog.Catalog
	logger   Logger
	clock    func() time.Time
	newID    func() string

	mu        sync.RWMutex
	server    *http.Server
	listener  net.Listener
	startTime time.Time
	programs  []Program
	byKey     map[string]string
	keyOrder  []string
}

// Option customizes server construction.
type Option func(*Server)

// WithLogger overrides the default no-op logger.
func WithLogger(l Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock allows tests to control timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Server) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithCatalog overrides the bundled catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Server) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithIDFunc overrides program id generation.
func WithIDFunc(fn func() string) Option {
	return func(s *Server) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewServer prepares a stub server using the provided settings.
func NewServer(settings Settings, opts ...Option) *Server {
	settings.normalize()
	s := &Server{
		settings: settings,
		logger:   nopLogger{},
		clock:    func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
		byKey:    map[string]string{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.catalog == nil {
		s.catalog = catalog.Bundled()
	}
	return s
}

// Handler returns the routed handler, usable without a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/programs", s.handlePrograms)
	mux.HandleFunc("/movements", s.handleMovements)
	return mux
}

// Start binds the TCP listener and begins serving HTTP traffic.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("devserver: server is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return fmt.Errorf("devserver: server already started")
	}
	addr := s.settings.Address()
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("devserver: listen %s: %w", addr, err)
	}
	s.listener = listener
	s.startTime = s.clock()
	server := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.settings.ReadTimeout,
		WriteTimeout: s.settings.WriteTimeout,
		IdleTimeout:  s.settings.IdleTimeout,
	}
	if ctx != nil {
		server.BaseContext = func(net.Listener) context.Context { return ctx }
	}
	s.server = server
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Printf("devserver: serve error: %v", err)
		}
	}()
	s.logger.Printf("devserver: listening on %s", listener.Addr().String())
	return nil
}

// Shutdown stops accepting new connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil || s.server == nil {
		return nil
	}
	deadline := ctx
	if deadline == nil {
		var cancel context.CancelFunc
		deadline, cancel = context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
	}
	if err := s.server.Shutdown(deadline); err != nil {
		return err
	}
	s.listener = nil
	s.server = nil
	return nil
}

// Addr returns the bound TCP address once the server has started.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// BaseURL returns the HTTP base URL for the running server.
func (s *Server) BaseURL() string {
	addr := s.Addr()
	if addr == "" {
		return s.settings.URL()
	}
	return "http://" + addr
}

// Programs returns the accepted programs in creation order.
func (s *Server) Programs() []Program {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Program(nil), s.programs...)
}

type healthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Programs      int    `json:"programs"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", fmt.Sprintf("%s, %s", http.MethodGet, http.MethodHead))
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.mu.RLock()
	resp := healthResponse{Status: "ok", Version: ProtocolVersion, Programs: len(s.programs)}
	if !s.startTime.IsZero() {
		resp.UptimeSeconds = int64(s.clock().Sub(s.startTime).Seconds())
	}
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMovements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"movements": s.catalog.Movements})
}

func (s *Server) handlePrograms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if r.Body == nil {
		writeDetail(w, http.StatusBadRequest, "empty body")
		return
	}
	reader := http.MaxBytesReader(w, r.Body, s.settings.MaxBodyBytes)
	defer reader.Close()
	body, err := io.ReadAll(reader)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeDetail(w, http.StatusRequestEntityTooLarge, "payload exceeds limit")
			return
		}
		writeDetail(w, http.StatusBadRequest, "unable to read body")
		return
	}
	var req submission.CreationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	program, replayed, found := s.create(key, req)
	switch {
	case replayed:
		s.logger.Printf("devserver: replayed key %s -> %s", key, program.ID)
	case len(found) > 0:
		s.logger.Printf("devserver: rejected program with %d problem(s)", len(found))
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": found})
		return
	default:
		s.logger.Printf("devserver: created program %s (%d goals)", program.ID, len(req.Goals))
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": program.ID})
}

// create replays key when it was seen before, otherwise validates req and
// stores a new program. The lookup and the insert share one critical section
// so concurrent requests with the same key create a single program.
func (s *Server) create(key string, req submission.CreationRequest) (Program, bool, problems) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if key != "" {
		if id, ok := s.byKey[key]; ok {
			return Program{ID: id}, true, nil
		}
	}
	if found := validateRequest(req, s.catalog); len(found) > 0 {
		return Program{}, false, found
	}
	program := Program{ID: s.newID(), Request: req, CreatedAt: s.clock()}
	s.programs = append(s.programs, program)
	s.rememberKey(key, program.ID)
	return program, false, nil
}

// rememberKey must be called with s.mu held.
func (s *Server) rememberKey(key, id string) {
	if key == "" {
		return
	}
	s.byKey[key] = id
	s.keyOrder = append(s.keyOrder, key)
	if len(s.keyOrder) > rememberedKeys {
		delete(s.byKey, s.keyOrder[0])
		s.keyOrder = s.keyOrder[1:]
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
