// pkg/service/server.go
package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/ivikasavnish/go-scriptgen/pkg/actions"
	"github.com/ivikasavnish/go-scriptgen/pkg/codegen"
)

// Server exposes recorded sessions and script generation over HTTP
type Server struct {
	store      Store
	devices    *codegen.DeviceRegistry
	generators map[string]codegen.LanguageGenerator
	router     *mux.Router
	logger     *logrus.Logger
}

// ServerOption configures a Server
type ServerOption func(*Server)

// WithLogger sets the server's logger
func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithDevices sets the device registry used for script generation
func WithDevices(registry *codegen.DeviceRegistry) ServerOption {
	return func(s *Server) {
		s.devices = registry
	}
}

// WithGenerator registers an additional target-language generator
func WithGenerator(g codegen.LanguageGenerator) ServerOption {
	return func(s *Server) {
		s.generators[g.ID()] = g
	}
}

// NewServer creates a new script generation server instance
func NewServer(store Store, opts ...ServerOption) *Server {
	if store == nil {
		store = NewMemoryStore()
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s := &Server{
		store:      store,
		devices:    codegen.DefaultDevices(),
		generators: make(map[string]codegen.LanguageGenerator),
		router:     mux.NewRouter(),
		logger:     logger,
	}

	for _, opt := range opts {
		opt(s)
	}

	if _, exists := s.generators["csharp"]; !exists {
		s.generators["csharp"] = codegen.NewCSharpGenerator(s.devices)
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	s.router.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	s.router.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	s.router.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")
	s.router.HandleFunc("/sessions/{id}/generate", s.handleGenerateScript).Methods("POST")
	s.router.HandleFunc("/devices", s.handleListDevices).Methods("GET")
}

// ServeHTTP implements the http.Handler interface
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start starts the server on the specified address
func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s)
}

// Request/Response types
type CreateSessionRequest struct {
	ID      string           `json:"id"`
	Session *actions.Session `json:"session"`
}

type GenerateRequest struct {
	Language string                   `json:"language,omitempty"`
	Options  codegen.GeneratorOptions `json:"options"`
}

type GenerateResponse struct {
	Language string `json:"language"`
	Script   string `json:"script"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rec := &Recording{
		ID:        req.ID,
		Session:   req.Session,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.store.Create(rec); err != nil {
		status := http.StatusInternalServerError
		if err == ErrSessionExists {
			status = http.StatusConflict
		} else if err == ErrInvalidID || err == ErrInvalidSession {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}

	s.logger.WithFields(logrus.Fields{
		"session": rec.ID,
		"actions": len(rec.Session.Actions),
	}).Info("session stored")

	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	recordings := s.store.List()
	writeJSON(w, http.StatusOK, recordings)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rec, err := s.store.Get(id)
	if err != nil {
		status := http.StatusInternalServerError
		if err == ErrSessionNotFound {
			status = http.StatusNotFound
		}
		writeError(w, status, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := s.store.Delete(id); err != nil {
		status := http.StatusInternalServerError
		if err == ErrSessionNotFound {
			status = http.StatusNotFound
		}
		writeError(w, status, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGenerateScript(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	// An empty body falls back to the default language and options
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rec, err := s.store.Get(id)
	if err != nil {
		status := http.StatusInternalServerError
		if err == ErrSessionNotFound {
			status = http.StatusNotFound
		}
		writeError(w, status, err)
		return
	}

	language := req.Language
	if language == "" {
		language = "csharp"
	}
	generator, exists := s.generators[language]
	if !exists {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unsupported language: %s", language))
		return
	}

	script, err := codegen.GenerateScript(generator, &req.Options, rec.Session.Actions)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.logger.WithFields(logrus.Fields{
		"session":  id,
		"language": language,
		"actions":  len(rec.Session.Actions),
	}).Info("script generated")

	writeJSON(w, http.StatusOK, GenerateResponse{Language: language, Script: script})
}

func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.devices.Names())
}
