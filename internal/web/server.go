package web

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"sortable-cli/internal/bridge"
	"sortable-cli/internal/ingest"
	"sortable-cli/internal/model"
	"sortable-cli/internal/render"
	"sortable-cli/internal/reorder"
)

//go:embed templates/*.html static/*.css static/*.js
var assetsFS embed.FS

const maxBodyBytes = 4 << 20

type ServerConfig struct {
	Addr     string
	Initial  model.Tree
	Deferred bool
	// Observer sees every processed change (persistence).
	Observer func(bridge.Change)
	Log      *slog.Logger
}

// Server hosts one sortable tree. Browsers are the drag layer; every
// connected WebSocket client is part of the notification sink.
type Server struct {
	cfg    ServerConfig
	tmpl   *template.Template
	log    *slog.Logger
	hub    *hub
	bridge *bridge.Bridge
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("web: missing addr")
	}
	tmpl, err := template.ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	s := &Server{cfg: cfg, tmpl: tmpl, log: log, hub: newHub(log)}
	opts := []bridge.Option{bridge.WithLogger(log), bridge.WithDeferred(cfg.Deferred)}
	if cfg.Observer != nil {
		opts = append(opts, bridge.WithObserver(cfg.Observer))
	}
	s.bridge = bridge.New(cfg.Initial, s.hub.notify, opts...)
	return s, nil
}

func (s *Server) Addr() string { return strings.TrimSpace(s.cfg.Addr) }

func (s *Server) Bridge() *bridge.Bridge { return s.bridge }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/tree", s.handleGetTree)
	mux.HandleFunc("PUT /api/tree", s.handlePutTree)
	mux.HandleFunc("POST /api/drag", s.handleDrag)
	mux.HandleFunc("GET /ws", s.handleWS)

	mux.HandleFunc("GET /static/app.css", s.handleStatic("static/app.css", "text/css; charset=utf-8"))
	mux.HandleFunc("GET /static/app.js", s.handleStatic("static/app.js", "text/javascript; charset=utf-8"))

	return mux
}

func (s *Server) handleStatic(path, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := assetsFS.ReadFile(path)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(b)
	}
}

type indexVM struct {
	Tree         template.HTML
	InitialValue string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	tree := s.bridge.Value()
	html, err := render.HTML(tree)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	raw, _ := json.Marshal(tree)
	vm := indexVM{Tree: html, InitialValue: string(raw)}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "index.html", vm); err != nil {
		s.log.Error("render index", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleGetTree(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"data": s.bridge.Value()})
}

// handlePutTree is the inbound direction: the body replaces the tree wholesale.
func (s *Server) handlePutTree(w http.ResponseWriter, r *http.Request) {
	b, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}
	t, err := ingest.Parse(b, "json")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}
	s.bridge.SetValue(t)
	writeJSON(w, http.StatusOK, map[string]any{"data": s.bridge.Value()})
}

func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	var evt reorder.DragEvent
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&evt); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}
	if err := s.bridge.HandleDragEnd(evt); err != nil {
		writeJSON(w, http.StatusConflict, map[string]any{"error": err.Error(), "data": s.bridge.Value()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": s.bridge.Value()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
