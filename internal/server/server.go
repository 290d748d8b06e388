// Package server exposes the assistant over HTTP for the browser widget.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"trove-assistant/internal/assistant"
)

type Server struct {
	engine    *assistant.Engine
	staticDir string
}

func New(engine *assistant.Engine, staticDir string) *Server {
	return &Server{engine: engine, staticDir: staticDir}
}

// Router builds the widget API. Non-POST verbs on the API endpoints get 405
// with a JSON error, matching the widget's expectations.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(cors([]string{"*"}))
	r.Use(sessionCookie)

	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
	})

	r.Post("/api/chat", s.handleChat)
	r.Post("/api/speak", s.handleSpeak)
	r.Get("/api/pending-speech", s.handlePendingSpeech)
	r.Get("/ws/chat", s.handleWebSocket)

	if s.staticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.staticDir)))
	}

	return r
}
