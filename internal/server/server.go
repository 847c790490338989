package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"blogd/internal/model"
	"blogd/internal/store"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Server struct {
	store  store.Store
	logger *zap.Logger
	router *mux.Router
	server *http.Server
}

func NewServer(st store.Store, logger *zap.Logger) *Server {
	s := &Server{
		store:  st,
		logger: logger,
		router: mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/posts", s.handleListPosts).Methods("GET")
	s.router.HandleFunc("/posts", s.handleCreatePost).Methods("POST")
	s.router.HandleFunc("/posts/{id}", s.handleGetPost).Methods("GET")
	s.router.HandleFunc("/posts/{id}", s.handleUpdatePost).Methods("PUT")
	s.router.HandleFunc("/posts/{id}", s.handleDeletePost).Methods("DELETE")
	s.router.HandleFunc("/imports", s.handleQueueImport).Methods("POST")
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start launches the HTTP server
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	s.logger.Info("API server listening", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) respond(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			s.logger.Error("Failed to encode response", zap.Error(err))
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respond(w, status, map[string]string{"error": msg})
}

// pathID parses the {id} route variable; a non-UUID is a 400.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid post id")
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("Failed to list posts", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	s.respond(w, http.StatusOK, map[string][]model.Post{"posts": posts})
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	post, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "post not found")
		return
	} else if err != nil {
		s.logger.Error("Failed to fetch post", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	s.respond(w, http.StatusOK, post)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var in model.Post
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	post := model.NewPost(in.Author, in.Title, in.Content)
	if err := post.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.Create(r.Context(), &post); err != nil {
		s.logger.Error("Failed to create post", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	s.logger.Info("Post created",
		zap.String("id", post.ID.String()),
		zap.String("title", post.Title))
	s.respond(w, http.StatusCreated, post)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var in model.Post
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	post, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "post not found")
		return
	} else if err != nil {
		s.logger.Error("Failed to fetch post", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	post.ApplyUpdate(in)

	if err := s.store.Update(r.Context(), post); err != nil {
		s.logger.Error("Failed to update post", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	err := s.store.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "post not found")
		return
	} else if err != nil {
		s.logger.Error("Failed to delete post", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleQueueImport(w http.ResponseWriter, r *http.Request) {
	var in struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.URL == "" {
		s.respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	if err := s.store.PushImport(r.Context(), in.URL); err != nil {
		s.logger.Error("Failed to queue import", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	s.respond(w, http.StatusAccepted, map[string]string{"queued": in.URL})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}
