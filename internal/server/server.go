package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"adflow/internal/api"
	"adflow/internal/config"
	"adflow/internal/ideation"
	"adflow/internal/logging"
	"adflow/internal/store"
)

// Server hosts the JSON API over the pipeline services.
type Server struct {
	cfg    *config.Config
	logger *slog.Logger

	scripts  *api.ScriptService
	tasks    *api.TaskService
	team     *api.TeamService
	catalog  *api.CatalogService
	ideation *api.IdeationService

	handler  http.Handler
	listener net.Listener
	server   *http.Server
}

// New wires the services and router. The generator may be nil when the LLM is
// not configured; ideation endpoints then reject requests.
func New(cfg *config.Config, st *store.Store, generator *ideation.Generator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		cfg:      cfg,
		logger:   logging.WithComponent(logger, "api-server"),
		scripts:  api.NewScriptService(st, logger),
		tasks:    api.NewTaskService(st, logger),
		team:     api.NewTeamService(st, logger),
		catalog:  api.NewCatalogService(st, logger),
		ideation: api.NewIdeationService(st, generator, logger),
	}

	router := mux.NewRouter()
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	v1 := router.PathPrefix("/api/v1").Subrouter()

	v1.HandleFunc("/products", s.handleListProducts).Methods(http.MethodGet)
	v1.HandleFunc("/products", s.handleCreateProduct).Methods(http.MethodPost)
	v1.HandleFunc("/products/{id}", s.handleGetProduct).Methods(http.MethodGet)
	v1.HandleFunc("/products/{id}", s.handleUpdateProduct).Methods(http.MethodPut)
	v1.HandleFunc("/products/{id}", s.handleDeleteProduct).Methods(http.MethodDelete)

	v1.HandleFunc("/icps", s.handleListICPs).Methods(http.MethodGet)
	v1.HandleFunc("/icps", s.handleCreateICP).Methods(http.MethodPost)
	v1.HandleFunc("/icps/{id}", s.handleGetICP).Methods(http.MethodGet)
	v1.HandleFunc("/icps/{id}", s.handleUpdateICP).Methods(http.MethodPut)
	v1.HandleFunc("/icps/{id}", s.handleDeleteICP).Methods(http.MethodDelete)

	v1.HandleFunc("/concepts", s.handleListConcepts).Methods(http.MethodGet)
	v1.HandleFunc("/concepts", s.handleCreateConcept).Methods(http.MethodPost)
	v1.HandleFunc("/concepts/{id}", s.handleGetConcept).Methods(http.MethodGet)
	v1.HandleFunc("/concepts/{id}", s.handleUpdateConcept).Methods(http.MethodPut)
	v1.HandleFunc("/concepts/{id}", s.handleDeleteConcept).Methods(http.MethodDelete)

	v1.HandleFunc("/scripts", s.handleListScripts).Methods(http.MethodGet)
	v1.HandleFunc("/scripts", s.handleCreateScript).Methods(http.MethodPost)
	v1.HandleFunc("/scripts/{id}", s.handleGetScript).Methods(http.MethodGet)
	v1.HandleFunc("/scripts/{id}", s.handleUpdateScript).Methods(http.MethodPatch, http.MethodPut)
	v1.HandleFunc("/scripts/{id}", s.handleDeleteScript).Methods(http.MethodDelete)
	v1.HandleFunc("/scripts/{id}/versions", s.handleCreateScriptVersion).Methods(http.MethodPost)
	v1.HandleFunc("/scripts/{id}/production-tasks", s.handleCreateProductionTasks).Methods(http.MethodPost)
	v1.HandleFunc("/scripts/{id}/requirement", s.handleCreateRequirement).Methods(http.MethodPost)

	v1.HandleFunc("/tasks", s.handleListTasks).Methods(http.MethodGet)
	v1.HandleFunc("/tasks", s.handleCreateTask).Methods(http.MethodPost)
	v1.HandleFunc("/tasks/{id}", s.handleGetTask).Methods(http.MethodGet)
	v1.HandleFunc("/tasks/{id}", s.handleUpdateTask).Methods(http.MethodPatch, http.MethodPut)
	v1.HandleFunc("/tasks/{id}", s.handleDeleteTask).Methods(http.MethodDelete)

	v1.HandleFunc("/team-members", s.handleListTeamMembers).Methods(http.MethodGet)
	v1.HandleFunc("/team-members", s.handleCreateTeamMember).Methods(http.MethodPost)
	v1.HandleFunc("/team-members/{id}", s.handleGetTeamMember).Methods(http.MethodGet)
	v1.HandleFunc("/team-members/{id}", s.handleUpdateTeamMember).Methods(http.MethodPut)
	v1.HandleFunc("/team-members/{id}", s.handleDeleteTeamMember).Methods(http.MethodDelete)

	v1.HandleFunc("/ideation/concepts", s.handleGenerateConcepts).Methods(http.MethodPost)
	v1.HandleFunc("/ideation/scripts", s.handleGenerateScript).Methods(http.MethodPost)
	v1.HandleFunc("/ideation/requirements", s.handleDeriveRequirement).Methods(http.MethodPost)

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.HTTP.AllowedOrigins),
		handlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)
	s.handler = cors(router)

	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start binds the configured address and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Paths.APIBind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", slog.String("error", err.Error()))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", slog.String("address", listener.Addr().String()))
	return nil
}

// Addr returns the bound address after Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() {
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

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
