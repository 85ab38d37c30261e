package cli

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/pipsleuth/pipsleuth/pkg/errors"
	"github.com/pipsleuth/pipsleuth/pkg/inspect"
	"github.com/pipsleuth/pipsleuth/pkg/observability"
	"github.com/pipsleuth/pipsleuth/pkg/pep503"
	"github.com/pipsleuth/pipsleuth/pkg/store"
)

// newServeCmd creates the serve command, which exposes scan results over a
// JSON HTTP API.
func newServeCmd(cfg *Config) *cobra.Command {
	var (
		opts scanOpts
		addr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose scan results over a JSON HTTP API",
		Long: `Serve scan results as JSON over HTTP.

Endpoints:
  GET  /healthz              liveness check
  GET  /api/packages         scan the environment and list packages
  GET  /api/packages/{name}  one package by (normalized) name
  POST /api/scans            run a scan and persist it
  GET  /api/scans            list stored scan IDs
  GET  /api/scans/{id}       one stored scan record`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			scanOptions, err := buildScanOptions(cfg, &opts)
			if err != nil {
				return err
			}

			s, backendName, err := newStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			srv := &server{
				store:   s,
				backend: backendName,
				python:  scanOptions.PythonPath,
				source:  scanOptions.Source,
				scan: func(ctx context.Context) ([]*inspect.PackageInfo, error) {
					return collectPackages(ctx, scanOptions)
				},
			}

			logger := loggerFromContext(ctx)
			logger.Infof("Listening on %s", addr)

			httpServer := &http.Server{
				Addr:              addr,
				Handler:           srv.routes(),
				ReadHeaderTimeout: 10 * time.Second,
				BaseContext:       func(net.Listener) context.Context { return ctx },
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = httpServer.Shutdown(shutdownCtx)
			}()

			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}

	addScanFlags(cmd, &opts)
	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")

	return cmd
}

// server holds the dependencies of the HTTP API. The scan function is
// injected so handlers can be tested without a Python environment.
type server struct {
	store   store.Store
	backend string
	python  string
	source  inspect.Source
	scan    func(ctx context.Context) ([]*inspect.PackageInfo, error)
}

// routes builds the chi router for the API.
func (s *server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/packages", s.handleListPackages)
		r.Get("/packages/{name}", s.handleGetPackage)
		r.Post("/scans", s.handleCreateScan)
		r.Get("/scans", s.handleListScans)
		r.Get("/scans/{id}", s.handleGetScan)
	})
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleListPackages(w http.ResponseWriter, r *http.Request) {
	pkgs, err := s.scan(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pkgs)
}

func (s *server) handleGetPackage(w http.ResponseWriter, r *http.Request) {
	name := pep503.Normalize(chi.URLParam(r, "name"))

	pkgs, err := s.scan(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	for _, info := range pkgs {
		if pep503.Normalize(info.Name) == name {
			writeJSON(w, http.StatusOK, info)
			return
		}
	}
	writeError(w, errors.New(errors.ErrCodePackageNotFound, "package %s is not installed", name))
}

func (s *server) handleCreateScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pkgs, err := s.scan(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	rec := store.NewScanRecord(s.python, s.source, pkgs)
	if err := s.store.Put(ctx, rec); err != nil {
		writeError(w, err)
		return
	}
	observability.Store().OnPut(ctx, s.backend, rec.ID, len(rec.Packages))

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":       rec.ID,
		"packages": len(rec.Packages),
	})
}

func (s *server) handleListScans(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

func (s *server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	rec, err := s.store.Get(ctx, id)
	observability.Store().OnGet(ctx, s.backend, id, err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps error codes to HTTP status codes and writes a JSON error
// body with the user-facing message.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound, errors.ErrCodePackageNotFound, errors.ErrCodeScanNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidSource, errors.ErrCodeInvalidPath:
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}
