package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	rserrors "github.com/roomsmith/roomsmith/pkg/errors"
	"github.com/roomsmith/roomsmith/pkg/pipeline"
	"github.com/roomsmith/roomsmith/pkg/scene"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr         string // listen address
	storeSpec    string // layout store URL or path
	engineURL    string // engine bridge base URL
	defaultsPath string // defaults override file (TOML)
	noCache      bool   // bypass the prompt response cache
}

// serveCommand creates the serve command exposing the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: ":8090"}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the pipeline over HTTP",
		Long: `Expose the pipeline over HTTP.

Endpoints:
  GET  /healthz    liveness check
  GET  /v1/layout  the persisted object transforms
  POST /v1/build   run a build; body is a JSON options object
                   {"prompt": ..., "pin": ..., "apply": ...}

Builds run through the same runner as the CLI, so store and engine
semantics are identical. The server shuts down cleanly on SIGINT.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.storeSpec, "store", "", "layout store (file path, redis://, mongodb://, .db; default: XDG data dir)")
	cmd.Flags().StringVar(&opts.engineURL, "engine", "", "engine bridge base URL (default: $ROOMSMITH_ENGINE_URL)")
	cmd.Flags().StringVar(&opts.defaultsPath, "defaults", "", "TOML file overriding built-in size tables")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the prompt response cache")

	return cmd
}

// runServe wires the backends and serves until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	defaults, err := loadDefaults(opts.defaultsPath)
	if err != nil {
		return err
	}

	runner, cleanup, err := c.newRunner(runnerConfig{
		storeSpec: resolveStoreSpec(opts.storeSpec),
		engineURL: resolveEngineURL(opts.engineURL),
		noCache:   opts.noCache,
		describer: true,
	})
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           newServeMux(runner, defaults),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", opts.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// buildRequest is the POST /v1/build body.
type buildRequest struct {
	Prompt string `json:"prompt,omitempty"`
	Pin    bool   `json:"pin,omitempty"`
	Apply  bool   `json:"apply,omitempty"`
}

// buildResponse is the POST /v1/build reply.
type buildResponse struct {
	Scene    any      `json:"scene"`
	Layout   any      `json:"layout"`
	Plan     any      `json:"plan"`
	Warnings []string `json:"warnings,omitempty"`
}

// newServeMux builds the HTTP routes.
func newServeMux(runner *pipeline.Runner, defaults *scene.Defaults) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/v1/layout", func(w http.ResponseWriter, req *http.Request) {
		transforms, err := runner.Store.Load(req.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, transforms)
	})

	r.Post("/v1/build", func(w http.ResponseWriter, req *http.Request) {
		var body buildRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
			return
		}

		result, err := runner.Build(req.Context(), pipeline.Options{
			Prompt:   body.Prompt,
			Defaults: defaults,
			Pin:      body.Pin,
			Apply:    body.Apply,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, buildResponse{
			Scene:    result.Scene,
			Layout:   result.Layout,
			Plan:     result.Plan,
			Warnings: result.Layout.Warnings,
		})
	})

	return r
}

// writeJSON encodes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps coded errors to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case rserrors.Is(err, rserrors.ErrCodeInvalidInput) || rserrors.IsValidation(err):
		status = http.StatusBadRequest
	case rserrors.Is(err, rserrors.ErrCodePlacementInfeasible),
		rserrors.Is(err, rserrors.ErrCodeUnresolvedDependency):
		status = http.StatusUnprocessableEntity
	case rserrors.Is(err, rserrors.ErrCodeEngineFailed),
		rserrors.Is(err, rserrors.ErrCodeDescribeFailed),
		rserrors.Is(err, rserrors.ErrCodeStoreFailed):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
