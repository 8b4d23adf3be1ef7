package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/narrisia/inbox-intel/internal/model"
)

var servePort int

// maxEnrichRequestBytes caps a single enrichment request body.
const maxEnrichRequestBytes = 4 << 20

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP enrichment API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		orch, err := buildOrchestrator(cfg)
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(orch),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// enricher is the orchestrator surface the HTTP handlers need.
type enricher interface {
	Enrich(ctx context.Context, msgs []model.RawMessage, domainContext string) ([]model.EnrichmentResult, error)
}

func newRouter(orch enricher) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/v1/enrich", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Messages      []model.RawMessage `json:"messages"`
			DomainContext string             `json:"domain_context"`
		}
		dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxEnrichRequestBytes))
		if err := dec.Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if len(body.Messages) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "messages is required"})
			return
		}

		results, err := orch.Enrich(req.Context(), body.Messages, body.DomainContext)
		if err != nil {
			zap.L().Error("api enrichment failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "enrichment failed"})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"count":   len(results),
			"results": results,
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
