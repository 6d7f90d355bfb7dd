package main

import (
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
	"golang.org/x/time/rate"

	"github.com/chedr/vault-cli/internal/feedback"
	"github.com/chedr/vault-cli/internal/model"
	"github.com/chedr/vault-cli/internal/monitoring"
	"github.com/chedr/vault-cli/internal/vault"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the vault HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx, "serve")
		if err != nil {
			return err
		}
		defer env.Close()

		collector := monitoring.NewCollector(env.Vault, env.Recorder)
		alerter := monitoring.NewAlerter(cfg.Monitoring)
		go monitoring.NewChecker(collector, alerter, cfg.Monitoring).Run(ctx)

		api := &apiServer{env: env, collector: collector}
		r := newRouter(api, cfg.Server.RatePerSecond, cfg.Server.RateBurst)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newRouter wires the API routes with cors and rate limiting.
func newRouter(api *apiServer, ratePerSecond, burst int) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(rateLimit(rate.Limit(ratePerSecond), burst))

	r.Get("/health", api.health)
	r.Get("/metrics", api.metrics)

	r.Route("/documents", func(r chi.Router) {
		r.Get("/", api.listDocuments)
		r.Post("/", api.createDocument)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", api.getDocument)
			r.Patch("/", api.patchDocument)
			r.Delete("/", api.deleteDocument)
			r.Get("/anomalies", api.documentAnomalies)
			r.Post("/fields/{fieldID}", api.editField)
		})
	})

	r.Get("/taxdata", api.getTaxData)
	r.Put("/taxdata", api.putTaxData)

	return r
}

// rateLimit returns middleware rejecting requests beyond the shared
// token-bucket budget with 429.
func rateLimit(limit rate.Limit, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(limit, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type apiServer struct {
	env       *vaultEnv
	collector *monitoring.Collector
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *apiServer) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *apiServer) metrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.collector.Collect())
}

func (a *apiServer) listDocuments(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("filter")
	if filter == "" {
		filter = string(vault.FilterAll)
	}
	if !vault.ValidFilter(filter) {
		http.Error(w, `{"error":"invalid filter"}`, http.StatusBadRequest)
		return
	}

	a.env.Vault.SetFilter(vault.Filter(filter))
	writeJSON(w, http.StatusOK, a.env.Vault.Filtered())
}

// createDocumentRequest is the POST /documents payload. Both ingest paths
// land here: a chat-delivered document arrives fully formed with an id and
// fields, a raw upload arrives as just the file descriptor and is
// classified locally.
type createDocumentRequest struct {
	model.ProcessedDocument

	Size     int64  `json:"size,omitempty"`
	MIMEType string `json:"mimeType,omitempty"`
}

func (a *apiServer) createDocument(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, `{"error":"name is required"}`, http.StatusBadRequest)
		return
	}

	var doc model.ProcessedDocument
	if req.ID != "" {
		// Fully formed chat payload, stored as-is.
		doc = req.ProcessedDocument
		a.env.Vault.Add(doc)
	} else {
		doc = vault.NewDocument(vault.RawFile{
			Name:         req.Name,
			Size:         req.Size,
			MIMEType:     req.MIMEType,
			ThumbnailURL: req.ThumbnailURL,
			RawText:      req.RawText,
		})
		a.env.Vault.Add(doc)
		a.env.Extractor.Start(doc)
	}

	if err := a.env.Storage.SaveDocument(r.Context(), doc); err != nil {
		zap.L().Error("persist document", zap.String("id", doc.ID), zap.Error(err))
	}

	writeJSON(w, http.StatusCreated, doc)
}

func (a *apiServer) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := a.env.Vault.Get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, `{"error":"document not found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (a *apiServer) patchDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch model.DocumentPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	// Unknown ids are a silent no-op on both the live vault and the store.
	a.env.Vault.Update(id, patch)
	if err := a.env.Storage.UpdateDocument(r.Context(), id, patch); err != nil {
		zap.L().Error("persist patch", zap.String("id", id), zap.Error(err))
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *apiServer) deleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	a.env.Vault.Remove(id)
	if err := a.env.Storage.DeleteDocument(r.Context(), id); err != nil {
		zap.L().Error("persist delete", zap.String("id", id), zap.Error(err))
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *apiServer) documentAnomalies(w http.ResponseWriter, r *http.Request) {
	doc, ok := a.env.Vault.Get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, `{"error":"document not found"}`, http.StatusNotFound)
		return
	}

	ids := feedback.DetectAnomalies(doc.Fields)
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"documentId": doc.ID,
		"anomalies":  ids,
	})
}

func (a *apiServer) editField(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "id")
	fieldID := chi.URLParam(r, "fieldID")

	var req struct {
		Value any `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	old, ok := a.env.Vault.EditField(docID, fieldID, req.Value)
	if !ok {
		http.Error(w, `{"error":"field not found"}`, http.StatusNotFound)
		return
	}

	a.env.Recorder.Record(fieldID, old, req.Value)

	doc, _ := a.env.Vault.Get(docID)
	if err := a.env.Storage.UpdateDocument(r.Context(), docID, model.DocumentPatch{Fields: doc.Fields}); err != nil {
		zap.L().Error("persist field edit", zap.String("id", docID), zap.Error(err))
	}

	writeJSON(w, http.StatusOK, doc)
}

func (a *apiServer) getTaxData(w http.ResponseWriter, r *http.Request) {
	data, err := a.env.Storage.GetTaxData(r.Context())
	if err != nil {
		http.Error(w, `{"error":"read tax data"}`, http.StatusInternalServerError)
		return
	}
	if data == nil {
		http.Error(w, `{"error":"no tax data"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (a *apiServer) putTaxData(w http.ResponseWriter, r *http.Request) {
	var data model.TaxSummary
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	if err := a.env.Storage.SaveTaxData(r.Context(), data); err != nil {
		http.Error(w, `{"error":"save tax data"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
