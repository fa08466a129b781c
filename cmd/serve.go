package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadscore/internal/model"
	"github.com/sells-group/leadscore/internal/scorer"
	"github.com/sells-group/leadscore/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the scoring HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		engine, err := newEngine()
		if err != nil {
			return err
		}

		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(engine, s),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutCtx)
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

// newRouter wires the scoring API routes.
func newRouter(engine *scorer.Engine, s store.Store) http.Handler {
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

	r.Post("/api/score", handleScore(engine, s))
	r.Post("/api/score/batch", handleScoreBatch(engine))
	r.Get("/api/scores", handleListScores(s))
	r.Get("/api/scores/{id}", handleGetScore(s))

	return r
}

func handleScore(engine *scorer.Engine, s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var lead model.Lead
		if err := json.NewDecoder(req.Body).Decode(&lead); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result := engine.Score(req.Context(), lead)
		resp := struct {
			Lead     model.Lead        `json:"lead"`
			Result   model.ScoreResult `json:"result"`
			Insights *scorer.Insights  `json:"insights,omitempty"`
			RecordID string            `json:"record_id,omitempty"`
		}{Lead: lead, Result: result}

		if req.URL.Query().Get("insights") == "true" {
			ins := scorer.BuildInsights(lead, result)
			resp.Insights = &ins
		}

		if req.URL.Query().Get("save") == "true" && s != nil {
			rec := store.NewRecord(model.ScoredLead{Lead: lead, Result: result}, time.Now())
			if err := s.SaveScore(req.Context(), &rec); err != nil {
				zap.L().Error("save score failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "failed to save score")
				return
			}
			resp.RecordID = rec.ID
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func handleScoreBatch(engine *scorer.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var leads []model.Lead
		if err := json.NewDecoder(req.Body).Decode(&leads); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(leads) == 0 {
			writeError(w, http.StatusBadRequest, "no leads provided")
			return
		}

		writeJSON(w, http.StatusOK, engine.ScoreBatch(req.Context(), leads))
	}
}

func handleListScores(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		filter := store.ScoreFilter{
			LeadID: q.Get("lead_id"),
			Grade:  q.Get("grade"),
		}
		if v := q.Get("min_score"); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid min_score")
				return
			}
			filter.MinScore = f
		}
		if v := q.Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid limit")
				return
			}
			filter.Limit = n
		}
		if v := q.Get("offset"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid offset")
				return
			}
			filter.Offset = n
		}

		recs, err := s.ListScores(req.Context(), filter)
		if err != nil {
			zap.L().Error("list scores failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to list scores")
			return
		}
		if recs == nil {
			recs = []store.ScoreRecord{}
		}
		writeJSON(w, http.StatusOK, recs)
	}
}

func handleGetScore(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		rec, err := s.GetScore(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			zap.L().Error("get score failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to get score")
			return
		}
		if rec == nil {
			writeError(w, http.StatusNotFound, "score not found")
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
