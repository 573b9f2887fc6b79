package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/pyqhub/mcp-server/internal/httpapi/apiresp"
)

func NewRouter(store bankStore, log *zap.Logger) http.Handler {
	h := NewHandler(store, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apiresp.WriteError(w, r, http.StatusNotFound, "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		apiresp.WriteError(w, r, http.StatusMethodNotAllowed, "")
	})

	r.Get("/healthz", h.Health)

	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/questions", h.ListQuestions)
		api.Get("/questions/export.xlsx", h.ExportQuestions)
		api.Get("/years", h.ListYears)
		api.Get("/syllabus", h.Syllabus)
		api.Get("/units/resolve", h.ResolveUnit)
		api.Get("/marks/total", h.TotalMarks)
		api.Get("/topics", h.LookupTopics)
		api.Post("/reload", h.Reload)
	})

	return r
}

// requestLogger logs one line per request with its status and latency.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			log.Info("request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("latency", time.Since(start)),
			)
		})
	}
}
