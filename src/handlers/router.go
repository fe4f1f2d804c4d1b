package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/username/tradeperf/src/utils"
	"golang.org/x/time/rate"
)

// RouterOptions configures the shared middleware.
type RouterOptions struct {
	Limiter        *rate.Limiter // nil disables rate limiting
	AllowedOrigins []string
}

// NewRouter mounts the HTML and JSON routes.
func NewRouter(uploadHandler *UploadHandler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(ContextualLoggerMiddleware)
	r.Use(ProxyHeadersMiddleware)
	r.Use(CORSMiddleware(opts.AllowedOrigins))
	if opts.Limiter != nil {
		r.Use(RateLimitMiddleware(opts.Limiter))
	}

	r.Get("/", uploadHandler.HandleIndex)
	r.Post("/", uploadHandler.HandleUploadPage)
	r.Get("/reports/{id}", uploadHandler.HandleGetReportPage)
	r.Get("/healthz", uploadHandler.HandleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/upload", uploadHandler.HandleUpload)
		r.Get("/reports/{id}", uploadHandler.HandleGetReport)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			utils.SendJSONError(w, "Not found.", http.StatusNotFound)
			return
		}
		http.NotFound(w, r)
	})

	return r
}
