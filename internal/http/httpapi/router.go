package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/cseifert512/Drafted/internal/http/handlers"
	"github.com/cseifert512/Drafted/internal/middleware"
)

type RouterOptions struct {
	CORSAllowedOrigins []string
	SubmitRateLimit    int
	SubmitRateWindow   time.Duration
}

func NewRouter(app *handlers.App, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.Logger(app.Logger))
	if len(opts.CORSAllowedOrigins) > 0 {
		r.Use(middleware.CORS(opts.CORSAllowedOrigins))
	}

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/plans/{planID}/openings", func(r chi.Router) {
		if opts.SubmitRateLimit > 0 {
			r.With(middleware.RateLimit(opts.SubmitRateLimit, opts.SubmitRateWindow)).Post("/", app.SubmitOpening)
		} else {
			r.Post("/", app.SubmitOpening)
		}
		r.Delete("/{openingID}", app.RemoveOpening)
	})

	r.Get("/v1/openings/jobs/{jobID}", app.OpeningStatus)

	return r
}
