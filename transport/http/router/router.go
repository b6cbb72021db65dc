package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"fair/config"
	_ "fair/docs" // swagger definitions
	"fair/infras/metrics"
	"fair/internal/handlers/auth"
	"fair/internal/handlers/booth"
	"fair/internal/handlers/exhibitor"
	"fair/internal/handlers/reservation"
	"fair/internal/handlers/stats"
	"fair/internal/handlers/transaction"
	"fair/internal/handlers/user"
	"fair/transport/http/middleware"
)

const requestTimeout = 30 * time.Second

type DomainHandlers struct {
	Auth        auth.Handler
	User        user.Handler
	Booth       booth.Handler
	Exhibitor   exhibitor.Handler
	Reservation reservation.Handler
	Transaction transaction.Handler
	Stats       stats.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	cfg            *config.Config
	app            middleware.AppMiddleware
	auth           middleware.AuthRole
	metrics        metrics.Metrics
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(
		chiMiddleware.RequestID,
		chiMiddleware.RealIP,
		chiMiddleware.Recoverer,
	)

	if r.cfg.App.CORS.Enable {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   r.cfg.App.CORS.AllowedOrigins,
			AllowedMethods:   r.cfg.App.CORS.AllowedMethods,
			AllowedHeaders:   r.cfg.App.CORS.AllowedHeaders,
			AllowCredentials: r.cfg.App.CORS.AllowCredentials,
			MaxAge:           r.cfg.App.CORS.MaxAgeSeconds,
		}))
	}

	router.Use(
		r.app.Tracing,
		r.app.Metrics,
		r.app.RateLimit(),
	)

	router.Method(http.MethodGet, "/metrics", r.metrics.Handler())
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(
			r.auth.APIKey,
			r.auth.Auth,
			r.auth.RBAC,
			chiMiddleware.Timeout(requestTimeout),
		)

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Booth.Router(routerGroup)
		r.DomainHandlers.Exhibitor.Router(routerGroup)
		r.DomainHandlers.Reservation.Router(routerGroup)
		r.DomainHandlers.Transaction.Router(routerGroup)
		r.DomainHandlers.Stats.Router(routerGroup)
	})
}

func New(
	domainHandlers DomainHandlers,
	cfg *config.Config,
	app middleware.AppMiddleware,
	auth middleware.AuthRole,
	metrics metrics.Metrics,
) Router {
	return Router{
		DomainHandlers: domainHandlers,
		cfg:            cfg,
		app:            app,
		auth:           auth,
		metrics:        metrics,
	}
}
