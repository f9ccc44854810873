package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/gymsuite/gymsuite-backend/config"
	accounthttp "github.com/gymsuite/gymsuite-backend/internal/accounts/http"
	accountservice "github.com/gymsuite/gymsuite-backend/internal/accounts/service"
	httpapi "github.com/gymsuite/gymsuite-backend/internal/api/http"
	"github.com/gymsuite/gymsuite-backend/internal/api/http/middleware"
	authmw "github.com/gymsuite/gymsuite-backend/internal/auth/middleware"
	clubhttp "github.com/gymsuite/gymsuite-backend/internal/clubs/http"
	clubservice "github.com/gymsuite/gymsuite-backend/internal/clubs/service"
)

type RouterDeps struct {
	Config   *config.Config
	Store    httpapi.Pinger
	Accounts *accountservice.AccountService
	Clubs    *clubservice.ClubService
	Tokens   authmw.TokenVerifier
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	cfg := dep.Config

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           5 * time.Minute,
	}))

	healthHandler := httpapi.NewHealthHandler(cfg.App.Name, cfg.App.Version, dep.Store)
	healthHandler.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group(cfg.Server.APIPrefix)
	api.Use(middleware.TimeoutMiddleware(cfg.Store.Timeout))
	api.GET("/", healthHandler.Root)
	healthHandler.RegisterRoutes(api)

	accountsHandler := accounthttp.New(dep.Accounts)
	clubsHandler := clubhttp.New(dep.Clubs)

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
	public := api.Group("")
	public.Use(limiter.Middleware())
	accountsHandler.RegisterPublic(public)

	protected := api.Group("")
	if cfg.Auth.RequireAuth {
		protected.Use(authmw.BearerAuthMiddleware(dep.Tokens))
	}
	accountsHandler.Register(protected)
	clubsHandler.Register(protected)

	return r
}

// LogRoutes prints the route table once at startup.
func LogRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		log.Info().Str("method", route.Method).Str("path", route.Path).Msg("route registered")
	}
}
