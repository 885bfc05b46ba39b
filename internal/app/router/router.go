// Package router maps the HTTP API onto the feature handlers.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"customer_backend/internal/app/di"
	platformhandler "customer_backend/internal/platform/http/handler"
	"customer_backend/internal/platform/http/middleware"
	jwtmw "customer_backend/internal/platform/jwt"
	"customer_backend/internal/shared/ratelimiter"
)

// Options carries what the router needs besides the feature handlers.
type Options struct {
	JWTSecret string
	// Limiter guards register, login and refresh. nil disables rate limiting.
	Limiter ratelimiter.Limiter
	// Checks are probed by /readyz.
	Checks map[string]platformhandler.Check
	// TrustedProxies lists the proxy addresses or CIDRs whose forwarding
	// headers set the client IP. Empty trusts none and uses the peer address.
	TrustedProxies []string
	Log            *zap.Logger
}

func NewRouter(h *di.Features, opts Options) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		opts.Log.Warn("invalid trusted proxies, trusting none", zap.Strings("proxies", opts.TrustedProxies), zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(middleware.RequestID(), middleware.Logger(opts.Log), middleware.Metrics(), gin.Recovery())

	// Public
	r.GET("/healthz", platformhandler.Health)
	r.HEAD("/healthz", platformhandler.Health)
	r.GET("/readyz", platformhandler.Readiness(opts.Checks))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limited := func(next gin.HandlerFunc) []gin.HandlerFunc {
		if opts.Limiter == nil {
			return []gin.HandlerFunc{next}
		}
		return []gin.HandlerFunc{middleware.RateLimit(opts.Limiter), next}
	}

	public := r.Group("/auth")
	{
		public.POST("/register", limited(h.Auth.Register)...)
		public.POST("/login", limited(h.Auth.Login)...)
		public.POST("/refresh", limited(h.Auth.Refresh)...)
		public.GET("/google", h.Auth.GoogleStart)
		public.GET("/google/callback", h.Auth.GoogleCallback)
	}

	// Bearer access token required
	auth := r.Group("/", jwtmw.AuthRequired(opts.JWTSecret))
	admin := jwtmw.RequireRoles("admin")
	{
		auth.GET("/auth/profile", h.Auth.Profile)
		auth.GET("/auth/me", h.Auth.Me)
		auth.POST("/auth/logout", h.Auth.Logout)

		auth.GET("/users", h.Users.List)
		auth.GET("/users/:id", h.Users.Get)
		auth.POST("/users", admin, h.Users.Create)
		auth.PATCH("/users/:id", admin, h.Users.Update)
		auth.DELETE("/users/:id", admin, h.Users.Delete)

		auth.POST("/customers", h.Customers.Create)
		auth.GET("/customers", h.Customers.List)
		auth.GET("/customers/active", h.Customers.Active)
		auth.GET("/customers/conecta-plus", h.Customers.ConectaPlus)
		auth.GET("/customers/cnpj/*cnpj", h.Customers.GetByCNPJ)
		auth.GET("/customers/:id", h.Customers.Get)
		auth.PATCH("/customers/:id", h.Customers.Update)
		auth.DELETE("/customers/:id", admin, h.Customers.Delete)

		auth.GET("/notification", h.Notifications.InactiveUsers)
	}

	return r
}
