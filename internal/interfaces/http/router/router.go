// Package router assembles the gin engine: global middleware, the
// authenticated /api/v1 groups, the public offer pages and webhooks.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/showring/backend/internal/infrastructure/auth"
	"github.com/showring/backend/internal/infrastructure/config"
	"github.com/showring/backend/internal/infrastructure/logger"
	"github.com/showring/backend/internal/interfaces/http/dto"
	"github.com/showring/backend/internal/interfaces/http/handler"
	"github.com/showring/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	middleware []gin.HandlerFunc
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// WithAPIMiddleware adds middleware to the versioned API group
func WithAPIMiddleware(middleware ...gin.HandlerFunc) RouterOption {
	return func(r *Router) {
		r.middleware = append(r.middleware, middleware...)
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		registrars: make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	if len(r.middleware) > 0 {
		api.Use(r.middleware...)
	}

	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// Handlers are the HTTP handlers the engine routes to
type Handlers struct {
	Checkout      *handler.CheckoutHandler
	Eligibility   *handler.EligibilityHandler
	Catalogue     *handler.CatalogueHandler
	Checklist     *handler.ChecklistHandler
	Judging       *handler.JudgingHandler
	OfferPages    *handler.OfferPageHandler
	StripeWebhook *handler.StripeWebhookHandler
	System        *handler.SystemHandler
}

// Options configures the engine's middleware
type Options struct {
	Env        string
	HTTP       config.HTTPConfig
	Tracing    middleware.TracingConfig
	Identifier middleware.Identifier
	// Metrics receives request metrics and serves /metrics; nil disables both
	Metrics MetricsSource
	Logger  *zap.Logger
}

// MetricsSource observes requests and exposes them for scraping
type MetricsSource interface {
	middleware.HTTPObserver
	Handler() http.Handler
}

// unobserved paths
var quietPaths = []string{"/health", "/metrics"}

// New builds the engine with every route of the service
func New(opts Options, h Handlers) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	if len(opts.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
			log.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
			_ = engine.SetTrustedProxies(nil)
		}
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(logger.Recovery(log), middleware.RequestID(), logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(opts.Tracing)...)
	if opts.Metrics != nil {
		engine.Use(middleware.HTTPMetrics(opts.Metrics, quietPaths...))
	}
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = opts.HTTP.CORSAllowOrigins
	engine.Use(
		middleware.Secure(opts.Env == "production"),
		middleware.CORS(cors),
	)
	if opts.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(opts.HTTP.MaxBodySize))
	}
	if opts.HTTP.RateLimitEnabled {
		engine.Use(middleware.RateLimit(middleware.NewRateLimiter(opts.HTTP.RateLimitRequests, opts.HTTP.RateLimitWindow)))
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeRouteNotFound, "Route not found", middleware.GetRequestID(c)))
	})
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponse(dto.ErrCodeMethodNotAllowed, "Method not allowed", middleware.GetRequestID(c)))
	})

	if h.System != nil {
		engine.GET("/health", h.System.Health)
	}
	if opts.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	if h.StripeWebhook != nil {
		engine.POST("/webhooks/stripe", h.StripeWebhook.HandleStripeWebhook)
	}
	if h.OfferPages != nil {
		public := engine.Group("/judge-contract")
		if opts.HTTP.RateLimitEnabled {
			public.Use(middleware.RateLimit(middleware.NewRateLimiter(opts.HTTP.PublicRateLimitRequests, opts.HTTP.PublicRateLimitWindow)))
		}
		public.GET("/:token", h.OfferPages.View)
		public.POST("/:token", h.OfferPages.Respond)
	}

	NewRouter(engine, WithAPIMiddleware(middleware.JWTAuth(middleware.JWTMiddlewareConfig{
		Identifier: opts.Identifier,
		Logger:     log,
	}))).
		Register(exhibitorRoutes(h)).
		Register(secretaryRoutes(h)).
		Setup()

	return engine
}

// exhibitorRoutes are open to any signed-in user; services check ownership
func exhibitorRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("exhibitor", "")
	if h.Checkout != nil {
		g.POST("/shows/:show_id/checkout", h.Checkout.Checkout)
		g.POST("/orders/:order_id/resume-payment", h.Checkout.ResumePayment)
		g.PUT("/entries/:entry_id/classes", h.Checkout.AmendClasses)
		g.POST("/payments/:payment_id/resume", h.Checkout.ResumeAmendmentPayment)
	}
	if h.Eligibility != nil {
		g.GET("/dogs/:dog_id/eligibility", h.Eligibility.Evaluate)
	}
	return g
}

// secretaryRoutes act for the caller's society
func secretaryRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("secretary", "").Use(middleware.RequireRole(auth.RoleSecretary))
	if h.Catalogue != nil {
		g.POST("/shows/:show_id/catalogue/assign", h.Catalogue.Assign)
		g.GET("/shows/:show_id/catalogue", h.Catalogue.List)
	}
	if h.Judging != nil {
		g.POST("/shows/:show_id/judge-contracts", h.Judging.SendOffer)
		g.GET("/shows/:show_id/judge-contracts", h.Judging.ListByShow)
		g.GET("/judge-contracts/:contract_id", h.Judging.Get)
		g.POST("/judge-contracts/:contract_id/confirm", h.Judging.Confirm)
	}
	if h.Checklist != nil {
		g.GET("/shows/:show_id/checklist/auto-detect", h.Checklist.AutoDetect)
		g.POST("/shows/:show_id/checklist", h.Checklist.AddItem)
	}
	return g
}

// DomainGroup creates a route group for a specific domain
type DomainGroup struct {
	name       string
	prefix     string
	handlers   []gin.HandlerFunc
	routes     []routeDefinition
	subgroups  []*DomainGroup
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	method      string
	path        string
	handlers    []gin.HandlerFunc
	description string
}

// NewDomainGroup creates a new domain-specific route group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{
		name:       name,
		prefix:     prefix,
		handlers:   make([]gin.HandlerFunc, 0),
		routes:     make([]routeDefinition, 0),
		subgroups:  make([]*DomainGroup, 0),
		middleware: make([]gin.HandlerFunc, 0),
	}
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{
		method:   "GET",
		path:     path,
		handlers: handlers,
	})
	return dg
}

// POST registers a POST route
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{
		method:   "POST",
		path:     path,
		handlers: handlers,
	})
	return dg
}

// PUT registers a PUT route
func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{
		method:   "PUT",
		path:     path,
		handlers: handlers,
	})
	return dg
}

// PATCH registers a PATCH route
func (dg *DomainGroup) PATCH(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{
		method:   "PATCH",
		path:     path,
		handlers: handlers,
	})
	return dg
}

// DELETE registers a DELETE route
func (dg *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{
		method:   "DELETE",
		path:     path,
		handlers: handlers,
	})
	return dg
}

// Group creates a sub-group within this domain
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	subgroup := NewDomainGroup(name, prefix)
	dg.subgroups = append(dg.subgroups, subgroup)
	return subgroup
}

// RegisterRoutes implements RouteRegistrar interface
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	// Create group with prefix
	group := rg.Group(dg.prefix)

	// Apply middleware
	if len(dg.middleware) > 0 {
		group.Use(dg.middleware...)
	}

	// Register routes
	for _, route := range dg.routes {
		switch route.method {
		case "GET":
			group.GET(route.path, route.handlers...)
		case "POST":
			group.POST(route.path, route.handlers...)
		case "PUT":
			group.PUT(route.path, route.handlers...)
		case "PATCH":
			group.PATCH(route.path, route.handlers...)
		case "DELETE":
			group.DELETE(route.path, route.handlers...)
		}
	}

	// Register subgroups recursively
	for _, subgroup := range dg.subgroups {
		subgroup.RegisterRoutes(group)
	}
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}
