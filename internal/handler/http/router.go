package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/product-catalog/internal/service"
	"github.com/utafrali/product-catalog/pkg/health"
	"github.com/utafrali/product-catalog/pkg/middleware"
	"github.com/utafrali/product-catalog/pkg/pagination"
)

// RouterConfig carries the settings NewRouter needs besides handlers.
type RouterConfig struct {
	ServiceName       string
	CORS              middleware.CORSConfig
	PprofAllowedCIDRs []string
	Limits            pagination.Limits

	// Registry receives the HTTP collectors and backs /metrics. Nil uses
	// the Prometheus default registry.
	Registry *prometheus.Registry
}

// NewRouter creates a chi router with all catalog routes registered.
func NewRouter(
	productService *service.ProductService,
	healthHandler *health.Handler,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if cfg.Registry != nil {
		registerer, gatherer = cfg.Registry, cfg.Registry
	}
	metrics := middleware.NewHTTPMetrics(registerer, cfg.ServiceName)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(metrics.Middleware)
	r.Use(middleware.Recovery(logger))

	// Operational endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)

	productHandler := NewProductHandler(productService, cfg.Limits, logger)

	r.Route("/products", func(r chi.Router) {
		r.Use(middleware.CacheControl("no-store"))
		r.Use(middleware.RequireJSON)

		r.Get("/", productHandler.ListProducts)
		r.Post("/", productHandler.AddProduct)
		r.Get("/{productId}", productHandler.GetProduct)
		r.Put("/{productId}/update", productHandler.UpdateProduct)
		r.Delete("/{productId}/delete", productHandler.DeleteProduct)

		// Filters
		r.Get("/by/brand-and-name", productHandler.GetProductsByBrandAndName)
		r.Get("/by/category-and-brand", productHandler.GetProductsByCategoryAndBrand)
		r.Get("/name/{name}", productHandler.GetProductsByName)
		r.Get("/product/by-brand", productHandler.GetProductsByBrand)
		r.Get("/product/{category}/all/products", productHandler.GetProductsByCategory)
		r.Get("/product/count/by-brand/and-name", productHandler.CountProductsByBrandAndName)
	})

	categoryHandler := NewCategoryHandler(productService, logger)

	r.Route("/categories", func(r chi.Router) {
		r.Use(middleware.CacheControl("no-store"))
		r.Get("/", categoryHandler.ListCategories)
	})

	return r
}
