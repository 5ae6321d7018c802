package http

import (
	"net/http"
	"time"

	_ "github.com/DRSN-tech/inventory-backend/docs" // регистрация swagger-спецификации
	"github.com/DRSN-tech/inventory-backend/internal/cfg"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const apiVersion = "1.0.0"

type Router struct {
	router *chi.Mux
	cfg    *cfg.HTTPConfig
	logger logger.Logger
}

func NewRouter(router *chi.Mux, cfg *cfg.HTTPConfig, logger logger.Logger) *Router {
	return &Router{router: router, cfg: cfg, logger: logger}
}

// Init регистрирует маршруты. idem может быть nil: тогда Idempotency-Key игнорируется.
func (r *Router) Init(catUC usecase.CategoryUC, prUC usecase.ProductUC, idem usecase.IdempotencyRepository) {
	r.router.Use(
		middleware.RequestID,
		middleware.RealIP,
		accessLog(r.logger),
		recoverer(r.logger),
		cors.Handler(cors.Options{
			AllowedOrigins: r.cfg.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", headerIdempotencyKey},
			ExposedHeaders: []string{headerReplayed},
			MaxAge:         300,
		}),
	)

	r.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, e.ErrEndpointNotFound.Error())
	})
	r.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, e.ErrMethodNotAllowed.Error())
	})

	r.router.Get("/", root)
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	idemMW := idempotency(idem, r.logger)
	r.router.Route("/api", func(api chi.Router) {
		api.Get("/health", health)
		registerCategoryRoutes(api, NewCategoryHandler(catUC, r.logger), idemMW)
		registerProductRoutes(api, NewProductHandler(prUC, r.logger), idemMW)
	})
}

func registerCategoryRoutes(router chi.Router, h *CategoryHandler, idem func(http.Handler) http.Handler) {
	router.Route("/categories", func(c chi.Router) {
		c.Get("/", h.listCategories)
		c.With(idem).Post("/", h.createCategory)
		c.Get("/{id}", h.getCategory)
		c.Put("/{id}", h.updateCategory)
		c.Delete("/{id}", h.deleteCategory)
	})
}

func registerProductRoutes(router chi.Router, h *ProductHandler, idem func(http.Handler) http.Handler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", h.listProducts)
		pr.With(idem).Post("/", h.createProduct)
		pr.Get("/category/{categoryId}", h.getProductsByCategory)
		pr.Get("/{id}", h.getProduct)
		pr.Put("/{id}", h.updateProduct)
		pr.Delete("/{id}", h.deleteProduct)
	})
}

// health
//
//	@Summary	Проверка доступности API
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Router		/health [get]
func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Success:   true,
		Message:   "API is running",
		Timestamp: time.Now().UTC(),
	})
}

func root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{
		Message: "Inventory Management API",
		Version: apiVersion,
		Endpoints: map[string]string{
			"health":     "/api/health",
			"categories": "/api/categories",
			"products":   "/api/products",
			"docs":       "/swagger/index.html",
		},
	})
}
