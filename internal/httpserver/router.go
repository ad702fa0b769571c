package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/domain"
	"storefront/internal/localstore"
	"storefront/internal/logger"
	sessionrepo "storefront/internal/repository/session"
	ordersvc "storefront/internal/service/order"
	productsvc "storefront/internal/service/product"
	reviewsvc "storefront/internal/service/review"
)

type CatalogService interface {
	List(ctx context.Context, f productsvc.Filter) (*productsvc.Page, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Related(ctx context.Context, slug string) ([]domain.Product, error)
}

type CategoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
}

type OrderService interface {
	Submit(ctx context.Context, cd *ordersvc.CustomerData, od *ordersvc.OrderData) (*domain.Order, error)
}

type ReviewService interface {
	CheckPurchase(ctx context.Context, productName, email string) (bool, error)
	Submit(ctx context.Context, in reviewsvc.SubmitInput) (*domain.Review, error)
	List(ctx context.Context, productName string) ([]domain.Review, error)
}

type SessionService interface {
	Issue(ctx context.Context) (*sessionrepo.Session, error)
	Validate(ctx context.Context, token string) error
	TTLSeconds() int
}

// Deps are the services the handlers call. Slots backs session carts and wishlists.
type Deps struct {
	CatalogSvc  CatalogService
	CategorySvc CategoryService
	OrderSvc    OrderService
	ReviewSvc   ReviewService
	SessionSvc  SessionService
	Slots       localstore.Storage
	CORSOrigins []string
}

func (d Deps) validate() error {
	switch {
	case d.CatalogSvc == nil:
		return errors.New("httpserver: catalog service is required")
	case d.CategorySvc == nil:
		return errors.New("httpserver: category service is required")
	case d.OrderSvc == nil:
		return errors.New("httpserver: order service is required")
	case d.ReviewSvc == nil:
		return errors.New("httpserver: review service is required")
	case d.SessionSvc == nil:
		return errors.New("httpserver: session service is required")
	case d.Slots == nil:
		return errors.New("httpserver: slot storage is required")
	}
	return nil
}

type handlers struct {
	Deps
	logger *slog.Logger
}

// buildRouter wires routes for the API.
func buildRouter(log *slog.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Discard()
	}
	h := &handlers{Deps: deps, logger: log}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(requestLogger(log), gin.Recovery(), corsMiddleware(deps.CORSOrigins))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db, log))

	api := router.Group("/api")
	api.GET("/products", h.listProducts)
	api.POST("/products", h.postProducts)
	api.GET("/products/:slug", h.getProduct)
	api.GET("/products/:slug/related", h.relatedProducts)
	api.GET("/categories", h.listCategories)
	api.GET("/reviews", h.listReviews)
	api.POST("/reviews", h.postReviews)
	api.POST("/session", h.createSession)

	scoped := api.Group("", sessionMiddleware(deps.SessionSvc))
	scoped.GET("/cart", h.getCart)
	scoped.POST("/cart", h.addCartItem)
	scoped.PATCH("/cart", h.setCartQuantity)
	scoped.DELETE("/cart", h.clearCart)
	scoped.DELETE("/cart/items", h.removeCartItem)
	scoped.GET("/wishlist", h.getWishlist)
	scoped.POST("/wishlist", h.toggleWishlist)
	scoped.DELETE("/wishlist", h.removeWishlist)
	scoped.POST("/checkout", h.checkout)

	return router, nil
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", sessionHeader},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
