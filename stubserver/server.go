// Package stubserver is a development backend implementing the storefront
// REST contract end to end: auth with signed token pairs, persistent carts,
// a product catalog, payment intents, and order placement. The client SDK is
// developed and integration-tested against it.
package stubserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jovincart/storefront/config"
	"github.com/jovincart/storefront/logger"
	"github.com/jovincart/storefront/token"
)

type Server struct {
	cfg      config.Stub
	engine   *gin.Engine
	users    *userStore
	tokens   *tokenIssuer
	carts    CartStore
	products *productStore
	orders   *orderStore
	payments PaymentProvider
	events   *EventPublisher
	log      *zap.Logger
}

func New(cfg config.Stub, log *zap.Logger) (*Server, error) {
	s := &Server{
		cfg:      cfg,
		users:    newUserStore(),
		tokens:   newTokenIssuer(cfg.JWTSecret),
		products: newProductStore(),
		orders:   newOrderStore(),
		log:      log,
	}
	s.users.seed()
	s.products.seed()

	if cfg.RedisURL != "" {
		carts, err := newRedisCartStore(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		s.carts = carts
		log.Info("cart store: redis", zap.String("url", cfg.RedisURL))
	} else {
		s.carts = newMemoryCartStore()
		log.Info("cart store: in-memory")
	}

	if cfg.StripeKey != "" {
		s.payments = newStripeProvider(cfg.StripeKey)
		log.Info("payment provider: stripe")
	} else {
		s.payments = newStubProvider(cfg.JWTSecret)
		log.Info("payment provider: built-in stub")
	}

	if cfg.KafkaBrokers != "" {
		s.events = NewEventPublisher(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic, log)
		log.Info("order events: kafka", zap.String("topic", cfg.KafkaTopic))
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	s.engine = gin.New()
	s.engine.Use(gin.Recovery(), logger.RequestLogger())
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.engine

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Auth surface, public.
	r.POST("/login", s.login)
	r.POST("/google-login", s.googleLogin)
	r.POST("/create-user", s.createUser)
	r.POST("/token", s.refreshToken)

	// Catalog browsing is public; the SPA guards it client-side only.
	r.GET("/get-data", s.listProducts)
	r.Static("/uploads", s.cfg.UploadDir)

	authed := r.Group("/", s.requireAuth())
	{
		authed.PUT("/update-email", s.updateEmail)
		authed.PUT("/change-password", s.changePassword)

		authed.GET("/cart/:userId", s.getCart)
		authed.POST("/cart/add", s.addToCart)
		authed.POST("/cart/increase", s.increaseCart)
		authed.PUT("/cart/decrease-cart", s.decreaseCart)
		authed.DELETE("/cart/remove", s.removeFromCart)
		authed.PUT("/cart/clear-cart", s.clearCart)

		authed.POST("/order-now", s.orderNow)
		authed.POST("/pay", s.pay)
		authed.POST("/verify", s.verifyPayment)
		authed.POST("/order/place-order", s.placeOrder)
		authed.GET("/order/history/:userId", s.orderHistory)
	}

	admin := r.Group("/", s.requireAuth(), s.requireRole(token.RoleAdmin))
	{
		admin.POST("/admin-management", s.createProduct)
		admin.DELETE("/delete-product/:id", s.deleteProduct)
		admin.POST("/upload", s.upload)
	}
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) Run() error {
	s.log.Info("stub backend listening", zap.String("port", s.cfg.Port))
	return s.engine.Run(":" + s.cfg.Port)
}

func (s *Server) Close() {
	if s.events != nil {
		s.events.Close()
	}
}
