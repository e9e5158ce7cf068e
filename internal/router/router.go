package router

import (
	"fmt"
	"strings"

	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/cache"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/config"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/constants"
	publichandlers "github.com/youngre511/PeachBlossom-eStore-sub003/internal/http/handlers/public"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/logger"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires middleware and routes.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	redisClient := cache.Client()
	holdRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:hold", redisPrefix),
		WindowSeconds: cfg.Security.HoldRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.HoldRateLimit.MaxAttempts,
		Message:       "too many hold attempts",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// Catalog browse, open to everyone.
		apiV1.GET("/products", publicHandler.ListProducts)
		apiV1.GET("/products/:productNo", publicHandler.GetProduct)
		apiV1.GET("/categories", publicHandler.ListCategories)

		// Cart operations work for guests and logged-in shoppers alike;
		// a token just attaches ownership when present.
		cart := apiV1.Group("/cart")
		cart.Use(OptionalCustomerAuthMiddleware(cfg.JWT.SecretKey, c.CustomerService))
		{
			cart.POST("/items", publicHandler.AddToCart)
			cart.GET("/:token", publicHandler.GetCart)
			cart.PUT("/:token/items/:productNo", publicHandler.UpdateItemQuantity)
			cart.DELETE("/:token/items/:productNo", publicHandler.DeleteFromCart)
			cart.DELETE("/:token/items", publicHandler.ClearCart)
			cart.POST("/:token/hold",
				RateLimitMiddleware(redisClient, holdRule, KeyByCartToken("token")),
				publicHandler.HoldStock)
			cart.POST("/:token/release", publicHandler.ReleaseStock)
		}

		checkout := apiV1.Group("")
		checkout.Use(OptionalCustomerAuthMiddleware(cfg.JWT.SecretKey, c.CustomerService))
		{
			checkout.POST("/checkout", publicHandler.PlaceOrder)
		}

		// Guest order lookup is password gated, no token involved.
		apiV1.POST("/orders/:orderNo/guest", publicHandler.GetGuestOrder)

		// Customer-only surface.
		customer := apiV1.Group("/customer")
		customer.Use(CustomerJWTAuthMiddleware(cfg.JWT.SecretKey, c.CustomerService))
		{
			customer.GET("/cart", publicHandler.GetCustomerCart)
			customer.POST("/cart/merge", publicHandler.MergeCarts)
			customer.GET("/orders", publicHandler.ListCustomerOrders)
			customer.GET("/orders/:orderNo", publicHandler.GetCustomerOrder)
		}

		// Fulfillment operations, driven by the warehouse integration.
		ops := apiV1.Group("/ops")
		ops.Use(CustomerJWTAuthMiddleware(cfg.JWT.SecretKey, c.CustomerService))
		{
			ops.PUT("/orders/:orderNo/status", publicHandler.UpdateOrderStatus)
			ops.PUT("/orders/:orderNo/fulfillment", publicHandler.UpdateOrderFulfillment)
			ops.DELETE("/catalog/:productNo/cache", publicHandler.InvalidateProductCache)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
