package handler

import (
	"fx-payment-processor/internal/adapter/http/middleware"
	redisStore "fx-payment-processor/internal/adapter/storage/redis"
	"fx-payment-processor/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Ledger         ports.LedgerService
	AdminKey       string                     // empty = rate table updates disabled
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (verifies Redis when rate limiting is enabled)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	walletHandler := NewWalletHandler(deps.Ledger)
	wallets := v1.Group("/wallets/:user_id")
	{
		wallets.POST("/fund", rl("wallet_ops"), walletHandler.Fund)
		wallets.POST("/withdraw", rl("wallet_ops"), walletHandler.Withdraw)
		wallets.POST("/convert", rl("wallet_ops"), walletHandler.Convert)
		wallets.GET("/balances", rl("queries"), walletHandler.GetBalances)
		wallets.GET("/transactions", rl("queries"), walletHandler.GetTransactions)
		wallets.GET("/reconcile", rl("queries"), walletHandler.Reconcile)
	}

	rateHandler := NewRateHandler(deps.Ledger)
	rates := v1.Group("/rates")
	{
		rates.GET("", rl("rates"), rateHandler.List)
		rates.PUT("", rl("admin"), middleware.AdminKeyAuth(deps.AdminKey), rateHandler.Update)
	}

	return r
}
