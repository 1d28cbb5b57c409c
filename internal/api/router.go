package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"machine-sales-backend/config"
	"machine-sales-backend/internal/auth"
	"machine-sales-backend/internal/mw"
	"machine-sales-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, authSvc *auth.Service, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	handler := NewHandler(s, authSvc)
	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	api := r.Group("/api")
	api.Use(rateLimiter)

	if cfg.Server.CacheTTLSeconds > 0 {
		ttl := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
		cacheStore := cache.New(ttl, 2*ttl)
		api.Use(mw.Cache(cacheStore, ttl), mw.CacheInvalidate(cacheStore))
	}

	api.POST("/auth/register", handler.Register)
	api.POST("/auth/login", handler.Login)

	authRequired := mw.RequireAuth(authSvc)

	machineTypes := api.Group("/machine-types")
	{
		machineTypes.GET("", handler.ListMachineTypes)
		machineTypes.GET("/:id", handler.GetMachineType)
		machineTypes.POST("", authRequired, handler.CreateMachineType)
		machineTypes.PUT("/:id", authRequired, handler.UpdateMachineType)
		machineTypes.DELETE("/:id", authRequired, handler.DeleteMachineType)
	}

	machineSubtypes := api.Group("/machine-subtypes")
	{
		machineSubtypes.GET("", handler.ListMachineSubtypes)
		machineSubtypes.GET("/:id", handler.GetMachineSubtype)
		machineSubtypes.POST("", authRequired, handler.CreateMachineSubtype)
		machineSubtypes.PUT("/:id", authRequired, handler.UpdateMachineSubtype)
		machineSubtypes.DELETE("/:id", authRequired, handler.DeleteMachineSubtype)
	}

	machines := api.Group("/machines")
	{
		machines.GET("", handler.ListMachines)
		machines.GET("/:id", handler.GetMachine)
		machines.POST("", authRequired, handler.CreateMachine)
		machines.PUT("/:id", authRequired, handler.UpdateMachine)
		machines.DELETE("/:id", authRequired, handler.DeleteMachine)
	}

	orders := api.Group("/orders")
	{
		orders.GET("", handler.ListOrders)
		orders.GET("/:id", handler.GetOrder)
		orders.POST("", authRequired, handler.CreateOrder)
		orders.PUT("/:id", authRequired, handler.UpdateOrder)
		orders.PATCH("/:id", authRequired, handler.PatchOrder)
		orders.DELETE("/:id", authRequired, handler.DeleteOrder)
	}

	return r
}
