package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/shop-api/config"
	"github.com/kendall-kelly/shop-api/controllers"
	"github.com/kendall-kelly/shop-api/metrics"
	"github.com/kendall-kelly/shop-api/middleware"
	"github.com/kendall-kelly/shop-api/observability"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// setupRouter builds the engine with the middleware chain and every route
func setupRouter(cfg *config.Config) (*gin.Engine, error) {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Metrics(),
		otelgin.Middleware(observability.ServiceName),
		cors.New(corsConfig(cfg)),
	)

	writeGuard, err := middleware.CatalogWriteGuard(cfg)
	if err != nil {
		return nil, err
	}

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		// Deprecated entity-shaped member endpoints
		v1.POST("/members", controllers.SaveMemberV1)
		v1.GET("/members", controllers.MembersV1)

		v1.GET("/items", controllers.ListItems)
		v1.GET("/items/:id", controllers.GetItem)
		catalog := v1.Group("/items", writeGuard...)
		{
			catalog.POST("", controllers.CreateItem)
			catalog.PUT("/:id", controllers.UpdateItem)
			catalog.POST("/:id/image", controllers.UploadItemImage)
		}

		v1.POST("/orders", controllers.CreateOrder)
		v1.GET("/orders", controllers.ListOrders)
		v1.GET("/orders/:id", controllers.GetOrder)
		v1.POST("/orders/:id/cancel", controllers.CancelOrder)

		if !cfg.S3Enabled() {
			v1.GET("/uploads/:filename", controllers.GetUploadedImage)
		}
	}

	v2 := router.Group("/api/v2")
	{
		v2.POST("/members", controllers.SaveMemberV2)
		v2.GET("/members", controllers.MembersV2)
		v2.GET("/members/:id", controllers.GetMember)
		v2.PUT("/members/:id", controllers.UpdateMemberV2)
		v2.GET("/members/:id/orders", controllers.GetMemberOrders)
	}

	return router, nil
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	for _, origin := range cfg.CORSAllowedOrigins {
		if origin == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = cfg.CORSAllowedOrigins
	return c
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Shop API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()
	if db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Database is not connected",
			},
		})
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	tables, err := db.WithContext(c.Request.Context()).Migrator().GetTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"driver":  db.Dialector.Name(),
		"tables":  tables,
	})
}
