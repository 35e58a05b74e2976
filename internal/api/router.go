package api

import (
	"net/http"
	"time"

	authHandler "meal-planner/internal/api/handlers/auth"
	catalogHandler "meal-planner/internal/api/handlers/catalog"
	"meal-planner/internal/api/handlers/health"
	mealHandler "meal-planner/internal/api/handlers/meal"
	"meal-planner/internal/api/middleware"
	"meal-planner/internal/core/auth"
	"meal-planner/internal/core/catalog"
	"meal-planner/internal/core/planner"
	"meal-planner/internal/core/shopping"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies 路由需要的服務
type Dependencies struct {
	Auth     *auth.Service
	Catalog  *catalog.Service
	Planner  *planner.Service
	Shopping *shopping.Aggregator
	Checks   map[string]health.Pinger
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New()) // 自動生成請求 ID
	router.Use(middleware.Logger())

	// CORS 設置
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if allowsAnyOrigin(cfg.Server.AllowOrigins) {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.Server.AllowOrigins
		corsConfig.AllowCredentials = true
	}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Deduplication(cfg.DedupWindow))

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg.App.Version, deps.Checks)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	authH := authHandler.NewHandler(deps.Auth)
	catalogH := catalogHandler.NewHandler(deps.Catalog)
	mealH := mealHandler.NewHandler(deps.Planner, deps.Shopping, cfg.Shopping.Global())

	// API 路由組
	api := router.Group("/api/v1")
	{
		api.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "Welcome to the meal planner API"})
		})

		api.POST("/register", authH.Register)
		api.POST("/token", authH.Token)
		api.POST("/token/refresh", authH.Refresh)
		api.POST("/token/verify", authH.Verify)

		protected := api.Group("")
		protected.Use(middleware.Auth(deps.Auth))
		{
			protected.POST("/ingredients", catalogH.CreateIngredient)
			protected.GET("/ingredients", catalogH.ListIngredients)
			protected.GET("/ingredients/:id", catalogH.GetIngredient)
			protected.PUT("/ingredients/:id", catalogH.UpdateIngredient)
			protected.DELETE("/ingredients/:id", catalogH.DeleteIngredient)

			protected.POST("/recipes", catalogH.CreateRecipe)
			protected.GET("/recipes", catalogH.ListRecipes)
			protected.GET("/recipes/:id", catalogH.GetRecipe)
			protected.PUT("/recipes/:id", catalogH.UpdateRecipe)
			protected.DELETE("/recipes/:id", catalogH.DeleteRecipe)

			protected.POST("/meals", mealH.CreateMeal)
			protected.GET("/meals/:id", mealH.GetMeal)
			protected.PUT("/meals/:id", mealH.UpdateMeal)
			protected.DELETE("/meals/:id", mealH.DeleteMeal)

			protected.GET("/schedule/:start/:end", mealH.Schedule)
			protected.GET("/shopping-list/:start/:end", mealH.ShoppingList)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		common.AbortWithError(c, common.ErrNotFound.WithMessage("Route not found"))
	})

	common.LogInfo("Router setup completed successfully",
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.String("shopping_scope", cfg.Shopping.Scope),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return len(origins) == 0
}
