package router

import (
	"net/http"

	"github.com/Thanhbi2612/Dreamlens/internal/config"
	"github.com/Thanhbi2612/Dreamlens/internal/handler"
	"github.com/Thanhbi2612/Dreamlens/internal/metrics"
	"github.com/Thanhbi2612/Dreamlens/internal/middleware"
	"github.com/Thanhbi2612/Dreamlens/internal/repository"
	"github.com/Thanhbi2612/Dreamlens/internal/service"
	"github.com/Thanhbi2612/Dreamlens/internal/utils"
	"github.com/Thanhbi2612/Dreamlens/pkg/image_client"
	"github.com/Thanhbi2612/Dreamlens/pkg/model_caller"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Upstreams external collaborators of the service
type Upstreams struct {
	Images   service.ImageGenerator
	Analyzer service.DreamAnalyzer
	Google   handler.GoogleOAuth
}

// NewUpstreams builds the configured API clients. Analysis is disabled when
// no API key is set.
func NewUpstreams(cfg *config.Config) Upstreams {
	up := Upstreams{
		Images: image_client.NewImageClient(cfg.Image.BaseURL, cfg.Image.Token, cfg.Image.Model, cfg.Image.GetTimeout()),
		Google: service.NewOAuthService(&cfg.Google),
	}
	if cfg.Analysis.APIKey != "" {
		caller := model_caller.NewModelCaller(cfg.Analysis.BaseURL, cfg.Analysis.APIKey, cfg.Analysis.Model, cfg.Analysis.GetTimeout())
		up.Analyzer = model_caller.NewDreamAnalyzer(caller, model_caller.NewConcurrencyLimiter(cfg.Analysis.MaxConcurrency))
	}
	return up
}

// SetupRouter wires repositories, services and handlers. redisClient may be
// nil, in which case generation slots are tracked in process.
func SetupRouter(
	cfg *config.Config,
	logger *logrus.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
	up Upstreams,
) *gin.Engine {
	if cfg.Server.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// registers JSON field names with gin's validator
	utils.GetValidator()

	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(gin.Recovery())
	r.Use(metrics.Middleware())
	r.Use(middleware.CORS(&cfg.CORS))

	userRepo := repository.NewUserRepository(db)
	dreamRepo := repository.NewDreamRepository(db)
	imageRepo := repository.NewGeneratedImageRepository(db)

	jwtManager := utils.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Algorithm, cfg.JWT.GetExpireDuration())

	authService := service.NewAuthService(userRepo, jwtManager, logger)
	accountService := service.NewAccountService(db, userRepo, dreamRepo, imageRepo, logger)
	dreamService := service.NewDreamService(dreamRepo)
	imageService := service.NewImageService(
		imageRepo,
		up.Images,
		up.Analyzer,
		service.NewSlotLimiter(cfg, redisClient, logger),
		service.ImageServiceOptions{
			GenerationTimeout: cfg.Image.GetTimeout(),
			AnalysisTimeout:   cfg.Analysis.GetTimeout(),
		},
		logger,
	)

	healthHandler := handler.NewHealthHandler(db)
	authHandler := handler.NewAuthHandler(authService, accountService, up.Google, cfg.Frontend.URL, logger)
	dreamHandler := handler.NewDreamHandler(dreamService, accountService, logger)
	imageHandler := handler.NewImageHandler(imageService, dreamService, &cfg.Image, logger)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, logger)
	requireAuth := middleware.AuthMiddleware(authService)

	r.GET("/", healthHandler.Root)
	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Google redirects here, outside the /api prefix
	r.GET("/auth/google/callback", authHandler.GoogleCallback)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", rateLimiter.Handler(), authHandler.Register)
			auth.POST("/login", rateLimiter.Handler(), authHandler.Login)
			auth.GET("/google/login", authHandler.GoogleLogin)

			auth.GET("/me", requireAuth, authHandler.GetMe)
			auth.POST("/logout", requireAuth, authHandler.Logout)
			auth.DELETE("/account", requireAuth, authHandler.DeleteAccount)
		}

		dreams := api.Group("/dreams", requireAuth)
		{
			dreams.POST("", dreamHandler.CreateDream)
			dreams.GET("", dreamHandler.ListDreams)
			dreams.DELETE("/all", dreamHandler.DeleteAllDreams)
			dreams.GET("/:id", dreamHandler.GetDream)
			dreams.PUT("/:id", dreamHandler.UpdateDream)
			dreams.PATCH("/:id/pin", dreamHandler.TogglePin)
			dreams.DELETE("/:id", dreamHandler.DeleteDream)
		}

		images := api.Group("/images", requireAuth)
		{
			images.POST("/generate", imageHandler.GenerateImage)
			images.GET("/my-images", imageHandler.MyImages)
			images.GET("/test-connection", imageHandler.TestConnection)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		utils.ErrorResponse(c, http.StatusNotFound, "Not found")
	})

	return r
}
