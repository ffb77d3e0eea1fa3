package server

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/edushare/backend/internal/config"
	"github.com/edushare/backend/internal/handler"
	"github.com/edushare/backend/internal/middleware"
	"github.com/edushare/backend/internal/repository"
	"github.com/edushare/backend/internal/service"
	"github.com/edushare/backend/pkg/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
	reset       *service.ResetService
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	scoreRepo := repository.NewScoreRepository(db)
	resourceRepo := repository.NewResourceRepository(db)

	fileStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Printf("cloudinary storage unavailable, uploads disabled: %v", err)
		fileStorage = nil
	}

	var meiliClient meilisearch.ServiceManager
	if cfg.MeiliSearchHost != "" {
		meiliHost := cfg.MeiliSearchHost
		if !strings.HasPrefix(meiliHost, "http") {
			meiliHost = "http://" + meiliHost + ":7700"
		}
		meiliClient = meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	}
	searchSvc := service.NewSearchService(meiliClient)

	scoreSvc := service.NewScoreService(scoreRepo)

	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTokenTTL)
	authHandler := handler.NewAuthHandler(authSvc)

	postSvc := service.NewPostService(postRepo, scoreSvc)
	postHandler := handler.NewPostHandler(postSvc)

	userSvc := service.NewUserService(userRepo, postRepo, scoreSvc)
	userHandler := handler.NewUserHandler(userSvc)

	leaderboardSvc := service.NewLeaderboardService(scoreRepo, redisClient)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardSvc)

	resourceSvc := service.NewResourceService(resourceRepo, userRepo, fileStorage, searchSvc)
	resourceHandler := handler.NewResourceHandler(resourceSvc)

	var generator service.TextGenerator
	if cfg.GeminiAPIKey != "" {
		generator, err = service.NewGeminiGenerator(context.Background(), cfg.GeminiAPIKey)
		if err != nil {
			log.Printf("gemini client unavailable, chatbot disabled: %v", err)
		}
	}
	chatbotSvc := service.NewChatbotService(generator, cfg.ChatbotTimeout)
	chatbotHandler := handler.NewChatbotHandler(chatbotSvc)

	resetSvc := service.NewResetService(scoreRepo)
	resetSvc.Start()

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	api.GET("/leaderboard", leaderboardHandler.GetLeaderboard)
	api.GET("/users/:user_id", userHandler.GetProfile)
	api.GET("/resources", resourceHandler.List)
	api.GET("/resources/search", resourceHandler.Search)
	api.GET("/resources/:resource_id", resourceHandler.Get)

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Post routes
		protected.POST("/posts", postHandler.CreatePost)
		protected.GET("/posts", postHandler.GetPosts)
		protected.POST("/posts/:post_id/like", postHandler.LikePost)
		protected.POST("/posts/:post_id/unlike", postHandler.UnlikePost)

		// Comment routes
		protected.POST("/comments/:post_id", postHandler.AddComment)
		protected.GET("/comments/:post_id", postHandler.GetComments)
		protected.POST("/comments/:post_id/:comment_id/like", postHandler.LikeComment)
		protected.POST("/comments/:post_id/:comment_id/unlike", postHandler.UnlikeComment)

		// Profile routes
		protected.GET("/profile/me", userHandler.GetMyProfile)
		protected.POST("/users/:user_id/follow", userHandler.Follow)
		protected.POST("/users/:user_id/unfollow", userHandler.Unfollow)

		// Resource routes
		protected.POST("/resources", resourceHandler.Upload)
		protected.GET("/resources/:resource_id/download", resourceHandler.Download)
		protected.DELETE("/resources/:resource_id", authMiddleware.RequireTeacher(), resourceHandler.Delete)

		// Chatbot routes
		protected.POST("/chatbot", chatbotHandler.Chat)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
		reset:       resetSvc,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) Stop() {
	if s.reset != nil {
		s.reset.Stop()
	}
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
