package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gdugdh24/fitmatch-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/fitmatch-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/fitmatch-backend/internal/delivery/ws"
)

type RouterConfig struct {
	AllowedOrigins []string
	EnableAdmin    bool
}

type Router struct {
	authHandler    *handler.AuthHandler
	profileHandler *handler.ProfileHandler
	feedHandler    *handler.FeedHandler
	matchHandler   *handler.MatchHandler
	chatHandler    *handler.ChatHandler
	placesHandler  *handler.PlacesHandler
	adminHandler   *handler.AdminHandler
	streamHandler  *ws.Handler
	authMiddleware *middleware.AuthMiddleware
	config         RouterConfig
	log            logrus.FieldLogger
}

func NewRouter(
	authHandler *handler.AuthHandler,
	profileHandler *handler.ProfileHandler,
	feedHandler *handler.FeedHandler,
	matchHandler *handler.MatchHandler,
	chatHandler *handler.ChatHandler,
	placesHandler *handler.PlacesHandler,
	adminHandler *handler.AdminHandler,
	streamHandler *ws.Handler,
	authMiddleware *middleware.AuthMiddleware,
	cfg RouterConfig,
	log logrus.FieldLogger,
) *Router {
	return &Router{
		authHandler:    authHandler,
		profileHandler: profileHandler,
		feedHandler:    feedHandler,
		matchHandler:   matchHandler,
		chatHandler:    chatHandler,
		placesHandler:  placesHandler,
		adminHandler:   adminHandler,
		streamHandler:  streamHandler,
		authMiddleware: authMiddleware,
		config:         cfg,
		log:            log,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(r.log))
	router.Use(cors.New(r.corsConfig()))

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/logout", r.authMiddleware.RequireAuth(), r.authHandler.Logout)
			auth.GET("/me", r.authMiddleware.RequireAuth(), r.authHandler.Me)
		}

		// Protected routes
		protected := v1.Group("")
		protected.Use(r.authMiddleware.RequireAuth())
		{
			profile := protected.Group("/profile")
			{
				profile.PUT("/me", r.profileHandler.UpdateMyProfile)
				profile.PUT("/me/location", r.profileHandler.UpdateLocation)
				profile.POST("/complete-onboarding", r.profileHandler.CompleteOnboarding)
				profile.GET("/:user_id", r.profileHandler.GetProfileByUserID)
			}

			feed := protected.Group("/feed")
			{
				feed.GET("", r.feedHandler.Discover)
				feed.GET("/:user_id/reason", r.feedHandler.Reason)
			}

			matches := protected.Group("/matches")
			{
				matches.GET("", r.matchHandler.GetMatches)
				matches.GET("/pending-count", r.matchHandler.PendingCount)
				matches.POST("/requests/:user_id", r.matchHandler.SendRequest)
				matches.POST("/:match_id/respond", r.matchHandler.Respond)
			}

			chats := protected.Group("/chats")
			{
				chats.GET("/:buddy_id", r.chatHandler.GetChats)
				chats.POST("/:buddy_id", r.chatHandler.SendMessage)
				chats.GET("/:buddy_id/icebreaker", r.chatHandler.Icebreaker)
			}

			protected.GET("/places", r.placesHandler.Search)
		}

		if r.config.EnableAdmin {
			v1.POST("/admin/reset", r.adminHandler.Reset)
		}
	}

	// Websocket push
	stream := router.Group("/ws")
	stream.Use(r.authMiddleware.RequireAuth())
	{
		stream.GET("/chats/:buddy_id", r.streamHandler.ChatStream)
		stream.GET("/matches", r.streamHandler.MatchStream)
	}

	return router
}

func (r *Router) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(r.config.AllowedOrigins) == 0 || (len(r.config.AllowedOrigins) == 1 && r.config.AllowedOrigins[0] == "*") {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = r.config.AllowedOrigins
	}
	return cfg
}
