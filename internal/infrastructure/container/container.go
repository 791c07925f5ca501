package container

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/gdugdh24/fitmatch-backend/internal/config"
	"github.com/gdugdh24/fitmatch-backend/internal/delivery/http"
	"github.com/gdugdh24/fitmatch-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/fitmatch-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/fitmatch-backend/internal/delivery/ws"
	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/database"
	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/gemini"
	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/kv"
	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/logger"
	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/mirror"
	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/replication"
	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/server"
	"github.com/gdugdh24/fitmatch-backend/internal/repository/kvstore"
	"github.com/gdugdh24/fitmatch-backend/internal/usecase/auth"
	"github.com/gdugdh24/fitmatch-backend/internal/usecase/chat"
	"github.com/gdugdh24/fitmatch-backend/internal/usecase/feed"
	"github.com/gdugdh24/fitmatch-backend/internal/usecase/match"
	"github.com/gdugdh24/fitmatch-backend/internal/usecase/profile"
	"github.com/gdugdh24/fitmatch-backend/internal/usecase/seed"
	"github.com/gdugdh24/fitmatch-backend/internal/usecase/suggestion"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Log        *logrus.Logger
	DB         *sqlx.DB
	Redis      *redis.Client
	Store      kv.Store
	Mirror     mirror.Mirror
	Replicator *replication.Replicator
	Gemini     *gemini.GeminiClient
	Server     *server.Server

	stopWatch mirror.Unsubscribe
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Container, error) {
	c := &Container{
		Config:    cfg,
		Log:       log,
		stopWatch: func() {},
	}

	store, err := c.newStore(ctx)
	if err != nil {
		_ = c.Close(ctx)
		return nil, err
	}
	c.Store = store

	m, err := c.newMirror(ctx)
	if err != nil {
		_ = c.Close(ctx)
		return nil, err
	}
	c.Mirror = m

	syncCfg := replication.DefaultConfig()
	syncCfg.Workers = cfg.Sync.Workers
	if cfg.Sync.MaxAttempts > 0 {
		syncCfg.MaxAttempts = cfg.Sync.MaxAttempts
	}
	c.Replicator = replication.New(syncCfg, logger.Component(log, "replication"))

	// A nil client must stay a nil interface so suggestions use their fallbacks
	var generator suggestion.TextGenerator
	var places suggestion.PlaceSearcher
	if cfg.Gemini.APIKey != "" {
		geminiClient, err := gemini.NewGeminiClient(ctx, cfg.Gemini.APIKey)
		if err != nil {
			log.WithError(err).Warn("gemini client unavailable, suggestions use fallbacks")
		} else {
			c.Gemini = geminiClient
			generator = geminiClient
		}

		mapsClient, err := gemini.NewMapsClient(ctx, cfg.Gemini.APIKey)
		if err != nil {
			log.WithError(err).Warn("maps grounding unavailable, place search uses fallback")
		} else {
			places = mapsClient
		}
	}

	// Initialize repositories
	userRepo := kvstore.NewUserRepository(store)
	sessionRepo := kvstore.NewSessionRepository(store)
	matchRepo := kvstore.NewMatchRepository(store)
	chatRepo := kvstore.NewChatRepository(store)

	// Initialize use cases
	suggestionUseCase := suggestion.NewSuggestionUseCase(
		generator,
		places,
		suggestion.Config{Model: cfg.Gemini.Model, PlacesModel: cfg.Gemini.PlacesModel},
		logger.Component(log, "suggestion"),
	)

	authUseCase := auth.NewAuthUseCase(
		userRepo,
		sessionRepo,
		m,
		c.Replicator,
		cfg.JWT.AccessSecret,
		cfg.JWT.AccessTTL(),
		logger.Component(log, "auth"),
	)

	profileUseCase := profile.NewProfileUseCase(
		userRepo,
		m,
		c.Replicator,
		logger.Component(log, "profile"),
	)

	feedUseCase := feed.NewFeedUseCase(
		userRepo,
		suggestionUseCase,
	)

	matchUseCase := match.NewMatchUseCase(
		matchRepo,
		userRepo,
		m,
		c.Replicator,
		logger.Component(log, "match"),
	)

	chatUseCase := chat.NewChatUseCase(
		chatRepo,
		userRepo,
		m,
		c.Replicator,
		logger.Component(log, "chat"),
	)

	seedUseCase := seed.NewSeedUseCase(
		store,
		userRepo,
		m,
		logger.Component(log, "seed"),
	)
	if err := seedUseCase.Seed(ctx); err != nil {
		_ = c.Close(ctx)
		return nil, fmt.Errorf("failed to seed demo users: %w", err)
	}
	c.stopWatch = profileUseCase.WatchRemoteUsers(context.Background())

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUseCase)
	profileHandler := handler.NewProfileHandler(profileUseCase)
	feedHandler := handler.NewFeedHandler(feedUseCase)
	matchHandler := handler.NewMatchHandler(matchUseCase)
	chatHandler := handler.NewChatHandler(chatUseCase, profileUseCase, suggestionUseCase)
	placesHandler := handler.NewPlacesHandler(profileUseCase, suggestionUseCase)
	adminHandler := handler.NewAdminHandler(seedUseCase)
	streamHandler := ws.NewHandler(chatUseCase, matchUseCase, cfg.CORS.AllowedOrigins, logger.Component(log, "ws"))

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authUseCase)

	// Initialize router
	router := http.NewRouter(
		authHandler,
		profileHandler,
		feedHandler,
		matchHandler,
		chatHandler,
		placesHandler,
		adminHandler,
		streamHandler,
		authMiddleware,
		http.RouterConfig{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			EnableAdmin:    !cfg.Server.IsProduction(),
		},
		logger.Component(log, "http"),
	)

	// Initialize server
	c.Server = server.NewServer(&cfg.Server, router.Setup(), logger.Component(log, "server"))

	return c, nil
}

func (c *Container) newStore(ctx context.Context) (kv.Store, error) {
	switch c.Config.Storage.Type {
	case config.StorageRedis:
		client, err := database.NewRedisClient(ctx, &c.Config.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		c.Redis = client
		return kv.NewRedisStore(client, c.Config.Storage.Prefix), nil
	case config.StoragePostgres:
		db, err := database.NewPostgresDB(ctx, &c.Config.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.DB = db
		store, err := kv.NewPostgresStore(ctx, db)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres store: %w", err)
		}
		return store, nil
	default:
		return kv.NewMemoryStore(), nil
	}
}

func (c *Container) newMirror(ctx context.Context) (mirror.Mirror, error) {
	log := logger.Component(c.Log, "mirror")

	switch c.Config.Mirror.Type {
	case config.MirrorFirebase:
		fb, err := mirror.NewFirebase(ctx, mirror.FirebaseConfig{
			DatabaseURL:     c.Config.Mirror.DatabaseURL,
			CredentialsFile: c.Config.Mirror.CredentialsFile,
			PollInterval:    c.Config.Mirror.PollInterval,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize firebase mirror: %w", err)
		}
		return fb, nil
	case config.MirrorMemory:
		return mirror.NewMemory(), nil
	default:
		log.Info("realtime mirror disabled")
		return mirror.NewNoop(), nil
	}
}

// Close flushes pending replication and closes all connections
func (c *Container) Close(ctx context.Context) error {
	if c.stopWatch != nil {
		c.stopWatch()
	}

	if c.Replicator != nil {
		flushCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := c.Replicator.Close(flushCtx); err != nil {
			c.Log.WithError(err).Warn("replication finished with errors")
		}
		cancel()
	}

	if c.Gemini != nil {
		if err := c.Gemini.Close(); err != nil {
			c.Log.WithError(err).Warn("error closing gemini client")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Log.WithError(err).Warn("error closing redis")
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
