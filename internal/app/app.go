package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"formpulse/internal/cache"
	"formpulse/internal/config"
	"formpulse/internal/log"
	"formpulse/internal/repository"
	"formpulse/internal/service"
)

// App holds the connected stores and the services built on them
type App struct {
	Mongo *mongo.Client
	DB    *mongo.Database
	Redis *redis.Client

	UserRepo     repository.UserRepo
	FormRepo     repository.FormRepo
	ResponseRepo repository.ResponseRepo
	FormCache    cache.PublicFormCache
	Limiter      cache.SubmissionLimiter

	AuthService     *service.AuthService
	FormService     *service.FormService
	ResponseService *service.ResponseService
}

// New connects MongoDB and Redis, ensures indexes and wires the services
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	log.Info("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if _, err := rdb.Ping(pingCtx).Result(); err != nil {
		// the cache and limiter degrade gracefully, so Redis is not fatal
		log.Warnf("Failed to ping Redis at %s: %v", cfg.RedisAddr, err)
	} else {
		log.Info("Connected to Redis")
	}

	a := &App{
		Mongo:        mongoClient,
		DB:           db,
		Redis:        rdb,
		UserRepo:     repository.NewUserRepo(db),
		FormRepo:     repository.NewFormRepo(db),
		ResponseRepo: repository.NewResponseRepo(db),
		FormCache:    cache.NewPublicFormCache(rdb, cfg.PublicFormCacheTTL),
		Limiter:      cache.NewSubmissionLimiter(rdb, cfg.SubmitRateLimit, cfg.SubmitRateWindow),
	}

	a.AuthService = service.NewAuthService(a.UserRepo, cfg.JWTSecret, cfg.TokenTTL)
	a.FormService = service.NewFormService(a.FormRepo, a.ResponseRepo, a.FormCache)
	a.ResponseService = service.NewResponseService(a.FormService, a.ResponseRepo, a.Limiter)
	return a, nil
}

// SetBroadcaster routes live form events to b
func (a *App) SetBroadcaster(b service.Broadcaster) {
	a.FormService.SetBroadcaster(b)
	a.ResponseService.SetBroadcaster(b)
}

// Close releases the store connections
func (a *App) Close(ctx context.Context) {
	if err := a.Redis.Close(); err != nil {
		log.Warnf("close redis: %v", err)
	}
	if err := a.Mongo.Disconnect(ctx); err != nil {
		log.Warnf("disconnect mongo: %v", err)
	}
}
