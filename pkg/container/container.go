package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"membership-backend/internal/config"
	infraCache "membership-backend/internal/infrastructure/cache"
	"membership-backend/internal/infrastructure/database"
	"membership-backend/internal/infrastructure/storage"
	"membership-backend/pkg/cache"

	"membership-backend/internal/domains/member"
	memberHandler "membership-backend/internal/domains/member/handler"
	memberRepo "membership-backend/internal/domains/member/repository"
	memberService "membership-backend/internal/domains/member/service"
)

// Container is the application context: every shared dependency constructed
// once at startup and passed by reference into the handlers. No ambient
// globals.
type Container struct {
	Config  *config.Config
	DB      *database.PostgresDB
	Cache   cache.Cache
	Storage *storage.MinIOStorage

	MemberRepo    member.Repository
	MemberService member.Service
	MemberHandler *memberHandler.MemberHandler
}

// NewContainer builds the dependency graph in order: config, infrastructure,
// repository, service, handler. Any failure aborts startup.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("environment", cfg.App.Environment).Msg("config loaded")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.NewPostgresDB(cfg.Database)
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	c.DB = db

	// Redis is an optimization, not a dependency: a dead cache degrades reads
	// to the database instead of blocking startup.
	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, continuing without cache hits")
	}
	c.Cache = redisCache

	// Object storage is load-bearing for the photo workflow; fail fast.
	minioStorage, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("connect to object storage: %w", err)
	}
	c.Storage = minioStorage

	c.MemberRepo = memberRepo.NewPostgresRepository(db.Pool, c.Cache)
	c.MemberService = memberService.NewMemberService(c.MemberRepo, c.Storage)
	c.MemberHandler = memberHandler.NewMemberHandler(c.MemberService, cfg.Images.Dir)

	log.Info().Msg("container initialized")
	return c, nil
}

// Cleanup releases shared resources during graceful shutdown.
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis")
		}
	}
}
