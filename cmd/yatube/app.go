package main

import (
	"context"
	"fmt"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/config"
	"github.com/d60-Lab/yatube/internal/cache"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/internal/storage"
	"github.com/d60-Lab/yatube/pkg/database"
	"github.com/d60-Lab/yatube/pkg/logger"
)

const configFlag = "config"

// withConfigFlag 每个子命令各自持有一份 flag 定义
func withConfigFlag(flags map[string]cobraflags.Flag) map[string]cobraflags.Flag {
	if flags == nil {
		flags = map[string]cobraflags.Flag{}
	}
	flags[configFlag] = &cobraflags.StringFlag{
		Name:  configFlag,
		Value: "",
		Usage: "Path to the config file (defaults to ./config.yaml or ./config/config.yaml)",
	}
	return flags
}

// app 命令共用的基础设施
type app struct {
	cfg     *config.Config
	db      *gorm.DB
	cache   cache.Cache
	redis   *redis.Client
	images  *storage.ImageStore
	janitor *storage.Janitor

	users  service.UserService
	groups service.GroupService
	posts  service.PostService
	feed   service.FeedService
	rel    service.RelationshipService

	stopJanitor func(context.Context) error
}

func loadConfig(flags map[string]cobraflags.Flag) (*config.Config, error) {
	path := flags[configFlag].GetString()
	var (
		cfg *config.Config
		err error
	)
	if path == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFile(path)
	}
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, nil
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	db, err := database.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, err
	}

	a := &app{cfg: cfg, db: db}
	a.cache = a.openCache(ctx)
	a.images = storage.NewImageStore(cfg.Media.Root)
	a.janitor = storage.NewJanitor(a.images, cfg.Media.JanitorQueue)
	a.stopJanitor = a.janitor.Start(cfg.Media.JanitorWorkers)

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)

	a.rel = service.NewRelationshipService(followRepo)
	a.users = service.NewUserService(userRepo, a.janitor)
	a.groups = service.NewGroupService(groupRepo)
	a.posts = service.NewPostService(postRepo, commentRepo, groupRepo, a.cache, a.janitor)
	a.feed = service.NewFeedService(postRepo, groupRepo, userRepo, a.rel, a.cache, cfg.Cache.HomeFeedTTL)
	return a, nil
}

// openCache Redis 不可用时降级为进程内缓存
func (a *app) openCache(ctx context.Context) cache.Cache {
	if a.cfg.Redis.Addr == "" {
		logger.Info("redis not configured, using in-memory cache")
		return cache.NewMemoryCache(nil)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, falling back to in-memory cache", zap.String("addr", a.cfg.Redis.Addr), zap.Error(err))
		_ = client.Close()
		return cache.NewMemoryCache(nil)
	}
	a.redis = client
	return cache.NewRedisCache(client)
}

func (a *app) Close(ctx context.Context) {
	if a.stopJanitor != nil {
		if err := a.stopJanitor(ctx); err != nil {
			logger.Warn("janitor did not drain", zap.Int("pending", a.janitor.QueueLen()), zap.Error(err))
		}
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if err := database.Close(a.db); err != nil {
		logger.Warn("close database", zap.Error(err))
	}
}
