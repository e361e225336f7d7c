// feedbench 在本地数据库上压测各个 feed 的读路径：首页（有无缓存）、关注流、搜索。
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/yatube/config"
	"github.com/d60-Lab/yatube/internal/cache"
	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return def
}

func report(name string, ds []time.Duration) {
	var sum time.Duration
	for _, d := range ds {
		sum += d
	}
	avg := time.Duration(0)
	if len(ds) > 0 {
		avg = sum / time.Duration(len(ds))
	}
	fmt.Printf("%-14s n=%d avg=%v p50=%v p95=%v p99=%v\n", name, len(ds), avg, pct(ds, 0.50), pct(ds, 0.95), pct(ds, 0.99))
}

func measure(n int, fn func(i int) error) []time.Duration {
	out := make([]time.Duration, 0, n)
	for i := 0; i < n; i++ {
		st := time.Now()
		if err := fn(i); err != nil {
			panic(err)
		}
		out = append(out, time.Since(st))
	}
	return out
}

func main() {
	ctx := context.Background()
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	defer database.Close(db)
	if err := database.Migrate(db); err != nil {
		panic(err)
	}

	authors := envInt("AUTHORS", 200)
	posts := envInt("POSTS", 20000)
	follows := envInt("FOLLOWS", 50)
	reads := envInt("READS", 500)

	// seed authors + one reader
	users := make([]model.User, authors+1)
	for i := range users {
		id := uuid.NewString()
		users[i] = model.User{ID: id, Username: "bench_" + id[:8], Email: id[:8] + "@example.com", Password: "p"}
	}
	if err := db.CreateInBatches(&users, 1000).Error; err != nil {
		panic(err)
	}
	reader := users[authors]

	base := time.Now().UTC()
	rows := make([]model.Post, posts)
	for i := range rows {
		text := fmt.Sprintf("bench post %d about topic-%d", i, i%97)
		rows[i] = model.Post{
			ID:        uuid.NewString(),
			Text:      text,
			AuthorID:  users[i%authors].ID,
			CreatedAt: base.Add(-time.Duration(i) * time.Second),
			UpdatedAt: base,
		}
	}
	if err := db.CreateInBatches(&rows, 1000).Error; err != nil {
		panic(err)
	}

	followRepo := repository.NewFollowRepository(db)
	for i := 0; i < follows && i < authors; i++ {
		if _, err := followRepo.Create(ctx, reader.ID, users[i].ID); err != nil {
			panic(err)
		}
	}

	var c cache.Cache = cache.NewMemoryCache(nil)
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err == nil {
			c = cache.NewRedisCache(client)
		}
	}

	postRepo := repository.NewPostRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	userRepo := repository.NewUserRepository(db)
	rel := service.NewRelationshipService(followRepo)

	uncached := service.NewFeedService(postRepo, groupRepo, userRepo, rel, nil, cfg.Cache.HomeFeedTTL)
	cached := service.NewFeedService(postRepo, groupRepo, userRepo, rel, c, cfg.Cache.HomeFeedTTL)
	service.InvalidateHomeFeed(ctx, c)

	fmt.Printf("AUTHORS=%d POSTS=%d FOLLOWS=%d READS=%d cache=%T\n", authors, posts, follows, reads, c)
	report("home/nocache", measure(reads, func(i int) error {
		_, err := uncached.Home(ctx, 1+i%5)
		return err
	}))
	report("home/cache", measure(reads, func(i int) error {
		_, err := cached.Home(ctx, 1+i%5)
		return err
	}))
	report("follow", measure(reads, func(i int) error {
		_, err := cached.Follow(ctx, reader.ID, 1+i%5)
		return err
	}))
	report("search", measure(reads, func(i int) error {
		_, err := cached.Search(ctx, fmt.Sprintf("TOPIC-%d", i%97), 1)
		return err
	}))
	report("deep-page", measure(reads/10+1, func(i int) error {
		_, err := uncached.Home(ctx, posts/service.HomePageSize)
		return err
	}))
}
