package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/internal/cache"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/internal/storage"
	"github.com/d60-Lab/yatube/internal/testutil"
)

const testTTL = 20 * time.Second

type testEnv struct {
	db      *gorm.DB
	mr      *miniredis.Miniredis
	store   *storage.ImageStore
	janitor *storage.Janitor
	removed chan string

	users  UserService
	groups GroupService
	posts  PostService
	feed   FeedService
	rel    RelationshipService
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	c := cache.NewRedisCache(client)

	store := storage.NewImageStore(t.TempDir())
	removed := make(chan string, 16)
	janitor := storage.NewJanitor(store, 16, storage.WithRemovedHook(func(p string) {
		select {
		case removed <- p:
		default:
		}
	}))
	stop := janitor.Start(1)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = stop(ctx)
	})

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	rel := NewRelationshipService(repository.NewFollowRepository(db))

	return &testEnv{
		db:      db,
		mr:      mr,
		store:   store,
		janitor: janitor,
		removed: removed,
		users:   NewUserService(userRepo, janitor),
		groups:  NewGroupService(groupRepo),
		posts:   NewPostService(postRepo, commentRepo, groupRepo, c, janitor),
		feed:    NewFeedService(postRepo, groupRepo, userRepo, rel, c, testTTL),
		rel:     rel,
	}
}

func (e *testEnv) saveImage(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	rel, err := e.store.Save(&buf)
	require.NoError(t, err)
	return rel
}

func (e *testEnv) awaitRemoved(t *testing.T, want string) {
	t.Helper()
	select {
	case got := <-e.removed:
		require.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("image %s was not removed", want)
	}
}
