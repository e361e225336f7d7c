package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/internal/cache"
	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/pkg/logger"
	"github.com/d60-Lab/yatube/pkg/paginate"
)

// 各 feed 的每页条数
const (
	HomePageSize    = 10
	GroupPageSize   = 10
	ProfilePageSize = 5
	FollowPageSize  = 10
	SearchPageSize  = 20
)

// HomeFeedCachePrefix 首页缓存键前缀，所有访客共享
const HomeFeedCachePrefix = "index_page:"

type PostPage = paginate.Page[*model.Post]

type GroupFeed struct {
	Group *model.Group `json:"group"`
	Page  PostPage     `json:"page"`
}

type ProfileFeed struct {
	Author      *model.User  `json:"author"`
	Page        PostPage     `json:"page"`
	Counts      FollowCounts `json:"counts"`
	IsFollowing bool         `json:"is_following"`
}

type SearchState string

const (
	SearchEmptyQuery SearchState = "empty_query"
	SearchNotFound   SearchState = "not_found"
	SearchFound      SearchState = "found"
)

var searchMessages = map[SearchState]string{
	SearchEmptyQuery: "Enter a search query",
	SearchNotFound:   "Nothing was found for your query",
	SearchFound:      "",
}

type SearchResult struct {
	Query   string      `json:"query"`
	State   SearchState `json:"state"`
	Message string      `json:"message,omitempty"`
	Page    PostPage    `json:"page"`
}

type FeedService interface {
	// Home 结果在 ttl 内共享缓存
	Home(ctx context.Context, page int) (*PostPage, error)
	Group(ctx context.Context, slug string, page int) (*GroupFeed, error)
	// Profile viewerID 为空表示匿名访问
	Profile(ctx context.Context, username, viewerID string, page int) (*ProfileFeed, error)
	Follow(ctx context.Context, userID string, page int) (*PostPage, error)
	Search(ctx context.Context, query string, page int) (*SearchResult, error)
}

type feedService struct {
	posts  repository.PostRepository
	groups repository.GroupRepository
	users  repository.UserRepository
	rel    RelationshipService
	cache  cache.Cache
	ttl    time.Duration
}

func NewFeedService(
	posts repository.PostRepository,
	groups repository.GroupRepository,
	users repository.UserRepository,
	rel RelationshipService,
	c cache.Cache,
	ttl time.Duration,
) FeedService {
	if ttl <= 0 {
		ttl = 20 * time.Second
	}
	return &feedService{posts: posts, groups: groups, users: users, rel: rel, cache: c, ttl: ttl}
}

func (s *feedService) page(ctx context.Context, f repository.PostFilter, number, size int) (*PostPage, error) {
	count, err := s.posts.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	w := paginate.Clamp(number, count, size)
	items, err := s.posts.List(ctx, f, w.Offset, w.Limit)
	if err != nil {
		return nil, err
	}
	p := paginate.New(items, w, count)
	return &p, nil
}

// homeCountKey 与各页共用前缀，失效时一并清除
const homeCountKey = HomeFeedCachePrefix + "count"

// Home 先按（缓存的）总数把页码钳到合法范围再取缓存，越界页码共用同一个键
func (s *feedService) Home(ctx context.Context, page int) (*PostPage, error) {
	count, err := s.homeCount(ctx)
	if err != nil {
		return nil, err
	}
	w := paginate.Clamp(page, count, HomePageSize)
	key := HomeFeedCachePrefix + strconv.Itoa(w.Number)
	if data, ok := s.cacheGet(ctx, key); ok {
		var cached PostPage
		if uErr := json.Unmarshal(data, &cached); uErr == nil {
			return &cached, nil
		}
	}

	items, err := s.posts.List(ctx, repository.PostFilter{}, w.Offset, w.Limit)
	if err != nil {
		return nil, err
	}
	p := paginate.New(items, w, count)
	if payload, err := json.Marshal(p); err == nil {
		s.cacheSet(ctx, key, payload)
	}
	return &p, nil
}

func (s *feedService) homeCount(ctx context.Context) (int64, error) {
	if data, ok := s.cacheGet(ctx, homeCountKey); ok {
		if n, err := strconv.ParseInt(string(data), 10, 64); err == nil {
			return n, nil
		}
	}
	count, err := s.posts.Count(ctx, repository.PostFilter{})
	if err != nil {
		return 0, err
	}
	s.cacheSet(ctx, homeCountKey, []byte(strconv.FormatInt(count, 10)))
	return count, nil
}

func (s *feedService) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("home feed cache get failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return data, ok
}

func (s *feedService) cacheSet(ctx context.Context, key string, payload []byte) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.ttl); err != nil {
		logger.Warn("home feed cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *feedService) Group(ctx context.Context, slug string, page int) (*GroupFeed, error) {
	g, err := s.groups.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err)
	}
	p, err := s.page(ctx, repository.PostFilter{GroupID: g.ID}, page, GroupPageSize)
	if err != nil {
		return nil, err
	}
	return &GroupFeed{Group: g, Page: *p}, nil
}

func (s *feedService) Profile(ctx context.Context, username, viewerID string, page int) (*ProfileFeed, error) {
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err)
	}
	p, err := s.page(ctx, repository.PostFilter{AuthorID: author.ID}, page, ProfilePageSize)
	if err != nil {
		return nil, err
	}
	counts, err := s.rel.Counts(ctx, author.ID)
	if err != nil {
		return nil, err
	}
	following, err := s.rel.IsFollowing(ctx, viewerID, author.ID)
	if err != nil {
		return nil, err
	}
	return &ProfileFeed{Author: author, Page: *p, Counts: counts, IsFollowing: following}, nil
}

func (s *feedService) Follow(ctx context.Context, userID string, page int) (*PostPage, error) {
	return s.page(ctx, repository.PostFilter{FollowerID: userID}, page, FollowPageSize)
}

func (s *feedService) Search(ctx context.Context, query string, page int) (*SearchResult, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		empty := paginate.New[*model.Post](nil, paginate.Clamp(1, 0, SearchPageSize), 0)
		return &SearchResult{State: SearchEmptyQuery, Message: searchMessages[SearchEmptyQuery], Page: empty}, nil
	}
	p, err := s.page(ctx, repository.PostFilter{Query: q}, page, SearchPageSize)
	if err != nil {
		return nil, err
	}
	state := SearchFound
	if p.Count == 0 {
		state = SearchNotFound
	}
	return &SearchResult{Query: q, State: state, Message: searchMessages[state], Page: *p}, nil
}

// InvalidateHomeFeed 清空所有首页缓存页；失败只记日志
func InvalidateHomeFeed(ctx context.Context, c cache.Cache) {
	if c == nil {
		return
	}
	if err := c.DeletePrefix(ctx, HomeFeedCachePrefix); err != nil {
		logger.Warn("home feed cache invalidation failed", zap.Error(err))
	}
}
