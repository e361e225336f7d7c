package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/yatube/internal/testutil"
)

func texts(page *PostPage) []string {
	out := make([]string, 0, len(page.Items))
	for _, p := range page.Items {
		out = append(out, p.Text)
	}
	return out
}

func TestFeed_HomeIsCachedUntilTTL(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	leo := testutil.CreateUser(t, e.db, "leo")
	testutil.CreatePost(t, e.db, leo, nil, "first", time.Now().Add(-time.Hour))

	page, err := e.feed.Home(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, texts(page))

	_, err = e.posts.Create(ctx, leo.ID, PostInput{Text: "second"})
	require.NoError(t, err)

	page, err = e.feed.Home(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, texts(page), "new post stays hidden while the page is cached")

	e.mr.FastForward(testTTL + time.Second)

	page, err = e.feed.Home(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "first"}, texts(page))
	require.NotNil(t, page.Items[0].Author)
	assert.Equal(t, "leo", page.Items[0].Author.Username)
}

func TestFeed_EditAndDeleteInvalidateHome(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	leo := testutil.CreateUser(t, e.db, "leo")
	p := testutil.CreatePost(t, e.db, leo, nil, "original", time.Now().Add(-time.Hour))

	_, err := e.feed.Home(ctx, 1)
	require.NoError(t, err)

	_, err = e.posts.Update(ctx, leo.ID, "leo", p.ID, PostInput{Text: "edited"})
	require.NoError(t, err)
	page, err := e.feed.Home(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"edited"}, texts(page))

	require.NoError(t, e.posts.Delete(ctx, leo.ID, "leo", p.ID))
	page, err = e.feed.Home(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.NumPages)
}

func TestFeed_HomeClampsPageNumber(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	leo := testutil.CreateUser(t, e.db, "leo")
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 12; i++ {
		testutil.CreatePost(t, e.db, leo, nil, fmt.Sprintf("post %02d", i), base.Add(time.Duration(i)*time.Minute))
	}

	page, err := e.feed.Home(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Number)
	assert.Equal(t, 2, page.NumPages)
	assert.Equal(t, []string{"post 01", "post 00"}, texts(page))
	assert.True(t, page.HasPrevious)
	assert.False(t, page.HasNext)

	page, err = e.feed.Home(ctx, -3)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Number)
	assert.Len(t, page.Items, HomePageSize)
	assert.Equal(t, "post 11", page.Items[0].Text)
}

func TestFeed_OutOfRangePagesShareCacheKey(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	leo := testutil.CreateUser(t, e.db, "leo")
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 12; i++ {
		testutil.CreatePost(t, e.db, leo, nil, fmt.Sprintf("post %02d", i), base.Add(time.Duration(i)*time.Minute))
	}

	for _, n := range []int{-3, 0, 1, 2, 3, 99, 1 << 30} {
		_, err := e.feed.Home(ctx, n)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"index_page:1", "index_page:2", "index_page:count"}, e.mr.Keys())

	page, err := e.feed.Home(ctx, 500)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Number)
	assert.Equal(t, []string{"post 01", "post 00"}, texts(page))
}

func TestFeed_DeletedPostLeavesEveryFeed(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	leo := testutil.CreateUser(t, e.db, "leo")
	ann := testutil.CreateUser(t, e.db, "ann")
	cats := testutil.CreateGroup(t, e.db, "Cats", "cats")
	require.NoError(t, e.rel.Follow(ctx, ann.ID, leo.ID))

	p, err := e.posts.Create(ctx, leo.ID, PostInput{Text: "goodbye cats", GroupID: cats.ID})
	require.NoError(t, err)

	feeds := func() map[string][]string {
		home, err := e.feed.Home(ctx, 1)
		require.NoError(t, err)
		group, err := e.feed.Group(ctx, "cats", 1)
		require.NoError(t, err)
		profile, err := e.feed.Profile(ctx, "leo", ann.ID, 1)
		require.NoError(t, err)
		follow, err := e.feed.Follow(ctx, ann.ID, 1)
		require.NoError(t, err)
		search, err := e.feed.Search(ctx, "goodbye", 1)
		require.NoError(t, err)
		return map[string][]string{
			"home":    texts(home),
			"group":   texts(&group.Page),
			"profile": texts(&profile.Page),
			"follow":  texts(follow),
			"search":  texts(&search.Page),
		}
	}

	for name, got := range feeds() {
		assert.Equal(t, []string{"goodbye cats"}, got, name)
	}

	require.NoError(t, e.posts.Delete(ctx, leo.ID, "leo", p.ID))

	for name, got := range feeds() {
		assert.Empty(t, got, name)
	}
	res, err := e.feed.Search(ctx, "goodbye", 1)
	require.NoError(t, err)
	assert.Equal(t, SearchNotFound, res.State)
}

func TestFeed_Group(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	leo := testutil.CreateUser(t, e.db, "leo")
	cats := testutil.CreateGroup(t, e.db, "Cats", "cats")
	dogs := testutil.CreateGroup(t, e.db, "Dogs", "dogs")
	testutil.CreatePost(t, e.db, leo, cats, "meow", time.Now())
	testutil.CreatePost(t, e.db, leo, dogs, "woof", time.Now())
	testutil.CreatePost(t, e.db, leo, nil, "plain", time.Now())

	feed, err := e.feed.Group(ctx, "cats", 1)
	require.NoError(t, err)
	assert.Equal(t, "Cats", feed.Group.Title)
	assert.Equal(t, []string{"meow"}, texts(&feed.Page))

	_, err = e.feed.Group(ctx, "birds", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFeed_Profile(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	leo := testutil.CreateUser(t, e.db, "leo")
	ann := testutil.CreateUser(t, e.db, "ann")
	base := time.Now().Add(-time.Hour)
	for i := 0; i < ProfilePageSize+1; i++ {
		testutil.CreatePost(t, e.db, leo, nil, fmt.Sprintf("leo %d", i), base.Add(time.Duration(i)*time.Minute))
	}
	require.NoError(t, e.rel.Follow(ctx, ann.ID, leo.ID))

	feed, err := e.feed.Profile(ctx, "leo", ann.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, leo.ID, feed.Author.ID)
	assert.Len(t, feed.Page.Items, ProfilePageSize)
	assert.Equal(t, 2, feed.Page.NumPages)
	assert.True(t, feed.IsFollowing)
	assert.Equal(t, FollowCounts{Followers: 1, Following: 0}, feed.Counts)

	anon, err := e.feed.Profile(ctx, "leo", "", 2)
	require.NoError(t, err)
	assert.False(t, anon.IsFollowing)
	assert.Equal(t, []string{"leo 0"}, texts(&anon.Page))

	self, err := e.feed.Profile(ctx, "leo", leo.ID, 1)
	require.NoError(t, err)
	assert.False(t, self.IsFollowing)

	_, err = e.feed.Profile(ctx, "nobody", "", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFeed_FollowShowsOnlyFollowedAuthors(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	leo := testutil.CreateUser(t, e.db, "leo")
	ann := testutil.CreateUser(t, e.db, "ann")
	bob := testutil.CreateUser(t, e.db, "bob")
	testutil.CreatePost(t, e.db, leo, nil, "by leo", time.Now())
	testutil.CreatePost(t, e.db, bob, nil, "by bob", time.Now())
	testutil.CreatePost(t, e.db, ann, nil, "by ann", time.Now())

	page, err := e.feed.Follow(ctx, ann.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	require.NoError(t, e.rel.Follow(ctx, ann.ID, leo.ID))
	page, err = e.feed.Follow(ctx, ann.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"by leo"}, texts(page))

	// bob 不关注任何人，看不到 leo 的帖子
	page, err = e.feed.Follow(ctx, bob.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	require.NoError(t, e.rel.Unfollow(ctx, ann.ID, leo.ID))
	page, err = e.feed.Follow(ctx, ann.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestFeed_SearchStates(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	leo := testutil.CreateUser(t, e.db, "leo")
	testutil.CreatePost(t, e.db, leo, nil, "Привет, мир", time.Now())
	testutil.CreatePost(t, e.db, leo, nil, "hello world", time.Now())

	res, err := e.feed.Search(ctx, "   ", 1)
	require.NoError(t, err)
	assert.Equal(t, SearchEmptyQuery, res.State)
	assert.NotEmpty(t, res.Message)
	assert.Empty(t, res.Page.Items)

	res, err = e.feed.Search(ctx, "nothing here", 1)
	require.NoError(t, err)
	assert.Equal(t, SearchNotFound, res.State)
	assert.NotEmpty(t, res.Message)

	res, err = e.feed.Search(ctx, "ПРИВЕТ", 1)
	require.NoError(t, err)
	assert.Equal(t, SearchFound, res.State)
	assert.Equal(t, "ПРИВЕТ", res.Query)
	assert.Equal(t, []string{"Привет, мир"}, texts(&res.Page))
}
