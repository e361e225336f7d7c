package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/testutil"
	"github.com/d60-Lab/yatube/pkg/validate"
)

func postIDs(posts []*model.Post) []string {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

func TestPostRepository_ListOrderingAndFilters(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	leo := testutil.CreateUser(t, db, "leo")
	ann := testutil.CreateUser(t, db, "ann")
	cats := testutil.CreateGroup(t, db, "Cats", "cats")

	p1 := testutil.CreatePost(t, db, leo, cats, "first", base)
	p2 := testutil.CreatePost(t, db, ann, nil, "second", base.Add(time.Minute))
	p3 := testutil.CreatePost(t, db, leo, nil, "third", base.Add(2*time.Minute))

	all, err := repo.List(ctx, PostFilter{}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{p3.ID, p2.ID, p1.ID}, postIDs(all))
	require.NotNil(t, all[0].Author)
	assert.Equal(t, "leo", all[0].Author.Username)

	byAuthor, err := repo.List(ctx, PostFilter{AuthorID: leo.ID}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{p3.ID, p1.ID}, postIDs(byAuthor))

	byGroup, err := repo.List(ctx, PostFilter{GroupID: cats.ID}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{p1.ID}, postIDs(byGroup))
	require.NotNil(t, byGroup[0].Group)
	assert.Equal(t, "cats", byGroup[0].Group.Slug)

	cnt, err := repo.Count(ctx, PostFilter{AuthorID: leo.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, cnt)

	page2, err := repo.List(ctx, PostFilter{}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{p1.ID}, postIDs(page2))
}

func TestPostRepository_FollowFilter(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	follows := NewFollowRepository(db)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	reader := testutil.CreateUser(t, db, "reader")
	leo := testutil.CreateUser(t, db, "leo")
	ann := testutil.CreateUser(t, db, "ann")
	testutil.CreatePost(t, db, ann, nil, "not followed", base)
	followed := testutil.CreatePost(t, db, leo, nil, "followed", base.Add(time.Second))
	testutil.CreatePost(t, db, reader, nil, "own post", base.Add(2*time.Second))

	empty, err := repo.List(ctx, PostFilter{FollowerID: reader.ID}, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = follows.Create(ctx, reader.ID, leo.ID)
	require.NoError(t, err)

	feed, err := repo.List(ctx, PostFilter{FollowerID: reader.ID}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{followed.ID}, postIDs(feed))
}

func TestPostRepository_SearchIsCaseInsensitive(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	leo := testutil.CreateUser(t, db, "leo")
	hit1 := testutil.CreatePost(t, db, leo, nil, "Это текст публикации", base)
	hit2 := testutil.CreatePost(t, db, leo, nil, "ПУБЛИКАЦИИ заглавными", base.Add(time.Second))
	testutil.CreatePost(t, db, leo, nil, "совсем другое", base.Add(2*time.Second))
	testutil.CreatePost(t, db, leo, nil, "100% wildcard", base.Add(3*time.Second))

	res, err := repo.List(ctx, PostFilter{Query: "публикации"}, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, []string{hit2.ID, hit1.ID}, postIDs(res))

	none, err := repo.List(ctx, PostFilter{Query: "отсутствует"}, 0, 20)
	require.NoError(t, err)
	assert.Empty(t, none)

	// % 和 _ 按字面匹配
	pct, err := repo.Count(ctx, PostFilter{Query: "0%"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, pct)
	under, err := repo.Count(ctx, PostFilter{Query: "_"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, under)
}

func TestPostRepository_RejectsBlankText(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	leo := testutil.CreateUser(t, db, "leo")

	err := repo.Create(ctx, &model.Post{Text: "   ", AuthorID: leo.ID})
	assert.ErrorIs(t, err, validate.ErrEmptyText)

	cnt, err := repo.Count(ctx, PostFilter{})
	require.NoError(t, err)
	assert.Zero(t, cnt)

	p := &model.Post{Text: "valid", AuthorID: leo.ID}
	require.NoError(t, repo.Create(ctx, p))
	p.Text = ""
	assert.ErrorIs(t, repo.Save(ctx, p), validate.ErrEmptyText)

	stored, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "valid", stored.Text)
}

func TestPostRepository_DeleteRemovesComments(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	comments := NewCommentRepository(db)
	ctx := context.Background()

	leo := testutil.CreateUser(t, db, "leo")
	p := testutil.CreatePost(t, db, leo, nil, "post", time.Now())
	require.NoError(t, comments.Create(ctx, &model.Comment{PostID: p.ID, AuthorID: leo.ID, Text: "c1"}))

	require.NoError(t, repo.Delete(ctx, p.ID))

	_, err := repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	left, err := comments.ListByPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	assert.ErrorIs(t, repo.Delete(ctx, p.ID), gorm.ErrRecordNotFound)
}
