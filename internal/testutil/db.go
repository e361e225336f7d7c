// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/pkg/database"
)

// NewDB 打开一个独立的内存 sqlite 并完成迁移
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	require.NoError(tb, err)

	sqlDB, err := db.DB()
	require.NoError(tb, err)
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(tb, database.Migrate(db))
	return db
}

// CreateUser 直接落库一个用户
func CreateUser(tb testing.TB, db *gorm.DB, username string) *model.User {
	tb.Helper()
	u := &model.User{ID: uuid.NewString(), Username: username, Email: username + "@example.com", Password: "x"}
	require.NoError(tb, db.Create(u).Error)
	return u
}

// CreateGroup 直接落库一个分组
func CreateGroup(tb testing.TB, db *gorm.DB, title, slug string) *model.Group {
	tb.Helper()
	g := &model.Group{ID: uuid.NewString(), Title: title, Slug: slug, Description: title}
	require.NoError(tb, db.Create(g).Error)
	return g
}

// CreatePost 直接落库一个帖子，at 决定排序
func CreatePost(tb testing.TB, db *gorm.DB, author *model.User, group *model.Group, text string, at time.Time) *model.Post {
	tb.Helper()
	p := &model.Post{ID: uuid.NewString(), Text: text, AuthorID: author.ID, CreatedAt: at.UTC(), UpdatedAt: at.UTC()}
	if group != nil {
		p.GroupID = &group.ID
	}
	require.NoError(tb, db.Create(p).Error)
	return p
}
