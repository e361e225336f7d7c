package router

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/d60-Lab/yatube/docs"
	"github.com/d60-Lab/yatube/internal/api/handler"
	"github.com/d60-Lab/yatube/internal/api/middleware"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/auth"
	"github.com/d60-Lab/yatube/pkg/response"
	"github.com/d60-Lab/yatube/pkg/validate"
)

// Options 路由层的可选组件
type Options struct {
	Mode        string
	MediaRoot   string
	Tokens      *auth.TokenManager
	Users       service.UserService
	RateLimiter *middleware.IPRateLimiter // nil 表示不限流
	Sentry      bool
	Tracing     bool
	ServiceName string
}

// Setup 注册全部中间件和路由
func Setup(h *handler.Handler, opts Options) (*gin.Engine, error) {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}
	if err := validate.RegisterBindings(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Logger())
	if opts.Sentry {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if opts.Tracing {
		r.Use(otelgin.Middleware(opts.ServiceName))
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/media/"})))
	r.Use(middleware.Authenticate(opts.Tokens, opts.Users))
	r.NoRoute(response.NotFound)

	if opts.MediaRoot != "" {
		r.Static("/media", opts.MediaRoot)
	}
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	limit := func(c *gin.Context) { c.Next() }
	if opts.RateLimiter != nil {
		limit = middleware.RateLimit(opts.RateLimiter)
	}

	r.GET("/", h.Index)
	r.GET("/group/:slug/", h.GroupPosts)
	r.GET("/search/", h.Search)

	authGroup := r.Group("/auth")
	{
		authGroup.GET("/login/", h.LoginPage)
		authGroup.POST("/login/", limit, h.Login)
		authGroup.POST("/signup/", limit, h.Signup)
		authGroup.GET("/logout/", h.Logout)
	}

	protected := r.Group("/", middleware.RequireLogin())
	{
		protected.GET("/new/", h.NewPostPage)
		protected.POST("/new/", limit, h.CreatePost)
		protected.GET("/follow/", h.FollowIndex)
		protected.GET("/:username/follow/", limit, h.ProfileFollow)
		protected.GET("/:username/unfollow/", limit, h.ProfileUnfollow)
		protected.GET("/:username/:post_id/edit/", h.EditPostPage)
		protected.POST("/:username/:post_id/edit/", limit, h.UpdatePost)
		protected.POST("/:username/:post_id/comment/", limit, h.AddComment)
		protected.GET("/:username/:post_id/delete/", limit, h.DeletePost)
		protected.POST("/:username/:post_id/delete/", limit, h.DeletePost)
		protected.GET("/:username/:post_id/comment/:comment_id/delete/", limit, h.DeleteComment)
	}

	r.GET("/:username/", h.Profile)
	r.GET("/:username/:post_id/", h.PostView)

	return r, nil
}
