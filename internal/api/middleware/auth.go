package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/auth"
	"github.com/d60-Lab/yatube/pkg/logger"
)

const (
	// TokenCookie 登录后写入的 cookie 名
	TokenCookie = "access_token"
	// LoginPath 未登录访问受保护页面时跳转的地址
	LoginPath = "/auth/login/"

	userKey = "current_user"
)

// Authenticate 从 Authorization 头或 cookie 中解析用户；失败时按匿名用户继续
func Authenticate(tokens *auth.TokenManager, users service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.Next()
			return
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			c.Next()
			return
		}
		u, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			// 令牌有效但用户已被删除
			logger.Debug("token user not found", zap.String("uid", claims.UserID), zap.Error(err))
			c.Next()
			return
		}
		c.Set(userKey, u)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if v, err := c.Cookie(TokenCookie); err == nil {
		return v
	}
	return ""
}

// CurrentUser 当前登录用户，匿名时为 nil
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*model.User)
	return u
}

// RequireLogin 未登录时跳转到登录页，next 保留原始地址
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoginURL 例如 /auth/login/?next=/new/
func LoginURL(next string) string {
	if next == "" {
		return LoginPath
	}
	q := strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
	return LoginPath + "?next=" + q
}
