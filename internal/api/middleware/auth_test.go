package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/d60-Lab/yatube/internal/model"
)

func TestLoginURL(t *testing.T) {
	assert.Equal(t, "/auth/login/?next=/new/", LoginURL("/new/"))
	assert.Equal(t, "/auth/login/?next=/search/%3Fsearch_query%3Dgo", LoginURL("/search/?search_query=go"))
	assert.Equal(t, LoginPath, LoginURL(""))
}

func TestRequireLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/anon/", RequireLogin(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/user/", func(c *gin.Context) {
		c.Set(userKey, &model.User{ID: "u1", Username: "leo"})
	}, RequireLogin(), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUser(c).Username)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/anon/", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=/anon/", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "leo", w.Body.String())
}

func TestBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"header", "Bearer abc", "", "abc"},
		{"header wins", "Bearer abc", "def", "abc"},
		{"cookie", "", "def", "def"},
		{"bad scheme", "Basic abc", "", ""},
		{"none", "", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tc.cookie})
			}
			c.Request = req
			assert.Equal(t, tc.want, bearerToken(c))
		})
	}
}
