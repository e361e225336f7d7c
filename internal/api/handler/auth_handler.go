package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/d60-Lab/yatube/internal/api/middleware"
	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/pkg/response"
)

type loginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
	Next     string `form:"next" json:"next"`
}

type signupRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Email    string `form:"email" json:"email" binding:"omitempty,email"`
	Password string `form:"password" json:"password" binding:"required"`
	Next     string `form:"next" json:"next"`
}

// LoginResponse JSON 客户端登录/注册成功后的返回
type LoginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
	Next  string      `json:"next"`
}

// safeNext 只允许站内相对路径，防止开放跳转
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

// LoginPage 登录表单
// @Summary 登录表单
// @Tags auth
// @Produce json
// @Param next query string false "登录后跳转地址"
// @Success 200 {object} response.Response
// @Router /auth/login/ [get]
func (h *Handler) LoginPage(c *gin.Context) {
	response.Success(c, gin.H{"next": safeNext(c.Query("next"))})
}

// Login 校验用户名密码并写入令牌 cookie
// @Summary 登录
// @Tags auth
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param username formData string true "用户名"
// @Param password formData string true "密码"
// @Param next formData string false "登录后跳转地址"
// @Success 200 {object} response.Response{data=LoginResponse}
// @Success 303 "表单提交时跳转到 next"
// @Failure 400 {object} response.Response
// @Router /auth/login/ [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.FormErrors(c, bindErrors(err))
		return
	}
	if req.Next == "" {
		req.Next = c.Query("next")
	}
	u, err := h.userService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.signIn(c, u, req.Next)
}

// Signup 注册并直接登录
// @Summary 注册
// @Tags auth
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param username formData string true "用户名"
// @Param email formData string false "邮箱"
// @Param password formData string true "密码，至少 8 位"
// @Success 200 {object} response.Response{data=LoginResponse}
// @Success 303 "表单提交时跳转到 next"
// @Failure 400 {object} response.Response
// @Router /auth/signup/ [post]
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBind(&req); err != nil {
		response.FormErrors(c, bindErrors(err))
		return
	}
	u, err := h.userService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.signIn(c, u, req.Next)
}

// Logout 清除令牌 cookie
// @Summary 退出登录
// @Tags auth
// @Success 303 "跳转到首页"
// @Router /auth/logout/ [get]
func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.secureCookies, true)
	response.SeeOther(c, "/")
}

func (h *Handler) signIn(c *gin.Context, u *model.User, next string) {
	token, err := h.tokens.Issue(u.ID, u.Username)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, int(h.tokens.Expiry().Seconds()), "/", "", h.secureCookies, true)

	next = safeNext(next)
	if c.ContentType() == binding.MIMEJSON {
		response.Success(c, LoginResponse{Token: token, User: u, Next: next})
		return
	}
	response.SeeOther(c, next)
}
