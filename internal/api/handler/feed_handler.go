package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/pkg/response"
)

// Index 首页，所有帖子按时间倒序
// @Summary 首页
// @Description 结果缓存 20 秒，新帖在缓存过期后出现
// @Tags feed
// @Produce json
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=service.PostPage}
// @Router / [get]
func (h *Handler) Index(c *gin.Context) {
	page, err := h.feedService.Home(c.Request.Context(), pageNumber(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"page": page})
}

// GroupPosts 分组页
// @Summary 分组帖子
// @Tags feed
// @Produce json
// @Param slug path string true "分组 slug"
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=service.GroupFeed}
// @Failure 404 {object} response.Response
// @Router /group/{slug}/ [get]
func (h *Handler) GroupPosts(c *gin.Context) {
	feed, err := h.feedService.Group(c.Request.Context(), c.Param("slug"), pageNumber(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, feed)
}

// Profile 作者主页，带粉丝数与关注数
// @Summary 作者主页
// @Tags feed
// @Produce json
// @Param username path string true "用户名"
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=service.ProfileFeed}
// @Failure 404 {object} response.Response
// @Router /{username}/ [get]
func (h *Handler) Profile(c *gin.Context) {
	feed, err := h.feedService.Profile(c.Request.Context(), c.Param("username"), currentUserID(c), pageNumber(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, feed)
}

// FollowIndex 关注作者的帖子流
// @Summary 关注流
// @Tags feed
// @Produce json
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=service.PostPage}
// @Success 302 "未登录时跳转到登录页"
// @Router /follow/ [get]
func (h *Handler) FollowIndex(c *gin.Context) {
	page, err := h.feedService.Follow(c.Request.Context(), currentUserID(c), pageNumber(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"page": page})
}

// Search 全文子串搜索，大小写无关
// @Summary 搜索
// @Tags feed
// @Produce json
// @Param search_query query string false "搜索词"
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=service.SearchResult}
// @Router /search/ [get]
func (h *Handler) Search(c *gin.Context) {
	res, err := h.feedService.Search(c.Request.Context(), c.Query("search_query"), pageNumber(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, res)
}
