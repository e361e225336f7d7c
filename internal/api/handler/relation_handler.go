package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/response"
)

// ProfileFollow 关注作者；重复关注、关注自己都视为成功
// @Summary 关注作者
// @Tags 关系链
// @Param username path string true "作者用户名"
// @Success 303 "跳转到作者主页"
// @Failure 404 {object} response.Response
// @Router /{username}/follow/ [get]
func (h *Handler) ProfileFollow(c *gin.Context) {
	ctx := c.Request.Context()
	username := c.Param("username")
	author, err := h.userService.GetByUsername(ctx, username)
	if err != nil {
		h.fail(c, err)
		return
	}
	err = h.relService.Follow(ctx, currentUserID(c), author.ID)
	if err != nil && !errors.Is(err, service.ErrAlreadyFollowing) && !errors.Is(err, service.ErrFollowSelf) {
		h.fail(c, err)
		return
	}
	response.SeeOther(c, profileURL(username))
}

// ProfileUnfollow 取消关注；没有关注关系时为空操作
// @Summary 取消关注
// @Tags 关系链
// @Param username path string true "作者用户名"
// @Success 303 "跳转到作者主页"
// @Failure 404 {object} response.Response
// @Router /{username}/unfollow/ [get]
func (h *Handler) ProfileUnfollow(c *gin.Context) {
	ctx := c.Request.Context()
	username := c.Param("username")
	author, err := h.userService.GetByUsername(ctx, username)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.relService.Unfollow(ctx, currentUserID(c), author.ID); err != nil {
		h.fail(c, err)
		return
	}
	response.SeeOther(c, profileURL(username))
}
