package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/internal/api/middleware"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/response"
)

type postForm struct {
	Text       string `form:"text" json:"text" binding:"notblank"`
	Group      string `form:"group" json:"group"`
	ClearImage string `form:"image-clear" json:"image_clear"`
}

type commentForm struct {
	Text string `form:"text" json:"text" binding:"notblank"`
}

// NewPostPage 新建帖子表单所需数据
// @Summary 新建帖子表单
// @Tags posts
// @Produce json
// @Success 200 {object} response.Response
// @Router /new/ [get]
func (h *Handler) NewPostPage(c *gin.Context) {
	groups, err := h.groupService.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"groups": groups, "edit": false})
}

// CreatePost 新建帖子，成功后跳转首页
// @Summary 新建帖子
// @Tags posts
// @Accept multipart/form-data
// @Produce json
// @Param text formData string true "正文"
// @Param group formData string false "分组 ID"
// @Param image formData file false "图片"
// @Success 303 "跳转到首页"
// @Failure 400 {object} response.Response
// @Router /new/ [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		response.FormErrors(c, bindErrors(err))
		return
	}
	image, err := h.saveUpload(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	_, err = h.postService.Create(c.Request.Context(), currentUserID(c), service.PostInput{
		Text:    form.Text,
		GroupID: form.Group,
		Image:   image,
	})
	if err != nil {
		h.discardUpload(image)
		h.fail(c, err)
		return
	}
	response.SeeOther(c, "/")
}

// PostView 单个帖子及评论
// @Summary 帖子详情
// @Tags posts
// @Produce json
// @Param username path string true "作者"
// @Param post_id path string true "帖子 ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /{username}/{post_id}/ [get]
func (h *Handler) PostView(c *gin.Context) {
	ctx := c.Request.Context()
	post, err := h.postService.Get(ctx, c.Param("username"), c.Param("post_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	comments, err := h.postService.Comments(ctx, post.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"post": post, "author": post.Author, "comments": comments})
}

// EditPostPage 编辑表单；非作者跳回帖子页
// @Summary 编辑帖子表单
// @Tags posts
// @Produce json
// @Param username path string true "作者"
// @Param post_id path string true "帖子 ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /{username}/{post_id}/edit/ [get]
func (h *Handler) EditPostPage(c *gin.Context) {
	ctx := c.Request.Context()
	username, postID := c.Param("username"), c.Param("post_id")
	post, err := h.postService.Get(ctx, username, postID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if post.AuthorID != currentUserID(c) {
		response.SeeOther(c, postURL(username, postID))
		return
	}
	groups, err := h.groupService.List(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"post": post, "groups": groups, "edit": true})
}

// UpdatePost 保存编辑，成功后跳转帖子页
// @Summary 编辑帖子
// @Tags posts
// @Accept multipart/form-data
// @Produce json
// @Param username path string true "作者"
// @Param post_id path string true "帖子 ID"
// @Param text formData string true "正文"
// @Param group formData string false "分组 ID"
// @Param image formData file false "新图片"
// @Param image-clear formData string false "非空时删除图片"
// @Success 303 "跳转到帖子页"
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /{username}/{post_id}/edit/ [post]
func (h *Handler) UpdatePost(c *gin.Context) {
	ctx := c.Request.Context()
	username, postID := c.Param("username"), c.Param("post_id")
	post, err := h.postService.Get(ctx, username, postID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if post.AuthorID != currentUserID(c) {
		response.SeeOther(c, postURL(username, postID))
		return
	}

	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		response.FormErrors(c, bindErrors(err))
		return
	}
	image, err := h.saveUpload(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	_, err = h.postService.Update(ctx, currentUserID(c), username, postID, service.PostInput{
		Text:       form.Text,
		GroupID:    form.Group,
		Image:      image,
		ClearImage: form.ClearImage != "",
	})
	if err != nil {
		h.discardUpload(image)
		if errors.Is(err, service.ErrForbidden) {
			response.SeeOther(c, postURL(username, postID))
			return
		}
		h.fail(c, err)
		return
	}
	response.SeeOther(c, postURL(username, postID))
}

// DeletePost 删除帖子及其评论，成功后跳转首页
// @Summary 删除帖子
// @Tags posts
// @Param username path string true "作者"
// @Param post_id path string true "帖子 ID"
// @Success 303 "跳转到首页"
// @Failure 404 {object} response.Response
// @Router /{username}/{post_id}/delete/ [get]
func (h *Handler) DeletePost(c *gin.Context) {
	username, postID := c.Param("username"), c.Param("post_id")
	err := h.postService.Delete(c.Request.Context(), currentUserID(c), username, postID)
	switch {
	case err == nil:
		response.SeeOther(c, "/")
	case errors.Is(err, service.ErrForbidden):
		response.SeeOther(c, postURL(username, postID))
	default:
		h.fail(c, err)
	}
}

// AddComment 添加评论，无论是否成功都跳回帖子页
// @Summary 添加评论
// @Tags comments
// @Accept x-www-form-urlencoded
// @Param username path string true "作者"
// @Param post_id path string true "帖子 ID"
// @Param text formData string true "评论内容"
// @Success 303 "跳转到帖子页"
// @Failure 404 {object} response.Response
// @Router /{username}/{post_id}/comment/ [post]
func (h *Handler) AddComment(c *gin.Context) {
	username, postID := c.Param("username"), c.Param("post_id")
	var form commentForm
	if err := c.ShouldBind(&form); err != nil {
		// 空评论直接忽略，帖子不存在仍然需要 404
		if _, gErr := h.postService.Get(c.Request.Context(), username, postID); gErr != nil {
			h.fail(c, gErr)
			return
		}
		response.SeeOther(c, postURL(username, postID))
		return
	}
	if _, err := h.postService.AddComment(c.Request.Context(), currentUserID(c), username, postID, form.Text); err != nil {
		h.fail(c, err)
		return
	}
	response.SeeOther(c, postURL(username, postID))
}

// DeleteComment 评论作者或帖子作者删除评论
// @Summary 删除评论
// @Tags comments
// @Param username path string true "作者"
// @Param post_id path string true "帖子 ID"
// @Param comment_id path string true "评论 ID"
// @Success 303 "跳转到帖子页"
// @Failure 404 {object} response.Response
// @Router /{username}/{post_id}/comment/{comment_id}/delete/ [get]
func (h *Handler) DeleteComment(c *gin.Context) {
	username, postID := c.Param("username"), c.Param("post_id")
	u := middleware.CurrentUser(c)
	err := h.postService.DeleteComment(c.Request.Context(), u.ID, username, postID, c.Param("comment_id"))
	if err != nil && !errors.Is(err, service.ErrForbidden) {
		h.fail(c, err)
		return
	}
	response.SeeOther(c, postURL(username, postID))
}
