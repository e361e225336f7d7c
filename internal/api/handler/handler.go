package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/yatube/internal/api/middleware"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/internal/storage"
	"github.com/d60-Lab/yatube/pkg/auth"
	"github.com/d60-Lab/yatube/pkg/paginate"
	"github.com/d60-Lab/yatube/pkg/response"
	"github.com/d60-Lab/yatube/pkg/validate"
)

// Handler 所有 HTTP 处理函数共享的依赖
type Handler struct {
	userService   service.UserService
	groupService  service.GroupService
	postService   service.PostService
	feedService   service.FeedService
	relService    service.RelationshipService
	images        *storage.ImageStore
	tokens        *auth.TokenManager
	secureCookies bool
}

func NewHandler(
	userService service.UserService,
	groupService service.GroupService,
	postService service.PostService,
	feedService service.FeedService,
	relService service.RelationshipService,
	images *storage.ImageStore,
	tokens *auth.TokenManager,
) *Handler {
	return &Handler{
		userService:  userService,
		groupService: groupService,
		postService:  postService,
		feedService:  feedService,
		relService:   relService,
		images:       images,
		tokens:       tokens,
	}
}

// SetSecureCookies 生产环境下令牌 cookie 只走 https
func (h *Handler) SetSecureCookies(v bool) { h.secureCookies = v }

func pageNumber(c *gin.Context) int {
	return paginate.ParseNumber(c.Query("page"))
}

func profileURL(username string) string {
	return "/" + url.PathEscape(username) + "/"
}

func postURL(username, postID string) string {
	return profileURL(username) + url.PathEscape(postID) + "/"
}

// 业务错误到字段名的映射，其余错误按 500 处理
var fieldErrors = map[error]string{
	validate.ErrEmptyText:         "text",
	service.ErrUnknownGroup:       "group",
	storage.ErrNotImage:           "image",
	storage.ErrImageTooBig:        "image",
	service.ErrInvalidUsername:    "username",
	service.ErrReservedUsername:   "username",
	service.ErrUsernameTaken:      "username",
	service.ErrWeakPassword:       "password",
	service.ErrInvalidCredentials: "__all__",
}

func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotFound) {
		response.NotFound(c)
		return
	}
	for target, field := range fieldErrors {
		if errors.Is(err, target) {
			response.FormErrors(c, map[string][]string{field: {target.Error()}})
			return
		}
	}
	response.InternalError(c, err)
}

// bindErrors 把 gin 绑定错误转换成字段错误
func bindErrors(err error) map[string][]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string][]string{"__all__": {err.Error()}}
	}
	out := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		msg := fe.Error()
		switch fe.Tag() {
		case validate.NotBlankTag, "required":
			msg = validate.ErrEmptyText.Error()
		}
		out[field] = append(out[field], msg)
	}
	return out
}

// saveUpload 保存表单里的 image 文件；没有上传时返回空串
func (h *Handler) saveUpload(c *gin.Context) (string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", err
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return h.images.Save(f)
}

// discardUpload 写库失败时删除已经落盘的图片
func (h *Handler) discardUpload(rel string) {
	if rel != "" {
		_ = h.images.Remove(rel)
	}
}

func currentUserID(c *gin.Context) string {
	if u := middleware.CurrentUser(c); u != nil {
		return u.ID
	}
	return ""
}
