package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/pkg/logger"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func JSON(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{Code: status, Message: message, Data: data})
}

func Success(c *gin.Context, data interface{}) {
	JSON(c, http.StatusOK, "ok", data)
}

func BadRequest(c *gin.Context, message string) {
	JSON(c, http.StatusBadRequest, message, nil)
}

// FormErrors 表单字段错误（字段名 -> 错误列表）
func FormErrors(c *gin.Context, fields map[string][]string) {
	JSON(c, http.StatusBadRequest, "form is invalid", gin.H{"errors": fields})
}

func Unauthorized(c *gin.Context, message string) {
	JSON(c, http.StatusUnauthorized, message, nil)
}

func Conflict(c *gin.Context, message string) {
	JSON(c, http.StatusConflict, message, nil)
}

// NotFound 自定义 404 页面
func NotFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, Response{
		Code:    http.StatusNotFound,
		Message: "page not found",
		Data:    gin.H{"path": c.Request.URL.Path},
	})
}

// InternalError 自定义 500 页面，错误细节只写日志
func InternalError(c *gin.Context, err error) {
	if err != nil {
		logger.Error("internal error", zap.String("path", c.Request.URL.Path), zap.Error(err))
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, Response{
		Code:    http.StatusInternalServerError,
		Message: "internal server error",
	})
}

// SeeOther 表单提交成功后的跳转
func SeeOther(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}
