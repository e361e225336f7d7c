// Package validate holds the text rules shared by the data layer (gorm hooks)
// and the form layer (gin binding tags).
package validate

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// NotBlankTag 表单绑定中使用的 tag 名，例如 `binding:"notblank"`
const NotBlankTag = "notblank"

var ErrEmptyText = errors.New("this field is required and cannot be blank")

// NotEmpty 拒绝空串及只包含空白字符的文本，返回去掉首尾空白后的文本；
// 帖子和评论入库前都走这里
func NotEmpty(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	return text, nil
}

func notBlank(fl validator.FieldLevel) bool {
	_, err := NotEmpty(fl.Field().String())
	return err == nil
}

// RegisterBindings 把 notblank 注册到 gin 默认的校验引擎上
func RegisterBindings() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	return v.RegisterValidation(NotBlankTag, notBlank)
}
