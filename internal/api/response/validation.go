package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ValidationErrorResponse 带字段明细的参数校验错误响应
type ValidationErrorResponse struct {
	Error  ErrorInfo         `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// ValidationFailed 返回 422 参数校验错误，binding 错误会展开为字段级消息
func ValidationFailed(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		Fail(c, http.StatusUnprocessableEntity, "ValidationError", err.Error())
		return
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[strings.ToLower(fe.Field())] = fieldMessage(fe)
	}

	c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{
		Error: ErrorInfo{
			Code:    http.StatusUnprocessableEntity,
			Message: "请求参数校验失败",
			Type:    "ValidationError",
		},
		Fields: fields,
	})
}

// fieldMessage 将校验 tag 翻译为可读消息
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "该字段为必填项"
	case "email":
		return "邮箱格式无效"
	case "min":
		return fmt.Sprintf("长度或数值不能小于 %s", fe.Param())
	case "max":
		return fmt.Sprintf("长度或数值不能大于 %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("取值必须是以下之一: %s", fe.Param())
	case "gt":
		return fmt.Sprintf("数值必须大于 %s", fe.Param())
	case "datetime":
		return fmt.Sprintf("日期格式必须为 %s", fe.Param())
	default:
		return fmt.Sprintf("字段未通过 %s 校验", fe.Tag())
	}
}
