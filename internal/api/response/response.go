package response

import (
	"errors"
	"net/http"

	"music-go/pkg/apperr"
	"music-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一成功响应
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorInfo 错误详情
type ErrorInfo struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details"`
}

// ErrorResponse 统一错误响应
type ErrorResponse struct {
	Error ErrorInfo `json:"error"`
}

func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error 把错误翻译成统一错误响应；非业务错误一律返回 500，细节只写日志
func Error(c *gin.Context, err error) {
	status, body := build(err)
	if status == http.StatusInternalServerError {
		logger.Error("Unhandled error",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
	}
	_ = c.Error(err)
	c.JSON(status, body)
}

// Abort 写出错误响应并终止后续处理，供中间件使用
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

// Internal 500 响应，不暴露内部信息
func Internal(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, internalBody())
}

func build(err error) (int, ErrorResponse) {
	var e *apperr.Error
	if !errors.As(err, &e) || e.Kind == apperr.KindInternal {
		return http.StatusInternalServerError, internalBody()
	}
	details := e.Details
	if details == nil {
		details = map[string]interface{}{}
	}
	return e.Status(), ErrorResponse{Error: ErrorInfo{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}}
}

func internalBody() ErrorResponse {
	return ErrorResponse{Error: ErrorInfo{
		Code:    apperr.CodeInternalError,
		Message: "服务器内部错误",
		Details: map[string]interface{}{},
	}}
}
