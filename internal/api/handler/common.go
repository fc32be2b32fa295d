package handler

import (
	"strconv"

	"music-go/internal/api/middleware"
	"music-go/internal/api/response"
	"music-go/pkg/apperr"

	"github.com/gin-gonic/gin"
)

// 分页默认值
const (
	DefaultLimit = 50
	MaxLimit     = 100
)

var (
	ErrInvalidID      = apperr.Validation("无效的ID")
	ErrInvalidRequest = apperr.Validation("请求参数无效")
	ErrInvalidPage    = apperr.Validation("分页参数无效")
)

// parseIDParam 解析路径中的正整数ID
func parseIDParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID.WithDetail("param", name)
	}
	return id, nil
}

// parsePagination skip >= 0，limit 在 1..100
func parsePagination(c *gin.Context, defaultLimit int) (int, int, error) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		return 0, 0, ErrInvalidPage.WithDetail("skip", c.Query("skip"))
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 || limit > MaxLimit {
		return 0, 0, ErrInvalidPage.WithDetail("limit", c.Query("limit"))
	}
	return skip, limit, nil
}

// bindJSON 绑定失败时直接写出 422
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, ErrInvalidRequest.Wrap(err).WithDetail("error", err.Error()))
		return false
	}
	return true
}

// viewerID 匿名访问返回 0
func viewerID(c *gin.Context) int64 {
	id, _ := middleware.GetCurrentUserID(c)
	return id
}

// mustPrincipal 只用在 Required 之后的路由上
func mustPrincipal(c *gin.Context) *middleware.Principal {
	p, _ := middleware.GetPrincipal(c)
	return p
}
