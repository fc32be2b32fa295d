package handler

import (
	"music-go/internal/api/response"
	"music-go/internal/service"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	followService *service.FollowService
}

func NewFollowHandler(followService *service.FollowService) *FollowHandler {
	return &FollowHandler{followService: followService}
}

// Follow 关注用户
// @Summary 关注用户
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=dto.FollowResult} "关注成功"
// @Failure 409 {object} response.ErrorResponse "已关注"
// @Failure 422 {object} response.ErrorResponse "不能关注自己"
// @Router /follows/users/{id}/follow [post]
func (h *FollowHandler) Follow(c *gin.Context) {
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := h.followService.Follow(mustPrincipal(c).ProfileID, targetID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "关注成功", data)
}

// Unfollow 取消关注
// @Summary 取消关注
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=dto.FollowResult} "已取消关注"
// @Failure 404 {object} response.ErrorResponse "尚未关注"
// @Router /follows/users/{id}/follow [delete]
func (h *FollowHandler) Unfollow(c *gin.Context) {
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := h.followService.Unfollow(mustPrincipal(c).ProfileID, targetID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "已取消关注", data)
}

// Followers 粉丝列表
// @Summary 粉丝列表
// @Tags 关注
// @Produce json
// @Param id path int true "用户ID"
// @Param skip query int false "跳过条数" default(0)
// @Param limit query int false "每页条数" default(50)
// @Success 200 {object} response.Response{data=dto.UserListData} "获取成功"
// @Router /follows/users/{id}/followers [get]
func (h *FollowHandler) Followers(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	skip, limit, err := parsePagination(c, DefaultLimit)
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := h.followService.Followers(userID, skip, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "获取成功", data)
}

// Following 关注列表
// @Summary 关注列表
// @Tags 关注
// @Produce json
// @Param id path int true "用户ID"
// @Param skip query int false "跳过条数" default(0)
// @Param limit query int false "每页条数" default(50)
// @Success 200 {object} response.Response{data=dto.UserListData} "获取成功"
// @Router /follows/users/{id}/following [get]
func (h *FollowHandler) Following(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	skip, limit, err := parsePagination(c, DefaultLimit)
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := h.followService.Following(userID, skip, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "获取成功", data)
}

// Status 双向关注状态
// @Summary 关注状态
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=dto.FollowStatus} "获取成功"
// @Router /follows/users/{id}/follow-status [get]
func (h *FollowHandler) Status(c *gin.Context) {
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := h.followService.Status(mustPrincipal(c).ProfileID, targetID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "获取成功", data)
}
