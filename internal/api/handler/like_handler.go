package handler

import (
	"music-go/internal/api/dto"
	"music-go/internal/api/response"
	"music-go/internal/service"

	"github.com/gin-gonic/gin"
)

type LikeHandler struct {
	likeService *service.LikeService
}

func NewLikeHandler(likeService *service.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

// Toggle 点赞/取消点赞
// @Summary 切换点赞
// @Tags 点赞
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.LikeToggleRequest true "音轨"
// @Success 200 {object} response.Response{data=dto.LikeToggleResult} "操作成功"
// @Failure 404 {object} response.ErrorResponse "音轨不存在"
// @Router /likes [post]
func (h *LikeHandler) Toggle(c *gin.Context) {
	var req dto.LikeToggleRequest
	if !bindJSON(c, &req) {
		return
	}

	data, err := h.likeService.Toggle(mustPrincipal(c).ProfileID, req.TrackID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, data.Message, data)
}

// Add 点赞
// @Summary 点赞
// @Tags 点赞
// @Produce json
// @Security BearerAuth
// @Param id path int true "音轨ID"
// @Success 200 {object} response.Response{data=dto.LikeStatus} "点赞成功"
// @Failure 409 {object} response.ErrorResponse "已点赞"
// @Router /tracks/{id}/likes [post]
func (h *LikeHandler) Add(c *gin.Context) {
	trackID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := h.likeService.Add(mustPrincipal(c).ProfileID, trackID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "点赞成功", data)
}

// Remove 取消点赞
// @Summary 取消点赞
// @Tags 点赞
// @Produce json
// @Security BearerAuth
// @Param id path int true "音轨ID"
// @Success 200 {object} response.Response{data=dto.LikeStatus} "已取消"
// @Failure 404 {object} response.ErrorResponse "尚未点赞"
// @Router /tracks/{id}/likes [delete]
func (h *LikeHandler) Remove(c *gin.Context) {
	trackID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := h.likeService.Remove(mustPrincipal(c).ProfileID, trackID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "已取消点赞", data)
}

// ListByTrack 点赞用户列表
// @Summary 音轨点赞列表
// @Tags 点赞
// @Produce json
// @Param track_id path int true "音轨ID"
// @Param skip query int false "跳过条数" default(0)
// @Param limit query int false "每页条数" default(50)
// @Success 200 {object} response.Response{data=dto.TrackLikeListData} "获取成功"
// @Router /likes/track/{track_id} [get]
func (h *LikeHandler) ListByTrack(c *gin.Context) {
	trackID, err := parseIDParam(c, "track_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	skip, limit, err := parsePagination(c, DefaultLimit)
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := h.likeService.ListByTrack(trackID, skip, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "获取成功", data)
}

// MyLikes 我点赞过的音轨
// @Summary 我的点赞
// @Tags 点赞
// @Produce json
// @Security BearerAuth
// @Param skip query int false "跳过条数" default(0)
// @Param limit query int false "每页条数" default(50)
// @Success 200 {object} response.Response{data=dto.TrackListData} "获取成功"
// @Router /users/me/likes [get]
func (h *LikeHandler) MyLikes(c *gin.Context) {
	skip, limit, err := parsePagination(c, DefaultLimit)
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := h.likeService.LikedTracks(mustPrincipal(c).ProfileID, skip, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "获取成功", data)
}
