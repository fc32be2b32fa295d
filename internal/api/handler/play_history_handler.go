package handler

import (
	"music-go/internal/api/response"
	"music-go/internal/service"

	"github.com/gin-gonic/gin"
)

type PlayHistoryHandler struct {
	playService *service.PlayHistoryService
}

func NewPlayHistoryHandler(playService *service.PlayHistoryService) *PlayHistoryHandler {
	return &PlayHistoryHandler{playService: playService}
}

// Record 记录一次播放
// @Summary 记录播放
// @Tags 播放记录
// @Produce json
// @Security BearerAuth
// @Param id path int true "音轨ID"
// @Success 201 {object} response.Response{data=dto.PlayRecordInfo} "记录成功"
// @Failure 404 {object} response.ErrorResponse "音轨不存在"
// @Router /tracks/{id}/play [post]
func (h *PlayHistoryHandler) Record(c *gin.Context) {
	trackID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := h.playService.Record(mustPrincipal(c).ProfileID, trackID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "记录成功", data)
}

// History 我的播放记录
// @Summary 播放记录
// @Tags 播放记录
// @Produce json
// @Security BearerAuth
// @Param skip query int false "跳过条数" default(0)
// @Param limit query int false "每页条数" default(50)
// @Success 200 {object} response.Response{data=dto.PlayHistoryListData} "获取成功"
// @Router /users/me/history [get]
func (h *PlayHistoryHandler) History(c *gin.Context) {
	skip, limit, err := parsePagination(c, DefaultLimit)
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := h.playService.History(mustPrincipal(c).ProfileID, skip, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "获取成功", data)
}

// RecentlyPlayed 最近播放（去重）
// @Summary 最近播放
// @Tags 播放记录
// @Produce json
// @Security BearerAuth
// @Param limit query int false "条数" default(20)
// @Success 200 {object} response.Response{data=dto.RecentlyPlayedData} "获取成功"
// @Router /users/me/recently-played [get]
func (h *PlayHistoryHandler) RecentlyPlayed(c *gin.Context) {
	_, limit, err := parsePagination(c, service.RecentlyPlayedDefault)
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := h.playService.RecentlyPlayed(mustPrincipal(c).ProfileID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "获取成功", data)
}

// PlayCount 播放次数
// @Summary 播放次数
// @Tags 播放记录
// @Produce json
// @Param id path int true "音轨ID"
// @Success 200 {object} response.Response{data=dto.PlayCountInfo} "获取成功"
// @Router /tracks/{id}/play-count [get]
func (h *PlayHistoryHandler) PlayCount(c *gin.Context) {
	trackID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := h.playService.PlayCount(trackID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "获取成功", data)
}
