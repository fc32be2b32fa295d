package handler

import (
	"net/http"
	"os"
	"strings"

	"music-go/internal/api/dto"
	"music-go/internal/api/response"
	"music-go/internal/service"
	"music-go/internal/storage"
	"music-go/pkg/apperr"
	"music-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var ErrStreamUnavailable = apperr.NotFound("音频文件不存在")

type TrackHandler struct {
	trackService *service.TrackService
	playService  *service.PlayHistoryService
	localStore   *storage.LocalStore
}

func NewTrackHandler(trackService *service.TrackService, playService *service.PlayHistoryService, localStore *storage.LocalStore) *TrackHandler {
	return &TrackHandler{trackService: trackService, playService: playService, localStore: localStore}
}

// List 最新音轨
// @Summary 音轨列表
// @Tags 音轨
// @Produce json
// @Param skip query int false "跳过条数" default(0)
// @Param limit query int false "每页条数" default(50)
// @Success 200 {object} response.Response{data=dto.TrackListData} "获取成功"
// @Router /tracks [get]
func (h *TrackHandler) List(c *gin.Context) {
	skip, limit, err := parsePagination(c, DefaultLimit)
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := h.trackService.List(skip, limit, viewerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "获取成功", data)
}

// Search 按标题、艺人、描述做子串搜索
// @Summary 搜索音轨
// @Tags 音轨
// @Produce json
// @Param q query string true "关键词"
// @Param skip query int false "跳过条数" default(0)
// @Param limit query int false "每页条数" default(50)
// @Success 200 {object} response.Response{data=dto.TrackListData} "搜索成功"
// @Failure 422 {object} response.ErrorResponse "关键词为空"
// @Router /tracks/search [get]
func (h *TrackHandler) Search(c *gin.Context) {
	skip, limit, err := parsePagination(c, DefaultLimit)
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := h.trackService.Search(c.Query("q"), skip, limit, viewerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "搜索成功", data)
}

// ListByUser 某用户上传的音轨
// @Summary 用户上传的音轨
// @Tags 音轨
// @Produce json
// @Param id path int true "用户ID"
// @Param skip query int false "跳过条数" default(0)
// @Param limit query int false "每页条数" default(50)
// @Success 200 {object} response.Response{data=dto.TrackListData} "获取成功"
// @Router /users/{id}/tracks [get]
func (h *TrackHandler) ListByUser(c *gin.Context) {
	ownerID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	skip, limit, err := parsePagination(c, DefaultLimit)
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := h.trackService.ListByOwner(ownerID, skip, limit, viewerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "获取成功", data)
}

// Get 音轨详情
// @Summary 音轨详情
// @Description 含点赞数、评论数、播放数与标签；携带令牌时返回 is_liked
// @Tags 音轨
// @Produce json
// @Param id path int true "音轨ID"
// @Success 200 {object} response.Response{data=dto.TrackInfo} "获取成功"
// @Failure 404 {object} response.ErrorResponse "音轨不存在"
// @Router /tracks/{id} [get]
func (h *TrackHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	info, err := h.trackService.Get(id, viewerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "获取成功", info)
}

// Update 上传者修改音轨
// @Summary 修改音轨
// @Tags 音轨
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "音轨ID"
// @Param request body dto.TrackUpdateRequest true "更新字段"
// @Success 200 {object} response.Response{data=dto.TrackInfo} "更新成功"
// @Failure 403 {object} response.ErrorResponse "无权限"
// @Failure 404 {object} response.ErrorResponse "音轨不存在"
// @Router /tracks/{id} [patch]
func (h *TrackHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.TrackUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.trackService.Update(id, mustPrincipal(c).ProfileID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "更新成功", info)
}

// Delete 上传者删除音轨
// @Summary 删除音轨
// @Tags 音轨
// @Produce json
// @Security BearerAuth
// @Param id path int true "音轨ID"
// @Success 200 {object} response.Response "删除成功"
// @Failure 403 {object} response.ErrorResponse "无权限"
// @Failure 404 {object} response.ErrorResponse "音轨不存在"
// @Router /tracks/{id} [delete]
func (h *TrackHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.trackService.Delete(id, mustPrincipal(c).ProfileID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "删除成功", nil)
}

// Stream 播放音频；本地文件支持 Range，远程地址重定向
// @Summary 播放音轨
// @Description 携带令牌时记录一次播放
// @Tags 音轨
// @Produce octet-stream
// @Param id path int true "音轨ID"
// @Success 200 {file} binary "音频流"
// @Success 302 {string} string "重定向到对象存储"
// @Failure 404 {object} response.ErrorResponse "音轨不存在"
// @Router /tracks/{id}/stream [get]
func (h *TrackHandler) Stream(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	track, err := h.trackService.GetModel(id)
	if err != nil {
		response.Error(c, err)
		return
	}

	if key, ok := storage.KeyFromURL(track.FileURL); ok {
		path, err := h.localStore.Path(key)
		if err != nil {
			response.Error(c, ErrStreamUnavailable)
			return
		}
		if _, err := os.Stat(path); err != nil {
			response.Error(c, ErrStreamUnavailable)
			return
		}
		h.recordPlay(c, track.ID)
		c.File(path)
		return
	}
	if strings.HasPrefix(track.FileURL, "http://") || strings.HasPrefix(track.FileURL, "https://") {
		h.recordPlay(c, track.ID)
		c.Redirect(http.StatusFound, track.FileURL)
		return
	}
	response.Error(c, ErrStreamUnavailable)
}

// recordPlay 已识别身份时记一次播放，失败只记日志
func (h *TrackHandler) recordPlay(c *gin.Context, trackID int64) {
	userID := viewerID(c)
	if userID == 0 {
		return
	}
	if _, err := h.playService.Record(userID, trackID); err != nil {
		logger.Warn("Failed to record play",
			zap.Int64("user_id", userID),
			zap.Int64("track_id", trackID),
			zap.Error(err),
		)
	}
}
