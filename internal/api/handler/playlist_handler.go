package handler

import (
	"music-go/internal/api/dto"
	"music-go/internal/api/response"
	"music-go/internal/service"

	"github.com/gin-gonic/gin"
)

type PlaylistHandler struct {
	playlistService *service.PlaylistService
}

func NewPlaylistHandler(playlistService *service.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlistService: playlistService}
}

// Create 创建歌单
// @Summary 创建歌单
// @Tags 歌单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PlaylistCreateRequest true "歌单"
// @Success 201 {object} response.Response{data=dto.PlaylistDetail} "创建成功"
// @Router /playlists [post]
func (h *PlaylistHandler) Create(c *gin.Context) {
	var req dto.PlaylistCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	data, err := h.playlistService.Create(mustPrincipal(c).ProfileID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "创建成功", data)
}

// Get 歌单详情
// @Summary 歌单详情
// @Description 私有歌单仅所有者可见
// @Tags 歌单
// @Produce json
// @Param id path int true "歌单ID"
// @Success 200 {object} response.Response{data=dto.PlaylistDetail} "获取成功"
// @Failure 403 {object} response.ErrorResponse "歌单未公开"
// @Failure 404 {object} response.ErrorResponse "歌单不存在"
// @Router /playlists/{id} [get]
func (h *PlaylistHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := h.playlistService.Get(id, viewerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "获取成功", data)
}

// Update 修改歌单
// @Summary 修改歌单
// @Tags 歌单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "歌单ID"
// @Param request body dto.PlaylistUpdateRequest true "更新字段"
// @Success 200 {object} response.Response{data=dto.PlaylistDetail} "更新成功"
// @Failure 403 {object} response.ErrorResponse "无权限"
// @Router /playlists/{id} [patch]
func (h *PlaylistHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.PlaylistUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	data, err := h.playlistService.Update(id, mustPrincipal(c).ProfileID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "更新成功", data)
}

// Delete 删除歌单
// @Summary 删除歌单
// @Tags 歌单
// @Produce json
// @Security BearerAuth
// @Param id path int true "歌单ID"
// @Success 200 {object} response.Response "删除成功"
// @Failure 403 {object} response.ErrorResponse "无权限"
// @Router /playlists/{id} [delete]
func (h *PlaylistHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.playlistService.Delete(id, mustPrincipal(c).ProfileID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "删除成功", nil)
}

// ListByUser 用户的歌单
// @Summary 用户歌单列表
// @Description 非本人只返回公开歌单
// @Tags 歌单
// @Produce json
// @Param user_id path int true "用户ID"
// @Param skip query int false "跳过条数" default(0)
// @Param limit query int false "每页条数" default(50)
// @Success 200 {object} response.Response{data=dto.PlaylistListData} "获取成功"
// @Router /playlists/users/{user_id}/playlists [get]
func (h *PlaylistHandler) ListByUser(c *gin.Context) {
	ownerID, err := parseIDParam(c, "user_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	skip, limit, err := parsePagination(c, DefaultLimit)
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := h.playlistService.ListByUser(ownerID, viewerID(c), skip, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "获取成功", data)
}

// AddTrack 添加音轨到歌单末尾
// @Summary 添加音轨
// @Tags 歌单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "歌单ID"
// @Param request body dto.PlaylistAddTrackRequest true "音轨"
// @Success 200 {object} response.Response{data=dto.PlaylistTrackResult} "添加成功"
// @Failure 409 {object} response.ErrorResponse "已在歌单中"
// @Router /playlists/{id}/tracks [post]
func (h *PlaylistHandler) AddTrack(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.PlaylistAddTrackRequest
	if !bindJSON(c, &req) {
		return
	}

	data, err := h.playlistService.AddTrack(id, mustPrincipal(c).ProfileID, req.TrackID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "添加成功", data)
}

// RemoveTrack 从歌单移除音轨
// @Summary 移除音轨
// @Tags 歌单
// @Produce json
// @Security BearerAuth
// @Param id path int true "歌单ID"
// @Param track_id path int true "音轨ID"
// @Success 200 {object} response.Response{data=dto.PlaylistTrackResult} "移除成功"
// @Failure 404 {object} response.ErrorResponse "歌单中没有该音轨"
// @Router /playlists/{id}/tracks/{track_id} [delete]
func (h *PlaylistHandler) RemoveTrack(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	trackID, err := parseIDParam(c, "track_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := h.playlistService.RemoveTrack(id, mustPrincipal(c).ProfileID, trackID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "移除成功", data)
}

// Reorder 修改条目位置
// @Summary 调整顺序
// @Tags 歌单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "歌单ID"
// @Param request body dto.PlaylistReorderRequest true "新位置"
// @Success 200 {object} response.Response{data=dto.PlaylistTrackResult} "调整成功"
// @Router /playlists/{id}/tracks/reorder [patch]
func (h *PlaylistHandler) Reorder(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.PlaylistReorderRequest
	if !bindJSON(c, &req) {
		return
	}

	data, err := h.playlistService.Reorder(id, mustPrincipal(c).ProfileID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "调整成功", data)
}
