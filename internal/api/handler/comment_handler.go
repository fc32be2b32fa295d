package handler

import (
	"music-go/internal/api/dto"
	"music-go/internal/api/response"
	"music-go/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// Create POST /api/v1/comments
// @Summary 发表评论
// @Tags 评论
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CommentCreateRequest true "评论"
// @Success 201 {object} response.Response{data=dto.CommentInfo} "发表成功"
// @Failure 404 {object} response.ErrorResponse "音轨不存在"
// @Router /comments [post]
func (h *CommentHandler) Create(c *gin.Context) {
	var req dto.CommentCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.commentService.Create(mustPrincipal(c).ProfileID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "发表评论成功", info)
}

// ListByTrack GET /api/v1/comments/tracks/:track_id/comments
// @Summary 音轨评论列表
// @Tags 评论
// @Produce json
// @Param track_id path int true "音轨ID"
// @Param skip query int false "跳过条数" default(0)
// @Param limit query int false "每页条数" default(50)
// @Success 200 {object} response.Response{data=dto.CommentListData} "获取成功"
// @Router /comments/tracks/{track_id}/comments [get]
func (h *CommentHandler) ListByTrack(c *gin.Context) {
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

	data, err := h.commentService.ListByTrack(trackID, skip, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "获取评论列表成功", data)
}

// Get GET /api/v1/comments/:id
// @Summary 评论详情
// @Tags 评论
// @Produce json
// @Param id path int true "评论ID"
// @Success 200 {object} response.Response{data=dto.CommentInfo} "获取成功"
// @Failure 404 {object} response.ErrorResponse "评论不存在"
// @Router /comments/{id} [get]
func (h *CommentHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	info, err := h.commentService.Get(id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "获取成功", info)
}

// Update PATCH /api/v1/comments/:id
// @Summary 修改评论
// @Tags 评论
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "评论ID"
// @Param request body dto.CommentUpdateRequest true "内容"
// @Success 200 {object} response.Response{data=dto.CommentInfo} "更新成功"
// @Failure 403 {object} response.ErrorResponse "无权限"
// @Router /comments/{id} [patch]
func (h *CommentHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.CommentUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.commentService.Update(id, mustPrincipal(c).ProfileID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "更新评论成功", info)
}

// Delete DELETE /api/v1/comments/:id
// @Summary 删除评论
// @Tags 评论
// @Produce json
// @Security BearerAuth
// @Param id path int true "评论ID"
// @Success 200 {object} response.Response "删除成功"
// @Failure 403 {object} response.ErrorResponse "无权限"
// @Router /comments/{id} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.commentService.Delete(id, mustPrincipal(c).ProfileID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "删除评论成功", nil)
}
