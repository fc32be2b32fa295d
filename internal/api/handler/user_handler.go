package handler

import (
	"music-go/internal/api/dto"
	"music-go/internal/api/response"
	"music-go/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create 创建用户资料
// @Summary 创建用户资料
// @Description 为外部身份创建本地资料，外部ID重复返回 409
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body dto.UserProfileCreateRequest true "资料"
// @Success 201 {object} response.Response{data=dto.UserProfileInfo} "创建成功"
// @Failure 409 {object} response.ErrorResponse "已存在"
// @Failure 422 {object} response.ErrorResponse "参数无效"
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.UserProfileCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.userService.CreateProfile(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "创建成功", info)
}

// GetMe 获取当前用户资料
// @Summary 获取当前用户资料
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=dto.UserProfileInfo} "获取成功"
// @Failure 401 {object} response.ErrorResponse "未授权"
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	info, err := h.userService.GetProfile(mustPrincipal(c).ProfileID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "获取成功", info)
}

// UpdateMe 部分更新当前用户资料
// @Summary 更新当前用户资料
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UserProfileUpdateRequest true "更新字段"
// @Success 200 {object} response.Response{data=dto.UserProfileInfo} "更新成功"
// @Failure 401 {object} response.ErrorResponse "未授权"
// @Failure 422 {object} response.ErrorResponse "参数无效"
// @Router /users/me [patch]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req dto.UserProfileUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.userService.UpdateProfile(mustPrincipal(c).ProfileID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "更新成功", info)
}

// GetUser 获取指定用户资料
// @Summary 获取指定用户资料
// @Tags 用户
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=dto.UserProfileInfo} "获取成功"
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	info, err := h.userService.GetProfile(id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "获取成功", info)
}
