package handler

import (
	"music-go/internal/api/dto"
	"music-go/internal/api/response"
	"music-go/internal/service"
	"music-go/pkg/apperr"

	"github.com/gin-gonic/gin"
)

var ErrMissingFile = apperr.Validation("缺少上传文件")

type UploadHandler struct {
	uploadService *service.UploadService
}

func NewUploadHandler(uploadService *service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// Initiate 申请上传地址
// @Summary 申请上传
// @Description 远程模式返回预签名 PUT 地址，本地模式返回本服务的 PUT 地址
// @Tags 上传
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UploadInitiateRequest true "文件信息"
// @Success 200 {object} response.Response{data=dto.UploadInitiateResponse} "申请成功"
// @Failure 422 {object} response.ErrorResponse "文件过大或类型不支持"
// @Failure 429 {object} response.ErrorResponse "请求过于频繁"
// @Router /tracks/upload/initiate [post]
func (h *UploadHandler) Initiate(c *gin.Context) {
	var req dto.UploadInitiateRequest
	if !bindJSON(c, &req) {
		return
	}

	data, err := h.uploadService.Initiate(c.Request.Context(), mustPrincipal(c).Profile, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "申请成功", data)
}

// WriteLocal 本地模式接收文件内容
// @Summary 本地写入上传文件
// @Tags 上传
// @Accept octet-stream
// @Produce json
// @Security BearerAuth
// @Param upload_id path string true "上传ID"
// @Param filename path string true "文件名"
// @Success 200 {object} response.Response{data=dto.LocalUploadResult} "上传成功"
// @Failure 422 {object} response.ErrorResponse "文件过大或参数无效"
// @Router /tracks/upload/{upload_id}/{filename} [put]
func (h *UploadHandler) WriteLocal(c *gin.Context) {
	data, err := h.uploadService.WriteLocal(c.Param("upload_id"), c.Param("filename"), c.Request.Body)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "上传成功", data)
}

// Finalize 上传完成后登记音轨
// @Summary 完成上传
// @Tags 上传
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UploadFinalizeRequest true "音轨信息"
// @Success 201 {object} response.Response{data=dto.TrackInfo} "创建成功"
// @Failure 422 {object} response.ErrorResponse "参数无效"
// @Router /tracks/upload/finalize [post]
func (h *UploadHandler) Finalize(c *gin.Context) {
	var req dto.UploadFinalizeRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.uploadService.Finalize(c.Request.Context(), mustPrincipal(c).Profile, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "创建成功", info)
}

// UploadLocal multipart 直接上传
// @Summary 直接上传音频
// @Tags 上传
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "音频文件"
// @Param title formData string false "标题"
// @Param artist_name formData string false "艺人名"
// @Param description formData string false "描述"
// @Success 201 {object} response.Response{data=dto.TrackInfo} "上传成功"
// @Failure 422 {object} response.ErrorResponse "文件过大或类型不支持"
// @Router /tracks/upload/local [post]
func (h *UploadHandler) UploadLocal(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, ErrMissingFile.Wrap(err))
		return
	}
	f, err := header.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer f.Close()

	file := &service.LocalFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        f,
		Title:       c.PostForm("title"),
		ArtistName:  c.PostForm("artist_name"),
	}
	if desc, ok := c.GetPostForm("description"); ok && desc != "" {
		file.Description = &desc
	}

	info, err := h.uploadService.UploadLocal(mustPrincipal(c).Profile, file)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "上传成功", info)
}
