package dto

// 上传模式
const (
	UploadModeRemote = "remote"
	UploadModeLocal  = "local"
)

// UploadInitiateRequest 申请上传
type UploadInitiateRequest struct {
	Filename    string `json:"filename" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required"`
	FileSize    int64  `json:"file_size" binding:"required,gt=0"`
}

// UploadInitiateResponse 客户端按 Method 把文件发送到 UploadURL
type UploadInitiateResponse struct {
	UploadID  string            `json:"upload_id"`
	UploadURL string            `json:"upload_url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
	ObjectKey string            `json:"object_key"`
	ExpiresIn int               `json:"expires_in"`
	Mode      string            `json:"mode"`
}

// UploadFinalizeRequest 上传完成后登记音轨
type UploadFinalizeRequest struct {
	UploadID      string   `json:"upload_id" binding:"required,uuid"`
	Filename      string   `json:"filename" binding:"required,max=255"`
	Title         string   `json:"title" binding:"required,min=1,max=200"`
	Description   *string  `json:"description" binding:"omitempty,max=5000"`
	CoverImageURL *string  `json:"cover_image_url" binding:"omitempty,max=500"`
	Duration      *float64 `json:"duration" binding:"omitempty,gte=0"`
	Tags          []string `json:"tags" binding:"omitempty,max=20,dive,min=1,max=50"`
}

// LocalUploadResult 本地写入结果
type LocalUploadResult struct {
	UploadID string `json:"upload_id"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	FileURL  string `json:"file_url"`
}
