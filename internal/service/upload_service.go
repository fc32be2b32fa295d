package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"

	"music-go/internal/api/dto"
	"music-go/internal/model"
	"music-go/internal/storage"
	"music-go/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ObjectStore 远程对象存储，由 infra/minio.Store 实现
type ObjectStore interface {
	PresignPut(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
	ObjectURL(objectKey string) string
}

// UploadOptions 上传限制
type UploadOptions struct {
	MaxInitiateSize int64
	MaxLocalSize    int64
	AllowedTypes    []string
	PresignExpiry   time.Duration
}

// LocalFile 直接上传的文件及其元数据
type LocalFile struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
	Title       string
	ArtistName  string
	Description *string
}

type UploadService struct {
	remote ObjectStore
	local  *storage.LocalStore
	tracks *TrackService
	opts   UploadOptions
}

// NewUploadService remote 为 nil 时使用本地存储
func NewUploadService(remote ObjectStore, local *storage.LocalStore, tracks *TrackService, opts UploadOptions) *UploadService {
	if opts.PresignExpiry <= 0 {
		opts.PresignExpiry = time.Hour
	}
	return &UploadService{remote: remote, local: local, tracks: tracks, opts: opts}
}

// Mode 当前上传模式
func (s *UploadService) Mode() string {
	if s.remote != nil {
		return dto.UploadModeRemote
	}
	return dto.UploadModeLocal
}

// Initiate 分配 upload_id 并返回上传地址
func (s *UploadService) Initiate(ctx context.Context, user *model.UserProfile, req *dto.UploadInitiateRequest) (*dto.UploadInitiateResponse, error) {
	if s.opts.MaxInitiateSize > 0 && req.FileSize > s.opts.MaxInitiateSize {
		return nil, ErrUploadTooLarge.WithDetail("max_size", s.opts.MaxInitiateSize)
	}
	contentType, ok := s.allowedType(req.ContentType)
	if !ok {
		return nil, ErrUploadType.WithDetail("content_type", req.ContentType)
	}
	filename, err := sanitizeFilename(req.Filename)
	if err != nil {
		return nil, err
	}

	uploadID := uuid.NewString()
	resp := &dto.UploadInitiateResponse{
		UploadID: uploadID,
		Method:   "PUT",
		Headers:  map[string]string{"Content-Type": contentType},
		Mode:     s.Mode(),
	}

	if s.remote != nil {
		key := path.Join("uploads", user.UserID, uploadID, filename)
		url, err := s.remote.PresignPut(ctx, key, s.opts.PresignExpiry)
		if err != nil {
			return nil, err
		}
		resp.UploadURL = url
		resp.ObjectKey = key
		resp.ExpiresIn = int(s.opts.PresignExpiry.Seconds())
	} else {
		resp.UploadURL = fmt.Sprintf("/api/v1/tracks/upload/%s/%s", uploadID, filename)
		resp.ObjectKey = localTrackKey(uploadID, filename)
	}

	logger.Info("Upload initiated",
		zap.String("upload_id", uploadID),
		zap.Int64("user_id", user.ID),
		zap.String("mode", resp.Mode),
		zap.Int64("file_size", req.FileSize),
	)
	return resp, nil
}

// WriteLocal 本地模式下接收 PUT 上来的文件
func (s *UploadService) WriteLocal(uploadID, filename string, body io.Reader) (*dto.LocalUploadResult, error) {
	if s.remote != nil {
		return nil, ErrUploadModeRemote
	}
	if _, err := uuid.Parse(uploadID); err != nil {
		return nil, ErrUploadIDInvalid
	}
	filename, err := sanitizeFilename(filename)
	if err != nil {
		return nil, err
	}

	key := localTrackKey(uploadID, filename)
	n, err := s.local.Save(key, body, s.opts.MaxLocalSize)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, ErrUploadTooLarge.WithDetail("max_size", s.opts.MaxLocalSize)
		}
		return nil, err
	}
	return &dto.LocalUploadResult{
		UploadID: uploadID,
		Filename: filename,
		Size:     n,
		FileURL:  s.local.URL(key),
	}, nil
}

// Finalize 上传完成后创建音轨，艺人名取上传者昵称
func (s *UploadService) Finalize(ctx context.Context, user *model.UserProfile, req *dto.UploadFinalizeRequest) (*dto.TrackInfo, error) {
	if _, err := uuid.Parse(req.UploadID); err != nil {
		return nil, ErrUploadIDInvalid
	}
	filename, err := sanitizeFilename(req.Filename)
	if err != nil {
		return nil, err
	}

	var fileURL string
	if s.remote != nil {
		fileURL = s.remote.ObjectURL(path.Join("uploads", user.UserID, req.UploadID, filename))
	} else {
		fileURL = s.local.URL(localTrackKey(req.UploadID, filename))
	}

	return s.tracks.Create(user.ID, &NewTrack{
		Title:         strings.TrimSpace(req.Title),
		ArtistName:    user.Nickname,
		Description:   req.Description,
		FileURL:       fileURL,
		CoverImageURL: req.CoverImageURL,
		Duration:      req.Duration,
		Status:        model.TrackStatusReady,
		Tags:          req.Tags,
	})
}

// UploadLocal multipart 直接上传并创建音轨
func (s *UploadService) UploadLocal(user *model.UserProfile, file *LocalFile) (*dto.TrackInfo, error) {
	if _, ok := s.allowedType(file.ContentType); !ok {
		return nil, ErrUploadType.WithDetail("content_type", file.ContentType)
	}
	if s.opts.MaxLocalSize > 0 && file.Size > s.opts.MaxLocalSize {
		return nil, ErrUploadTooLarge.WithDetail("max_size", s.opts.MaxLocalSize)
	}

	key := path.Join("tracks", uuid.NewString()+strings.ToLower(filepath.Ext(file.Filename)))
	if _, err := s.local.Save(key, file.Body, s.opts.MaxLocalSize); err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, ErrUploadTooLarge.WithDetail("max_size", s.opts.MaxLocalSize)
		}
		return nil, err
	}

	artist := strings.TrimSpace(file.ArtistName)
	if artist == "" {
		artist = user.Nickname
	}
	title := strings.TrimSpace(file.Title)
	if title == "" {
		title = strings.TrimSuffix(file.Filename, filepath.Ext(file.Filename))
	}

	return s.tracks.Create(user.ID, &NewTrack{
		Title:       title,
		ArtistName:  artist,
		Description: file.Description,
		FileURL:     s.local.URL(key),
		Status:      model.TrackStatusReady,
	})
}

// allowedType 去掉参数部分后与白名单比较
func (s *UploadService) allowedType(contentType string) (string, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}
	if len(s.opts.AllowedTypes) == 0 {
		return mediaType, strings.HasPrefix(mediaType, "audio/")
	}
	for _, t := range s.opts.AllowedTypes {
		if strings.EqualFold(t, mediaType) {
			return mediaType, true
		}
	}
	return mediaType, false
}

func localTrackKey(uploadID, filename string) string {
	return path.Join("tracks", uploadID, filename)
}

// sanitizeFilename 只保留文件名本身
func sanitizeFilename(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return "", ErrUploadFilename
	}
	if len(name) > 255 {
		return "", ErrUploadFilename
	}
	return name, nil
}
