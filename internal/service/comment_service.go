package service

import (
	"errors"

	"music-go/internal/api/dto"
	"music-go/internal/model"
	"music-go/internal/repository"

	"gorm.io/gorm"
)

type CommentService struct {
	commentRepo *repository.CommentRepository
	trackRepo   *repository.TrackRepository
}

func NewCommentService(commentRepo *repository.CommentRepository, trackRepo *repository.TrackRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, trackRepo: trackRepo}
}

// Create 发表评论
func (s *CommentService) Create(userID int64, req *dto.CommentCreateRequest) (*dto.CommentInfo, error) {
	content, err := requireText("content", req.Content)
	if err != nil {
		return nil, err
	}
	if err := ensureTrack(s.trackRepo, req.TrackID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		TrackID:  req.TrackID,
		AuthorID: userID,
		Content:  content,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}
	return s.Get(comment.ID)
}

// Get 获取单条评论
func (s *CommentService) Get(id int64) (*dto.CommentInfo, error) {
	comment, err := s.getModel(id)
	if err != nil {
		return nil, err
	}
	return toCommentInfo(comment), nil
}

func (s *CommentService) getModel(id int64) (*model.Comment, error) {
	comment, err := s.commentRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

// ListByTrack 音轨评论，最新优先
func (s *CommentService) ListByTrack(trackID int64, skip, limit int) (*dto.CommentListData, error) {
	if err := ensureTrack(s.trackRepo, trackID); err != nil {
		return nil, err
	}
	comments, total, err := s.commentRepo.ListByTrack(trackID, skip, limit)
	if err != nil {
		return nil, err
	}

	infos := make([]dto.CommentInfo, 0, len(comments))
	for i := range comments {
		infos = append(infos, *toCommentInfo(&comments[i]))
	}
	return &dto.CommentListData{Comments: infos, Total: total}, nil
}

// Update 修改评论（仅作者）
func (s *CommentService) Update(id, userID int64, req *dto.CommentUpdateRequest) (*dto.CommentInfo, error) {
	comment, err := s.getModel(id)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != userID {
		return nil, ErrCommentNoPermission
	}

	content, err := requireText("content", req.Content)
	if err != nil {
		return nil, err
	}
	if err := s.commentRepo.UpdateContent(id, content); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return s.Get(id)
}

// Delete 删除评论（仅作者）
func (s *CommentService) Delete(id, userID int64) error {
	comment, err := s.getModel(id)
	if err != nil {
		return err
	}
	if comment.AuthorID != userID {
		return ErrCommentNoPermission
	}

	deleted, err := s.commentRepo.Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCommentNotFound
	}
	return nil
}

func toCommentInfo(c *model.Comment) *dto.CommentInfo {
	return &dto.CommentInfo{
		ID:        c.ID,
		TrackID:   c.TrackID,
		UserID:    c.AuthorID,
		Content:   c.Content,
		User:      toUserBrief(&c.User),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
