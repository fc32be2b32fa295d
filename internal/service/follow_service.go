package service

import (
	"errors"

	"music-go/internal/api/dto"
	"music-go/internal/model"
	"music-go/internal/repository"
	"music-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type FollowService struct {
	followRepo *repository.FollowRepository
	userRepo   *repository.UserRepository
	txm        *repository.TxManager
}

func NewFollowService(followRepo *repository.FollowRepository, userRepo *repository.UserRepository, txm *repository.TxManager) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo, txm: txm}
}

func ensureUser(userRepo *repository.UserRepository, userID int64) error {
	exists, err := userRepo.Exists(userID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}

// Follow 关注用户
func (s *FollowService) Follow(followerID, followingID int64) (*dto.FollowResult, error) {
	if followerID == followingID {
		return nil, ErrCannotFollowSelf
	}

	err := s.txm.Transaction(func(tx *gorm.DB) error {
		if err := ensureUser(s.userRepo.WithTx(tx), followingID); err != nil {
			return err
		}
		if _, err := s.followRepo.WithTx(tx).Create(followerID, followingID); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrAlreadyFollowed
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("User followed",
		zap.Int64("follower_id", followerID),
		zap.Int64("following_id", followingID),
	)
	return s.result(followerID, followingID, true)
}

// Unfollow 取消关注
func (s *FollowService) Unfollow(followerID, followingID int64) (*dto.FollowResult, error) {
	if followerID == followingID {
		return nil, ErrCannotFollowSelf
	}
	if err := ensureUser(s.userRepo, followingID); err != nil {
		return nil, err
	}

	removed, err := s.followRepo.Delete(followerID, followingID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, ErrNotFollowed
	}
	return s.result(followerID, followingID, false)
}

// result 计数属于被关注的用户
func (s *FollowService) result(followerID, followingID int64, following bool) (*dto.FollowResult, error) {
	followers, err := s.followRepo.CountFollowers(followingID)
	if err != nil {
		return nil, err
	}
	followings, err := s.followRepo.CountFollowing(followingID)
	if err != nil {
		return nil, err
	}
	return &dto.FollowResult{
		FollowerID:     followerID,
		FollowingID:    followingID,
		IsFollowing:    following,
		FollowerCount:  followers,
		FollowingCount: followings,
	}, nil
}

// Status 当前用户与目标用户之间的双向关注状态
func (s *FollowService) Status(viewerID, targetID int64) (*dto.FollowStatus, error) {
	if err := ensureUser(s.userRepo, targetID); err != nil {
		return nil, err
	}
	status := &dto.FollowStatus{}
	var err error
	if status.IsFollowing, err = s.followRepo.Exists(viewerID, targetID); err != nil {
		return nil, err
	}
	if status.IsFollowedBy, err = s.followRepo.Exists(targetID, viewerID); err != nil {
		return nil, err
	}
	if status.FollowerCount, err = s.followRepo.CountFollowers(targetID); err != nil {
		return nil, err
	}
	if status.FollowingCount, err = s.followRepo.CountFollowing(targetID); err != nil {
		return nil, err
	}
	return status, nil
}

// Followers 粉丝列表
func (s *FollowService) Followers(userID int64, skip, limit int) (*dto.UserListData, error) {
	if err := ensureUser(s.userRepo, userID); err != nil {
		return nil, err
	}
	ids, err := s.followRepo.ListFollowerIDs(userID, skip, limit)
	if err != nil {
		return nil, err
	}
	total, err := s.followRepo.CountFollowers(userID)
	if err != nil {
		return nil, err
	}
	return s.userList(ids, total)
}

// Following 关注列表
func (s *FollowService) Following(userID int64, skip, limit int) (*dto.UserListData, error) {
	if err := ensureUser(s.userRepo, userID); err != nil {
		return nil, err
	}
	ids, err := s.followRepo.ListFollowingIDs(userID, skip, limit)
	if err != nil {
		return nil, err
	}
	total, err := s.followRepo.CountFollowing(userID)
	if err != nil {
		return nil, err
	}
	return s.userList(ids, total)
}

// userList 按 ids 顺序组装
func (s *FollowService) userList(ids []int64, total int64) (*dto.UserListData, error) {
	profiles, err := s.userRepo.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*model.UserProfile, len(profiles))
	for i := range profiles {
		byID[profiles[i].ID] = &profiles[i]
	}

	users := make([]dto.UserBrief, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			users = append(users, *toUserBrief(p))
		}
	}
	return &dto.UserListData{Users: users, Total: total}, nil
}
