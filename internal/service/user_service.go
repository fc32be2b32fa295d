package service

import (
	"errors"
	"strings"

	"music-go/internal/api/dto"
	"music-go/internal/auth"
	"music-go/internal/model"
	"music-go/internal/repository"
	"music-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserService struct {
	userRepo   *repository.UserRepository
	followRepo *repository.FollowRepository
}

func NewUserService(userRepo *repository.UserRepository, followRepo *repository.FollowRepository) *UserService {
	return &UserService{userRepo: userRepo, followRepo: followRepo}
}

// EnsureProfile 按令牌身份取用户资料，首次访问时自动创建
func (s *UserService) EnsureProfile(identity *auth.Identity) (*model.UserProfile, error) {
	profile, err := s.userRepo.GetByExternalID(identity.ExternalID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if profile == nil {
		profile = &model.UserProfile{
			UserID:   identity.ExternalID,
			Nickname: defaultNickname(identity),
			IsActive: true,
		}
		if err := s.userRepo.Create(profile); err != nil {
			if !errors.Is(err, repository.ErrDuplicate) {
				return nil, err
			}
			// 并发请求已经创建，读取对方写入的记录
			profile, err = s.userRepo.GetByExternalID(identity.ExternalID)
			if err != nil {
				return nil, err
			}
		} else {
			logger.Info("User profile created",
				zap.Int64("profile_id", profile.ID),
				zap.String("user_id", profile.UserID),
			)
		}
	}

	if !profile.IsActive {
		return nil, ErrUserInactive
	}
	return profile, nil
}

// defaultNickname 昵称优先取显示名，其次邮箱前缀，最后外部ID
func defaultNickname(identity *auth.Identity) string {
	if name := strings.TrimSpace(identity.DisplayName); name != "" {
		return truncate(name, 100)
	}
	if at := strings.Index(identity.Email, "@"); at > 0 {
		return truncate(identity.Email[:at], 100)
	}
	return truncate(identity.ExternalID, 100)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// GetProfile 获取用户资料
func (s *UserService) GetProfile(id int64) (*dto.UserProfileInfo, error) {
	profile, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.toProfileInfo(profile)
}

// UpdateProfile 部分更新本人资料
func (s *UserService) UpdateProfile(id int64, req *dto.UserProfileUpdateRequest) (*dto.UserProfileInfo, error) {
	updates := make(map[string]interface{})
	if req.Nickname != nil {
		nickname, err := requireText("nickname", *req.Nickname)
		if err != nil {
			return nil, err
		}
		updates["nickname"] = nickname
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.ProfileImageURL != nil {
		updates["profile_image_url"] = *req.ProfileImageURL
	}

	if len(updates) == 0 {
		return s.GetProfile(id)
	}

	profile, err := s.userRepo.Update(id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.toProfileInfo(profile)
}

// CreateProfile 显式创建用户资料
func (s *UserService) CreateProfile(req *dto.UserProfileCreateRequest) (*dto.UserProfileInfo, error) {
	nickname, err := requireText("nickname", req.Nickname)
	if err != nil {
		return nil, err
	}
	exists, err := s.userRepo.ExistsByExternalID(req.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	profile := &model.UserProfile{
		UserID:          req.UserID,
		Nickname:        nickname,
		Bio:             req.Bio,
		ProfileImageURL: req.ProfileImageURL,
		IsActive:        true,
	}
	if err := s.userRepo.Create(profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return s.toProfileInfo(profile)
}

func (s *UserService) toProfileInfo(p *model.UserProfile) (*dto.UserProfileInfo, error) {
	followers, err := s.followRepo.CountFollowers(p.ID)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.CountFollowing(p.ID)
	if err != nil {
		return nil, err
	}
	return &dto.UserProfileInfo{
		ID:              p.ID,
		UserID:          p.UserID,
		Nickname:        p.Nickname,
		Bio:             p.Bio,
		ProfileImageURL: p.ProfileImageURL,
		IsActive:        p.IsActive,
		FollowerCount:   followers,
		FollowingCount:  following,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}, nil
}
