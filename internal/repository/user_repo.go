package repository

import (
	"music-go/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx 返回绑定到事务的仓储
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

// Create 创建用户资料，外部ID冲突返回 ErrDuplicate
func (r *UserRepository) Create(profile *model.UserProfile) error {
	return translateError(r.db.Create(profile).Error)
}

func (r *UserRepository) GetByID(id int64) (*model.UserProfile, error) {
	var profile model.UserProfile
	if err := r.db.First(&profile, id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetByExternalID 按外部身份ID查询
func (r *UserRepository) GetByExternalID(externalID string) (*model.UserProfile, error) {
	var profile model.UserProfile
	if err := r.db.Where("user_id = ?", externalID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetByIDs 批量查询，不保证顺序
func (r *UserRepository) GetByIDs(ids []int64) ([]model.UserProfile, error) {
	if len(ids) == 0 {
		return []model.UserProfile{}, nil
	}
	var profiles []model.UserProfile
	err := r.db.Where("id IN ?", ids).Find(&profiles).Error
	return profiles, err
}

func (r *UserRepository) Exists(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.UserProfile{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ExistsByExternalID 检查外部身份ID是否已有资料
func (r *UserRepository) ExistsByExternalID(externalID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.UserProfile{}).Where("user_id = ?", externalID).Count(&count).Error
	return count > 0, err
}

// Update 部分更新
func (r *UserRepository) Update(id int64, updates map[string]interface{}) (*model.UserProfile, error) {
	result := r.db.Model(&model.UserProfile{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}
