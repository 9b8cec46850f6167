package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/NecoOcean/we-chat-check-in/internal/model"
)

// AdminFilter 管理员列表查询条件
type AdminFilter struct {
	Role       string
	CountyCode string
	Page       int
	Size       int
}

// AdminRepository 管理员数据访问接口
type AdminRepository interface {
	Create(ctx context.Context, admin *model.Admin) error
	GetByID(ctx context.Context, id int64) (*model.Admin, error)
	GetByUsername(ctx context.Context, username string) (*model.Admin, error)
	Update(ctx context.Context, admin *model.Admin) error
	UpdateLastLogin(ctx context.Context, id int64, loginTime time.Time) error
	// SoftDelete 标记删除；同名账号之后可重建
	SoftDelete(ctx context.Context, id int64) error
	List(ctx context.Context, filter AdminFilter) ([]model.Admin, int64, error)
	Count(ctx context.Context) (int64, error)
}

type adminRepo struct {
	db *gorm.DB
}

// NewAdminRepo 创建 AdminRepository 实例
func NewAdminRepo(db *gorm.DB) AdminRepository {
	return &adminRepo{db: db}
}

func (r *adminRepo) Create(ctx context.Context, admin *model.Admin) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *adminRepo) GetByID(ctx context.Context, id int64) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.WithContext(ctx).
		Where("id = ? AND NOT deleted", id).
		First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepo) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.WithContext(ctx).
		Where("username = ? AND NOT deleted", username).
		First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepo) Update(ctx context.Context, admin *model.Admin) error {
	return r.db.WithContext(ctx).Save(admin).Error
}

func (r *adminRepo) UpdateLastLogin(ctx context.Context, id int64, loginTime time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Admin{}).
		Where("id = ?", id).
		Update("last_login_time", loginTime).Error
}

func (r *adminRepo) SoftDelete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Admin{}).
		Where("id = ?", id).
		Update("deleted", true).Error
}

func (r *adminRepo) List(ctx context.Context, filter AdminFilter) ([]model.Admin, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Admin{}).Where("NOT deleted")

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.CountyCode != "" {
		query = query.Where("county_code = ?", filter.CountyCode)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var admins []model.Admin
	err := query.
		Order("created_time DESC").
		Offset((filter.Page - 1) * filter.Size).
		Limit(filter.Size).
		Find(&admins).Error
	if err != nil {
		return nil, 0, err
	}

	return admins, total, nil
}

func (r *adminRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Admin{}).
		Where("NOT deleted").
		Count(&count).Error
	return count, err
}
