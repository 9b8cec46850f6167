package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/NecoOcean/we-chat-check-in/internal/model"
)

// CountyRepository 区县数据访问接口
type CountyRepository interface {
	Create(ctx context.Context, county *model.County) error
	GetByCode(ctx context.Context, code string) (*model.County, error)
	Update(ctx context.Context, county *model.County) error
	List(ctx context.Context) ([]model.County, error)
}

type countyRepo struct {
	db *gorm.DB
}

// NewCountyRepo 创建 CountyRepository 实例
func NewCountyRepo(db *gorm.DB) CountyRepository {
	return &countyRepo{db: db}
}

func (r *countyRepo) Create(ctx context.Context, county *model.County) error {
	return r.db.WithContext(ctx).Create(county).Error
}

func (r *countyRepo) GetByCode(ctx context.Context, code string) (*model.County, error) {
	var county model.County
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&county).Error
	if err != nil {
		return nil, err
	}
	return &county, nil
}

func (r *countyRepo) Update(ctx context.Context, county *model.County) error {
	return r.db.WithContext(ctx).Save(county).Error
}

func (r *countyRepo) List(ctx context.Context) ([]model.County, error) {
	var counties []model.County
	err := r.db.WithContext(ctx).
		Order("code").
		Find(&counties).Error
	if err != nil {
		return nil, err
	}
	return counties, nil
}
