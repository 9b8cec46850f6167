package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/NecoOcean/we-chat-check-in/internal/model"
)

// TeachingPointFilter 教学点列表查询条件
type TeachingPointFilter struct {
	CountyCode string
	Name       string
	Page       int
	Size       int
}

// TeachingPointRepository 教学点数据访问接口
type TeachingPointRepository interface {
	Create(ctx context.Context, point *model.TeachingPoint) error
	GetByID(ctx context.Context, id int64) (*model.TeachingPoint, error)
	Update(ctx context.Context, point *model.TeachingPoint) error
	List(ctx context.Context, filter TeachingPointFilter) ([]model.TeachingPoint, int64, error)
}

type teachingPointRepo struct {
	db *gorm.DB
}

// NewTeachingPointRepo 创建 TeachingPointRepository 实例
func NewTeachingPointRepo(db *gorm.DB) TeachingPointRepository {
	return &teachingPointRepo{db: db}
}

func (r *teachingPointRepo) Create(ctx context.Context, point *model.TeachingPoint) error {
	return r.db.WithContext(ctx).Create(point).Error
}

func (r *teachingPointRepo) GetByID(ctx context.Context, id int64) (*model.TeachingPoint, error) {
	var point model.TeachingPoint
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&point).Error
	if err != nil {
		return nil, err
	}
	return &point, nil
}

func (r *teachingPointRepo) Update(ctx context.Context, point *model.TeachingPoint) error {
	return r.db.WithContext(ctx).Save(point).Error
}

func (r *teachingPointRepo) List(ctx context.Context, filter TeachingPointFilter) ([]model.TeachingPoint, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.TeachingPoint{})

	if filter.CountyCode != "" {
		query = query.Where("county_code = ?", filter.CountyCode)
	}
	if filter.Name != "" {
		query = query.Where("name LIKE ?", "%"+filter.Name+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var points []model.TeachingPoint
	err := query.
		Order("id").
		Offset((filter.Page - 1) * filter.Size).
		Limit(filter.Size).
		Find(&points).Error
	if err != nil {
		return nil, 0, err
	}

	return points, total, nil
}
