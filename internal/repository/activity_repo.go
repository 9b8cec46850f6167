package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/NecoOcean/we-chat-check-in/internal/model"
)

// ActivityFilter 活动列表过滤条件
// CountyCode 非空时按县域过滤：该县活动 + 全市活动（scope_county_code 为 NULL）均可见
type ActivityFilter struct {
	Status     string
	CountyCode string
	Page       int
	Size       int
}

// ActivityRepository 活动数据访问接口
type ActivityRepository interface {
	Create(ctx context.Context, activity *model.Activity) error
	GetByID(ctx context.Context, id int64) (*model.Activity, error)
	List(ctx context.Context, filter ActivityFilter) ([]model.Activity, int64, error)
	// MarkEnded 将活动置为 ended 并写入结束时间；仅当当前状态不是 ended 时生效，
	// 返回是否实际更新（false 表示已被其他操作结束）
	MarkEnded(ctx context.Context, id int64, endedTime time.Time) (bool, error)
}

type activityRepo struct {
	db *gorm.DB
}

// NewActivityRepo 创建 ActivityRepository 实例
func NewActivityRepo(db *gorm.DB) ActivityRepository {
	return &activityRepo{db: db}
}

func (r *activityRepo) Create(ctx context.Context, activity *model.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *activityRepo) GetByID(ctx context.Context, id int64) (*model.Activity, error) {
	var activity model.Activity
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&activity).Error
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

func (r *activityRepo) List(ctx context.Context, filter ActivityFilter) ([]model.Activity, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Activity{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CountyCode != "" {
		query = query.Where("scope_county_code = ? OR scope_county_code IS NULL", filter.CountyCode)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var activities []model.Activity
	err := query.
		Order("created_time DESC").
		Offset((filter.Page - 1) * filter.Size).
		Limit(filter.Size).
		Find(&activities).Error
	if err != nil {
		return nil, 0, err
	}

	return activities, total, nil
}

func (r *activityRepo) MarkEnded(ctx context.Context, id int64, endedTime time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Activity{}).
		Where("id = ? AND status <> ?", id, model.ActivityStatusEnded).
		Updates(map[string]interface{}{
			"status":     model.ActivityStatusEnded,
			"ended_time": endedTime,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
