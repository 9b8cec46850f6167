package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/NecoOcean/we-chat-check-in/internal/model"
)

// CheckinFilter 打卡记录查询条件
type CheckinFilter struct {
	ActivityID      int64
	TeachingPointID int64
	Page            int
	Size            int
}

// CheckinStatistics 打卡统计聚合结果
type CheckinStatistics struct {
	ParticipatingTeachingPoints int64
	TotalAttendees              int64
}

// CheckinRepository 打卡数据访问接口
// 打卡记录只插入；Create 在唯一约束冲突时返回的错误由
// 服务层通过 IsUniqueViolation 归一为"已打卡"
type CheckinRepository interface {
	Create(ctx context.Context, checkin *model.Checkin) error
	GetByPair(ctx context.Context, activityID, teachingPointID int64) (*model.Checkin, error)
	ExistsByPair(ctx context.Context, activityID, teachingPointID int64) (bool, error)
	List(ctx context.Context, filter CheckinFilter) ([]model.Checkin, int64, error)
	ListAllByActivity(ctx context.Context, activityID int64) ([]model.Checkin, error)
	Statistics(ctx context.Context, activityID int64) (*CheckinStatistics, error)
}

type checkinRepo struct {
	db *gorm.DB
}

// NewCheckinRepo 创建 CheckinRepository 实例
func NewCheckinRepo(db *gorm.DB) CheckinRepository {
	return &checkinRepo{db: db}
}

func (r *checkinRepo) Create(ctx context.Context, checkin *model.Checkin) error {
	return r.db.WithContext(ctx).Create(checkin).Error
}

func (r *checkinRepo) GetByPair(ctx context.Context, activityID, teachingPointID int64) (*model.Checkin, error) {
	var checkin model.Checkin
	err := r.db.WithContext(ctx).
		Where("activity_id = ? AND teaching_point_id = ?", activityID, teachingPointID).
		First(&checkin).Error
	if err != nil {
		return nil, err
	}
	return &checkin, nil
}

func (r *checkinRepo) ExistsByPair(ctx context.Context, activityID, teachingPointID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Checkin{}).
		Where("activity_id = ? AND teaching_point_id = ?", activityID, teachingPointID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *checkinRepo) List(ctx context.Context, filter CheckinFilter) ([]model.Checkin, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Checkin{})

	if filter.ActivityID > 0 {
		query = query.Where("activity_id = ?", filter.ActivityID)
	}
	if filter.TeachingPointID > 0 {
		query = query.Where("teaching_point_id = ?", filter.TeachingPointID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var checkins []model.Checkin
	err := query.
		Order("submitted_time DESC").
		Offset((filter.Page - 1) * filter.Size).
		Limit(filter.Size).
		Find(&checkins).Error
	if err != nil {
		return nil, 0, err
	}

	return checkins, total, nil
}

func (r *checkinRepo) ListAllByActivity(ctx context.Context, activityID int64) ([]model.Checkin, error) {
	var checkins []model.Checkin
	err := r.db.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("submitted_time").
		Find(&checkins).Error
	if err != nil {
		return nil, err
	}
	return checkins, nil
}

func (r *checkinRepo) Statistics(ctx context.Context, activityID int64) (*CheckinStatistics, error) {
	var stats CheckinStatistics
	err := r.db.WithContext(ctx).
		Model(&model.Checkin{}).
		Select("COUNT(DISTINCT teaching_point_id) AS participating_teaching_points, COALESCE(SUM(attendee_count), 0) AS total_attendees").
		Where("activity_id = ?", activityID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
