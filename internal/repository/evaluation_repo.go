package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/NecoOcean/we-chat-check-in/internal/model"
)

// EvaluationFilter 评价记录查询条件
type EvaluationFilter struct {
	ActivityID      int64
	TeachingPointID int64
	Page            int
	Size            int
}

// EvaluationStatistics 评价统计聚合结果
type EvaluationStatistics struct {
	EvaluationCount   int64
	AvgQ1Satisfaction float64
	AvgQ2Practicality float64
	AvgQ3Quality      float64
}

// EvaluationRepository 评价数据访问接口
type EvaluationRepository interface {
	Create(ctx context.Context, evaluation *model.Evaluation) error
	ExistsByPair(ctx context.Context, activityID, teachingPointID int64) (bool, error)
	List(ctx context.Context, filter EvaluationFilter) ([]model.Evaluation, int64, error)
	Statistics(ctx context.Context, activityID int64) (*EvaluationStatistics, error)
	CountByActivity(ctx context.Context, activityID int64) (int64, error)
}

type evaluationRepo struct {
	db *gorm.DB
}

// NewEvaluationRepo 创建 EvaluationRepository 实例
func NewEvaluationRepo(db *gorm.DB) EvaluationRepository {
	return &evaluationRepo{db: db}
}

func (r *evaluationRepo) Create(ctx context.Context, evaluation *model.Evaluation) error {
	return r.db.WithContext(ctx).Create(evaluation).Error
}

func (r *evaluationRepo) ExistsByPair(ctx context.Context, activityID, teachingPointID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Evaluation{}).
		Where("activity_id = ? AND teaching_point_id = ?", activityID, teachingPointID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *evaluationRepo) List(ctx context.Context, filter EvaluationFilter) ([]model.Evaluation, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Evaluation{})

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

	var evaluations []model.Evaluation
	err := query.
		Order("submitted_time DESC").
		Offset((filter.Page - 1) * filter.Size).
		Limit(filter.Size).
		Find(&evaluations).Error
	if err != nil {
		return nil, 0, err
	}

	return evaluations, total, nil
}

func (r *evaluationRepo) Statistics(ctx context.Context, activityID int64) (*EvaluationStatistics, error) {
	var stats EvaluationStatistics
	err := r.db.WithContext(ctx).
		Model(&model.Evaluation{}).
		Select("COUNT(*) AS evaluation_count, " +
			"COALESCE(AVG(q1_satisfaction), 0) AS avg_q1_satisfaction, " +
			"COALESCE(AVG(q2_practicality), 0) AS avg_q2_practicality, " +
			"COALESCE(AVG(q3_quality), 0) AS avg_q3_quality").
		Where("activity_id = ?", activityID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *evaluationRepo) CountByActivity(ctx context.Context, activityID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Evaluation{}).
		Where("activity_id = ?", activityID).
		Count(&count).Error
	return count, err
}
