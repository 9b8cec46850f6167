package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/NecoOcean/we-chat-check-in/internal/dto"
	"github.com/NecoOcean/we-chat-check-in/internal/model"
	"github.com/NecoOcean/we-chat-check-in/internal/repository"
)

var (
	ErrNotCheckedIn     = errors.New("该教学点尚未打卡，不能评价")
	ErrAlreadyEvaluated = errors.New("该教学点已评价")
)

// EvaluationService 评价业务接口
//
// 评价只在活动结束后开放，且要求该教学点在活动期间完成过打卡。
// 与打卡一样，每个 (活动, 教学点) 至多一条评价
type EvaluationService interface {
	Submit(ctx context.Context, req *dto.EvaluationSubmitRequest) (*dto.EvaluationSubmitResponse, error)
	List(ctx context.Context, op Operator, req *dto.EvaluationQueryRequest) ([]dto.EvaluationResponse, int64, error)
	Statistics(ctx context.Context, op Operator, activityID int64) (*dto.EvaluationStatisticsResponse, error)
}

type evaluationService struct {
	repo   *repository.Repository
	qrSvc  QrCodeService
	logger *zap.Logger
}

// NewEvaluationService 创建 EvaluationService 实例
func NewEvaluationService(repo *repository.Repository, qrSvc QrCodeService, logger *zap.Logger) EvaluationService {
	return &evaluationService{repo: repo, qrSvc: qrSvc, logger: logger}
}

func (s *evaluationService) Submit(ctx context.Context, req *dto.EvaluationSubmitRequest) (*dto.EvaluationSubmitResponse, error) {
	// 1. 验证令牌：必须是存活的评价码
	qrcode, err := s.qrSvc.VerifyOfKind(ctx, req.Token, model.QrCodeKindEvaluation)
	if err != nil {
		return nil, err
	}

	// 2. 活动必须已被管理员结束
	activity, err := s.repo.Activity.GetByID(ctx, qrcode.ActivityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		s.logger.Error("查询活动失败", zap.Error(err))
		return nil, err
	}
	if err := requireEnded(activity); err != nil {
		return nil, err
	}

	// 3. 教学点存在且在活动期间打过卡
	point, err := s.repo.TeachingPoint.GetByID(ctx, req.TeachingPointID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeachingPointNotFound
		}
		s.logger.Error("查询教学点失败", zap.Error(err))
		return nil, err
	}

	checkedIn, err := s.repo.Checkin.ExistsByPair(ctx, activity.ID, point.ID)
	if err != nil {
		s.logger.Error("查询打卡记录失败", zap.Error(err))
		return nil, err
	}
	if !checkedIn {
		return nil, ErrNotCheckedIn
	}

	// 4. 预检重复评价；真正的防线在唯一约束
	evaluated, err := s.repo.Evaluation.ExistsByPair(ctx, activity.ID, point.ID)
	if err != nil {
		s.logger.Error("查询评价记录失败", zap.Error(err))
		return nil, err
	}
	if evaluated {
		return nil, ErrAlreadyEvaluated
	}

	evaluation := &model.Evaluation{
		ActivityID:      activity.ID,
		TeachingPointID: point.ID,
		Q1Satisfaction:  req.Q1Satisfaction,
		Q2Practicality:  req.Q2Practicality,
		Q3Quality:       req.Q3Quality,
		SuggestionText:  req.SuggestionText,
		SubmittedTime:   time.Now(),
		SourceQrCodeID:  qrcode.ID,
	}
	if err := s.repo.Evaluation.Create(ctx, evaluation); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrAlreadyEvaluated
		}
		s.logger.Error("创建评价记录失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("评价提交成功",
		zap.Int64("activity_id", activity.ID),
		zap.Int64("teaching_point_id", point.ID))

	return &dto.EvaluationSubmitResponse{
		EvaluationID:  evaluation.ID,
		SubmittedTime: formatTime(evaluation.SubmittedTime),
	}, nil
}

func (s *evaluationService) List(ctx context.Context, op Operator, req *dto.EvaluationQueryRequest) ([]dto.EvaluationResponse, int64, error) {
	activity, err := s.visibleActivity(ctx, op, req.ActivityID)
	if err != nil {
		return nil, 0, err
	}

	evaluations, total, err := s.repo.Evaluation.List(ctx, repository.EvaluationFilter{
		ActivityID:      req.ActivityID,
		TeachingPointID: req.TeachingPointID,
		Page:            req.Page,
		Size:            req.Size,
	})
	if err != nil {
		s.logger.Error("查询评价记录失败", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.EvaluationResponse, 0, len(evaluations))
	for _, e := range evaluations {
		pointName := ""
		if point, err := s.repo.TeachingPoint.GetByID(ctx, e.TeachingPointID); err == nil {
			pointName = point.Name
		}
		list = append(list, dto.EvaluationResponse{
			ID:                e.ID,
			ActivityID:        e.ActivityID,
			ActivityName:      activity.Name,
			TeachingPointID:   e.TeachingPointID,
			TeachingPointName: pointName,
			Q1Satisfaction:    e.Q1Satisfaction,
			Q2Practicality:    e.Q2Practicality,
			Q3Quality:         e.Q3Quality,
			SuggestionText:    e.SuggestionText,
			SubmittedTime:     formatTime(e.SubmittedTime),
		})
	}
	return list, total, nil
}

func (s *evaluationService) Statistics(ctx context.Context, op Operator, activityID int64) (*dto.EvaluationStatisticsResponse, error) {
	if _, err := s.visibleActivity(ctx, op, activityID); err != nil {
		return nil, err
	}

	stats, err := s.repo.Evaluation.Statistics(ctx, activityID)
	if err != nil {
		s.logger.Error("查询评价统计失败", zap.Error(err))
		return nil, err
	}

	return &dto.EvaluationStatisticsResponse{
		ActivityID:        activityID,
		EvaluationCount:   stats.EvaluationCount,
		AvgQ1Satisfaction: stats.AvgQ1Satisfaction,
		AvgQ2Practicality: stats.AvgQ2Practicality,
		AvgQ3Quality:      stats.AvgQ3Quality,
	}, nil
}

func (s *evaluationService) visibleActivity(ctx context.Context, op Operator, id int64) (*model.Activity, error) {
	activity, err := s.repo.Activity.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		s.logger.Error("查询活动失败", zap.Error(err))
		return nil, err
	}
	if !canViewActivity(op, activity) {
		return nil, ErrPermissionDenied
	}
	return activity, nil
}
