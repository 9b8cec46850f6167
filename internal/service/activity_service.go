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
	ErrActivityNotFound     = errors.New("活动不存在")
	ErrActivityAlreadyEnded = errors.New("活动已结束，不能重复结束")
	ErrActivityNotOngoing   = errors.New("活动不在进行中")
	ErrActivityNotStarted   = errors.New("活动尚未开始")
	ErrActivityTimeEnded    = errors.New("活动时间已过，打卡已关闭")
	ErrActivityNotEnded     = errors.New("活动尚未结束，暂不能评价")
	ErrInvalidTimeFormat    = errors.New("时间格式无效，需为 RFC3339")
	ErrInvalidTimeRange     = errors.New("开始时间必须早于结束时间")
	ErrPermissionDenied     = errors.New("无权操作该资源")
)

// ── 活动生命周期守卫 ──
// 打卡/评价服务共用，状态与时间窗口分开判定以给出明确的拒绝原因

// requireOngoingWithinWindow 打卡前置条件：活动进行中且当前时间落在活动时间窗口内
func requireOngoingWithinWindow(a *model.Activity, now time.Time) error {
	if a.Status != model.ActivityStatusOngoing {
		return ErrActivityNotOngoing
	}
	if now.Before(a.StartTime) {
		return ErrActivityNotStarted
	}
	if now.After(a.EndTime) {
		return ErrActivityTimeEnded
	}
	return nil
}

// requireEnded 评价前置条件：活动已被管理员结束
func requireEnded(a *model.Activity) error {
	if !a.IsEnded() {
		return ErrActivityNotEnded
	}
	return nil
}

// canViewActivity 县级管理员可见本区县活动与全市活动
func canViewActivity(op Operator, a *model.Activity) bool {
	if op.Role == model.RoleCity {
		return true
	}
	return a.ScopeCountyCode == nil || *a.ScopeCountyCode == op.CountyCode
}

// canManageActivity 结束活动、管理二维码等变更操作：
// 市级可操作全部活动，县级仅可操作本区县活动（全市活动不可）
func canManageActivity(op Operator, a *model.Activity) bool {
	if op.Role == model.RoleCity {
		return true
	}
	return a.ScopeCountyCode != nil && *a.ScopeCountyCode == op.CountyCode
}

// ActivityService 活动生命周期接口
type ActivityService interface {
	Create(ctx context.Context, op Operator, req *dto.CreateActivityRequest) (*dto.ActivityResponse, error)
	Get(ctx context.Context, op Operator, id int64) (*dto.ActivityDetailResponse, error)
	List(ctx context.Context, op Operator, req *dto.ActivityQueryRequest) ([]dto.ActivityResponse, int64, error)
	// Finish 将活动置为 ended（终态，不可重复、不可逆），随后尽力禁用
	// 该活动下除评价码外的二维码；禁用失败只记录日志，不回滚状态变更
	Finish(ctx context.Context, op Operator, id int64) (*dto.FinishActivityResponse, error)
}

type activityService struct {
	repo   *repository.Repository
	qrSvc  QrCodeService
	logger *zap.Logger
}

// NewActivityService 创建 ActivityService 实例
func NewActivityService(repo *repository.Repository, qrSvc QrCodeService, logger *zap.Logger) ActivityService {
	return &activityService{repo: repo, qrSvc: qrSvc, logger: logger}
}

func (s *activityService) Create(ctx context.Context, op Operator, req *dto.CreateActivityRequest) (*dto.ActivityResponse, error) {
	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}
	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}
	if !startTime.Before(endTime) {
		return nil, ErrInvalidTimeRange
	}

	// 活动归属范围：县级管理员固定为本区县，市级可指定区县或留空表示全市
	var scope *string
	switch op.Role {
	case model.RoleCounty:
		countyCode := op.CountyCode
		scope = &countyCode
	case model.RoleCity:
		if req.ScopeCountyCode != "" {
			if _, err := s.repo.County.GetByCode(ctx, req.ScopeCountyCode); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrCountyNotFound
				}
				s.logger.Error("查询区县失败", zap.Error(err))
				return nil, err
			}
			countyCode := req.ScopeCountyCode
			scope = &countyCode
		}
	}

	activity := &model.Activity{
		Name:            req.Name,
		Description:     req.Description,
		ScopeCountyCode: scope,
		StartTime:       startTime,
		EndTime:         endTime,
		CreatedID:       &op.AdminID,
		Status:          model.ActivityStatusOngoing,
	}
	if err := s.repo.Activity.Create(ctx, activity); err != nil {
		s.logger.Error("创建活动失败", zap.Error(err))
		return nil, err
	}

	// 自动生成一张打卡码、一张评价码；失败不回滚活动创建，管理员可手动补发
	for _, kind := range []string{model.QrCodeKindCheckin, model.QrCodeKindEvaluation} {
		if _, err := s.qrSvc.Generate(ctx, op, activity.ID, &dto.GenerateQrCodeRequest{Kind: kind}); err != nil {
			s.logger.Warn("自动生成二维码失败",
				zap.Int64("activity_id", activity.ID),
				zap.String("kind", kind),
				zap.Error(err))
		}
	}

	resp := toActivityResponse(activity)
	return &resp, nil
}

func (s *activityService) Get(ctx context.Context, op Operator, id int64) (*dto.ActivityDetailResponse, error) {
	activity, err := s.getVisible(ctx, op, id)
	if err != nil {
		return nil, err
	}

	stats, err := s.repo.Checkin.Statistics(ctx, id)
	if err != nil {
		s.logger.Error("查询打卡统计失败", zap.Error(err))
		return nil, err
	}
	evalCount, err := s.repo.Evaluation.CountByActivity(ctx, id)
	if err != nil {
		s.logger.Error("查询评价数量失败", zap.Error(err))
		return nil, err
	}
	qrcodes, err := s.repo.QrCode.ListByActivity(ctx, id)
	if err != nil {
		s.logger.Error("查询活动二维码失败", zap.Error(err))
		return nil, err
	}

	qrList := make([]dto.QrCodeResponse, 0, len(qrcodes))
	for i := range qrcodes {
		qrList = append(qrList, s.qrSvc.ToResponse(&qrcodes[i]))
	}

	return &dto.ActivityDetailResponse{
		Activity:          toActivityResponse(activity),
		ParticipatedCount: stats.ParticipatingTeachingPoints,
		TotalAttendees:    stats.TotalAttendees,
		EvaluationCount:   evalCount,
		QrCodes:           qrList,
	}, nil
}

func (s *activityService) List(ctx context.Context, op Operator, req *dto.ActivityQueryRequest) ([]dto.ActivityResponse, int64, error) {
	countyCode := req.CountyCode
	if op.Role == model.RoleCounty {
		countyCode = op.CountyCode
	}

	activities, total, err := s.repo.Activity.List(ctx, repository.ActivityFilter{
		Status:     req.Status,
		CountyCode: countyCode,
		Page:       req.Page,
		Size:       req.Size,
	})
	if err != nil {
		s.logger.Error("查询活动列表失败", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.ActivityResponse, 0, len(activities))
	for i := range activities {
		list = append(list, toActivityResponse(&activities[i]))
	}
	return list, total, nil
}

func (s *activityService) Finish(ctx context.Context, op Operator, id int64) (*dto.FinishActivityResponse, error) {
	activity, err := s.getVisible(ctx, op, id)
	if err != nil {
		return nil, err
	}
	if !canManageActivity(op, activity) {
		return nil, ErrPermissionDenied
	}
	if activity.IsEnded() {
		return nil, ErrActivityAlreadyEnded
	}

	endedTime := time.Now()
	updated, err := s.repo.Activity.MarkEnded(ctx, id, endedTime)
	if err != nil {
		s.logger.Error("结束活动失败", zap.Int64("activity_id", id), zap.Error(err))
		return nil, err
	}
	if !updated {
		// 并发结束时落败的一方：状态已是 ended，保持首次结束时间不变
		return nil, ErrActivityAlreadyEnded
	}

	// 活动结束后打卡码随之作废，评价码保留供教学点后续评价
	if err := s.repo.QrCode.DisableAllExcept(ctx, id, model.QrCodeKindEvaluation, endedTime); err != nil {
		s.logger.Warn("禁用活动二维码失败，状态变更已生效",
			zap.Int64("activity_id", id),
			zap.Error(err))
	}

	s.logger.Info("活动已结束",
		zap.Int64("activity_id", id),
		zap.Int64("admin_id", op.AdminID))

	return &dto.FinishActivityResponse{
		ID:        id,
		EndedTime: formatTime(endedTime),
	}, nil
}

// getVisible 查询活动并校验可见性
func (s *activityService) getVisible(ctx context.Context, op Operator, id int64) (*model.Activity, error) {
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

func toActivityResponse(activity *model.Activity) dto.ActivityResponse {
	return dto.ActivityResponse{
		ID:              activity.ID,
		Name:            activity.Name,
		Description:     activity.Description,
		ScopeCountyCode: activity.ScopeCountyCode,
		StartTime:       formatTime(activity.StartTime),
		EndTime:         formatTime(activity.EndTime),
		EndedTime:       formatTimePtr(activity.EndedTime),
		Status:          activity.Status,
		CreatedTime:     formatTime(activity.CreatedTime),
	}
}
