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

var ErrAlreadyCheckedIn = errors.New("该教学点已打卡")

// CheckinService 打卡业务接口
//
// Submit 是参与端入口：凭打卡二维码令牌提交，无需登录。
// 一个教学点在一次活动中至多打卡一次，幂等性最终由
// (activity_id, teaching_point_id) 唯一约束保证
type CheckinService interface {
	Submit(ctx context.Context, req *dto.CheckinSubmitRequest) (*dto.CheckinSubmitResponse, error)
	List(ctx context.Context, op Operator, req *dto.CheckinQueryRequest) ([]dto.CheckinResponse, int64, error)
	Statistics(ctx context.Context, op Operator, activityID int64) (*dto.CheckinStatisticsResponse, error)
}

type checkinService struct {
	repo   *repository.Repository
	qrSvc  QrCodeService
	logger *zap.Logger
}

// NewCheckinService 创建 CheckinService 实例
func NewCheckinService(repo *repository.Repository, qrSvc QrCodeService, logger *zap.Logger) CheckinService {
	return &checkinService{repo: repo, qrSvc: qrSvc, logger: logger}
}

func (s *checkinService) Submit(ctx context.Context, req *dto.CheckinSubmitRequest) (*dto.CheckinSubmitResponse, error) {
	// 1. 验证令牌：必须是存活的打卡码
	qrcode, err := s.qrSvc.VerifyOfKind(ctx, req.Token, model.QrCodeKindCheckin)
	if err != nil {
		return nil, err
	}

	// 2. 活动必须进行中且在时间窗口内
	activity, err := s.repo.Activity.GetByID(ctx, qrcode.ActivityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		s.logger.Error("查询活动失败", zap.Error(err))
		return nil, err
	}
	now := time.Now()
	if err := requireOngoingWithinWindow(activity, now); err != nil {
		return nil, err
	}

	// 3. 教学点必须存在且启用
	point, err := s.repo.TeachingPoint.GetByID(ctx, req.TeachingPointID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeachingPointNotFound
		}
		s.logger.Error("查询教学点失败", zap.Error(err))
		return nil, err
	}
	if point.Status != model.StatusEnabled {
		return nil, ErrTeachingPointDisabled
	}

	// 4. 预检重复提交，给出友好错误；真正的防线在唯一约束
	exists, err := s.repo.Checkin.ExistsByPair(ctx, activity.ID, point.ID)
	if err != nil {
		s.logger.Error("查询打卡记录失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyCheckedIn
	}

	// 5. 插入记录；并发落败方的唯一约束冲突归一为"已打卡"
	checkin := &model.Checkin{
		ActivityID:      activity.ID,
		TeachingPointID: point.ID,
		AttendeeCount:   req.AttendeeCount,
		SubmittedTime:   now,
		SourceQrCodeID:  qrcode.ID,
	}
	if err := s.repo.Checkin.Create(ctx, checkin); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrAlreadyCheckedIn
		}
		s.logger.Error("创建打卡记录失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("打卡成功",
		zap.Int64("activity_id", activity.ID),
		zap.Int64("teaching_point_id", point.ID),
		zap.Int("attendee_count", req.AttendeeCount))

	return &dto.CheckinSubmitResponse{
		CheckinID:     checkin.ID,
		SubmittedTime: formatTime(checkin.SubmittedTime),
	}, nil
}

func (s *checkinService) List(ctx context.Context, op Operator, req *dto.CheckinQueryRequest) ([]dto.CheckinResponse, int64, error) {
	activity, err := s.visibleActivity(ctx, op, req.ActivityID)
	if err != nil {
		return nil, 0, err
	}

	checkins, total, err := s.repo.Checkin.List(ctx, repository.CheckinFilter{
		ActivityID:      req.ActivityID,
		TeachingPointID: req.TeachingPointID,
		Page:            req.Page,
		Size:            req.Size,
	})
	if err != nil {
		s.logger.Error("查询打卡记录失败", zap.Error(err))
		return nil, 0, err
	}

	pointNames := s.teachingPointNames(ctx, checkinPointIDs(checkins))
	list := make([]dto.CheckinResponse, 0, len(checkins))
	for _, c := range checkins {
		list = append(list, dto.CheckinResponse{
			ID:                c.ID,
			ActivityID:        c.ActivityID,
			ActivityName:      activity.Name,
			TeachingPointID:   c.TeachingPointID,
			TeachingPointName: pointNames[c.TeachingPointID],
			AttendeeCount:     c.AttendeeCount,
			SubmittedTime:     formatTime(c.SubmittedTime),
		})
	}
	return list, total, nil
}

func (s *checkinService) Statistics(ctx context.Context, op Operator, activityID int64) (*dto.CheckinStatisticsResponse, error) {
	if _, err := s.visibleActivity(ctx, op, activityID); err != nil {
		return nil, err
	}

	stats, err := s.repo.Checkin.Statistics(ctx, activityID)
	if err != nil {
		s.logger.Error("查询打卡统计失败", zap.Error(err))
		return nil, err
	}

	return &dto.CheckinStatisticsResponse{
		ActivityID:                  activityID,
		ParticipatingTeachingPoints: stats.ParticipatingTeachingPoints,
		TotalAttendees:              stats.TotalAttendees,
	}, nil
}

func (s *checkinService) visibleActivity(ctx context.Context, op Operator, id int64) (*model.Activity, error) {
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

// teachingPointNames 批量解析教学点名称，单条查询失败时对应名称留空
func (s *checkinService) teachingPointNames(ctx context.Context, ids []int64) map[int64]string {
	names := make(map[int64]string, len(ids))
	for _, id := range ids {
		if _, ok := names[id]; ok {
			continue
		}
		point, err := s.repo.TeachingPoint.GetByID(ctx, id)
		if err != nil {
			names[id] = ""
			continue
		}
		names[id] = point.Name
	}
	return names
}

func checkinPointIDs(checkins []model.Checkin) []int64 {
	ids := make([]int64, 0, len(checkins))
	for _, c := range checkins {
		ids = append(ids, c.TeachingPointID)
	}
	return ids
}
