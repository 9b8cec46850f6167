package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/NecoOcean/we-chat-check-in/config"
	"github.com/NecoOcean/we-chat-check-in/internal/dto"
	"github.com/NecoOcean/we-chat-check-in/internal/model"
	"github.com/NecoOcean/we-chat-check-in/internal/repository"
	"github.com/NecoOcean/we-chat-check-in/pkg/qrtoken"
)

var (
	ErrQrCodeNotFound     = errors.New("二维码不存在")
	ErrQrCodeDisabled     = errors.New("二维码已停用")
	ErrQrCodeExpired      = errors.New("二维码已过期")
	ErrQrCodeKindMismatch = errors.New("二维码用途不匹配")
)

// QrCodeService 二维码登记与验证接口
//
// 状态模型为 enabled → disabled 单向流转：禁用不可恢复、不做物理删除，
// 令牌验证同时检查签名有效性与库侧记录的存活状态。
type QrCodeService interface {
	// Generate 为活动签发二维码。令牌需内嵌数据库分配的主键，
	// 因此采用两阶段写入：先插入占位行取得 ID，再签发令牌并回写
	Generate(ctx context.Context, op Operator, activityID int64, req *dto.GenerateQrCodeRequest) (*dto.QrCodeResponse, error)
	List(ctx context.Context, op Operator, req *dto.QrCodeQueryRequest) ([]dto.QrCodeResponse, int64, error)
	// Verify 参与端信息性验证：所有失败以 Valid=false + 原因返回，
	// 仅存储故障作为 error 上抛
	Verify(ctx context.Context, token string) (*dto.QrCodeVerifyResult, error)
	// VerifyOfKind 提交链路验证：令牌有效、记录存活且用途匹配时返回记录，
	// 否则返回对应的业务错误
	VerifyOfKind(ctx context.Context, token, kind string) (*model.QrCode, error)
	// Disable 禁用二维码；对已禁用的记录重复调用是幂等的成功
	Disable(ctx context.Context, op Operator, id int64) error
	ToResponse(qrcode *model.QrCode) dto.QrCodeResponse
}

type qrCodeService struct {
	cfg    *config.Config
	repo   *repository.Repository
	qrMgr  *qrtoken.Manager
	logger *zap.Logger
}

// NewQrCodeService 创建 QrCodeService 实例
func NewQrCodeService(cfg *config.Config, repo *repository.Repository, qrMgr *qrtoken.Manager, logger *zap.Logger) QrCodeService {
	return &qrCodeService{cfg: cfg, repo: repo, qrMgr: qrMgr, logger: logger}
}

func (s *qrCodeService) Generate(ctx context.Context, op Operator, activityID int64, req *dto.GenerateQrCodeRequest) (*dto.QrCodeResponse, error) {
	activity, err := s.repo.Activity.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		s.logger.Error("查询活动失败", zap.Error(err))
		return nil, err
	}
	if !canManageActivity(op, activity) {
		return nil, ErrPermissionDenied
	}

	// 过期时间：未指定时默认活动结束时间再宽限若干天，
	// 保证活动结束后评价码仍有一段可用窗口
	expireTime := activity.EndTime.AddDate(0, 0, s.cfg.QrCode.DefaultExpirationDays)
	if req.ExpireTime != "" {
		expireTime, err = time.Parse(time.RFC3339, req.ExpireTime)
		if err != nil {
			return nil, ErrInvalidTimeFormat
		}
	}

	// 阶段一：插入占位行，取得数据库分配的主键
	qrcode := &model.QrCode{
		ActivityID: activityID,
		Kind:       req.Kind,
		Token:      "",
		ExpireTime: expireTime,
		Status:     model.QrCodeStatusEnabled,
	}
	if err := s.repo.QrCode.Create(ctx, qrcode); err != nil {
		s.logger.Error("创建二维码记录失败", zap.Error(err))
		return nil, err
	}

	// 阶段二：用真实主键签发令牌并回写
	token, err := s.qrMgr.Generate(qrcode.ID, activityID, req.Kind, expireTime)
	if err != nil {
		s.logger.Error("签发二维码令牌失败", zap.Int64("qrcode_id", qrcode.ID), zap.Error(err))
		return nil, err
	}
	if err := s.repo.QrCode.UpdateToken(ctx, qrcode.ID, token); err != nil {
		s.logger.Error("回写二维码令牌失败", zap.Int64("qrcode_id", qrcode.ID), zap.Error(err))
		return nil, err
	}
	qrcode.Token = token

	s.logger.Info("二维码已签发",
		zap.Int64("qrcode_id", qrcode.ID),
		zap.Int64("activity_id", activityID),
		zap.String("kind", req.Kind))

	resp := s.ToResponse(qrcode)
	return &resp, nil
}

func (s *qrCodeService) List(ctx context.Context, op Operator, req *dto.QrCodeQueryRequest) ([]dto.QrCodeResponse, int64, error) {
	activity, err := s.repo.Activity.GetByID(ctx, req.ActivityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrActivityNotFound
		}
		s.logger.Error("查询活动失败", zap.Error(err))
		return nil, 0, err
	}
	if !canViewActivity(op, activity) {
		return nil, 0, ErrPermissionDenied
	}

	qrcodes, total, err := s.repo.QrCode.List(ctx, repository.QrCodeFilter{
		ActivityID: req.ActivityID,
		Kind:       req.Kind,
		Status:     req.Status,
		Page:       req.Page,
		Size:       req.Size,
	})
	if err != nil {
		s.logger.Error("查询二维码列表失败", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.QrCodeResponse, 0, len(qrcodes))
	for i := range qrcodes {
		list = append(list, s.ToResponse(&qrcodes[i]))
	}
	return list, total, nil
}

func (s *qrCodeService) Verify(ctx context.Context, token string) (*dto.QrCodeVerifyResult, error) {
	claims, err := s.qrMgr.Parse(token)
	if err != nil {
		if errors.Is(err, qrtoken.ErrTokenExpired) {
			return &dto.QrCodeVerifyResult{Valid: false, Reason: "二维码令牌已过期"}, nil
		}
		return &dto.QrCodeVerifyResult{Valid: false, Reason: "二维码令牌无效"}, nil
	}

	qrcode, err := s.liveQrCode(ctx, claims)
	if err != nil {
		switch {
		case errors.Is(err, ErrQrCodeNotFound),
			errors.Is(err, ErrQrCodeDisabled),
			errors.Is(err, ErrQrCodeExpired),
			errors.Is(err, qrtoken.ErrTokenInvalid):
			return &dto.QrCodeVerifyResult{Valid: false, Reason: err.Error()}, nil
		}
		return nil, err
	}

	return &dto.QrCodeVerifyResult{
		Valid:      true,
		QrCodeID:   qrcode.ID,
		ActivityID: qrcode.ActivityID,
		Kind:       qrcode.Kind,
	}, nil
}

func (s *qrCodeService) VerifyOfKind(ctx context.Context, token, kind string) (*model.QrCode, error) {
	claims, err := s.qrMgr.Parse(token)
	if err != nil {
		return nil, err
	}

	qrcode, err := s.liveQrCode(ctx, claims)
	if err != nil {
		return nil, err
	}
	if qrcode.Kind != kind {
		return nil, ErrQrCodeKindMismatch
	}
	return qrcode, nil
}

func (s *qrCodeService) Disable(ctx context.Context, op Operator, id int64) error {
	qrcode, err := s.repo.QrCode.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQrCodeNotFound
		}
		s.logger.Error("查询二维码失败", zap.Error(err))
		return err
	}

	activity, err := s.repo.Activity.GetByID(ctx, qrcode.ActivityID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询活动失败", zap.Error(err))
		return err
	}
	if activity != nil && !canManageActivity(op, activity) {
		return ErrPermissionDenied
	}

	// 已禁用的记录不会被更新，重复禁用返回成功
	if err := s.repo.QrCode.Disable(ctx, id, time.Now()); err != nil {
		s.logger.Error("禁用二维码失败", zap.Int64("qrcode_id", id), zap.Error(err))
		return err
	}
	return nil
}

// liveQrCode 按令牌声明加载记录并检查存活状态。
// 令牌签名有效但声明与库中记录不一致时按无效令牌处理；
// 库侧过期时间独立于令牌 exp，管理员缩短它后旧令牌随之失效
func (s *qrCodeService) liveQrCode(ctx context.Context, claims *qrtoken.Claims) (*model.QrCode, error) {
	qrcode, err := s.repo.QrCode.GetByID(ctx, claims.QrCodeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQrCodeNotFound
		}
		s.logger.Error("查询二维码失败", zap.Error(err))
		return nil, err
	}

	if qrcode.ActivityID != claims.ActivityID || qrcode.Kind != claims.Kind {
		return nil, qrtoken.ErrTokenInvalid
	}
	if !qrcode.IsEnabled() {
		return nil, ErrQrCodeDisabled
	}
	if time.Now().After(qrcode.ExpireTime) {
		return nil, ErrQrCodeExpired
	}
	return qrcode, nil
}

func (s *qrCodeService) ToResponse(qrcode *model.QrCode) dto.QrCodeResponse {
	return dto.QrCodeResponse{
		ID:           qrcode.ID,
		ActivityID:   qrcode.ActivityID,
		Kind:         qrcode.Kind,
		Token:        qrcode.Token,
		URL:          s.scanURL(qrcode.Token),
		ExpireTime:   formatTime(qrcode.ExpireTime),
		DisabledTime: formatTimePtr(qrcode.DisabledTime),
		Status:       qrcode.Status,
		CreatedTime:  formatTime(qrcode.CreatedTime),
	}
}

// scanURL 扫码落地页地址，令牌以查询参数携带
func (s *qrCodeService) scanURL(token string) string {
	base := strings.TrimRight(s.cfg.Server.BaseURL, "/")
	return fmt.Sprintf("%s/scan?token=%s", base, url.QueryEscape(token))
}
