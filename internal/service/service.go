package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/NecoOcean/we-chat-check-in/config"
	"github.com/NecoOcean/we-chat-check-in/internal/repository"
	"github.com/NecoOcean/we-chat-check-in/pkg/jwt"
	"github.com/NecoOcean/we-chat-check-in/pkg/qrtoken"
	"github.com/NecoOcean/we-chat-check-in/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth          AuthService
	Admin         AdminService
	County        CountyService
	TeachingPoint TeachingPointService
	Activity      ActivityService
	QrCode        QrCodeService
	Checkin       CheckinService
	Evaluation    EvaluationService
	Export        ExportService
}

// NewService 创建 Service 聚合
// rdb 允许为 nil：Redis 不可用时注销黑名单退化为关闭，不阻塞启动
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	qrMgr *qrtoken.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	qrSvc := NewQrCodeService(cfg, repo, qrMgr, logger)

	return &Service{
		Auth:          NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Admin:         NewAdminService(repo, logger),
		County:        NewCountyService(repo, logger),
		TeachingPoint: NewTeachingPointService(repo, logger),
		Activity:      NewActivityService(repo, qrSvc, logger),
		QrCode:        qrSvc,
		Checkin:       NewCheckinService(repo, qrSvc, logger),
		Evaluation:    NewEvaluationService(repo, qrSvc, logger),
		Export:        NewExportService(repo, logger),
	}
}

// Operator 当前操作的管理员身份，由 Handler 从 JWT 声明还原
type Operator struct {
	AdminID    int64
	Role       string // city | county
	CountyCode string // 县级管理员所属区县，市级为空
}

// ── 时间格式化辅助 ──

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
