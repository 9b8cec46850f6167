package handler

import "github.com/NecoOcean/we-chat-check-in/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth          *AuthHandler
	Admin         *AdminHandler
	County        *CountyHandler
	TeachingPoint *TeachingPointHandler
	Activity      *ActivityHandler
	QrCode        *QrCodeHandler
	Checkin       *CheckinHandler
	Evaluation    *EvaluationHandler
	Export        *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:          NewAuthHandler(svc.Auth),
		Admin:         NewAdminHandler(svc.Admin),
		County:        NewCountyHandler(svc.County),
		TeachingPoint: NewTeachingPointHandler(svc.TeachingPoint),
		Activity:      NewActivityHandler(svc.Activity),
		QrCode:        NewQrCodeHandler(svc.QrCode),
		Checkin:       NewCheckinHandler(svc.Checkin),
		Evaluation:    NewEvaluationHandler(svc.Evaluation),
		Export:        NewExportHandler(svc.Export),
	}
}
