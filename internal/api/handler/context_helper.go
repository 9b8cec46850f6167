package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NecoOcean/we-chat-check-in/internal/service"
	"github.com/NecoOcean/we-chat-check-in/pkg/jwt"
	"github.com/NecoOcean/we-chat-check-in/pkg/qrtoken"
	"github.com/NecoOcean/we-chat-check-in/pkg/response"
)

// MustGetOperator 从 Gin 上下文还原当前管理员身份。
// JWT 中间件未正确注入时写入 401 响应并返回 false，调用方应直接 return。
func MustGetOperator(c *gin.Context) (service.Operator, bool) {
	v, exists := c.Get("claims")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return service.Operator{}, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims.AdminID <= 0 {
		response.Unauthorized(c, 10002, "未认证")
		return service.Operator{}, false
	}
	return service.Operator{
		AdminID:    claims.AdminID,
		Role:       claims.Role,
		CountyCode: claims.CountyCode,
	}, true
}

// MustGetClaims 从 Gin 上下文提取完整 JWT 声明（注销时需要 JTI 与过期时间）
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get("claims")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	return claims, true
}

// handleServiceError 业务错误 → HTTP 响应的统一映射。
// 未识别的错误按存储/内部故障处理，返回不透明 500，调用方可重试
func handleServiceError(c *gin.Context, err error) {
	for _, m := range serviceErrorMap {
		if errors.Is(err, m.err) {
			response.Error(c, m.status, m.code, m.err.Error())
			return
		}
	}
	response.InternalError(c)
}

type errorMapping struct {
	err    error
	status int
	code   int
}

// 业务码分段：11 认证 / 12 管理员 / 13 活动 / 14 打卡 / 15 二维码 / 16 评价 /
// 17 区县 / 18 教学点 / 19 导出
var serviceErrorMap = []errorMapping{
	{service.ErrInvalidCredentials, http.StatusUnauthorized, 11001},
	{service.ErrAdminDisabled, http.StatusForbidden, 11002},
	{service.ErrOldPasswordWrong, http.StatusBadRequest, 11003},

	{service.ErrAdminNotFound, http.StatusNotFound, 12001},
	{service.ErrUsernameTaken, http.StatusConflict, 12002},
	{service.ErrCannotDeleteSelf, http.StatusBadRequest, 12003},

	{service.ErrActivityNotFound, http.StatusNotFound, 13001},
	{service.ErrActivityAlreadyEnded, http.StatusConflict, 13002},
	{service.ErrActivityNotOngoing, http.StatusBadRequest, 13003},
	{service.ErrActivityNotStarted, http.StatusBadRequest, 13004},
	{service.ErrActivityTimeEnded, http.StatusBadRequest, 13005},
	{service.ErrActivityNotEnded, http.StatusBadRequest, 13006},
	{service.ErrInvalidTimeFormat, http.StatusBadRequest, 13007},
	{service.ErrInvalidTimeRange, http.StatusBadRequest, 13008},
	{service.ErrPermissionDenied, http.StatusForbidden, 10003},

	{service.ErrAlreadyCheckedIn, http.StatusConflict, 14001},

	{service.ErrQrCodeNotFound, http.StatusNotFound, 15001},
	{service.ErrQrCodeDisabled, http.StatusBadRequest, 15002},
	{service.ErrQrCodeExpired, http.StatusBadRequest, 15003},
	{service.ErrQrCodeKindMismatch, http.StatusBadRequest, 15004},
	{qrtoken.ErrTokenInvalid, http.StatusBadRequest, 15005},
	{qrtoken.ErrTokenExpired, http.StatusBadRequest, 15006},

	{service.ErrNotCheckedIn, http.StatusBadRequest, 16001},
	{service.ErrAlreadyEvaluated, http.StatusConflict, 16002},

	{service.ErrCountyNotFound, http.StatusNotFound, 17001},
	{service.ErrCountyExists, http.StatusConflict, 17002},

	{service.ErrTeachingPointNotFound, http.StatusNotFound, 18001},
	{service.ErrTeachingPointDisabled, http.StatusBadRequest, 18002},

	{service.ErrExportNoCheckins, http.StatusNotFound, 19001},
}
