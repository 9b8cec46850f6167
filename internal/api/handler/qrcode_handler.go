package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/NecoOcean/we-chat-check-in/internal/dto"
	"github.com/NecoOcean/we-chat-check-in/internal/service"
	"github.com/NecoOcean/we-chat-check-in/pkg/response"
)

// QrCodeHandler 二维码模块 HTTP 处理器
type QrCodeHandler struct {
	qrSvc service.QrCodeService
}

// NewQrCodeHandler 创建 QrCodeHandler
func NewQrCodeHandler(qrSvc service.QrCodeService) *QrCodeHandler {
	return &QrCodeHandler{qrSvc: qrSvc}
}

// Generate 为活动签发二维码
// POST /api/v1/activities/:id/qrcodes
func (h *QrCodeHandler) Generate(c *gin.Context) {
	op, ok := MustGetOperator(c)
	if !ok {
		return
	}
	activityID, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.GenerateQrCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.qrSvc.Generate(c.Request.Context(), op, activityID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, result)
}

// List 二维码分页列表（按活动）
// GET /api/v1/qrcodes
func (h *QrCodeHandler) List(c *gin.Context) {
	op, ok := MustGetOperator(c)
	if !ok {
		return
	}

	var req dto.QrCodeQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.qrSvc.List(c.Request.Context(), op, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OKPage(c, list, total, req.Page, req.Size)
}

// Disable 禁用二维码，重复禁用幂等
// POST /api/v1/qrcodes/:id/disable
func (h *QrCodeHandler) Disable(c *gin.Context) {
	op, ok := MustGetOperator(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.qrSvc.Disable(c.Request.Context(), op, id); err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, nil)
}

// Verify 参与端二维码验证（无需登录）。
// 令牌或二维码无效不是 HTTP 错误，以 valid=false + reason 返回
// POST /api/v1/qrcodes/verify
func (h *QrCodeHandler) Verify(c *gin.Context) {
	var req dto.VerifyQrCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.qrSvc.Verify(c.Request.Context(), req.Token)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}
