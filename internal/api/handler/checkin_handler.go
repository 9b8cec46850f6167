package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/NecoOcean/we-chat-check-in/internal/dto"
	"github.com/NecoOcean/we-chat-check-in/internal/service"
	"github.com/NecoOcean/we-chat-check-in/pkg/response"
)

// CheckinHandler 打卡模块 HTTP 处理器
type CheckinHandler struct {
	checkinSvc service.CheckinService
}

// NewCheckinHandler 创建 CheckinHandler
func NewCheckinHandler(checkinSvc service.CheckinService) *CheckinHandler {
	return &CheckinHandler{checkinSvc: checkinSvc}
}

// Submit 教学点扫码打卡（参与端，无需登录）
// POST /api/v1/checkins
func (h *CheckinHandler) Submit(c *gin.Context) {
	var req dto.CheckinSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.checkinSvc.Submit(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, result)
}

// List 打卡记录分页列表（管理端）
// GET /api/v1/checkins
func (h *CheckinHandler) List(c *gin.Context) {
	op, ok := MustGetOperator(c)
	if !ok {
		return
	}

	var req dto.CheckinQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.checkinSvc.List(c.Request.Context(), op, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OKPage(c, list, total, req.Page, req.Size)
}

// Statistics 活动打卡统计
// GET /api/v1/activities/:id/checkin-statistics
func (h *CheckinHandler) Statistics(c *gin.Context) {
	op, ok := MustGetOperator(c)
	if !ok {
		return
	}
	activityID, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.checkinSvc.Statistics(c.Request.Context(), op, activityID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}
