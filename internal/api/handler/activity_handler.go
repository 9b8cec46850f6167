package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/NecoOcean/we-chat-check-in/internal/dto"
	"github.com/NecoOcean/we-chat-check-in/internal/service"
	"github.com/NecoOcean/we-chat-check-in/pkg/response"
)

// ActivityHandler 活动模块 HTTP 处理器
type ActivityHandler struct {
	activitySvc service.ActivityService
}

// NewActivityHandler 创建 ActivityHandler
func NewActivityHandler(activitySvc service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activitySvc: activitySvc}
}

// Create 创建活动，创建即进行中，并自动签发打卡/评价二维码
// POST /api/v1/activities
func (h *ActivityHandler) Create(c *gin.Context) {
	op, ok := MustGetOperator(c)
	if !ok {
		return
	}

	var req dto.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.activitySvc.Create(c.Request.Context(), op, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, result)
}

// Get 活动详情（含参与统计与二维码）
// GET /api/v1/activities/:id
func (h *ActivityHandler) Get(c *gin.Context) {
	op, ok := MustGetOperator(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.activitySvc.Get(c.Request.Context(), op, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// List 活动分页列表
// GET /api/v1/activities
func (h *ActivityHandler) List(c *gin.Context) {
	op, ok := MustGetOperator(c)
	if !ok {
		return
	}

	var req dto.ActivityQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.activitySvc.List(c.Request.Context(), op, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OKPage(c, list, total, req.Page, req.Size)
}

// Finish 结束活动
// POST /api/v1/activities/:id/finish
func (h *ActivityHandler) Finish(c *gin.Context) {
	op, ok := MustGetOperator(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.activitySvc.Finish(c.Request.Context(), op, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}
