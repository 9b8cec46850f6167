package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/NecoOcean/we-chat-check-in/internal/dto"
	"github.com/NecoOcean/we-chat-check-in/internal/service"
	"github.com/NecoOcean/we-chat-check-in/pkg/response"
)

// TeachingPointHandler 教学点模块 HTTP 处理器
type TeachingPointHandler struct {
	pointSvc service.TeachingPointService
}

// NewTeachingPointHandler 创建 TeachingPointHandler
func NewTeachingPointHandler(pointSvc service.TeachingPointService) *TeachingPointHandler {
	return &TeachingPointHandler{pointSvc: pointSvc}
}

// Create 创建教学点
// POST /api/v1/teaching-points
func (h *TeachingPointHandler) Create(c *gin.Context) {
	op, ok := MustGetOperator(c)
	if !ok {
		return
	}

	var req dto.CreateTeachingPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.pointSvc.Create(c.Request.Context(), op, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, result)
}

// Get 查询教学点详情
// GET /api/v1/teaching-points/:id
func (h *TeachingPointHandler) Get(c *gin.Context) {
	op, ok := MustGetOperator(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.pointSvc.Get(c.Request.Context(), op, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// Update 更新教学点
// PUT /api/v1/teaching-points/:id
func (h *TeachingPointHandler) Update(c *gin.Context) {
	op, ok := MustGetOperator(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateTeachingPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.pointSvc.Update(c.Request.Context(), op, id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// List 教学点分页列表
// GET /api/v1/teaching-points
func (h *TeachingPointHandler) List(c *gin.Context) {
	op, ok := MustGetOperator(c)
	if !ok {
		return
	}

	var req dto.TeachingPointQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.pointSvc.List(c.Request.Context(), op, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OKPage(c, list, total, req.Page, req.Size)
}
