package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/NecoOcean/we-chat-check-in/internal/dto"
	"github.com/NecoOcean/we-chat-check-in/internal/service"
	"github.com/NecoOcean/we-chat-check-in/pkg/response"
)

// EvaluationHandler 评价模块 HTTP 处理器
type EvaluationHandler struct {
	evalSvc service.EvaluationService
}

// NewEvaluationHandler 创建 EvaluationHandler
func NewEvaluationHandler(evalSvc service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evalSvc: evalSvc}
}

// Submit 教学点扫码评价（参与端，无需登录）
// POST /api/v1/evaluations
func (h *EvaluationHandler) Submit(c *gin.Context) {
	var req dto.EvaluationSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.evalSvc.Submit(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, result)
}

// List 评价记录分页列表（管理端）
// GET /api/v1/evaluations
func (h *EvaluationHandler) List(c *gin.Context) {
	op, ok := MustGetOperator(c)
	if !ok {
		return
	}

	var req dto.EvaluationQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.evalSvc.List(c.Request.Context(), op, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OKPage(c, list, total, req.Page, req.Size)
}

// Statistics 活动评价统计（平均分）
// GET /api/v1/activities/:id/evaluation-statistics
func (h *EvaluationHandler) Statistics(c *gin.Context) {
	op, ok := MustGetOperator(c)
	if !ok {
		return
	}
	activityID, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.evalSvc.Statistics(c.Request.Context(), op, activityID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}
