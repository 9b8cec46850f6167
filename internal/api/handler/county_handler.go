package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/NecoOcean/we-chat-check-in/internal/dto"
	"github.com/NecoOcean/we-chat-check-in/internal/service"
	"github.com/NecoOcean/we-chat-check-in/pkg/response"
)

// CountyHandler 区县模块 HTTP 处理器
type CountyHandler struct {
	countySvc service.CountyService
}

// NewCountyHandler 创建 CountyHandler
func NewCountyHandler(countySvc service.CountyService) *CountyHandler {
	return &CountyHandler{countySvc: countySvc}
}

// Create 创建区县
// POST /api/v1/counties
func (h *CountyHandler) Create(c *gin.Context) {
	var req dto.CreateCountyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.countySvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, result)
}

// Update 更新区县
// PUT /api/v1/counties/:code
func (h *CountyHandler) Update(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	var req dto.UpdateCountyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.countySvc.Update(c.Request.Context(), code, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// List 区县列表
// GET /api/v1/counties
func (h *CountyHandler) List(c *gin.Context) {
	list, err := h.countySvc.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, list)
}
