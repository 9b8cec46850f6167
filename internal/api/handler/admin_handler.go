package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NecoOcean/we-chat-check-in/internal/dto"
	"github.com/NecoOcean/we-chat-check-in/internal/service"
	"github.com/NecoOcean/we-chat-check-in/pkg/response"
)

// AdminHandler 管理员账号模块 HTTP 处理器
// 路由层以 RoleAuth(city) 限制为市级角色
type AdminHandler struct {
	adminSvc service.AdminService
}

// NewAdminHandler 创建 AdminHandler
func NewAdminHandler(adminSvc service.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

// Create 创建管理员
// POST /api/v1/admins
func (h *AdminHandler) Create(c *gin.Context) {
	var req dto.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.adminSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, result)
}

// Get 查询管理员详情
// GET /api/v1/admins/:id
func (h *AdminHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.adminSvc.Get(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// Update 更新管理员
// PUT /api/v1/admins/:id
func (h *AdminHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.adminSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// Delete 删除管理员（软删除）
// DELETE /api/v1/admins/:id
func (h *AdminHandler) Delete(c *gin.Context) {
	op, ok := MustGetOperator(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.adminSvc.Delete(c.Request.Context(), id, op.AdminID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, nil)
}

// List 管理员分页列表
// GET /api/v1/admins
func (h *AdminHandler) List(c *gin.Context) {
	var req dto.AdminQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.adminSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OKPage(c, list, total, req.Page, req.Size)
}

// pathID 解析路径参数 :id，非法时写入 400 响应
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, 10001, "参数校验失败")
		return 0, false
	}
	return id, true
}
