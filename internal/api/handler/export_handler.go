package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/NecoOcean/we-chat-check-in/internal/service"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportCheckins 导出活动打卡记录为 Excel
// GET /api/v1/activities/:id/checkins/export
func (h *ExportHandler) ExportCheckins(c *gin.Context) {
	op, ok := MustGetOperator(c)
	if !ok {
		return
	}
	activityID, ok := pathID(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportCheckins(c.Request.Context(), op, activityID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
