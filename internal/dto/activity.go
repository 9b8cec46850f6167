package dto

// CreateActivityRequest 创建活动请求
// 时间使用 RFC3339 格式字符串，服务层解析并校验 start < end
type CreateActivityRequest struct {
	Name            string `json:"name" binding:"required,max=200"`
	Description     string `json:"description" binding:"max=2000"`
	ScopeCountyCode string `json:"scope_county_code" binding:"omitempty,max=20"` // 市级管理员可指定；留空为全市活动
	StartTime       string `json:"start_time" binding:"required"`
	EndTime         string `json:"end_time" binding:"required"`
}

// ActivityQueryRequest 活动列表查询
type ActivityQueryRequest struct {
	Status     string `form:"status" binding:"omitempty,oneof=ongoing ended"`
	CountyCode string `form:"county_code"`
	Page       int    `form:"page,default=1" binding:"min=1"`
	Size       int    `form:"size,default=10" binding:"min=1,max=100"`
}

// ActivityResponse 活动信息
type ActivityResponse struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	ScopeCountyCode *string `json:"scope_county_code"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	EndedTime       string  `json:"ended_time,omitempty"`
	Status          string  `json:"status"`
	CreatedTime     string  `json:"created_time"`
}

// ActivityDetailResponse 活动详情（含参与统计与二维码）
type ActivityDetailResponse struct {
	Activity           ActivityResponse `json:"activity"`
	ParticipatedCount  int64            `json:"participated_count"` // 参与教学点数
	TotalAttendees     int64            `json:"total_attendees"`    // 累计参与人数
	EvaluationCount    int64            `json:"evaluation_count"`
	QrCodes            []QrCodeResponse `json:"qrcodes"`
}

// FinishActivityResponse 结束活动响应
type FinishActivityResponse struct {
	ID        int64  `json:"id"`
	EndedTime string `json:"ended_time"`
}
