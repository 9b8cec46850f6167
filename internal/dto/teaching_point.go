package dto

// CreateTeachingPointRequest 创建教学点请求
type CreateTeachingPointRequest struct {
	Name       string `json:"name" binding:"required,max=100"`
	CountyCode string `json:"county_code" binding:"required,max=20"`
}

// UpdateTeachingPointRequest 更新教学点请求
type UpdateTeachingPointRequest struct {
	Name   *string `json:"name" binding:"omitempty,max=100"`
	Status *string `json:"status" binding:"omitempty,oneof=enabled disabled"`
}

// TeachingPointQueryRequest 教学点列表查询
type TeachingPointQueryRequest struct {
	CountyCode string `form:"county_code"`
	Name       string `form:"name"`
	Page       int    `form:"page,default=1" binding:"min=1"`
	Size       int    `form:"size,default=10" binding:"min=1,max=100"`
}

// TeachingPointResponse 教学点信息
type TeachingPointResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	CountyCode  string `json:"county_code"`
	CountyName  string `json:"county_name,omitempty"`
	Status      string `json:"status"`
	CreatedTime string `json:"created_time"`
}
