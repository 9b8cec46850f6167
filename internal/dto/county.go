package dto

// CreateCountyRequest 创建区县请求
type CreateCountyRequest struct {
	Code string `json:"code" binding:"required,max=20"`
	Name string `json:"name" binding:"required,max=100"`
}

// UpdateCountyRequest 更新区县请求
type UpdateCountyRequest struct {
	Name   *string `json:"name" binding:"omitempty,max=100"`
	Status *string `json:"status" binding:"omitempty,oneof=enabled disabled"`
}

// CountyResponse 区县信息
type CountyResponse struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	CreatedTime string `json:"created_time"`
}
