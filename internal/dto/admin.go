package dto

// AdminResponse 管理员信息
type AdminResponse struct {
	ID            int64   `json:"id"`
	Username      string  `json:"username"`
	Role          string  `json:"role"`
	CountyCode    *string `json:"county_code,omitempty"`
	CountyName    string  `json:"county_name,omitempty"`
	Status        string  `json:"status"`
	LastLoginTime string  `json:"last_login_time,omitempty"`
	CreatedTime   string  `json:"created_time"`
}

// CreateAdminRequest 创建管理员请求（仅市级角色可操作）
type CreateAdminRequest struct {
	Username   string `json:"username" binding:"required,max=50"`
	Password   string `json:"password" binding:"required,min=6,max=72"`
	Role       string `json:"role" binding:"required,oneof=city county"`
	CountyCode string `json:"county_code" binding:"required_if=Role county,omitempty,max=20"`
}

// UpdateAdminRequest 更新管理员请求
type UpdateAdminRequest struct {
	Status     *string `json:"status" binding:"omitempty,oneof=enabled disabled"`
	CountyCode *string `json:"county_code" binding:"omitempty,max=20"`
}

// AdminQueryRequest 管理员列表查询
type AdminQueryRequest struct {
	Role       string `form:"role" binding:"omitempty,oneof=city county"`
	CountyCode string `form:"county_code"`
	Page       int    `form:"page,default=1" binding:"min=1"`
	Size       int    `form:"size,default=10" binding:"min=1,max=100"`
}
