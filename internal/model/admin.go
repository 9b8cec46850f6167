package model

import "time"

// 管理员角色：市级可见全部数据，县级仅可见本区县数据
const (
	RoleCity   = "city"
	RoleCounty = "county"
)

// Admin 管理员表 — 对应 admins
type Admin struct {
	ID            int64      `gorm:"primaryKey;autoIncrement"                    json:"id"`
	Username      string     `gorm:"type:varchar(50);not null"                   json:"username"`
	PasswordHash  string     `gorm:"type:varchar(100);not null"                  json:"-"`
	Role          string     `gorm:"type:varchar(20);not null"                   json:"role"`
	CountyCode    *string    `gorm:"type:varchar(20)"                            json:"county_code,omitempty"`
	Status        string     `gorm:"type:varchar(20);not null;default:'enabled'" json:"status"`
	LastLoginTime *time.Time `json:"last_login_time,omitempty"`
	Deleted       bool       `gorm:"not null;default:false"                      json:"-"`
	TimeModel
}

// TableName 指定表名
func (Admin) TableName() string { return "admins" }
