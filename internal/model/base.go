package model

import "time"

// TimeModel 通用时间审计字段（所有业务模型嵌入）
type TimeModel struct {
	CreatedTime time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;autoCreateTime" json:"created_time"`
	UpdatedTime time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;autoUpdateTime" json:"updated_time"`
}

// 启用/停用二值状态，用于区县、教学点、管理员
const (
	StatusEnabled  = "enabled"
	StatusDisabled = "disabled"
)
