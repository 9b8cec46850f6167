package model

// County 区县表 — 对应 counties
type County struct {
	Code   string `gorm:"type:varchar(20);primaryKey"                 json:"code"`
	Name   string `gorm:"type:varchar(100);not null"                  json:"name"`
	Status string `gorm:"type:varchar(20);not null;default:'enabled'" json:"status"`
	TimeModel
}

// TableName 指定表名
func (County) TableName() string { return "counties" }
