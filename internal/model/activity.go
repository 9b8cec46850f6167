package model

import "time"

// 活动状态
// draft 在库中保留但当前创建流程不会产生，活动一经创建即为 ongoing；
// ended 为终态，不支持重新开启
const (
	ActivityStatusDraft   = "draft"
	ActivityStatusOngoing = "ongoing"
	ActivityStatusEnded   = "ended"
)

// Activity 活动表 — 对应 activities
type Activity struct {
	ID              int64      `gorm:"primaryKey;autoIncrement"                    json:"id"`
	Name            string     `gorm:"type:varchar(200);not null"                  json:"name"`
	Description     string     `gorm:"type:text"                                   json:"description"`
	ScopeCountyCode *string    `gorm:"type:varchar(20)"                            json:"scope_county_code"` // NULL 表示全市活动
	StartTime       time.Time  `gorm:"not null"                                    json:"start_time"`
	EndTime         time.Time  `gorm:"not null"                                    json:"end_time"`
	EndedTime       *time.Time `json:"ended_time,omitempty"`                       // 管理员结束活动时写入，仅一次
	CreatedID       *int64     `json:"created_id,omitempty"`
	Status          string     `gorm:"type:varchar(20);not null;default:'ongoing'" json:"status"`
	TimeModel
}

// TableName 指定表名
func (Activity) TableName() string { return "activities" }

// IsEnded 活动是否已被管理员结束
func (a *Activity) IsEnded() bool { return a.Status == ActivityStatusEnded }
