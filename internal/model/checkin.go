package model

import "time"

// Checkin 打卡记录表 — 对应 checkins
// (activity_id, teaching_point_id) 上有唯一约束，是幂等性的权威保障；
// 记录只插入，不更新也不删除
type Checkin struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ActivityID      int64     `gorm:"not null"                 json:"activity_id"`
	TeachingPointID int64     `gorm:"not null"                 json:"teaching_point_id"`
	AttendeeCount   int       `gorm:"not null"                 json:"attendee_count"`
	SubmittedTime   time.Time `gorm:"not null"                 json:"submitted_time"`
	SourceQrCodeID  int64     `gorm:"column:source_qrcode_id"  json:"source_qrcode_id"`
}

// TableName 指定表名
func (Checkin) TableName() string { return "checkins" }
