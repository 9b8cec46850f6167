package model

import "time"

// Evaluation 评价记录表 — 对应 evaluations
// 与打卡同样受 (activity_id, teaching_point_id) 唯一约束保护，
// 且仅当同一教学点已有打卡记录时才允许创建
type Evaluation struct {
	ID              int64     `gorm:"primaryKey;autoIncrement"  json:"id"`
	ActivityID      int64     `gorm:"not null"                  json:"activity_id"`
	TeachingPointID int64     `gorm:"not null"                  json:"teaching_point_id"`
	Q1Satisfaction  int       `gorm:"not null"                  json:"q1_satisfaction"` // 1-不满意 2-一般 3-满意
	Q2Practicality  int       `gorm:"not null"                  json:"q2_practicality"` // 1-弱 2-中 3-强
	Q3Quality       *int      `json:"q3_quality,omitempty"`                             // 1-差 2-中 3-好，可选
	SuggestionText  string    `gorm:"type:varchar(200)"         json:"suggestion_text"`
	SubmittedTime   time.Time `gorm:"not null"                  json:"submitted_time"`
	SourceQrCodeID  int64     `gorm:"column:source_qrcode_id"   json:"source_qrcode_id"`
}

// TableName 指定表名
func (Evaluation) TableName() string { return "evaluations" }
