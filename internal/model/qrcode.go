package model

import "time"

// 二维码类型：打卡与评价互斥，创建后不可变更
const (
	QrCodeKindCheckin    = "checkin"
	QrCodeKindEvaluation = "evaluation"
)

// 二维码状态：enabled → disabled 单向流转，无恢复路径，无物理删除
const (
	QrCodeStatusEnabled  = "enabled"
	QrCodeStatusDisabled = "disabled"
)

// QrCode 二维码表 — 对应 qrcodes
// Token 为签名令牌，其内嵌声明必须与所在行保持一致；
// ExpireTime 是库侧过期时间，管理员可在签发后缩短它而无需重签令牌
type QrCode struct {
	ID           int64      `gorm:"primaryKey;autoIncrement"                    json:"id"`
	ActivityID   int64      `gorm:"not null"                                    json:"activity_id"`
	Kind         string     `gorm:"column:type;type:varchar(20);not null"       json:"type"`
	Token        string     `gorm:"type:text;not null"                          json:"token"`
	ExpireTime   time.Time  `gorm:"not null"                                    json:"expire_time"`
	DisabledTime *time.Time `json:"disabled_time,omitempty"`
	Status       string     `gorm:"type:varchar(20);not null;default:'enabled'" json:"status"`
	TimeModel
}

// TableName 指定表名
func (QrCode) TableName() string { return "qrcodes" }

// IsEnabled 二维码是否处于启用状态
func (q *QrCode) IsEnabled() bool { return q.Status == QrCodeStatusEnabled }
