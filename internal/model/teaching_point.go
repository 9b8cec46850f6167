package model

// TeachingPoint 教学点表 — 对应 teaching_points
type TeachingPoint struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"                    json:"id"`
	Name       string `gorm:"type:varchar(100);not null"                  json:"name"`
	CountyCode string `gorm:"type:varchar(20);not null"                   json:"county_code"`
	Status     string `gorm:"type:varchar(20);not null;default:'enabled'" json:"status"`
	TimeModel
}

// TableName 指定表名
func (TeachingPoint) TableName() string { return "teaching_points" }
