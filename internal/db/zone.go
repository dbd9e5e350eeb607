package db

import "gorm.io/gorm"

// HazardZone 定义了危险区域模型
// Color 为 6 位十六进制色值，仅用于前端展示，核心评估不读取
type HazardZone struct {
	gorm.Model
	UID       string `gorm:"uniqueIndex;size:36"`
	Name      string `gorm:"unique;not null"`
	Color     string
	Protocols []Protocol `gorm:"many2many:protocol_zones;"`
}
