package db

import (
	"time"

	"gorm.io/gorm"
)

// Protocol 定义了安全检查协议模型
// Frequency/TargetCount 描述周期目标，例如 DAILY + 1 表示每天完成一次
// Frequency 取值由 compliance 包的封闭枚举约束，存库时保持大写
// Active 控制是否纳入整体合规汇总，停用后历史记录保留
// Zones 为弱引用：协议可以不关联任何区域，表示全局适用
type Protocol struct {
	gorm.Model
	UID         string `gorm:"uniqueIndex;size:36"`
	Name        string `gorm:"not null"`
	Description string
	Frequency   string       `gorm:"not null"`
	TargetCount int          `gorm:"not null;default:1"`
	Active      bool         `gorm:"not null;default:true"`
	Zones       []HazardZone `gorm:"many2many:protocol_zones;"`
}

// ComplianceLog 记录协议的完成打卡
// 追加写入、创建后不可变；CompletionDate 早于 CreatedAt 即为补录
// 同一窗口允许多条记录（多名检查员各自打卡），评估器只计数不去重，
// 因此刻意不对 (protocol_id, completion_date) 建唯一索引
type ComplianceLog struct {
	gorm.Model
	UID            string    `gorm:"uniqueIndex;size:36"`
	ProtocolID     uint      `gorm:"index"`
	Protocol       Protocol  `gorm:"constraint:OnDelete:CASCADE"`
	CompletionDate time.Time `gorm:"index;not null"`
	Note           string
	Source         string
}

// TableName 固定表名，便于按协议+完成时间做范围查询
func (ComplianceLog) TableName() string {
	return "compliance_logs"
}
