package models

import "time"

// SystemEvent 系统事件日志
// 记录 AI 配置的变更和连接测试
type SystemEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Type      string    `gorm:"type:varchar(50);not null;index" json:"type"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Level     string    `gorm:"type:varchar(20);not null;default:'info'" json:"level"`
	Metadata  string    `gorm:"type:text" json:"metadata,omitempty"` // JSON
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (SystemEvent) TableName() string {
	return "system_events"
}

// 事件类型
const (
	EventTypeConfigChange   = "config_change"
	EventTypeConnectionTest = "connection_test"
)

// 事件级别
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
)
