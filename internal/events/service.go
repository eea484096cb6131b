package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Mieluoxxx/aiconfig-hub/internal/models"
	"gorm.io/gorm"
)

// Service 事件日志服务
type Service struct {
	db *gorm.DB
}

// NewService 创建事件日志服务实例
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// LogEvent 记录事件
func (s *Service) LogEvent(eventType, message, level string, metadata map[string]interface{}) error {
	var metadataJSON string
	if metadata != nil {
		data, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("序列化元数据失败: %w", err)
		}
		metadataJSON = string(data)
	}

	event := &models.SystemEvent{
		Type:      eventType,
		Message:   message,
		Level:     level,
		Metadata:  metadataJSON,
		CreatedAt: time.Now(),
	}

	if err := s.db.Create(event).Error; err != nil {
		return fmt.Errorf("保存事件失败: %w", err)
	}

	return nil
}

// LogInfo 记录信息级别事件
func (s *Service) LogInfo(eventType, message string, metadata map[string]interface{}) error {
	return s.LogEvent(eventType, message, models.EventLevelInfo, metadata)
}

// LogWarning 记录警告级别事件
func (s *Service) LogWarning(eventType, message string, metadata map[string]interface{}) error {
	return s.LogEvent(eventType, message, models.EventLevelWarning, metadata)
}

// RecentEvents 按类型获取最近的事件，eventType 为空时不过滤
func (s *Service) RecentEvents(eventType string, limit int) ([]models.SystemEvent, error) {
	var events []models.SystemEvent

	query := s.db.Order("created_at DESC, id DESC").Limit(limit)
	if eventType != "" {
		query = query.Where("type = ?", eventType)
	}

	if err := query.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("查询事件失败: %w", err)
	}

	return events, nil
}
