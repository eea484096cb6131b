package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AI 配置状态
const (
	AiConfigStatusEnable  = "ENABLE"
	AiConfigStatusDisable = "DISABLE"
)

// AI 模型类型
const (
	AiModelTypeQwen      = "QWEN"       // 通义千问
	AiModelTypeChatGPT4o = "CHATGPT_4O" // ChatGPT-4o
	AiModelTypeGemini    = "GEMINI"
	AiModelTypeClaude    = "CLAUDE"
	AiModelTypeErnie     = "ERNIE" // 文心一言
)

// AiModelTypes 支持的模型类型
var AiModelTypes = []string{
	AiModelTypeQwen,
	AiModelTypeChatGPT4o,
	AiModelTypeGemini,
	AiModelTypeClaude,
	AiModelTypeErnie,
}

// IsValidAiModelType 判断模型类型是否受支持
func IsValidAiModelType(modelType string) bool {
	for _, t := range AiModelTypes {
		if t == modelType {
			return true
		}
	}
	return false
}

// AiConfigIDPrefix AI 配置 ID 前缀
const AiConfigIDPrefix = "sy_"

// AiConfig AI 配置
// 保存一个外部 AI 模型供应商的地址和凭证
type AiConfig struct {
	ID                   string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name                 string    `gorm:"type:varchar(200);not null;uniqueIndex" json:"name"`
	ModelType            string    `gorm:"type:varchar(50);not null" json:"modelType"`
	APIURL               string    `gorm:"column:api_url;type:varchar(500);not null" json:"apiUrl"`
	APIKey               string    `gorm:"column:api_key;type:text;not null" json:"-"` // 加密存储
	Remark               string    `gorm:"type:varchar(500)" json:"remark"`
	Status               string    `gorm:"type:varchar(20);not null;default:'ENABLE';index" json:"status"`
	CreateDateTime       time.Time `gorm:"autoCreateTime;index" json:"createDateTime"`
	LastModifiedDateTime time.Time `gorm:"autoUpdateTime" json:"lastModifiedDateTime"`
}

// TableName 指定表名
func (AiConfig) TableName() string {
	return "sy_ai_config"
}

// BeforeCreate 未指定 ID 时生成 sy_ 前缀的 ID
func (a *AiConfig) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = NewAiConfigID()
	}
	return nil
}

// NewAiConfigID 生成新的 AI 配置 ID
func NewAiConfigID() string {
	return AiConfigIDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}
