package aiconfig

import (
	"time"

	"github.com/Mieluoxxx/aiconfig-hub/internal/models"
)

// PageAiConfigReq 分页查询请求，page 从 0 开始
type PageAiConfigReq struct {
	Page          *int   `json:"page" binding:"required,min=0"`
	Size          *int   `json:"size" binding:"required,min=1,max=100"`
	SearchKeyWord string `json:"searchKeyWord"`
}

// AddAiConfigReq 新增请求
type AddAiConfigReq struct {
	Name      string `json:"name" binding:"required"`
	ModelType string `json:"modelType" binding:"required,aimodeltype"`
	APIURL    string `json:"apiUrl" binding:"required,url"`
	APIKey    string `json:"apiKey" binding:"required"`
	Remark    string `json:"remark"`
}

// UpdateAiConfigReq 更新请求
type UpdateAiConfigReq struct {
	ID        string `json:"id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	ModelType string `json:"modelType" binding:"required,aimodeltype"`
	APIURL    string `json:"apiUrl" binding:"required,url"`
	APIKey    string `json:"apiKey" binding:"required"`
	Remark    string `json:"remark"`
}

// IDReq 删除、启用、禁用请求
type IDReq struct {
	ID string `json:"id" binding:"required"`
}

// TestAiConfigReq 连接测试请求
// APIKey 为空且 ID 指向已有记录时，使用已保存的密钥
type TestAiConfigReq struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ModelType string `json:"modelType" binding:"required,aimodeltype"`
	APIURL    string `json:"apiUrl" binding:"required,url"`
	APIKey    string `json:"apiKey"`
	Remark    string `json:"remark"`
}

// PageAiConfigRes 分页列表项，不包含 API Key
type PageAiConfigRes struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	ModelType            string    `json:"modelType"`
	APIURL               string    `json:"apiUrl"`
	Remark               string    `json:"remark,omitempty"`
	Status               string    `json:"status"`
	CreateDateTime       time.Time `json:"createDateTime"`
	LastModifiedDateTime time.Time `json:"lastModifiedDateTime"`
}

// Page 分页结果
type Page struct {
	Content       []PageAiConfigRes `json:"content"`
	TotalElements int64             `json:"totalElements"`
	TotalPages    int               `json:"totalPages"`
	Size          int               `json:"size"`
	Number        int               `json:"number"`
}

// ToPageAiConfigRes 转换为列表项
func ToPageAiConfigRes(cfg *models.AiConfig) PageAiConfigRes {
	return PageAiConfigRes{
		ID:                   cfg.ID,
		Name:                 cfg.Name,
		ModelType:            cfg.ModelType,
		APIURL:               cfg.APIURL,
		Remark:               cfg.Remark,
		Status:               cfg.Status,
		CreateDateTime:       cfg.CreateDateTime,
		LastModifiedDateTime: cfg.LastModifiedDateTime,
	}
}
