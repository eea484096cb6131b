// Package client 提供 AI 配置接口的客户端绑定
//
// 每个方法构造一个 POST 请求描述交给注入的 Transport，并原样返回其结果。
// 重试、鉴权、超时和错误处理都属于 Transport 或后端。
package client

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Mieluoxxx/aiconfig-hub/internal/transport"
)

// 接口路径
const (
	PathPageAiConfig    = "/ai-config/pageAiConfig"
	PathAddAiConfig     = "/ai-config/addAiConfig"
	PathUpdateAiConfig  = "/ai-config/updateAiConfig"
	PathDeleteAiConfig  = "/ai-config/deleteAiConfig"
	PathEnableAiConfig  = "/ai-config/enableAiConfig"
	PathDisableAiConfig = "/ai-config/disableAiConfig"
	PathTestAiConfig    = "/ai-config/testAiConfig"
)

// SearchParams 分页查询参数
type SearchParams struct {
	Page          int    `json:"page"`
	Size          int    `json:"size"`
	SearchKeyWord string `json:"searchKeyWord"`
}

// AiConfigForm AI 配置表单，新增时 ID 为空
type AiConfigForm struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	ModelType string `json:"modelType"`
	APIURL    string `json:"apiUrl"`
	APIKey    string `json:"apiKey"`
	Remark    string `json:"remark,omitempty"`
}

// IDParam 单条记录标识
type IDParam struct {
	ID string `json:"id"`
}

// Client AI 配置客户端，无状态，可并发使用
type Client struct {
	transport transport.Transport
}

// New 创建客户端
func New(t transport.Transport) *Client {
	return &Client{transport: t}
}

func (c *Client) post(ctx context.Context, path string, params interface{}) (json.RawMessage, error) {
	return c.transport.Request(ctx, transport.Request{
		Method: http.MethodPost,
		URL:    path,
		Params: params,
	})
}

// List 分页查询
func (c *Client) List(ctx context.Context, params SearchParams) (json.RawMessage, error) {
	return c.post(ctx, PathPageAiConfig, params)
}

// Add 新增
func (c *Client) Add(ctx context.Context, form AiConfigForm) (json.RawMessage, error) {
	return c.post(ctx, PathAddAiConfig, form)
}

// Update 更新
func (c *Client) Update(ctx context.Context, form AiConfigForm) (json.RawMessage, error) {
	return c.post(ctx, PathUpdateAiConfig, form)
}

// Delete 删除
func (c *Client) Delete(ctx context.Context, params IDParam) (json.RawMessage, error) {
	return c.post(ctx, PathDeleteAiConfig, params)
}

// Enable 启用
func (c *Client) Enable(ctx context.Context, params IDParam) (json.RawMessage, error) {
	return c.post(ctx, PathEnableAiConfig, params)
}

// Disable 禁用
func (c *Client) Disable(ctx context.Context, params IDParam) (json.RawMessage, error) {
	return c.post(ctx, PathDisableAiConfig, params)
}

// Test 使用表单中的凭证测试连接
func (c *Client) Test(ctx context.Context, form AiConfigForm) (json.RawMessage, error) {
	return c.post(ctx, PathTestAiConfig, form)
}
