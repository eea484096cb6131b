package aiconfig

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Mieluoxxx/aiconfig-hub/internal/models"
)

// probeUserAgent 连接测试使用的 User-Agent
const probeUserAgent = "aiconfig-hub-tester/1.0"

// TestResult 连接测试结果
type TestResult struct {
	Success        bool      `json:"success"`
	ModelType      string    `json:"modelType"`
	StatusCode     int       `json:"statusCode,omitempty"`
	ResponseTimeMs int64     `json:"responseTimeMs"`
	Message        string    `json:"message"`
	Error          string    `json:"error,omitempty"`
	CheckedAt      time.Time `json:"checkedAt"`
}

// Prober 对 AI 模型地址发起探测
type Prober interface {
	Probe(ctx context.Context, modelType, apiURL, apiKey string) *TestResult
}

// ConnectionTester 向模型地址发送最小请求来验证地址和密钥
type ConnectionTester struct {
	client  *http.Client
	timeout time.Duration
}

// NewConnectionTester 创建连接测试器
func NewConnectionTester(timeout time.Duration) *ConnectionTester {
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &ConnectionTester{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// probeRequest 探测请求的请求头和请求体
type probeRequest struct {
	headers map[string]string
	body    map[string]interface{}
}

var probeMessages = []map[string]string{{"role": "user", "content": "hi"}}

// buildProbe 按模型类型构造最小请求
func buildProbe(modelType, apiKey string) probeRequest {
	bearer := map[string]string{"Authorization": "Bearer " + apiKey}

	switch modelType {
	case models.AiModelTypeClaude:
		return probeRequest{
			headers: map[string]string{
				"x-api-key":         apiKey,
				"anthropic-version": "2023-06-01",
			},
			body: map[string]interface{}{
				"model":      "claude-3-5-haiku-latest",
				"max_tokens": 5,
				"messages":   probeMessages,
			},
		}
	case models.AiModelTypeGemini:
		return probeRequest{
			headers: map[string]string{"x-goog-api-key": apiKey},
			body: map[string]interface{}{
				"contents": []map[string]interface{}{
					{"parts": []map[string]string{{"text": "hi"}}},
				},
				"generationConfig": map[string]int{"maxOutputTokens": 5},
			},
		}
	case models.AiModelTypeQwen:
		return probeRequest{
			headers: bearer,
			body: map[string]interface{}{
				"model":      "qwen-turbo",
				"input":      map[string]interface{}{"messages": probeMessages},
				"parameters": map[string]int{"max_tokens": 5},
			},
		}
	case models.AiModelTypeErnie:
		return probeRequest{
			headers: bearer,
			body: map[string]interface{}{
				"model":    "ernie-4.0-8k",
				"messages": probeMessages,
			},
		}
	default:
		return probeRequest{
			headers: bearer,
			body: map[string]interface{}{
				"model":      "gpt-4o",
				"messages":   probeMessages,
				"max_tokens": 5,
			},
		}
	}
}

// Probe 执行连接测试，2xx 视为成功
// 网络错误也记录在结果中而不是作为 error 返回
func (t *ConnectionTester) Probe(ctx context.Context, modelType, apiURL, apiKey string) *TestResult {
	startTime := time.Now()
	result := &TestResult{
		ModelType: modelType,
		CheckedAt: startTime,
	}

	probe := buildProbe(modelType, apiKey)
	payload, err := json.Marshal(probe.body)
	if err != nil {
		result.Error = fmt.Sprintf("构建请求失败: %v", err)
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		result.Error = fmt.Sprintf("创建请求失败: %v", err)
		return result
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", probeUserAgent)
	for k, v := range probe.headers {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	result.ResponseTimeMs = time.Since(startTime).Milliseconds()
	if err != nil {
		result.Error = fmt.Sprintf("请求失败: %v", err)
		return result
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		result.Success = true
		result.Message = fmt.Sprintf("AI配置测试成功，模型类型：%s，API地址连接正常", modelType)
		return result
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	result.Error = strings.TrimSpace(fmt.Sprintf("HTTP %d %s", resp.StatusCode, snippet))
	return result
}
