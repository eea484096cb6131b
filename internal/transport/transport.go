package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// UserAgent 默认 User-Agent
const UserAgent = "aiconfig-hub/1.0"

// Request 请求描述
type Request struct {
	Method string
	URL    string      // 相对路径，例如 /ai-config/pageAiConfig
	Params interface{} // 作为 JSON 请求体发送
}

// Transport 共享的请求发送方
// 实现负责鉴权、超时和连接复用；响应体原样返回
type Transport interface {
	Request(ctx context.Context, req Request) (json.RawMessage, error)
}

// StatusError 后端返回非 2xx 状态码
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(string(e.Body))
	if body == "" {
		return fmt.Sprintf("http status %d", e.StatusCode)
	}
	return fmt.Sprintf("http status %d: %s", e.StatusCode, body)
}

// Options HTTPTransport 配置
type Options struct {
	BaseURL    string
	Token      string        // 非空时携带 Authorization: Bearer
	Timeout    time.Duration // HTTPClient 为空时生效
	HTTPClient *http.Client
	Logger     *logrus.Logger
}

// HTTPTransport 基于 net/http 的 Transport 实现
type HTTPTransport struct {
	client  *http.Client
	baseURL string
	token   string
	log     *logrus.Logger
}

// NewHTTPTransport 创建 HTTPTransport
func NewHTTPTransport(opts Options) *HTTPTransport {
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &HTTPTransport{
		client:  client,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.Token,
		log:     log,
	}
}

// Request 发送请求并返回原始响应体
func (t *HTTPTransport) Request(ctx context.Context, req Request) (json.RawMessage, error) {
	var body io.Reader
	if req.Params != nil {
		data, err := json.Marshal(req.Params)
		if err != nil {
			return nil, fmt.Errorf("序列化请求失败: %w", err)
		}
		body = bytes.NewReader(data)
	}

	url := t.baseURL + req.URL
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, body)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", UserAgent)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if t.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+t.token)
	}

	start := time.Now()
	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}

	t.log.WithFields(logrus.Fields{
		"method":  req.Method,
		"url":     url,
		"status":  resp.StatusCode,
		"latency": time.Since(start),
	}).Debug("transport request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: respBody}
	}

	return json.RawMessage(respBody), nil
}
