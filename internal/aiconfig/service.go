package aiconfig

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/Mieluoxxx/aiconfig-hub/internal/crypto"
	"github.com/Mieluoxxx/aiconfig-hub/internal/logger"
	"github.com/Mieluoxxx/aiconfig-hub/internal/models"
	"github.com/sirupsen/logrus"
)

var (
	// ErrInvalidInput 无效输入
	ErrInvalidInput = errors.New("invalid input")
	// ErrTestFailed 连接测试失败
	ErrTestFailed = errors.New("ai config test failed")
)

// EventRecorder 记录配置变更事件
type EventRecorder interface {
	LogInfo(eventType, message string, metadata map[string]interface{}) error
	LogWarning(eventType, message string, metadata map[string]interface{}) error
}

// Service AI 配置业务逻辑层
type Service struct {
	repo   *Repository
	prober Prober
	cipher *crypto.Cipher
	events EventRecorder
	log    *logrus.Logger
}

// Option Service 可选配置
type Option func(*Service)

// WithCipher 加密保存 API Key；未配置时明文保存
func WithCipher(c *crypto.Cipher) Option {
	return func(s *Service) { s.cipher = c }
}

// WithEvents 记录变更事件
func WithEvents(e EventRecorder) Option {
	return func(s *Service) { s.events = e }
}

// WithLogger 指定日志实例
func WithLogger(log *logrus.Logger) Option {
	return func(s *Service) { s.log = log }
}

// NewService 创建 Service 实例
func NewService(repo *Repository, prober Prober, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		prober: prober,
		log:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddAiConfig 新增 AI 配置，新记录默认启用
func (s *Service) AddAiConfig(req AddAiConfigReq) (*models.AiConfig, error) {
	if err := validateForm(req.Name, req.ModelType, req.APIURL, req.APIKey); err != nil {
		return nil, err
	}

	exists, err := s.repo.CheckNameExists(req.Name, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAiConfigNameExists
	}

	sealedKey, err := s.sealKey(req.APIKey)
	if err != nil {
		return nil, err
	}

	cfg := &models.AiConfig{
		Name:      req.Name,
		ModelType: req.ModelType,
		APIURL:    req.APIURL,
		APIKey:    sealedKey,
		Remark:    req.Remark,
		Status:    models.AiConfigStatusEnable,
	}

	if err := s.repo.Create(cfg); err != nil {
		return nil, err
	}

	s.recordChange("AI配置已添加", cfg, "add")
	return cfg, nil
}

// PageAiConfig 分页查询
func (s *Service) PageAiConfig(req PageAiConfigReq) (*Page, error) {
	page, size := 0, 10
	if req.Page != nil {
		page = *req.Page
	}
	if req.Size != nil {
		size = *req.Size
	}
	if page < 0 {
		return nil, fmt.Errorf("%w: page must not be negative", ErrInvalidInput)
	}
	if size < 1 || size > 100 {
		return nil, fmt.Errorf("%w: size must be between 1 and 100", ErrInvalidInput)
	}
	// 偏移量 page*size 不能溢出
	if page > math.MaxInt32/size {
		return nil, fmt.Errorf("%w: page %d is too large", ErrInvalidInput, page)
	}

	configs, total, err := s.repo.Search(strings.TrimSpace(req.SearchKeyWord), page, size)
	if err != nil {
		return nil, err
	}

	content := make([]PageAiConfigRes, len(configs))
	for i, cfg := range configs {
		content[i] = ToPageAiConfigRes(cfg)
	}

	return &Page{
		Content:       content,
		TotalElements: total,
		TotalPages:    int(math.Ceil(float64(total) / float64(size))),
		Size:          size,
		Number:        page,
	}, nil
}

// UpdateAiConfig 更新 AI 配置，覆盖全部可编辑字段
func (s *Service) UpdateAiConfig(req UpdateAiConfigReq) (*models.AiConfig, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if err := validateForm(req.Name, req.ModelType, req.APIURL, req.APIKey); err != nil {
		return nil, err
	}

	cfg, err := s.repo.FindByID(req.ID)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.CheckNameExists(req.Name, req.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAiConfigNameExists
	}

	sealedKey, err := s.sealKey(req.APIKey)
	if err != nil {
		return nil, err
	}

	cfg.Name = req.Name
	cfg.ModelType = req.ModelType
	cfg.APIURL = req.APIURL
	cfg.APIKey = sealedKey
	cfg.Remark = req.Remark

	if err := s.repo.Update(cfg); err != nil {
		return nil, err
	}

	s.recordChange("AI配置已更新", cfg, "update")
	return cfg, nil
}

// DeleteAiConfig 删除 AI 配置
func (s *Service) DeleteAiConfig(id string) error {
	cfg, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.recordChange("AI配置已删除", cfg, "delete")
	return nil
}

// EnableAiConfig 启用
func (s *Service) EnableAiConfig(id string) error {
	return s.setStatus(id, models.AiConfigStatusEnable)
}

// DisableAiConfig 禁用
func (s *Service) DisableAiConfig(id string) error {
	return s.setStatus(id, models.AiConfigStatusDisable)
}

func (s *Service) setStatus(id, status string) error {
	cfg, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateStatus(id, status); err != nil {
		return err
	}
	cfg.Status = status

	action, message := "enable", "AI配置已启用"
	if status == models.AiConfigStatusDisable {
		action, message = "disable", "AI配置已禁用"
	}
	s.recordChange(message, cfg, action)
	return nil
}

// TestAiConfig 测试连接
// 请求未携带 API Key 时使用 ID 对应记录中保存的密钥
func (s *Service) TestAiConfig(ctx context.Context, req TestAiConfigReq) (*TestResult, error) {
	apiKey := req.APIKey
	if strings.TrimSpace(apiKey) == "" && req.ID != "" {
		cfg, err := s.repo.FindByID(req.ID)
		if err != nil {
			return nil, err
		}
		if apiKey, err = s.openKey(cfg.APIKey); err != nil {
			return nil, err
		}
	}

	if err := validateCredentials(req.ModelType, req.APIURL, apiKey); err != nil {
		return nil, fmt.Errorf("%w: 配置参数不完整", err)
	}

	result := s.prober.Probe(ctx, req.ModelType, req.APIURL, apiKey)
	metadata := map[string]interface{}{
		"id":          req.ID,
		"name":        req.Name,
		"model_type":  req.ModelType,
		"status_code": result.StatusCode,
		"response_ms": result.ResponseTimeMs,
	}

	if !result.Success {
		result.Message = "AI配置测试失败：" + result.Error
		s.log.WithFields(logrus.Fields(metadata)).WithField("error", result.Error).Warn("AI配置测试失败")
		s.record(models.EventLevelWarning, models.EventTypeConnectionTest, result.Message, metadata)
		return result, fmt.Errorf("%w: %s", ErrTestFailed, result.Error)
	}

	s.log.WithFields(logrus.Fields(metadata)).Info("AI配置测试成功")
	s.record(models.EventLevelInfo, models.EventTypeConnectionTest, result.Message, metadata)
	return result, nil
}

// sealKey 加密 API Key
func (s *Service) sealKey(apiKey string) (string, error) {
	if s.cipher == nil {
		return apiKey, nil
	}
	sealed, err := s.cipher.EncryptString(apiKey)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt API key: %w", err)
	}
	return sealed, nil
}

// openKey 解密 API Key
func (s *Service) openKey(stored string) (string, error) {
	if s.cipher == nil || stored == "" {
		return stored, nil
	}
	plain, err := s.cipher.DecryptString(stored)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt API key: %w", err)
	}
	return plain, nil
}

func (s *Service) recordChange(message string, cfg *models.AiConfig, action string) {
	metadata := map[string]interface{}{
		"id":     cfg.ID,
		"name":   cfg.Name,
		"action": action,
	}
	s.log.WithFields(logrus.Fields(metadata)).Info(message)
	s.record(models.EventLevelInfo, models.EventTypeConfigChange, message, metadata)
}

// record 写入事件，失败只记日志
func (s *Service) record(level, eventType, message string, metadata map[string]interface{}) {
	if s.events == nil {
		return
	}

	var err error
	if level == models.EventLevelWarning {
		err = s.events.LogWarning(eventType, message, metadata)
	} else {
		err = s.events.LogInfo(eventType, message, metadata)
	}
	if err != nil {
		s.log.WithError(err).Warn("记录事件失败")
	}
}

// validateForm 校验新增和更新表单
func validateForm(name, modelType, apiURL, apiKey string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	return validateCredentials(modelType, apiURL, apiKey)
}

// validateCredentials 校验模型类型、地址和密钥
func validateCredentials(modelType, apiURL, apiKey string) error {
	if !models.IsValidAiModelType(modelType) {
		return fmt.Errorf("%w: unsupported modelType %q", ErrInvalidInput, modelType)
	}
	if err := validateURL(apiURL); err != nil {
		return err
	}
	if strings.TrimSpace(apiKey) == "" {
		return fmt.Errorf("%w: apiKey is required", ErrInvalidInput)
	}
	return nil
}

// validateURL 验证 URL 格式
func validateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: invalid apiUrl: %v", ErrInvalidInput, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: apiUrl must be http or https", ErrInvalidInput)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%w: apiUrl must have a host", ErrInvalidInput)
	}
	return nil
}
