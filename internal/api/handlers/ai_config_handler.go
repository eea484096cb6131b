package handlers

import (
	"errors"
	"net/http"

	"github.com/Mieluoxxx/aiconfig-hub/internal/aiconfig"
	"github.com/gin-gonic/gin"
)

// 响应消息
const (
	MsgQuerySuccess   = "查询成功"
	MsgAddSuccess     = "添加成功"
	MsgUpdateSuccess  = "更新成功"
	MsgDeleteSuccess  = "删除成功"
	MsgEnableSuccess  = "启用成功"
	MsgDisableSuccess = "禁用成功"

	MsgInvalidParams = "参数校验失败"
	MsgNameExists    = "AI配置名称重复，请重新输入"
	MsgNotFound      = "AI配置不存在"
	MsgTestFailed    = "AI配置测试失败："
	MsgInternalError = "服务器内部错误"
)

// AiConfigHandler AI 配置 HTTP 处理器
type AiConfigHandler struct {
	service *aiconfig.Service
}

// NewAiConfigHandler 创建 AiConfigHandler 实例
func NewAiConfigHandler(service *aiconfig.Service) *AiConfigHandler {
	return &AiConfigHandler{service: service}
}

// PageAiConfig 分页查询
// @Router /ai-config/pageAiConfig [post]
func (h *AiConfigHandler) PageAiConfig(c *gin.Context) {
	var req aiconfig.PageAiConfigReq
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, MsgInvalidParams, err.Error())
		return
	}

	page, err := h.service.PageAiConfig(req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, MsgQuerySuccess, page)
}

// AddAiConfig 新增
// @Router /ai-config/addAiConfig [post]
func (h *AiConfigHandler) AddAiConfig(c *gin.Context) {
	var req aiconfig.AddAiConfigReq
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, MsgInvalidParams, err.Error())
		return
	}

	cfg, err := h.service.AddAiConfig(req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, MsgAddSuccess, aiconfig.ToPageAiConfigRes(cfg))
}

// UpdateAiConfig 更新
// @Router /ai-config/updateAiConfig [post]
func (h *AiConfigHandler) UpdateAiConfig(c *gin.Context) {
	var req aiconfig.UpdateAiConfigReq
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, MsgInvalidParams, err.Error())
		return
	}

	cfg, err := h.service.UpdateAiConfig(req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, MsgUpdateSuccess, aiconfig.ToPageAiConfigRes(cfg))
}

// DeleteAiConfig 删除
// @Router /ai-config/deleteAiConfig [post]
func (h *AiConfigHandler) DeleteAiConfig(c *gin.Context) {
	h.handleID(c, h.service.DeleteAiConfig, MsgDeleteSuccess)
}

// EnableAiConfig 启用
// @Router /ai-config/enableAiConfig [post]
func (h *AiConfigHandler) EnableAiConfig(c *gin.Context) {
	h.handleID(c, h.service.EnableAiConfig, MsgEnableSuccess)
}

// DisableAiConfig 禁用
// @Router /ai-config/disableAiConfig [post]
func (h *AiConfigHandler) DisableAiConfig(c *gin.Context) {
	h.handleID(c, h.service.DisableAiConfig, MsgDisableSuccess)
}

// TestAiConfig 测试连接
// 失败时返回 502，msg 中包含失败原因
// @Router /ai-config/testAiConfig [post]
func (h *AiConfigHandler) TestAiConfig(c *gin.Context) {
	var req aiconfig.TestAiConfigReq
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, MsgInvalidParams, err.Error())
		return
	}

	result, err := h.service.TestAiConfig(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, aiconfig.ErrTestFailed) && result != nil {
			Fail(c, http.StatusBadGateway, result.Message, result.Error)
			return
		}
		handleServiceError(c, err)
		return
	}

	Success(c, result.Message, result)
}

// handleID 处理只携带 id 的请求
func (h *AiConfigHandler) handleID(c *gin.Context, op func(id string) error, msg string) {
	var req aiconfig.IDReq
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, MsgInvalidParams, err.Error())
		return
	}

	if err := op(req.ID); err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, msg, nil)
}

// handleServiceError 将业务错误映射为 HTTP 状态码
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, aiconfig.ErrInvalidInput):
		Fail(c, http.StatusBadRequest, MsgInvalidParams, err.Error())
	case errors.Is(err, aiconfig.ErrAiConfigNameExists):
		Fail(c, http.StatusConflict, MsgNameExists, err.Error())
	case errors.Is(err, aiconfig.ErrAiConfigNotFound):
		Fail(c, http.StatusNotFound, MsgNotFound, err.Error())
	case errors.Is(err, aiconfig.ErrTestFailed):
		Fail(c, http.StatusBadGateway, MsgTestFailed+err.Error(), err.Error())
	default:
		_ = c.Error(err)
		Fail(c, http.StatusInternalServerError, MsgInternalError, "")
	}
}
