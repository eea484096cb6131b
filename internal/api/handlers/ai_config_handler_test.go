package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Mieluoxxx/aiconfig-hub/internal/aiconfig"
	"github.com/Mieluoxxx/aiconfig-hub/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestHandler 创建测试处理器和路由
func setupTestHandler(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)
	RegisterValidators()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true, Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.AiConfig{}, &models.SystemEvent{}))

	service := aiconfig.NewService(aiconfig.NewRepository(db), aiconfig.NewConnectionTester(2*time.Second))
	handler := NewAiConfigHandler(service)

	router := gin.New()
	group := router.Group("/ai-config")
	{
		group.POST("/pageAiConfig", handler.PageAiConfig)
		group.POST("/addAiConfig", handler.AddAiConfig)
		group.POST("/updateAiConfig", handler.UpdateAiConfig)
		group.POST("/deleteAiConfig", handler.DeleteAiConfig)
		group.POST("/enableAiConfig", handler.EnableAiConfig)
		group.POST("/disableAiConfig", handler.DisableAiConfig)
		group.POST("/testAiConfig", handler.TestAiConfig)
	}

	return router, db
}

// doPost 发送 JSON 请求并解析统一响应
func doPost(t *testing.T, router *gin.Engine, path string, body interface{}) (int, Response) {
	var buf []byte
	switch b := body.(type) {
	case string:
		buf = []byte(b)
	default:
		var err error
		buf, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var out Response
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out), resp.Body.String())
	return resp.Code, out
}

func addBody(name string) map[string]interface{} {
	return map[string]interface{}{
		"name":      name,
		"modelType": models.AiModelTypeChatGPT4o,
		"apiUrl":    "https://api.openai.com/v1/chat/completions",
		"apiKey":    "sk-test-key-12345",
		"remark":    "用于数据分析的AI配置",
	}
}

// addConfig 新增配置并返回 ID
func addConfig(t *testing.T, router *gin.Engine, name string) string {
	code, resp := doPost(t, router, "/ai-config/addAiConfig", addBody(name))
	require.Equal(t, http.StatusOK, code, resp.Err)
	data := resp.Data.(map[string]interface{})
	return data["id"].(string)
}

func TestAddAiConfig_Success(t *testing.T) {
	router, _ := setupTestHandler(t)

	code, resp := doPost(t, router, "/ai-config/addAiConfig", addBody("gpt"))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "200", resp.Code)
	assert.Equal(t, MsgAddSuccess, resp.Msg)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "gpt", data["name"])
	assert.Equal(t, models.AiConfigStatusEnable, data["status"])
	assert.NotContains(t, data, "apiKey")
}

func TestAddAiConfig_ValidationError(t *testing.T) {
	router, _ := setupTestHandler(t)

	testCases := []struct {
		name   string
		mutate func(b map[string]interface{})
	}{
		{"missing name", func(b map[string]interface{}) { delete(b, "name") }},
		{"unknown model type", func(b map[string]interface{}) { b["modelType"] = "LLAMA" }},
		{"bad url", func(b map[string]interface{}) { b["apiUrl"] = "not-a-url" }},
		{"missing key", func(b map[string]interface{}) { b["apiKey"] = "" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			body := addBody("x")
			tc.mutate(body)
			code, resp := doPost(t, router, "/ai-config/addAiConfig", body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, "400", resp.Code)
			assert.Equal(t, MsgInvalidParams, resp.Msg)
			assert.NotEmpty(t, resp.Err)
		})
	}
}

func TestAddAiConfig_InvalidJSON(t *testing.T) {
	router, _ := setupTestHandler(t)

	code, _ := doPost(t, router, "/ai-config/addAiConfig", "invalid json")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAddAiConfig_DuplicateName(t *testing.T) {
	router, _ := setupTestHandler(t)
	addConfig(t, router, "gpt")

	code, resp := doPost(t, router, "/ai-config/addAiConfig", addBody("gpt"))
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "409", resp.Code)
	assert.Equal(t, MsgNameExists, resp.Msg)
}

func TestPageAiConfig(t *testing.T) {
	router, _ := setupTestHandler(t)
	addConfig(t, router, "gpt-a")
	addConfig(t, router, "gpt-b")
	addConfig(t, router, "claude")

	code, resp := doPost(t, router, "/ai-config/pageAiConfig", map[string]interface{}{
		"page": 0, "size": 10, "searchKeyWord": "gpt",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, MsgQuerySuccess, resp.Msg)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(2), data["totalElements"])
	assert.Equal(t, float64(1), data["totalPages"])
	assert.Equal(t, float64(0), data["number"])
	content := data["content"].([]interface{})
	assert.Len(t, content, 2)
	for _, item := range content {
		assert.NotContains(t, item.(map[string]interface{}), "apiKey")
	}
}

func TestPageAiConfig_InvalidParams(t *testing.T) {
	router, _ := setupTestHandler(t)

	testCases := []struct {
		name string
		body string
	}{
		{"missing page", `{"size":10}`},
		{"negative page", `{"page":-1,"size":10}`},
		{"size zero", `{"page":0,"size":0}`},
		{"size too large", `{"page":0,"size":101}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, _ := doPost(t, router, "/ai-config/pageAiConfig", tc.body)
			assert.Equal(t, http.StatusBadRequest, code)
		})
	}
}

func TestUpdateAiConfig(t *testing.T) {
	router, _ := setupTestHandler(t)
	id := addConfig(t, router, "gpt")
	addConfig(t, router, "claude")

	body := addBody("gpt-renamed")
	body["id"] = id
	code, resp := doPost(t, router, "/ai-config/updateAiConfig", body)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, MsgUpdateSuccess, resp.Msg)

	body["name"] = "claude"
	code, _ = doPost(t, router, "/ai-config/updateAiConfig", body)
	assert.Equal(t, http.StatusConflict, code)

	body["id"] = "sy_missing"
	body["name"] = "other"
	code, resp = doPost(t, router, "/ai-config/updateAiConfig", body)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, MsgNotFound, resp.Msg)

	delete(body, "id")
	code, _ = doPost(t, router, "/ai-config/updateAiConfig", body)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestDeleteEnableDisable(t *testing.T) {
	router, db := setupTestHandler(t)
	id := addConfig(t, router, "gpt")

	code, resp := doPost(t, router, "/ai-config/disableAiConfig", map[string]string{"id": id})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, MsgDisableSuccess, resp.Msg)
	var stored models.AiConfig
	require.NoError(t, db.First(&stored, "id = ?", id).Error)
	assert.Equal(t, models.AiConfigStatusDisable, stored.Status)

	code, resp = doPost(t, router, "/ai-config/enableAiConfig", map[string]string{"id": id})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, MsgEnableSuccess, resp.Msg)

	code, resp = doPost(t, router, "/ai-config/deleteAiConfig", map[string]string{"id": id})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, MsgDeleteSuccess, resp.Msg)

	for _, path := range []string{"/ai-config/deleteAiConfig", "/ai-config/enableAiConfig", "/ai-config/disableAiConfig"} {
		code, resp = doPost(t, router, path, map[string]string{"id": id})
		assert.Equal(t, http.StatusNotFound, code, path)
		assert.Equal(t, "404", resp.Code, path)
	}

	code, _ = doPost(t, router, "/ai-config/deleteAiConfig", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestTestAiConfig(t *testing.T) {
	router, _ := setupTestHandler(t)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-good" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"bad key"}`))
			return
		}
		w.Write([]byte(`{"id":"chatcmpl-1"}`))
	}))
	defer upstream.Close()

	body := map[string]interface{}{
		"modelType": models.AiModelTypeChatGPT4o,
		"apiUrl":    upstream.URL,
		"apiKey":    "sk-good",
	}
	code, resp := doPost(t, router, "/ai-config/testAiConfig", body)
	assert.Equal(t, http.StatusOK, code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, true, data["success"])
	assert.Equal(t, float64(http.StatusOK), data["statusCode"])

	body["apiKey"] = "sk-bad"
	code, resp = doPost(t, router, "/ai-config/testAiConfig", body)
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "502", resp.Code)
	assert.Contains(t, resp.Msg, MsgTestFailed)
	assert.Contains(t, resp.Err, "HTTP 401")

	// 未提供密钥且没有 ID
	delete(body, "apiKey")
	code, _ = doPost(t, router, "/ai-config/testAiConfig", body)
	assert.Equal(t, http.StatusBadRequest, code)
}
