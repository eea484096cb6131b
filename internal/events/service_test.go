package events

import (
	"encoding/json"
	"testing"

	"github.com/Mieluoxxx/aiconfig-hub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.SystemEvent{}))
	return db
}

func TestService_LogInfo(t *testing.T) {
	service := NewService(setupTestDB(t))

	err := service.LogInfo(models.EventTypeConfigChange, "AI配置已添加", map[string]interface{}{
		"id":     "sy_1",
		"action": "add",
	})
	require.NoError(t, err)

	events, err := service.RecentEvents(models.EventTypeConfigChange, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, models.EventLevelInfo, events[0].Level)
	assert.Equal(t, "AI配置已添加", events[0].Message)

	var metadata map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(events[0].Metadata), &metadata))
	assert.Equal(t, "sy_1", metadata["id"])
	assert.Equal(t, "add", metadata["action"])
}

func TestService_LogWarning_NilMetadata(t *testing.T) {
	service := NewService(setupTestDB(t))

	require.NoError(t, service.LogWarning(models.EventTypeConnectionTest, "连接测试失败", nil))

	events, err := service.RecentEvents("", 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventLevelWarning, events[0].Level)
	assert.Empty(t, events[0].Metadata)
}

func TestService_RecentEvents_FilterAndLimit(t *testing.T) {
	service := NewService(setupTestDB(t))

	for i := 0; i < 5; i++ {
		require.NoError(t, service.LogInfo(models.EventTypeConfigChange, "change", nil))
	}
	require.NoError(t, service.LogInfo(models.EventTypeConnectionTest, "test", nil))

	changes, err := service.RecentEvents(models.EventTypeConfigChange, 3)
	require.NoError(t, err)
	assert.Len(t, changes, 3)

	tests, err := service.RecentEvents(models.EventTypeConnectionTest, 10)
	require.NoError(t, err)
	assert.Len(t, tests, 1)

	all, err := service.RecentEvents("", 100)
	require.NoError(t, err)
	assert.Len(t, all, 6)
}
