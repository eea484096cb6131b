package handlers

import (
	"sync"

	"github.com/Mieluoxxx/aiconfig-hub/internal/models"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators 在 gin 的校验引擎上注册自定义标签
// aimodeltype: 字段必须是受支持的模型类型
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("aimodeltype", validateAiModelType)
		}
	})
}

func validateAiModelType(fl validator.FieldLevel) bool {
	return models.IsValidAiModelType(fl.Field().String())
}
