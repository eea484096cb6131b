package aiconfig

import (
	"errors"

	"github.com/Mieluoxxx/aiconfig-hub/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrAiConfigNotFound AI 配置不存在
	ErrAiConfigNotFound = errors.New("ai config not found")
	// ErrAiConfigNameExists AI 配置名称已存在
	ErrAiConfigNameExists = errors.New("ai config name already exists")
)

// Repository AI 配置数据访问层
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建 Repository 实例
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create 创建 AI 配置
func (r *Repository) Create(cfg *models.AiConfig) error {
	return translateError(r.db.Create(cfg).Error)
}

// FindByID 根据 ID 查找
func (r *Repository) FindByID(id string) (*models.AiConfig, error) {
	var cfg models.AiConfig
	err := r.db.Where("id = ?", id).First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAiConfigNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

// Search 分页查询，keyword 非空时匹配名称或备注；按创建时间倒序
// page 从 0 开始
func (r *Repository) Search(keyword string, page, size int) ([]*models.AiConfig, int64, error) {
	var configs []*models.AiConfig
	var total int64

	scope := func() *gorm.DB {
		query := r.db.Model(&models.AiConfig{})
		if keyword != "" {
			like := "%" + keyword + "%"
			query = query.Where("name LIKE ? OR remark LIKE ?", like, like)
		}
		return query
	}

	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := scope().Order("create_date_time DESC").Order("id").
		Offset(page * size).Limit(size).
		Find(&configs).Error
	if err != nil {
		return nil, 0, err
	}

	return configs, total, nil
}

// Update 保存全部字段
func (r *Repository) Update(cfg *models.AiConfig) error {
	return translateError(r.db.Save(cfg).Error)
}

// UpdateStatus 仅更新状态，调用方需先确认记录存在
// MySQL 的影响行数不含未变化的行，因此这里不以 RowsAffected 判断是否存在
func (r *Repository) UpdateStatus(id, status string) error {
	return r.db.Model(&models.AiConfig{}).Where("id = ?", id).Update("status", status).Error
}

// Delete 删除（硬删除）
func (r *Repository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.AiConfig{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAiConfigNotFound
	}
	return nil
}

// translateError 唯一索引冲突转换为名称重复
// 需要以 TranslateError 打开 gorm
func translateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAiConfigNameExists
	}
	return err
}

// CheckNameExists 检查名称是否存在（排除指定 ID）
func (r *Repository) CheckNameExists(name, excludeID string) (bool, error) {
	var count int64
	query := r.db.Model(&models.AiConfig{}).Where("name = ?", name)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
