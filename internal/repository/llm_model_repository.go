// Package repository 提供被测模型数据访问层
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/acmgbench/varbench/internal/model"
)

// LLMModelRepository 被测模型数据访问
type LLMModelRepository struct {
	db *gorm.DB
}

// NewLLMModelRepository 创建被测模型仓库
func NewLLMModelRepository(db *gorm.DB) *LLMModelRepository {
	return &LLMModelRepository{db: db}
}

// Create 创建模型
func (r *LLMModelRepository) Create(ctx context.Context, m *model.LLMModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// GetByID 根据 ID 获取模型
func (r *LLMModelRepository) GetByID(ctx context.Context, id string) (*model.LLMModel, error) {
	var m model.LLMModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByName 根据名称获取模型
func (r *LLMModelRepository) GetByName(ctx context.Context, name string) (*model.LLMModel, error) {
	var m model.LLMModel
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List 列出模型
func (r *LLMModelRepository) List(ctx context.Context, deployment *model.Deployment, ragMode *model.RAGMode) ([]*model.LLMModel, error) {
	var models []*model.LLMModel
	query := r.db.WithContext(ctx).Model(&model.LLMModel{})

	if deployment != nil {
		query = query.Where("deployment = ?", *deployment)
	}
	if ragMode != nil {
		query = query.Where("rag_mode = ?", *ragMode)
	}

	err := query.Order("created_at DESC").Find(&models).Error
	return models, err
}

// Update 更新模型
func (r *LLMModelRepository) Update(ctx context.Context, m *model.LLMModel) error {
	return r.db.WithContext(ctx).Save(m).Error
}

// Delete 删除模型
func (r *LLMModelRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.LLMModel{}, "id = ?", id).Error
}
