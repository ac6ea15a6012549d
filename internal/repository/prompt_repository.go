// Package repository 提供提示词模板数据访问层
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/acmgbench/varbench/internal/model"
)

// PromptRepository 提示词模板数据访问
type PromptRepository struct {
	db *gorm.DB
}

// NewPromptRepository 创建提示词仓库
func NewPromptRepository(db *gorm.DB) *PromptRepository {
	return &PromptRepository{db: db}
}

// Create 创建模板
func (r *PromptRepository) Create(ctx context.Context, p *model.PromptTemplate) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// GetByID 根据 ID 获取模板
func (r *PromptRepository) GetByID(ctx context.Context, id string) (*model.PromptTemplate, error) {
	var p model.PromptTemplate
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetLatestByStage 获取指定用途的最新版本模板
func (r *PromptRepository) GetLatestByStage(ctx context.Context, stage model.PromptStage) (*model.PromptTemplate, error) {
	var p model.PromptTemplate
	err := r.db.WithContext(ctx).
		Where("stage = ?", stage).
		Order("version DESC").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List 列出模板
func (r *PromptRepository) List(ctx context.Context, stage *model.PromptStage) ([]*model.PromptTemplate, error) {
	var prompts []*model.PromptTemplate
	query := r.db.WithContext(ctx).Model(&model.PromptTemplate{})
	if stage != nil {
		query = query.Where("stage = ?", *stage)
	}
	err := query.Order("stage ASC, version DESC").Find(&prompts).Error
	return prompts, err
}

// Update 更新模板
func (r *PromptRepository) Update(ctx context.Context, p *model.PromptTemplate) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete 删除模板
func (r *PromptRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.PromptTemplate{}, "id = ?", id).Error
}
