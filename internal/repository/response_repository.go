// Package repository 提供模型应答数据访问层
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/acmgbench/varbench/internal/model"
)

// ResponseRepository 模型应答数据访问
type ResponseRepository struct {
	db *gorm.DB
}

// NewResponseRepository 创建应答仓库
func NewResponseRepository(db *gorm.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

// Create 创建应答
func (r *ResponseRepository) Create(ctx context.Context, resp *model.ModelResponse) error {
	return r.db.WithContext(ctx).Create(resp).Error
}

// Upsert 按模型与 PMID 创建或更新应答
func (r *ResponseRepository) Upsert(ctx context.Context, resp *model.ModelResponse) error {
	var existing model.ModelResponse
	err := r.db.WithContext(ctx).
		Where("llm_model_id = ? AND pmid = ?", resp.LLMModelID, resp.PMID).
		First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.db.WithContext(ctx).Create(resp).Error
	}
	if err != nil {
		return err
	}
	resp.ID = existing.ID
	resp.CreatedAt = existing.CreatedAt
	return r.db.WithContext(ctx).Save(resp).Error
}

// GetByID 根据 ID 获取应答
func (r *ResponseRepository) GetByID(ctx context.Context, id string) (*model.ModelResponse, error) {
	var resp model.ModelResponse
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&resp).Error
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetByModelAndPMID 获取某模型对某文献的应答
func (r *ResponseRepository) GetByModelAndPMID(ctx context.Context, modelID, pmid string) (*model.ModelResponse, error) {
	var resp model.ModelResponse
	err := r.db.WithContext(ctx).
		Where("llm_model_id = ? AND pmid = ?", modelID, pmid).
		First(&resp).Error
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListByModel 列出某模型的全部应答
func (r *ResponseRepository) ListByModel(ctx context.Context, modelID string, status *model.ResponseStatus) ([]*model.ModelResponse, error) {
	var responses []*model.ModelResponse
	query := r.db.WithContext(ctx).Where("llm_model_id = ?", modelID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Order("pmid ASC").Find(&responses).Error
	return responses, err
}

// Update 更新应答
func (r *ResponseRepository) Update(ctx context.Context, resp *model.ModelResponse) error {
	return r.db.WithContext(ctx).Save(resp).Error
}

// UpdateStatus 更新应答状态
func (r *ResponseRepository) UpdateStatus(ctx context.Context, id string, status model.ResponseStatus, errMsg string) error {
	return r.db.WithContext(ctx).Model(&model.ModelResponse{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":    status,
		"error_msg": errMsg,
	}).Error
}

// Delete 删除应答
func (r *ResponseRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.ModelResponse{}, "id = ?", id).Error
}
