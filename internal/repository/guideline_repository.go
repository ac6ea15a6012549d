// Package repository 提供指南文档数据访问层
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/acmgbench/varbench/internal/model"
)

// GuidelineRepository 指南文档数据访问
type GuidelineRepository struct {
	db *gorm.DB
}

// NewGuidelineRepository 创建指南文档仓库
func NewGuidelineRepository(db *gorm.DB) *GuidelineRepository {
	return &GuidelineRepository{db: db}
}

// CreateDocument 登记指南文档
func (r *GuidelineRepository) CreateDocument(ctx context.Context, d *model.GuidelineDocument) error {
	return r.db.WithContext(ctx).Create(d).Error
}

// GetDocumentByID 根据 ID 获取指南文档
func (r *GuidelineRepository) GetDocumentByID(ctx context.Context, id string) (*model.GuidelineDocument, error) {
	var d model.GuidelineDocument
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDocuments 列出全部指南文档
func (r *GuidelineRepository) ListDocuments(ctx context.Context) ([]*model.GuidelineDocument, error) {
	var docs []*model.GuidelineDocument
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&docs).Error
	return docs, err
}

// UpdateDocument 更新指南文档
func (r *GuidelineRepository) UpdateDocument(ctx context.Context, d *model.GuidelineDocument) error {
	return r.db.WithContext(ctx).Save(d).Error
}

// DeleteDocument 删除指南文档及其分块
func (r *GuidelineRepository) DeleteDocument(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("document_id = ?", id).Delete(&model.GuidelineChunk{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.GuidelineDocument{}).Error
}

// CreateChunks 批量保存分块
func (r *GuidelineRepository) CreateChunks(ctx context.Context, chunks []*model.GuidelineChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(chunks).Error
}

// ListChunksByDocument 列出某文档的全部分块
func (r *GuidelineRepository) ListChunksByDocument(ctx context.Context, documentID string) ([]*model.GuidelineChunk, error) {
	var chunks []*model.GuidelineChunk
	err := r.db.WithContext(ctx).Where("document_id = ?", documentID).Order("chunk_index ASC").Find(&chunks).Error
	return chunks, err
}

// DeleteChunksByDocument 删除某文档的全部分块
func (r *GuidelineRepository) DeleteChunksByDocument(ctx context.Context, documentID string) error {
	return r.db.WithContext(ctx).Where("document_id = ?", documentID).Delete(&model.GuidelineChunk{}).Error
}
