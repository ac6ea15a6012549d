// Package repository 提供文献数据访问层
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/acmgbench/varbench/internal/model"
)

// ArticleRepository 文献数据访问
type ArticleRepository struct {
	db *gorm.DB
}

// NewArticleRepository 创建文献仓库
func NewArticleRepository(db *gorm.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// Create 创建文献
func (r *ArticleRepository) Create(ctx context.Context, a *model.Article) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// Upsert 按 PMID 创建或更新文献
func (r *ArticleRepository) Upsert(ctx context.Context, a *model.Article) error {
	var existing model.Article
	err := r.db.WithContext(ctx).Where("pmid = ?", a.PMID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.db.WithContext(ctx).Create(a).Error
	}
	if err != nil {
		return err
	}
	a.ID = existing.ID
	a.CreatedAt = existing.CreatedAt
	return r.db.WithContext(ctx).Save(a).Error
}

// GetByID 根据 ID 获取文献
func (r *ArticleRepository) GetByID(ctx context.Context, id string) (*model.Article, error) {
	var a model.Article
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByPMID 根据 PMID 获取文献
func (r *ArticleRepository) GetByPMID(ctx context.Context, pmid string) (*model.Article, error) {
	var a model.Article
	err := r.db.WithContext(ctx).Where("pmid = ?", pmid).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List 列出文献（支持分页）
func (r *ArticleRepository) List(ctx context.Context, gene string, limit, offset int) ([]*model.Article, int64, error) {
	var articles []*model.Article
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Article{})
	if gene != "" {
		query = query.Where("gene = ?", gene)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	err := query.Order("pmid ASC").Find(&articles).Error
	return articles, total, err
}

// Delete 删除文献
func (r *ArticleRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Article{}, "id = ?", id).Error
}
