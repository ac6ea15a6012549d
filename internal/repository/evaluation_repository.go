// Package repository 数据访问层
package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/acmgbench/varbench/internal/model"
)

// EvaluationRepository 评估任务仓库
type EvaluationRepository struct {
	db *gorm.DB
}

// NewEvaluationRepository 创建评估任务仓库
func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// CreateRun 创建评估任务
func (r *EvaluationRepository) CreateRun(ctx context.Context, run *model.EvaluationRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(run).Error
}

// GetRunByID 根据 ID 获取评估任务
func (r *EvaluationRepository) GetRunByID(ctx context.Context, id string) (*model.EvaluationRun, error) {
	var run model.EvaluationRun
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns 列出评估任务（支持筛选和分页）
func (r *EvaluationRepository) ListRuns(ctx context.Context, modelID string, kind *model.EvaluationKind, limit, offset int) ([]*model.EvaluationRun, int64, error) {
	var runs []*model.EvaluationRun
	var total int64

	query := r.db.WithContext(ctx).Model(&model.EvaluationRun{})
	if modelID != "" {
		query = query.Where("llm_model_id = ?", modelID)
	}
	if kind != nil {
		query = query.Where("kind = ?", *kind)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	err := query.Order("created_at DESC").Find(&runs).Error
	return runs, total, err
}

// UpdateRun 更新评估任务
func (r *EvaluationRepository) UpdateRun(ctx context.Context, run *model.EvaluationRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

// UpdateProgress 更新任务进度
func (r *EvaluationRepository) UpdateProgress(ctx context.Context, id string, progress, completed int, status model.EvaluationRunStatus) error {
	return r.db.WithContext(ctx).Model(&model.EvaluationRun{}).Where("id = ?", id).Updates(map[string]interface{}{
		"progress":        progress,
		"completed_count": completed,
		"status":          status,
	}).Error
}

// DeleteRun 删除评估任务及其文献结果
func (r *EvaluationRepository) DeleteRun(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.ArticleResult{}, "run_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.EvaluationRun{}, "id = ?", id).Error
	})
}

// GetRunsByStatus 根据状态获取任务列表
func (r *EvaluationRepository) GetRunsByStatus(ctx context.Context, status model.EvaluationRunStatus) ([]*model.EvaluationRun, error) {
	var runs []*model.EvaluationRun
	err := r.db.WithContext(ctx).Where("status = ?", status).Find(&runs).Error
	return runs, err
}

// CreateArticleResult 保存单篇文献结果
func (r *EvaluationRepository) CreateArticleResult(ctx context.Context, result *model.ArticleResult) error {
	if result.ID == "" {
		result.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(result).Error
}

// ListArticleResults 列出任务下的文献结果
func (r *EvaluationRepository) ListArticleResults(ctx context.Context, runID string) ([]*model.ArticleResult, error) {
	var results []*model.ArticleResult
	err := r.db.WithContext(ctx).Where("run_id = ?", runID).Order("pmid ASC").Find(&results).Error
	return results, err
}
