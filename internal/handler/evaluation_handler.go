// Package handler 提供评估相关的 HTTP 处理器
package handler

import (
	"github.com/acmgbench/varbench/internal/model"
	"github.com/acmgbench/varbench/internal/service"
	"github.com/acmgbench/varbench/internal/service/evaluation"
	"github.com/gin-gonic/gin"
)

// EvaluationHandler 评估处理器
type EvaluationHandler struct {
	svc *service.Services
}

// NewEvaluationHandler 创建评估处理器
func NewEvaluationHandler(svc *service.Services) *EvaluationHandler {
	return &EvaluationHandler{svc: svc}
}

// StartRun 发起评估任务
func (h *EvaluationHandler) StartRun(c *gin.Context) {
	var req evaluation.StartRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	run, err := h.svc.Evaluation.StartRun(c.Request.Context(), &req)
	if err != nil {
		errorResponse(c, err)
		return
	}

	created(c, run)
}

// GetRun 查询评估任务
func (h *EvaluationHandler) GetRun(c *gin.Context) {
	run, err := h.svc.Evaluation.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		notFound(c, "evaluation run not found")
		return
	}

	success(c, run)
}

// ListRuns 列出评估任务
func (h *EvaluationHandler) ListRuns(c *gin.Context) {
	page, size := getPagination(c)

	var kind *model.EvaluationKind
	if v := c.Query("kind"); v != "" {
		k := model.EvaluationKind(v)
		kind = &k
	}

	runs, total, err := h.svc.Evaluation.ListRuns(c.Request.Context(), c.Query("llm_model_id"), kind, size, (page-1)*size)
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, gin.H{
		"runs":  runs,
		"total": total,
		"page":  page,
		"size":  size,
	})
}

// DeleteRun 删除评估任务
func (h *EvaluationHandler) DeleteRun(c *gin.Context) {
	if err := h.svc.Evaluation.DeleteRun(c.Request.Context(), c.Param("id")); err != nil {
		errorResponse(c, err)
		return
	}

	success(c, nil)
}

// CancelRun 取消运行中的评估任务
func (h *EvaluationHandler) CancelRun(c *gin.Context) {
	if err := h.svc.Evaluation.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		badRequest(c, err)
		return
	}

	success(c, nil)
}

// GetProgress 查询评估任务进度
func (h *EvaluationHandler) GetProgress(c *gin.Context) {
	st, err := h.svc.Evaluation.Progress(c.Request.Context(), c.Param("id"))
	if err != nil {
		notFound(c, "evaluation run not found")
		return
	}

	success(c, st)
}

// ListEvents 列出任务的生命周期事件
func (h *EvaluationHandler) ListEvents(c *gin.Context) {
	events, err := h.svc.Evaluation.Events(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, gin.H{"events": events, "total": len(events)})
}

// ListArticleResults 列出任务下的文献级结果
func (h *EvaluationHandler) ListArticleResults(c *gin.Context) {
	results, err := h.svc.Evaluation.ListArticleResults(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, gin.H{"results": results, "total": len(results)})
}
