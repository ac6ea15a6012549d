package handler

import (
	"github.com/acmgbench/varbench/internal/service"
	"github.com/gin-gonic/gin"
)

// AnalyticsHandler 统计分析处理器
type AnalyticsHandler struct {
	svc *service.Services
}

// NewAnalyticsHandler 创建统计分析处理器
func NewAnalyticsHandler(svc *service.Services) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// Leaderboard 模型排行榜,取每个模型各类评估的最新一次完成结果
func (h *AnalyticsHandler) Leaderboard(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.svc.Analytics.Refresh(ctx); err != nil {
		errorResponse(c, err)
		return
	}

	rows, err := h.svc.Analytics.Leaderboard(ctx)
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, gin.H{"leaderboard": rows, "total": len(rows)})
}

// FieldDifficulty 字段难度排名,按各模型最近一次细粒度评估聚合
func (h *AnalyticsHandler) FieldDifficulty(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.svc.Analytics.Refresh(ctx); err != nil {
		errorResponse(c, err)
		return
	}

	rows, err := h.svc.Analytics.FieldDifficulty(ctx)
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, gin.H{"fields": rows, "total": len(rows)})
}
