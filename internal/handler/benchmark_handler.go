package handler

import (
	"github.com/acmgbench/varbench/internal/service"
	"github.com/acmgbench/varbench/internal/service/runner"
	"github.com/gin-gonic/gin"
)

// BenchmarkHandler 在线跑测处理器
type BenchmarkHandler struct {
	svc *service.Services
}

// NewBenchmarkHandler 创建在线跑测处理器
func NewBenchmarkHandler(svc *service.Services) *BenchmarkHandler {
	return &BenchmarkHandler{svc: svc}
}

// Run 对指定被测模型跑完整个语料,逐篇提问并落库回复
func (h *BenchmarkHandler) Run(c *gin.Context) {
	var req runner.RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	report, err := h.svc.Runner.Run(c.Request.Context(), &req)
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, report)
}
