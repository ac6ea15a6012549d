package handler

import (
	"github.com/acmgbench/varbench/internal/model"
	"github.com/acmgbench/varbench/internal/service"
	"github.com/gin-gonic/gin"
)

// PromptHandler 提示词模板处理器
type PromptHandler struct {
	svc *service.Services
}

// NewPromptHandler 创建提示词模板处理器
func NewPromptHandler(svc *service.Services) *PromptHandler {
	return &PromptHandler{svc: svc}
}

// CreatePromptRequest 新建提示词模板请求
type CreatePromptRequest struct {
	Name    string            `json:"name" binding:"required"`
	Stage   model.PromptStage `json:"stage" binding:"required"`
	Content string            `json:"content" binding:"required"`
}

// CreatePrompt 新建提示词模板
func (h *PromptHandler) CreatePrompt(c *gin.Context) {
	var req CreatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p := &model.PromptTemplate{
		Name:    req.Name,
		Stage:   req.Stage,
		Content: req.Content,
	}
	if err := h.svc.Registry.CreatePrompt(c.Request.Context(), p); err != nil {
		errorResponse(c, err)
		return
	}

	created(c, p)
}

// GetPrompt 获取提示词模板
func (h *PromptHandler) GetPrompt(c *gin.Context) {
	p, err := h.svc.Registry.GetPromptByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		notFound(c, "prompt not found")
		return
	}

	success(c, p)
}

// ListPrompts 列出提示词模板
func (h *PromptHandler) ListPrompts(c *gin.Context) {
	var stage *model.PromptStage
	if v := c.Query("stage"); v != "" {
		s := model.PromptStage(v)
		stage = &s
	}

	prompts, err := h.svc.Registry.ListPrompts(c.Request.Context(), stage)
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, gin.H{"prompts": prompts, "total": len(prompts)})
}

// UpdatePromptRequest 更新提示词模板请求
type UpdatePromptRequest struct {
	Name    *string `json:"name"`
	Content *string `json:"content"`
}

// UpdatePrompt 更新提示词模板
func (h *PromptHandler) UpdatePrompt(c *gin.Context) {
	var req UpdatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.svc.Registry.GetPromptByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		notFound(c, "prompt not found")
		return
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Content != nil {
		p.Content = *req.Content
	}

	if err := h.svc.Registry.UpdatePrompt(c.Request.Context(), p); err != nil {
		errorResponse(c, err)
		return
	}

	success(c, p)
}

// DeletePrompt 删除提示词模板
func (h *PromptHandler) DeletePrompt(c *gin.Context) {
	if err := h.svc.Registry.DeletePrompt(c.Request.Context(), c.Param("id")); err != nil {
		errorResponse(c, err)
		return
	}

	success(c, nil)
}
