// Package handler 提供被测模型管理的 HTTP 处理器
package handler

import (
	"github.com/acmgbench/varbench/internal/model"
	"github.com/acmgbench/varbench/internal/service"
	"github.com/gin-gonic/gin"
)

// ModelHandler 被测模型处理器
type ModelHandler struct {
	svc *service.Services
}

// NewModelHandler 创建被测模型处理器
func NewModelHandler(svc *service.Services) *ModelHandler {
	return &ModelHandler{svc: svc}
}

// CreateModelRequest 登记被测模型请求
type CreateModelRequest struct {
	Name          string               `json:"name" binding:"required"`
	Provider      string               `json:"provider" binding:"required"`
	Deployment    model.Deployment     `json:"deployment" binding:"required"`
	ParameterSize string               `json:"parameter_size"`
	RAGMode       model.RAGMode        `json:"rag_mode"`
	Description   string               `json:"description"`
	Parameters    model.JSON           `json:"parameters"`
	Status        model.LLMModelStatus `json:"status"`
}

// UpdateModelRequest 更新被测模型请求
type UpdateModelRequest struct {
	Provider      *string               `json:"provider"`
	Deployment    *model.Deployment     `json:"deployment"`
	ParameterSize *string               `json:"parameter_size"`
	RAGMode       *model.RAGMode        `json:"rag_mode"`
	Description   *string               `json:"description"`
	Parameters    *model.JSON           `json:"parameters"`
	Status        *model.LLMModelStatus `json:"status"`
}

// CreateModel 登记被测模型
func (h *ModelHandler) CreateModel(c *gin.Context) {
	var req CreateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	m := &model.LLMModel{
		Name:          req.Name,
		Provider:      req.Provider,
		Deployment:    req.Deployment,
		ParameterSize: req.ParameterSize,
		RAGMode:       req.RAGMode,
		Description:   req.Description,
		Parameters:    req.Parameters,
		Status:        req.Status,
	}
	if m.Status == "" {
		m.Status = model.LLMModelStatusActive
	}

	if err := h.svc.Registry.CreateModel(c.Request.Context(), m); err != nil {
		errorResponse(c, err)
		return
	}

	created(c, m)
}

// GetModel 获取被测模型
func (h *ModelHandler) GetModel(c *gin.Context) {
	m, err := h.svc.Registry.GetModelByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		notFound(c, "model not found")
		return
	}

	success(c, m)
}

// ListModels 列出被测模型
func (h *ModelHandler) ListModels(c *gin.Context) {
	var deployment *model.Deployment
	if v := c.Query("deployment"); v != "" {
		d := model.Deployment(v)
		deployment = &d
	}
	var ragMode *model.RAGMode
	if v := c.Query("rag_mode"); v != "" {
		m := model.RAGMode(v)
		ragMode = &m
	}

	models, err := h.svc.Registry.ListModels(c.Request.Context(), deployment, ragMode)
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, gin.H{"models": models, "total": len(models)})
}

// UpdateModel 更新被测模型
func (h *ModelHandler) UpdateModel(c *gin.Context) {
	var req UpdateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	m, err := h.svc.Registry.GetModelByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		notFound(c, "model not found")
		return
	}

	if req.Provider != nil {
		m.Provider = *req.Provider
	}
	if req.Deployment != nil {
		m.Deployment = *req.Deployment
	}
	if req.ParameterSize != nil {
		m.ParameterSize = *req.ParameterSize
	}
	if req.RAGMode != nil {
		m.RAGMode = *req.RAGMode
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.Parameters != nil {
		m.Parameters = *req.Parameters
	}
	if req.Status != nil {
		m.Status = *req.Status
	}

	if err := h.svc.Registry.UpdateModel(c.Request.Context(), m); err != nil {
		errorResponse(c, err)
		return
	}

	success(c, m)
}

// DeleteModel 删除被测模型
func (h *ModelHandler) DeleteModel(c *gin.Context) {
	if err := h.svc.Registry.DeleteModel(c.Request.Context(), c.Param("id")); err != nil {
		errorResponse(c, err)
		return
	}

	success(c, nil)
}

// ListProviders 列出支持的模型提供商
func (h *ModelHandler) ListProviders(c *gin.Context) {
	success(c, h.svc.Registry.ListProviders(c.Request.Context()))
}
