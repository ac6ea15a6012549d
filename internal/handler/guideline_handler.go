package handler

import (
	"github.com/acmgbench/varbench/internal/service"
	"github.com/acmgbench/varbench/internal/service/guideline"
	"github.com/gin-gonic/gin"
)

// GuidelineHandler 指南语料处理器
type GuidelineHandler struct {
	svc *service.Services
}

// NewGuidelineHandler 创建指南语料处理器
func NewGuidelineHandler(svc *service.Services) *GuidelineHandler {
	return &GuidelineHandler{svc: svc}
}

// AddDocument 登记指南文档
func (h *GuidelineHandler) AddDocument(c *gin.Context) {
	var req guideline.AddDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	doc, err := h.svc.Guideline.AddDocument(c.Request.Context(), &req)
	if err != nil {
		errorResponse(c, err)
		return
	}

	created(c, doc)
}

// GetDocument 获取指南文档
func (h *GuidelineHandler) GetDocument(c *gin.Context) {
	doc, err := h.svc.Guideline.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		notFound(c, "guideline document not found")
		return
	}

	success(c, doc)
}

// ListDocuments 列出指南文档
func (h *GuidelineHandler) ListDocuments(c *gin.Context) {
	docs, err := h.svc.Guideline.ListDocuments(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, gin.H{"documents": docs, "total": len(docs)})
}

// DeleteDocument 删除指南文档及其分块
func (h *GuidelineHandler) DeleteDocument(c *gin.Context) {
	if err := h.svc.Guideline.DeleteDocument(c.Request.Context(), c.Param("id")); err != nil {
		errorResponse(c, err)
		return
	}

	success(c, nil)
}

// ProcessDocument 解析、切分并向量化指南文档
func (h *GuidelineHandler) ProcessDocument(c *gin.Context) {
	result, err := h.svc.Guideline.Process(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, result)
}
