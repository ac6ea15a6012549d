package handler

import (
	"path/filepath"

	"github.com/acmgbench/varbench/internal/service"
	"github.com/gin-gonic/gin"
)

// ArticleHandler 文献与语料导入处理器
type ArticleHandler struct {
	svc *service.Services
}

// NewArticleHandler 创建文献处理器
func NewArticleHandler(svc *service.Services) *ArticleHandler {
	return &ArticleHandler{svc: svc}
}

// ImportGoldStandardRequest 导入金标准请求
type ImportGoldStandardRequest struct {
	Dir string `json:"dir"`
}

// ImportGoldStandard 导入金标准目录
func (h *ArticleHandler) ImportGoldStandard(c *gin.Context) {
	var req ImportGoldStandardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Dir == "" {
		cfg := h.svc.Config.Benchmark
		req.Dir = filepath.Join(cfg.CorpusDir, cfg.GoldStandard)
	}

	report, err := h.svc.Corpus.ImportGoldStandard(c.Request.Context(), req.Dir)
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, report)
}

// ImportPromptsRequest 导入提示词请求
type ImportPromptsRequest struct {
	Dir string `json:"dir"`
}

// ImportPrompts 导入提示词目录
func (h *ArticleHandler) ImportPrompts(c *gin.Context) {
	var req ImportPromptsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Dir == "" {
		cfg := h.svc.Config.Benchmark
		req.Dir = filepath.Join(cfg.CorpusDir, cfg.Prompts)
	}

	report, err := h.svc.Corpus.ImportPrompts(c.Request.Context(), req.Dir)
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, report)
}

// ImportResponsesRequest 导入模型回复请求
type ImportResponsesRequest struct {
	LLMModelID string `json:"llm_model_id" binding:"required"`
	Dir        string `json:"dir" binding:"required"`
}

// ImportResponses 为指定模型导入回复目录
func (h *ArticleHandler) ImportResponses(c *gin.Context) {
	var req ImportResponsesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	report, err := h.svc.Corpus.ImportResponses(c.Request.Context(), req.LLMModelID, req.Dir)
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, report)
}

// ListArticles 列出文献,可按基因过滤
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	page, size := getPagination(c)
	gene := c.Query("gene")

	articles, total, err := h.svc.Corpus.ListArticles(c.Request.Context(), gene, size, (page-1)*size)
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, gin.H{
		"articles": articles,
		"total":    total,
		"page":     page,
		"size":     size,
	})
}

// GetArticle 获取单篇文献及其金标准
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	article, err := h.svc.Corpus.GetArticleByPMID(c.Request.Context(), c.Param("pmid"))
	if err != nil {
		notFound(c, "article not found")
		return
	}

	success(c, article)
}

// DeleteArticle 删除文献
func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	article, err := h.svc.Corpus.GetArticleByPMID(c.Request.Context(), c.Param("pmid"))
	if err != nil {
		notFound(c, "article not found")
		return
	}

	if err := h.svc.Corpus.DeleteArticle(c.Request.Context(), article.ID); err != nil {
		errorResponse(c, err)
		return
	}

	success(c, nil)
}
