package handler

import (
	"github.com/acmgbench/varbench/internal/model"
	"github.com/acmgbench/varbench/internal/service"
	"github.com/acmgbench/varbench/internal/service/rating"
	"github.com/gin-gonic/gin"
)

// ResponseHandler 模型回复处理器
type ResponseHandler struct {
	svc *service.Services
}

// NewResponseHandler 创建模型回复处理器
func NewResponseHandler(svc *service.Services) *ResponseHandler {
	return &ResponseHandler{svc: svc}
}

// ListResponses 列出某模型的全部回复
func (h *ResponseHandler) ListResponses(c *gin.Context) {
	modelID := c.Query("llm_model_id")
	if modelID == "" {
		notFound(c, "llm_model_id is required")
		return
	}

	var status *model.ResponseStatus
	if v := c.Query("status"); v != "" {
		s := model.ResponseStatus(v)
		status = &s
	}

	responses, err := h.svc.Corpus.ListResponses(c.Request.Context(), modelID, status)
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, gin.H{"responses": responses, "total": len(responses)})
}

// GetResponse 获取单条回复
func (h *ResponseHandler) GetResponse(c *gin.Context) {
	resp, err := h.svc.Corpus.GetResponse(c.Request.Context(), c.Param("id"))
	if err != nil {
		notFound(c, "response not found")
		return
	}

	success(c, resp)
}

// ReprocessResponse 重新提取并规范化已入库回复
func (h *ResponseHandler) ReprocessResponse(c *gin.Context) {
	resp, err := h.svc.Corpus.ReprocessResponse(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, resp)
}

// DeleteResponse 删除回复
func (h *ResponseHandler) DeleteResponse(c *gin.Context) {
	if err := h.svc.Corpus.DeleteResponse(c.Request.Context(), c.Param("id")); err != nil {
		errorResponse(c, err)
		return
	}

	success(c, nil)
}

// NormalizeRequest 临时规范化请求
type NormalizeRequest struct {
	Text string `json:"text" binding:"required"`
}

// Normalize 对任意回复文本做一次提取与规范化,不落库
func (h *ResponseHandler) Normalize(c *gin.Context) {
	var req NormalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	doc, err := h.svc.Corpus.NormalizeText(req.Text)
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, doc)
}

// Rate 对任意回复文本做变异级结论分析,不落库
func (h *ResponseHandler) Rate(c *gin.Context) {
	var req NormalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	doc, err := h.svc.Corpus.NormalizeText(req.Text)
	if err != nil {
		errorResponse(c, err)
		return
	}

	findings := rating.AnalyzeVariants(doc)
	out := make([]gin.H, 0, len(findings))
	for _, f := range findings {
		out = append(out, gin.H{
			"label":         f.Label(),
			"pathogenicity": f.PathogenicityText(),
			"finding":       f,
		})
	}

	success(c, gin.H{"variants": out, "total": len(out)})
}
