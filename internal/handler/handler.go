package handler

import (
	"github.com/acmgbench/varbench/internal/service"
)

// Handlers 处理器集合
type Handlers struct {
	Auth       *AuthHandler
	Model      *ModelHandler
	Prompt     *PromptHandler
	Article    *ArticleHandler
	Response   *ResponseHandler
	Benchmark  *BenchmarkHandler
	Evaluation *EvaluationHandler
	Analytics  *AnalyticsHandler
	Guideline  *GuidelineHandler
}

// NewHandlers 创建所有处理器
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Auth:       NewAuthHandler(svc),
		Model:      NewModelHandler(svc),
		Prompt:     NewPromptHandler(svc),
		Article:    NewArticleHandler(svc),
		Response:   NewResponseHandler(svc),
		Benchmark:  NewBenchmarkHandler(svc),
		Evaluation: NewEvaluationHandler(svc),
		Analytics:  NewAnalyticsHandler(svc),
		Guideline:  NewGuidelineHandler(svc),
	}
}
