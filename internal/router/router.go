package router

import (
	"github.com/acmgbench/varbench/internal/handler"
	"github.com/acmgbench/varbench/internal/middleware"
	"github.com/acmgbench/varbench/internal/service"
	"github.com/gin-gonic/gin"
)

// SetupRouter 设置路由
func SetupRouter(h *handler.Handlers, svc *service.Services) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.AuthMiddleware(svc))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1
	v1 := r.Group("/api/v1")
	{
		// Auth 认证
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.GET("/validate", h.Auth.ValidateToken)
			auth.POST("/refresh", h.Auth.RefreshToken)
			auth.POST("/logout", h.Auth.Logout)
			auth.GET("/me", middleware.RequireAuth(svc), h.Auth.GetCurrentUser)
			auth.POST("/change-password", middleware.RequireAuth(svc), h.Auth.ChangePassword)
		}

		// Models 被测模型
		models := v1.Group("/models")
		{
			models.POST("", middleware.RequireAuth(svc), h.Model.CreateModel)
			models.GET("", h.Model.ListModels)
			models.GET("/providers", h.Model.ListProviders)
			models.GET("/:id", h.Model.GetModel)
			models.PUT("/:id", middleware.RequireAuth(svc), h.Model.UpdateModel)
			models.DELETE("/:id", middleware.RequireAuth(svc), h.Model.DeleteModel)
		}

		// Prompts 提示词模板
		prompts := v1.Group("/prompts")
		{
			prompts.POST("", middleware.RequireAuth(svc), h.Prompt.CreatePrompt)
			prompts.GET("", h.Prompt.ListPrompts)
			prompts.GET("/:id", h.Prompt.GetPrompt)
			prompts.PUT("/:id", middleware.RequireAuth(svc), h.Prompt.UpdatePrompt)
			prompts.DELETE("/:id", middleware.RequireAuth(svc), h.Prompt.DeletePrompt)
		}

		// Articles 文献与语料
		articles := v1.Group("/articles")
		{
			articles.GET("", h.Article.ListArticles)
			articles.GET("/:pmid", h.Article.GetArticle)
			articles.DELETE("/:pmid", middleware.RequireAuth(svc), h.Article.DeleteArticle)
		}
		imports := v1.Group("/imports", middleware.RequireAuth(svc))
		{
			imports.POST("/gold-standard", h.Article.ImportGoldStandard)
			imports.POST("/responses", h.Article.ImportResponses)
			imports.POST("/prompts", h.Article.ImportPrompts)
		}

		// Responses 模型回复
		responses := v1.Group("/responses")
		{
			responses.GET("", h.Response.ListResponses)
			responses.GET("/:id", h.Response.GetResponse)
			responses.POST("/:id/reprocess", middleware.RequireAuth(svc), h.Response.ReprocessResponse)
			responses.DELETE("/:id", middleware.RequireAuth(svc), h.Response.DeleteResponse)
		}
		v1.POST("/normalize", h.Response.Normalize)
		v1.POST("/rate", h.Response.Rate)

		// Benchmark 在线跑测
		v1.POST("/benchmark/run", middleware.RequireAuth(svc), h.Benchmark.Run)

		// Evaluations 评估任务
		evaluations := v1.Group("/evaluations")
		{
			evaluations.POST("", middleware.RequireAuth(svc), h.Evaluation.StartRun)
			evaluations.GET("", h.Evaluation.ListRuns)
			evaluations.GET("/:id", h.Evaluation.GetRun)
			evaluations.DELETE("/:id", middleware.RequireAuth(svc), h.Evaluation.DeleteRun)
			evaluations.POST("/:id/cancel", middleware.RequireAuth(svc), h.Evaluation.CancelRun)
			evaluations.GET("/:id/progress", h.Evaluation.GetProgress)
			evaluations.GET("/:id/results", h.Evaluation.ListArticleResults)
			evaluations.GET("/:id/events", h.Evaluation.ListEvents)
		}

		// Analytics 统计分析
		analytics := v1.Group("/analytics")
		{
			analytics.GET("/leaderboard", h.Analytics.Leaderboard)
			analytics.GET("/field-difficulty", h.Analytics.FieldDifficulty)
		}

		// Guidelines 指南语料
		guidelines := v1.Group("/guidelines")
		{
			guidelines.POST("", middleware.RequireAuth(svc), h.Guideline.AddDocument)
			guidelines.GET("", h.Guideline.ListDocuments)
			guidelines.GET("/:id", h.Guideline.GetDocument)
			guidelines.DELETE("/:id", middleware.RequireAuth(svc), h.Guideline.DeleteDocument)
			guidelines.POST("/:id/process", middleware.RequireAuth(svc), h.Guideline.ProcessDocument)
		}
	}

	return r
}
