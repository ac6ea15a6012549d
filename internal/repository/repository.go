package repository

import "gorm.io/gorm"

// Repositories 仓库集合，用于统一管理所有仓库
type Repositories struct {
	DB         *gorm.DB // 直接访问数据库
	LLMModel   *LLMModelRepository
	Article    *ArticleRepository
	Prompt     *PromptRepository
	Response   *ResponseRepository
	Evaluation *EvaluationRepository
	Auth       *AuthRepository
	Guideline  *GuidelineRepository
}

// NewRepositories 创建所有仓库
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		DB:         db,
		LLMModel:   NewLLMModelRepository(db),
		Article:    NewArticleRepository(db),
		Prompt:     NewPromptRepository(db),
		Response:   NewResponseRepository(db),
		Evaluation: NewEvaluationRepository(db),
		Auth:       NewAuthRepository(db),
		Guideline:  NewGuidelineRepository(db),
	}
}
