package model

// 所有模型的统一导入点
// 用于 AutoMigrate
var AllModels = []interface{}{
	&LLMModel{},
	&Article{},
	&PromptTemplate{},
	&ModelResponse{},
	&EvaluationRun{},
	&ArticleResult{},
	&User{},
	&AuthToken{},
	&GuidelineDocument{},
	&GuidelineChunk{},
}
