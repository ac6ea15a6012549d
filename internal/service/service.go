package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/acmgbench/varbench/internal/config"
	"github.com/acmgbench/varbench/internal/model"
	"github.com/acmgbench/varbench/internal/repository"
	"github.com/acmgbench/varbench/internal/service/analytics"
	"github.com/acmgbench/varbench/internal/service/auth"
	"github.com/acmgbench/varbench/internal/service/callback"
	"github.com/acmgbench/varbench/internal/service/corpus"
	"github.com/acmgbench/varbench/internal/service/evaluation"
	"github.com/acmgbench/varbench/internal/service/event"
	"github.com/acmgbench/varbench/internal/service/guideline"
	"github.com/acmgbench/varbench/internal/service/progress"
	"github.com/acmgbench/varbench/internal/service/registry"
	"github.com/acmgbench/varbench/internal/service/runner"
	"github.com/cloudwego/eino-ext/components/embedding/dashscope"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino-ext/components/retriever/es8"
	"github.com/cloudwego/eino-ext/components/retriever/es8/search_mode"
	"github.com/cloudwego/eino/components/embedding"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/retriever"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
)

// Services 服务集合
type Services struct {
	// 业务服务
	Auth       *auth.Service
	Corpus     *corpus.Service
	Registry   *registry.Service
	Runner     *runner.Service
	Guideline  *guideline.Service
	Evaluation *evaluation.Service
	Analytics  *analytics.Service

	// 配置
	Config  *config.Config
	Tracker *progress.Tracker

	// Eino 组件（直接使用 eino 类型,无封装）
	Embedder  embedding.Embedder
	Retriever retriever.Retriever
}

// NewServices 创建所有服务
// 使用简单的 newXxx() 函数直接初始化 eino 组件
func NewServices(repo *repository.Repositories, cfg *config.Config, redisClient *redis.Client) (*Services, error) {
	ctx := context.Background()

	// 注册 Eino 全局回调日志
	callback.SetupGlobalCallbacks(cfg.App.Debug)

	// 创建进度跟踪器与事件存储
	tracker := progress.NewTracker(redisClient)
	eventStore := event.NewMemoryStore()

	// 创建 Embedding 器
	embedder := newEmbedder(ctx, cfg)

	// 创建指南语料的 ES8 Retriever
	var guidelineRetriever retriever.Retriever
	if embedder != nil {
		if r := newES8Retriever(ctx, cfg, embedder); r != nil {
			guidelineRetriever = r
		}
	}

	// 创建指南语料的 ES8 Indexer
	var indexer guideline.Indexer
	if embedder != nil {
		idx, err := guideline.NewES8Indexer(ctx, cfg, embedder)
		if err != nil {
			log.Printf("Warning: failed to create guideline indexer: %v", err)
		} else {
			indexer = idx
		}
	}

	analyticsSvc, err := analytics.NewService(repo, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to init analytics: %w", err)
	}

	return &Services{
		Auth:       auth.NewService(repo),
		Corpus:     corpus.NewService(repo),
		Registry:   registry.NewService(repo),
		Runner:     runner.NewService(repo, cfg, newChatModelForLLM, guidelineRetriever),
		Guideline:  guideline.NewService(repo, cfg, indexer),
		Evaluation: evaluation.NewService(repo, tracker, eventStore),
		Analytics:  analyticsSvc,

		Config:  cfg,
		Tracker: tracker,

		Embedder:  embedder,
		Retriever: guidelineRetriever,
	}, nil
}

// Close 释放持有的资源
func (s *Services) Close() error {
	if s.Analytics != nil {
		return s.Analytics.Close()
	}
	return nil
}

// newChatModelForLLM 按被测模型的登记信息创建 ChatModel
// Parameters 中的 base_url / api_key / model / temperature 优先,缺省回退到提供商默认值
func newChatModelForLLM(ctx context.Context, llm *model.LLMModel) (einomodel.ChatModel, error) {
	params := map[string]interface{}(llm.Parameters)

	var apiKey, baseURL, modelName string

	switch llm.Provider {
	case "openai":
		baseURL = ""
	case "alibaba", "qwen", "dashscope":
		baseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"
	case "deepseek":
		baseURL = "https://api.deepseek.com/v1"
	case "ollama":
		baseURL = "http://localhost:11434/v1"
		apiKey = "ollama"
	default:
		return nil, fmt.Errorf("unsupported provider: %s", llm.Provider)
	}

	if v, ok := params["base_url"].(string); ok && v != "" {
		baseURL = v
	}
	if v, ok := params["api_key"].(string); ok && v != "" {
		apiKey = v
	}
	if v, ok := params["model"].(string); ok && v != "" {
		modelName = v
	}
	if modelName == "" {
		modelName = llm.Name
	}
	if apiKey == "" {
		return nil, fmt.Errorf("api_key is required for model %s", llm.Name)
	}

	chatCfg := &openai.ChatModelConfig{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Model:   modelName,
	}
	if v, ok := params["temperature"].(float64); ok {
		temperature := float32(v)
		chatCfg.Temperature = &temperature
	}

	return openai.NewChatModel(ctx, chatCfg)
}

// newEmbedder 创建 Embedding 器
func newEmbedder(ctx context.Context, cfg *config.Config) embedding.Embedder {
	embCfg := cfg.AI.Embedding

	var apiKey, model string
	var timeout int

	switch embCfg.Provider {
	case "alibaba", "qwen", "dashscope", "":
		apiKey = embCfg.APIKey
		model = embCfg.Model
		timeout = embCfg.Timeout
	default:
		log.Printf("Warning: unsupported embedding provider: %s", embCfg.Provider)
		return nil
	}

	if apiKey == "" {
		log.Printf("Warning: embedding api_key is empty")
		return nil
	}

	if model == "" {
		model = "text-embedding-v3"
	}

	embConfig := &dashscope.EmbeddingConfig{
		APIKey: apiKey,
		Model:  model,
	}

	if timeout > 0 {
		embConfig.Timeout = time.Duration(timeout) * time.Second
	}

	if embCfg.Dimensions > 0 {
		embConfig.Dimensions = &embCfg.Dimensions
	}

	embedder, err := dashscope.NewEmbedder(ctx, embConfig)
	if err != nil {
		log.Printf("Warning: failed to create embedder: %v", err)
		return nil
	}

	return embedder
}

// newES8Retriever 创建指南语料的 ES8 检索器,索引与指南 Indexer 一致
func newES8Retriever(ctx context.Context, cfg *config.Config, embedder embedding.Embedder) *es8.Retriever {
	esCfg := cfg.Elastic

	if esCfg.Host == "" {
		log.Printf("Warning: elasticsearch host not configured")
		return nil
	}

	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{esCfg.Host},
		Username:  esCfg.Username,
		Password:  esCfg.Password,
	})
	if err != nil {
		log.Printf("Warning: failed to create es client: %v", err)
		return nil
	}

	indexName := esCfg.IndexPrefix + "_guideline"

	rtr, err := es8.NewRetriever(ctx, &es8.RetrieverConfig{
		Client:     esClient,
		Index:      indexName,
		TopK:       5,
		SearchMode: search_mode.SearchModeDenseVectorSimilarity(search_mode.DenseVectorSimilarityTypeCosineSimilarity, "content_vector"),
		Embedding:  embedder,
	})
	if err != nil {
		log.Printf("Warning: failed to create retriever: %v", err)
		return nil
	}

	return rtr
}
