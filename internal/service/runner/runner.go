// Package runner 驱动在线模型执行基准问答:渲染提示词、调用 ChatModel、落库原始回复
package runner

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"

	"github.com/acmgbench/varbench/internal/config"
	"github.com/acmgbench/varbench/internal/model"
	"github.com/acmgbench/varbench/internal/repository"
	"github.com/acmgbench/varbench/internal/service/corpus"
	"github.com/acmgbench/varbench/internal/service/extract"
	"github.com/acmgbench/varbench/internal/service/normalize"

	einomodel "github.com/cloudwego/eino/components/model"
)

// 提示词模板中的占位符
const (
	placeholderPaper     = "{{paper}}"
	placeholderGuideline = "{{guideline}}"
)

// ChatModelFactory 按模型登记信息构造 ChatModel
type ChatModelFactory func(ctx context.Context, llm *model.LLMModel) (einomodel.ChatModel, error)

// Service 基准执行服务
type Service struct {
	repo       *repository.Repositories
	cfg        *config.Config
	factory    ChatModelFactory
	retriever  retriever.Retriever // 指南检索器,仅 RAG 模式模型使用
	extractor  *extract.Service
	normalizer *normalize.Service
}

func NewService(repo *repository.Repositories, cfg *config.Config, factory ChatModelFactory, rtr retriever.Retriever) *Service {
	return &Service{
		repo:       repo,
		cfg:        cfg,
		factory:    factory,
		retriever:  rtr,
		extractor:  extract.NewService(),
		normalizer: normalize.NewService(),
	}
}

// RunRequest 一次基准执行请求
type RunRequest struct {
	LLMModelID string `json:"llm_model_id" binding:"required"`
	// PapersDir 文献全文目录,文件名含 PMID
	PapersDir string `json:"papers_dir" binding:"required"`
}

// RunReport 执行结果统计
type RunReport struct {
	Answered int               `json:"answered"`
	Skipped  int               `json:"skipped"`
	Failed   map[string]string `json:"failed,omitempty"`
}

// Run 对全部文献执行问答,按配置的并发度推进
func (s *Service) Run(ctx context.Context, req *RunRequest) (*RunReport, error) {
	llm, err := s.repo.LLMModel.GetByID(ctx, req.LLMModelID)
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}

	chatModel, err := s.factory(ctx, llm)
	if err != nil {
		return nil, fmt.Errorf("failed to build chat model: %w", err)
	}

	tpl, err := s.repo.Prompt.GetLatestByStage(ctx, model.PromptStageAssessment)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt template: %w", err)
	}

	articles, _, err := s.repo.Article.List(ctx, "", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	paperFiles, err := paperIndex(req.PapersDir)
	if err != nil {
		return nil, err
	}

	workers := s.cfg.Benchmark.Workers
	if workers <= 0 {
		workers = 1
	}

	type outcome struct {
		pmid string
		err  error
		skip bool
	}

	jobs := make(chan *model.Article)
	outcomes := make(chan outcome, len(articles))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for article := range jobs {
				name, ok := paperFiles[article.PMID]
				if !ok {
					outcomes <- outcome{pmid: article.PMID, skip: true}
					continue
				}
				err := s.answerArticle(ctx, llm, chatModel, tpl, article, filepath.Join(req.PapersDir, name))
				outcomes <- outcome{pmid: article.PMID, err: err}
			}
		}()
	}

	for _, article := range articles {
		jobs <- article
	}
	close(jobs)
	wg.Wait()
	close(outcomes)

	report := &RunReport{Failed: make(map[string]string)}
	for o := range outcomes {
		switch {
		case o.skip:
			report.Skipped++
		case o.err != nil:
			report.Failed[o.pmid] = o.err.Error()
		default:
			report.Answered++
		}
	}
	if len(report.Failed) == 0 {
		report.Failed = nil
	}
	return report, nil
}

// answerArticle 对单篇文献做一轮问答并落库
func (s *Service) answerArticle(ctx context.Context, llm *model.LLMModel, chatModel einomodel.ChatModel, tpl *model.PromptTemplate, article *model.Article, paperPath string) error {
	raw, err := os.ReadFile(paperPath)
	if err != nil {
		return fmt.Errorf("failed to read paper: %w", err)
	}

	prompt, err := s.renderPrompt(ctx, llm, tpl.Content, string(raw))
	if err != nil {
		return err
	}

	timeout := time.Duration(s.cfg.Benchmark.RequestTimeout) * time.Second
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	answer, err := chatModel.Generate(cctx, []*schema.Message{
		{Role: schema.System, Content: "You are an expert in clinical genetics and functional variant interpretation."},
		{Role: schema.User, Content: prompt},
	})
	elapsed := time.Since(start).Seconds()
	if err != nil {
		return fmt.Errorf("chat model generate: %w", err)
	}

	resp := &model.ModelResponse{
		LLMModelID: llm.ID,
		ArticleID:  article.ID,
		PMID:       article.PMID,
		RawText:    answer.Content,
		QATime:     elapsed,
		Status:     model.ResponseStatusRaw,
	}

	doc, err := s.extractor.ExtractObject(answer.Content)
	if err != nil {
		resp.Status = model.ResponseStatusFailed
		resp.ErrorMsg = err.Error()
		log.Printf("benchmark run: pmid %s: json recovery failed: %v", article.PMID, err)
	} else {
		resp.Extracted = model.JSON(doc)
		resp.Normalized = model.JSON(s.normalizer.Normalize(doc))
		resp.Status = model.ResponseStatusNormalized
	}

	if err := s.repo.Response.Upsert(ctx, resp); err != nil {
		return fmt.Errorf("failed to save response: %w", err)
	}
	return nil
}

// renderPrompt 填充模板占位符,RAG 模式模型附带检索到的指南片段
func (s *Service) renderPrompt(ctx context.Context, llm *model.LLMModel, template, paper string) (string, error) {
	prompt := strings.ReplaceAll(template, placeholderPaper, paper)

	if llm.RAGMode == model.RAGModeGuideline {
		if s.retriever == nil {
			return "", fmt.Errorf("model %s requires guideline retrieval but no retriever is configured", llm.Name)
		}
		docs, err := s.retriever.Retrieve(ctx, guidelineQuery(paper))
		if err != nil {
			return "", fmt.Errorf("guideline retrieval: %w", err)
		}
		var b strings.Builder
		for _, doc := range docs {
			b.WriteString(doc.Content)
			b.WriteString("\n\n")
		}
		prompt = strings.ReplaceAll(prompt, placeholderGuideline, strings.TrimSpace(b.String()))
	} else {
		prompt = strings.ReplaceAll(prompt, placeholderGuideline, "")
	}

	return prompt, nil
}

// guidelineQuery 取文献开头作为指南检索的查询,避免超长输入
func guidelineQuery(paper string) string {
	const maxQuery = 2000
	if len(paper) > maxQuery {
		return paper[:maxQuery]
	}
	return paper
}

// paperIndex 建立 PMID 到全文文件名的索引
func paperIndex(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read papers directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	index := make(map[string]string)
	for _, name := range names {
		pmid := corpus.ExtractPMID(name)
		if pmid == "" {
			continue
		}
		if _, seen := index[pmid]; !seen {
			index[pmid] = name
		}
	}
	return index, nil
}
