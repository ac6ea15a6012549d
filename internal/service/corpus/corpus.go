// Package corpus 扫描基准语料目录,导入金标准与各模型的原始回复
package corpus

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/acmgbench/varbench/internal/model"
	"github.com/acmgbench/varbench/internal/repository"
	"github.com/acmgbench/varbench/internal/service/extract"
	"github.com/acmgbench/varbench/internal/service/normalize"
)

var (
	pmidRe   = regexp.MustCompile(`(\d{8})`)
	qaTimeRe = regexp.MustCompile(`Q&A Time \(seconds\):\s*(\d+\.\d+)`)
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Service 语料导入服务
type Service struct {
	repo       *repository.Repositories
	extractor  *extract.Service
	normalizer *normalize.Service
}

func NewService(repo *repository.Repositories) *Service {
	return &Service{
		repo:       repo,
		extractor:  extract.NewService(),
		normalizer: normalize.NewService(),
	}
}

// ImportReport 一次目录导入的结果
type ImportReport struct {
	Imported int               `json:"imported"`
	Skipped  int               `json:"skipped"`
	Failed   map[string]string `json:"failed,omitempty"`
}

// ImportGoldStandard 导入金标准目录下的全部 JSON 文件
// 文件名中的八位数字为 PMID,同 PMID 重复导入按覆盖处理
func (s *Service) ImportGoldStandard(ctx context.Context, dir string) (*ImportReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read gold standard directory: %w", err)
	}

	report := &ImportReport{Failed: make(map[string]string)}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		pmid := ExtractPMID(entry.Name())
		if pmid == "" {
			report.Skipped++
			continue
		}

		path := filepath.Join(dir, entry.Name())
		doc, err := s.loadDocument(path)
		if err != nil {
			report.Failed[pmid] = err.Error()
			continue
		}

		article := &model.Article{
			PMID:         pmid,
			Title:        articleTitle(doc),
			Gene:         firstGene(doc),
			GoldStandard: model.JSON(doc),
			SourceFile:   entry.Name(),
		}
		if err := s.repo.Article.Upsert(ctx, article); err != nil {
			report.Failed[pmid] = err.Error()
			continue
		}
		report.Imported++
	}
	if len(report.Failed) == 0 {
		report.Failed = nil
	}
	return report, nil
}

// ImportResponses 为指定模型导入回复目录
// 每个金标准 PMID 按固定优先级匹配回复文件:
// {pmid}.json、{pmid}_01.txt、{pmid}_result.txt,最后是 {pmid}_*.txt 通配
func (s *Service) ImportResponses(ctx context.Context, llmModelID, dir string) (*ImportReport, error) {
	llm, err := s.repo.LLMModel.GetByID(ctx, llmModelID)
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}

	articles, _, err := s.repo.Article.List(ctx, "", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read response directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	report := &ImportReport{Failed: make(map[string]string)}
	for _, article := range articles {
		name := matchResponseFile(names, article.PMID)
		if name == "" {
			report.Skipped++
			continue
		}

		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			report.Failed[article.PMID] = err.Error()
			continue
		}
		content := string(bytes.TrimPrefix(raw, utf8BOM))

		resp := &model.ModelResponse{
			LLMModelID: llm.ID,
			ArticleID:  article.ID,
			PMID:       article.PMID,
			RawText:    content,
			SourceFile: name,
			QATime:     QATime(content),
			Status:     model.ResponseStatusRaw,
		}

		doc, err := s.extractor.ExtractObject(content)
		if err != nil {
			resp.Status = model.ResponseStatusFailed
			resp.ErrorMsg = err.Error()
		} else {
			resp.Extracted = model.JSON(doc)
			resp.Normalized = model.JSON(s.normalizer.Normalize(doc))
			resp.Status = model.ResponseStatusNormalized
		}

		if err := s.repo.Response.Upsert(ctx, resp); err != nil {
			report.Failed[article.PMID] = err.Error()
			continue
		}
		report.Imported++
	}
	if len(report.Failed) == 0 {
		report.Failed = nil
	}
	return report, nil
}

// ImportPrompts 导入提示词目录,每个文件一条模板
// 名称与版本取自文件名,文件名含 format/json 的归为规范化阶段
func (s *Service) ImportPrompts(ctx context.Context, dir string) (*ImportReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts directory: %w", err)
	}

	report := &ImportReport{Failed: make(map[string]string)}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".txt" && ext != ".md" {
			report.Skipped++
			continue
		}

		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			report.Failed[entry.Name()] = err.Error()
			continue
		}

		name, version := promptNameVersion(entry.Name())
		tpl := &model.PromptTemplate{
			Name:    name,
			Stage:   promptStage(entry.Name()),
			Version: version,
			Content: string(bytes.TrimPrefix(raw, utf8BOM)),
		}
		if err := s.repo.Prompt.Create(ctx, tpl); err != nil {
			report.Failed[entry.Name()] = err.Error()
			continue
		}
		report.Imported++
	}
	if len(report.Failed) == 0 {
		report.Failed = nil
	}
	return report, nil
}

var promptVersionRe = regexp.MustCompile(`(?i)_v(\d+)$`)

// promptNameVersion 拆出模板名与版本号,缺省版本为 1
func promptNameVersion(filename string) (string, int) {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	if m := promptVersionRe.FindStringSubmatch(name); m != nil {
		v, err := strconv.Atoi(m[1])
		if err == nil && v > 0 {
			return promptVersionRe.ReplaceAllString(name, ""), v
		}
	}
	return name, 1
}

func promptStage(filename string) model.PromptStage {
	lower := strings.ToLower(filename)
	if strings.Contains(lower, "format") || strings.Contains(lower, "json") {
		return model.PromptStageFormat
	}
	return model.PromptStageAssessment
}

// loadDocument 读取文件并做容错 JSON 恢复
func (s *Service) loadDocument(path string) (map[string]interface{}, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	content := string(bytes.TrimPrefix(raw, utf8BOM))
	return s.extractor.ExtractObject(content)
}

// ExtractPMID 从文件名中提取八位 PMID
func ExtractPMID(name string) string {
	m := pmidRe.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return m[1]
}

// QATime 提取回复文本中记录的问答耗时,缺失时为 0
func QATime(content string) float64 {
	m := qaTimeRe.FindStringSubmatch(content)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return v
}

// matchResponseFile 按优先级匹配某 PMID 的回复文件
func matchResponseFile(names []string, pmid string) string {
	exact := []string{pmid + ".json", pmid + "_01.txt", pmid + "_result.txt"}
	for _, want := range exact {
		for _, name := range names {
			if name == want {
				return name
			}
		}
	}
	for _, name := range names {
		if ok, _ := filepath.Match(pmid+"_*.txt", name); ok {
			return name
		}
	}
	return ""
}

func articleTitle(doc map[string]interface{}) string {
	info, _ := doc["Article Info"].(map[string]interface{})
	if info == nil {
		return ""
	}
	title, _ := info["Title"].(string)
	return title
}

func firstGene(doc map[string]interface{}) string {
	genes, _ := doc["Variants Include"].([]interface{})
	for _, g := range genes {
		if m, ok := g.(map[string]interface{}); ok {
			if gene, ok := m["Gene"].(string); ok && gene != "" {
				return gene
			}
		}
	}
	return ""
}

// ReprocessResponse 对已入库回复重新做 JSON 提取与规范化
func (s *Service) ReprocessResponse(ctx context.Context, responseID string) (*model.ModelResponse, error) {
	resp, err := s.repo.Response.GetByID(ctx, responseID)
	if err != nil {
		return nil, err
	}

	doc, err := s.extractor.ExtractObject(resp.RawText)
	if err != nil {
		resp.Status = model.ResponseStatusFailed
		resp.ErrorMsg = err.Error()
		resp.Extracted = nil
		resp.Normalized = nil
	} else {
		resp.Extracted = model.JSON(doc)
		resp.Normalized = model.JSON(s.normalizer.Normalize(doc))
		resp.Status = model.ResponseStatusNormalized
		resp.ErrorMsg = ""
	}

	if err := s.repo.Response.Update(ctx, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// NormalizeText 对任意回复文本做一次提取与规范化,不落库
func (s *Service) NormalizeText(text string) (map[string]interface{}, error) {
	doc, err := s.extractor.ExtractObject(text)
	if err != nil {
		return nil, err
	}
	return s.normalizer.Normalize(doc), nil
}

// ListArticles 列出文献,可按基因过滤
func (s *Service) ListArticles(ctx context.Context, gene string, limit, offset int) ([]*model.Article, int64, error) {
	return s.repo.Article.List(ctx, gene, limit, offset)
}

// GetArticleByPMID 根据 PMID 获取文献
func (s *Service) GetArticleByPMID(ctx context.Context, pmid string) (*model.Article, error) {
	return s.repo.Article.GetByPMID(ctx, pmid)
}

// DeleteArticle 删除文献
func (s *Service) DeleteArticle(ctx context.Context, id string) error {
	return s.repo.Article.Delete(ctx, id)
}

// ListResponses 列出某模型的回复,可按状态过滤
func (s *Service) ListResponses(ctx context.Context, llmModelID string, status *model.ResponseStatus) ([]*model.ModelResponse, error) {
	return s.repo.Response.ListByModel(ctx, llmModelID, status)
}

// GetResponse 根据 ID 获取回复
func (s *Service) GetResponse(ctx context.Context, id string) (*model.ModelResponse, error) {
	return s.repo.Response.GetByID(ctx, id)
}

// DeleteResponse 删除回复
func (s *Service) DeleteResponse(ctx context.Context, id string) error {
	return s.repo.Response.Delete(ctx, id)
}
