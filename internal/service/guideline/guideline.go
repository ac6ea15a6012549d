// Package guideline 管理 ACMG/ClinGen 指南文档:解析、分块、向量化入 ES 索引,
// 为 RAG 模式的基准模型提供检索增强上下文
package guideline

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/cloudwego/eino-ext/components/document/parser/docx"
	"github.com/cloudwego/eino-ext/components/document/parser/html"
	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	"github.com/cloudwego/eino-ext/components/document/transformer/splitter/recursive"
	einoparser "github.com/cloudwego/eino/components/document/parser"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/acmgbench/varbench/internal/config"
	"github.com/acmgbench/varbench/internal/model"
	"github.com/acmgbench/varbench/internal/repository"
)

const (
	chunkSize    = 512
	chunkOverlap = 50
)

// Service 指南文档服务
type Service struct {
	repo    *repository.Repositories
	cfg     *config.Config
	indexer Indexer
}

// NewService 创建指南文档服务。indexer 可为 nil,此时仅能登记文档,Process 会返回错误
func NewService(repo *repository.Repositories, cfg *config.Config, indexer Indexer) *Service {
	return &Service{
		repo:    repo,
		cfg:     cfg,
		indexer: indexer,
	}
}

// AddDocumentRequest 登记指南文档请求
type AddDocumentRequest struct {
	Title    string `json:"title" binding:"required"`
	FileName string `json:"file_name" binding:"required"`
	FilePath string `json:"file_path" binding:"required"`
	Source   string `json:"source"`
}

// AddDocument 登记一份指南文档,等待处理
func (s *Service) AddDocument(ctx context.Context, req *AddDocumentRequest) (*model.GuidelineDocument, error) {
	info, err := os.Stat(req.FilePath)
	if err != nil {
		return nil, fmt.Errorf("guideline file not accessible: %w", err)
	}

	doc := &model.GuidelineDocument{
		Title:    req.Title,
		FileName: req.FileName,
		FilePath: req.FilePath,
		FileSize: info.Size(),
		Source:   req.Source,
		Status:   model.GuidelineStatusPending,
	}

	if err := s.repo.Guideline.CreateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create guideline document: %w", err)
	}
	return doc, nil
}

// GetDocument 获取指南文档
func (s *Service) GetDocument(ctx context.Context, id string) (*model.GuidelineDocument, error) {
	return s.repo.Guideline.GetDocumentByID(ctx, id)
}

// ListDocuments 列出全部指南文档
func (s *Service) ListDocuments(ctx context.Context) ([]*model.GuidelineDocument, error) {
	return s.repo.Guideline.ListDocuments(ctx)
}

// DeleteDocument 删除指南文档及其分块
func (s *Service) DeleteDocument(ctx context.Context, id string) error {
	if err := s.repo.Guideline.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("failed to delete guideline document: %w", err)
	}
	return nil
}

// ProcessResult 处理结果
type ProcessResult struct {
	DocumentID string        `json:"document_id"`
	Success    bool          `json:"success"`
	ParsedDocs int           `json:"parsed_docs"`
	Chunks     int           `json:"chunks"`
	Duration   time.Duration `json:"duration"`
	Error      string        `json:"error,omitempty"`
}

// Process 处理指南文档:解析、分块、向量化并写入 ES 索引
func (s *Service) Process(ctx context.Context, documentID string) (*ProcessResult, error) {
	start := time.Now()
	result := &ProcessResult{DocumentID: documentID}

	if s.indexer == nil {
		result.Error = "indexer not configured"
		return result, fmt.Errorf("guideline indexer not configured")
	}

	doc, err := s.repo.Guideline.GetDocumentByID(ctx, documentID)
	if err != nil {
		result.Error = err.Error()
		return result, fmt.Errorf("guideline document not found: %w", err)
	}

	doc.Status = model.GuidelineStatusProcessing
	if err := s.repo.Guideline.UpdateDocument(ctx, doc); err != nil {
		log.Printf("Warning: failed to mark guideline document processing: %v", err)
	}

	chunks, parsed, err := s.parseAndSplit(ctx, doc)
	if err != nil {
		s.markFailed(ctx, doc, err)
		result.Error = err.Error()
		return result, err
	}
	result.ParsedDocs = parsed
	result.Chunks = len(chunks)

	// 重新索引前清掉旧分块
	if err := s.repo.Guideline.DeleteChunksByDocument(ctx, doc.ID); err != nil {
		s.markFailed(ctx, doc, err)
		result.Error = err.Error()
		return result, fmt.Errorf("failed to clear old chunks: %w", err)
	}
	if err := s.repo.Guideline.CreateChunks(ctx, chunks); err != nil {
		s.markFailed(ctx, doc, err)
		result.Error = err.Error()
		return result, fmt.Errorf("failed to save chunks: %w", err)
	}

	if err := s.indexer.EnsureIndex(ctx); err != nil {
		s.markFailed(ctx, doc, err)
		result.Error = err.Error()
		return result, fmt.Errorf("failed to ensure index: %w", err)
	}

	ids, err := s.indexer.Store(ctx, ChunksToDocuments(chunks))
	if err != nil {
		s.markFailed(ctx, doc, err)
		result.Error = err.Error()
		return result, fmt.Errorf("failed to index chunks: %w", err)
	}
	log.Printf("Indexed %d guideline chunks for %s", len(ids), doc.FileName)

	doc.Status = model.GuidelineStatusIndexed
	doc.ChunkCount = len(chunks)
	doc.ErrorMsg = ""
	if err := s.repo.Guideline.UpdateDocument(ctx, doc); err != nil {
		log.Printf("Warning: failed to update guideline document status: %v", err)
	}

	result.Duration = time.Since(start)
	result.Success = true
	return result, nil
}

func (s *Service) markFailed(ctx context.Context, doc *model.GuidelineDocument, cause error) {
	doc.Status = model.GuidelineStatusFailed
	doc.ErrorMsg = cause.Error()
	if err := s.repo.Guideline.UpdateDocument(ctx, doc); err != nil {
		log.Printf("Warning: failed to mark guideline document failed: %v", err)
	}
}

// parseAndSplit 解析文档并按递归分割器分块
func (s *Service) parseAndSplit(ctx context.Context, doc *model.GuidelineDocument) ([]*model.GuidelineChunk, int, error) {
	parsed, err := s.parseDocument(ctx, doc)
	if err != nil {
		return nil, 0, err
	}
	if len(parsed) == 0 {
		return nil, 0, fmt.Errorf("no content parsed from %s", doc.FileName)
	}

	splitter, err := recursive.NewSplitter(ctx, &recursive.Config{
		ChunkSize:   chunkSize,
		OverlapSize: chunkOverlap,
		Separators:  []string{"\n\n", "\n", ". ", "。", "? ", "？", "! ", "！", ", ", "，", " ", ""},
		KeepType:    recursive.KeepTypeNone,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create splitter: %w", err)
	}

	splitDocs, err := splitter.Transform(ctx, parsed)
	if err != nil {
		return nil, 0, fmt.Errorf("splitter failed: %w", err)
	}

	chunks := make([]*model.GuidelineChunk, 0, len(splitDocs))
	for i, sd := range splitDocs {
		chunks = append(chunks, &model.GuidelineChunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			ChunkIndex: i,
			Content:    sd.Content,
			Metadata: model.JSON{
				"chunk_index":    i,
				"document_id":    doc.ID,
				"document_title": doc.Title,
				"source":         doc.Source,
			},
		})
	}
	return chunks, len(parsed), nil
}

// parseDocument 按扩展名选择解析器读取文档
func (s *Service) parseDocument(ctx context.Context, doc *model.GuidelineDocument) ([]*schema.Document, error) {
	if doc.FilePath == "" {
		return nil, fmt.Errorf("file path is empty")
	}

	fileParser, err := newParser(ctx, doc.FilePath)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(doc.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	docs, err := fileParser.Parse(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("parser failed: %w", err)
	}

	for _, d := range docs {
		if d.MetaData == nil {
			d.MetaData = make(map[string]any)
		}
		d.MetaData["document_id"] = doc.ID
		d.MetaData["document_title"] = doc.Title
		d.MetaData["file_name"] = doc.FileName
	}
	return docs, nil
}

// newParser 创建解析器
func newParser(ctx context.Context, filePath string) (einoparser.Parser, error) {
	switch fileExt(filePath) {
	case ".pdf":
		return pdf.NewPDFParser(ctx, &pdf.Config{ToPages: false})
	case ".docx":
		return docx.NewDocxParser(ctx, &docx.Config{
			ToSections:      false,
			IncludeComments: false,
			IncludeHeaders:  true,
			IncludeFooters:  false,
			IncludeTables:   true,
		})
	case ".html", ".htm":
		bodySelector := "body"
		return html.NewParser(ctx, &html.Config{Selector: &bodySelector})
	case ".txt", ".md":
		return &textParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file type: %s", fileExt(filePath))
	}
}

// textParser 纯文本解析器
type textParser struct{}

func (p *textParser) Parse(_ context.Context, reader io.Reader, opts ...einoparser.Option) ([]*schema.Document, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read: %w", err)
	}
	if len(content) == 0 {
		return []*schema.Document{}, nil
	}
	return []*schema.Document{
		{Content: string(content), MetaData: make(map[string]any)},
	}, nil
}

// fileExt 取文件扩展名,含点号
func fileExt(filePath string) string {
	for i := len(filePath) - 1; i >= 0; i-- {
		if filePath[i] == '.' {
			return filePath[i:]
		}
	}
	return ""
}

// ChunksToDocuments 将指南分块转换为 Eino Document
func ChunksToDocuments(chunks []*model.GuidelineChunk) []*schema.Document {
	docs := make([]*schema.Document, len(chunks))
	for i, chunk := range chunks {
		metadata := make(map[string]any)
		for k, v := range chunk.Metadata {
			metadata[k] = v
		}
		metadata["document_id"] = chunk.DocumentID
		metadata["chunk_index"] = chunk.ChunkIndex

		docs[i] = &schema.Document{
			ID:       chunk.ID,
			Content:  chunk.Content,
			MetaData: metadata,
		}
	}
	return docs
}
