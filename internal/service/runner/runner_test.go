// Package runner 提供基准执行服务单元测试
package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"

	"github.com/acmgbench/varbench/internal/model"
)

// ========== mockGuidelineRetriever ==========

type mockGuidelineRetriever struct {
	documents []*schema.Document
	err       error
}

func newMockGuidelineRetriever(docs []*schema.Document, err error) retriever.Retriever {
	return &mockGuidelineRetriever{documents: docs, err: err}
}

func (m *mockGuidelineRetriever) Retrieve(ctx context.Context, query string, opts ...retriever.Option) ([]*schema.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.documents, nil
}

// ========== renderPrompt 测试 ==========

func TestRenderPrompt_NoRAG(t *testing.T) {
	svc := &Service{}
	llm := &model.LLMModel{Name: "gpt-4o", RAGMode: model.RAGModeNone}

	prompt, err := svc.renderPrompt(context.Background(), llm,
		"Read the paper:\n{{paper}}\n{{guideline}}", "PAPER TEXT")
	if err != nil {
		t.Fatalf("renderPrompt() error = %v", err)
	}
	if !strings.Contains(prompt, "PAPER TEXT") {
		t.Error("renderPrompt() did not substitute paper text")
	}
	if strings.Contains(prompt, "{{") {
		t.Errorf("renderPrompt() left placeholder in %q", prompt)
	}
}

func TestRenderPrompt_Guideline(t *testing.T) {
	docs := []*schema.Document{
		{Content: "PS3 requires validated functional assays."},
		{Content: "BS3 requires normal function in a validated assay."},
	}
	svc := &Service{retriever: newMockGuidelineRetriever(docs, nil)}
	llm := &model.LLMModel{Name: "qwen-max", RAGMode: model.RAGModeGuideline}

	prompt, err := svc.renderPrompt(context.Background(), llm,
		"Guidelines:\n{{guideline}}\nPaper:\n{{paper}}", "PAPER TEXT")
	if err != nil {
		t.Fatalf("renderPrompt() error = %v", err)
	}
	if !strings.Contains(prompt, "PS3 requires validated functional assays.") {
		t.Error("renderPrompt() missing first retrieved snippet")
	}
	if !strings.Contains(prompt, "BS3 requires normal function") {
		t.Error("renderPrompt() missing second retrieved snippet")
	}
}

func TestRenderPrompt_GuidelineWithoutRetriever(t *testing.T) {
	svc := &Service{}
	llm := &model.LLMModel{Name: "qwen-max", RAGMode: model.RAGModeGuideline}

	if _, err := svc.renderPrompt(context.Background(), llm, "{{paper}}", "text"); err == nil {
		t.Error("renderPrompt() expected error when retriever is missing")
	}
}

func TestRenderPrompt_RetrieverError(t *testing.T) {
	svc := &Service{retriever: newMockGuidelineRetriever(nil, errors.New("es down"))}
	llm := &model.LLMModel{Name: "qwen-max", RAGMode: model.RAGModeGuideline}

	if _, err := svc.renderPrompt(context.Background(), llm, "{{paper}}{{guideline}}", "text"); err == nil {
		t.Error("renderPrompt() expected retrieval error to propagate")
	}
}

// ========== guidelineQuery 测试 ==========

func TestGuidelineQuery_Truncates(t *testing.T) {
	long := strings.Repeat("a", 5000)
	if got := guidelineQuery(long); len(got) != 2000 {
		t.Errorf("guidelineQuery() len = %d, want 2000", len(got))
	}
	if got := guidelineQuery("short"); got != "short" {
		t.Errorf("guidelineQuery() = %q, want unchanged", got)
	}
}

// ========== paperIndex 测试 ==========

func TestPaperIndex(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		"30000001_fulltext.txt",
		"30000002.txt",
		"notes.txt", // 无 PMID,应被忽略
	}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	index, err := paperIndex(dir)
	if err != nil {
		t.Fatalf("paperIndex() error = %v", err)
	}
	if len(index) != 2 {
		t.Fatalf("paperIndex() len = %d, want 2", len(index))
	}
	if index["30000001"] != "30000001_fulltext.txt" {
		t.Errorf("paperIndex()[30000001] = %q", index["30000001"])
	}
	if index["30000002"] != "30000002.txt" {
		t.Errorf("paperIndex()[30000002] = %q", index["30000002"])
	}
}

func TestPaperIndex_FirstFileWins(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"30000001_b.txt", "30000001_a.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	index, err := paperIndex(dir)
	if err != nil {
		t.Fatalf("paperIndex() error = %v", err)
	}
	// 按文件名排序后取首个
	if index["30000001"] != "30000001_a.txt" {
		t.Errorf("paperIndex()[30000001] = %q, want 30000001_a.txt", index["30000001"])
	}
}

func TestPaperIndex_MissingDir(t *testing.T) {
	if _, err := paperIndex("/nonexistent/papers"); err == nil {
		t.Error("paperIndex() expected error for missing directory")
	}
}
