// Package guideline 提供指南文档服务单元测试
package guideline

import (
	"context"
	"strings"
	"testing"

	"github.com/acmgbench/varbench/internal/model"
)

// ========== textParser 测试 ==========

func TestTextParser_Parse(t *testing.T) {
	p := &textParser{}

	tests := []struct {
		name        string
		content     string
		wantDocs    int
		wantContent string
	}{
		{
			name:        "simple text",
			content:     "PS3 evidence requires a validated functional assay.",
			wantDocs:    1,
			wantContent: "PS3 evidence requires a validated functional assay.",
		},
		{
			name:        "multiline text",
			content:     "Line 1\nLine 2\nLine 3",
			wantDocs:    1,
			wantContent: "Line 1\nLine 2\nLine 3",
		},
		{
			name:     "empty content",
			content:  "",
			wantDocs: 0,
		},
		{
			name:        "unicode content",
			content:     "功能证据 ACMG 指南",
			wantDocs:    1,
			wantContent: "功能证据 ACMG 指南",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := p.Parse(context.Background(), strings.NewReader(tt.content))
			if err != nil {
				t.Fatalf("Parse() unexpected error: %v", err)
			}
			if len(docs) != tt.wantDocs {
				t.Fatalf("Parse() returned %d docs, want %d", len(docs), tt.wantDocs)
			}
			if tt.wantDocs > 0 && docs[0].Content != tt.wantContent {
				t.Errorf("Parse() content = %q, want %q", docs[0].Content, tt.wantContent)
			}
		})
	}
}

// ========== newParser 测试 ==========

func TestNewParser_FileTypes(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "txt", path: "acmg_2015.txt", wantErr: false},
		{name: "md", path: "svi_recommendations.md", wantErr: false},
		{name: "unsupported", path: "guideline.xlsx", wantErr: true},
		{name: "no extension", path: "guideline", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newParser(context.Background(), tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("newParser(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

// ========== fileExt 测试 ==========

func TestFileExt(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"guideline.pdf", ".pdf"},
		{"dir/file.docx", ".docx"},
		{"archive.tar.gz", ".gz"},
		{"noext", ""},
	}

	for _, tt := range tests {
		if got := fileExt(tt.path); got != tt.want {
			t.Errorf("fileExt(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

// ========== ChunksToDocuments 测试 ==========

func TestChunksToDocuments(t *testing.T) {
	chunks := []*model.GuidelineChunk{
		{
			ID:         "chunk-1",
			DocumentID: "doc-1",
			ChunkIndex: 0,
			Content:    "PS3 strong evidence",
			Metadata:   model.JSON{"document_title": "ACMG 2015"},
		},
		{
			ID:         "chunk-2",
			DocumentID: "doc-1",
			ChunkIndex: 1,
			Content:    "BS3 strong evidence",
		},
	}

	docs := ChunksToDocuments(chunks)
	if len(docs) != 2 {
		t.Fatalf("ChunksToDocuments() len = %d, want 2", len(docs))
	}

	if docs[0].ID != "chunk-1" || docs[0].Content != "PS3 strong evidence" {
		t.Errorf("ChunksToDocuments()[0] = %+v", docs[0])
	}
	if docs[0].MetaData["document_title"] != "ACMG 2015" {
		t.Error("ChunksToDocuments() lost chunk metadata")
	}
	if docs[0].MetaData["document_id"] != "doc-1" {
		t.Error("ChunksToDocuments() missing document_id")
	}
	if docs[1].MetaData["chunk_index"] != 1 {
		t.Errorf("ChunksToDocuments()[1] chunk_index = %v", docs[1].MetaData["chunk_index"])
	}
}

// ========== documentToESFields 测试 ==========

func TestDocumentToESFields(t *testing.T) {
	docs := ChunksToDocuments([]*model.GuidelineChunk{
		{ID: "c1", DocumentID: "d1", ChunkIndex: 3, Content: "assay validation criteria"},
	})

	fields := documentToESFields(docs[0])

	content, ok := fields["content"]
	if !ok {
		t.Fatal("documentToESFields() missing content field")
	}
	if content.Value != "assay validation criteria" {
		t.Errorf("content value = %v", content.Value)
	}
	if content.EmbedKey != "content_vector" {
		t.Errorf("content embed key = %q, want content_vector", content.EmbedKey)
	}
	if fields["document_id"].Value != "d1" {
		t.Errorf("document_id = %v", fields["document_id"].Value)
	}
}
