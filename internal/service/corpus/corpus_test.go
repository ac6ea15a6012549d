package corpus

import (
	"testing"

	"github.com/acmgbench/varbench/internal/model"
)

// ========== ExtractPMID 测试 ==========

func TestExtractPMID(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"10888878.json", "10888878"},
		{"12345678_llama3_01.txt", "12345678"},
		{"prefix_20250101_result.txt", "20250101"},
		{"readme.txt", ""},
		{"1234567.json", ""},
	}
	for _, tt := range tests {
		if got := ExtractPMID(tt.name); got != tt.want {
			t.Errorf("ExtractPMID(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

// ========== QATime 测试 ==========

func TestQATime(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    float64
	}{
		{"标准格式", "done.\nQ&A Time (seconds): 12.50\n", 12.50},
		{"多余空白", "Q&A Time (seconds):   3.75", 3.75},
		{"缺失", "no timing info here", 0},
		{"整数不匹配", "Q&A Time (seconds): 12", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QATime(tt.content); got != tt.want {
				t.Errorf("QATime() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ========== matchResponseFile 测试 ==========

func TestMatchResponseFile(t *testing.T) {
	names := []string{
		"10888878.json",
		"10888878_02.txt",
		"12345678_01.txt",
		"12345678_other.txt",
		"20250101_result.txt",
		"30000001_gemma_raw.txt",
	}

	tests := []struct {
		pmid string
		want string
	}{
		{"10888878", "10888878.json"},
		{"12345678", "12345678_01.txt"},
		{"20250101", "20250101_result.txt"},
		{"30000001", "30000001_gemma_raw.txt"},
		{"99999999", ""},
	}
	for _, tt := range tests {
		if got := matchResponseFile(names, tt.pmid); got != tt.want {
			t.Errorf("matchResponseFile(%q) = %q, want %q", tt.pmid, got, tt.want)
		}
	}
}

// ========== 元数据提取测试 ==========

func TestArticleMetadata(t *testing.T) {
	doc := map[string]interface{}{
		"Article Info": map[string]interface{}{
			"PMID":  "10888878",
			"Title": "Functional analysis of KCNQ1 variants",
		},
		"Variants Include": []interface{}{
			map[string]interface{}{"Gene": "KCNQ1"},
			map[string]interface{}{"Gene": "SCN5A"},
		},
	}

	if got := articleTitle(doc); got != "Functional analysis of KCNQ1 variants" {
		t.Errorf("articleTitle() = %q", got)
	}
	if got := firstGene(doc); got != "KCNQ1" {
		t.Errorf("firstGene() = %q, want KCNQ1", got)
	}

	empty := map[string]interface{}{}
	if articleTitle(empty) != "" || firstGene(empty) != "" {
		t.Error("metadata of empty document should be empty strings")
	}
}

// ========== 提示词文件名解析测试 ==========

func TestPromptNameVersion(t *testing.T) {
	tests := []struct {
		filename    string
		wantName    string
		wantVersion int
	}{
		{"Functional_Evidence_Assessment.txt", "Functional_Evidence_Assessment", 1},
		{"Functional_Evidence_Assessment_v2.txt", "Functional_Evidence_Assessment", 2},
		{"json_format_V3.md", "json_format", 3},
		{"rating_v0.txt", "rating_v0", 1},
	}
	for _, tt := range tests {
		name, version := promptNameVersion(tt.filename)
		if name != tt.wantName || version != tt.wantVersion {
			t.Errorf("promptNameVersion(%q) = (%q, %d), want (%q, %d)",
				tt.filename, name, version, tt.wantName, tt.wantVersion)
		}
	}
}

func TestPromptStage(t *testing.T) {
	tests := []struct {
		filename string
		want     model.PromptStage
	}{
		{"Functional_Evidence_Assessment.txt", model.PromptStageAssessment},
		{"LLM_JSON_Format.txt", model.PromptStageFormat},
		{"response_format_v2.md", model.PromptStageFormat},
	}
	for _, tt := range tests {
		if got := promptStage(tt.filename); got != tt.want {
			t.Errorf("promptStage(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
