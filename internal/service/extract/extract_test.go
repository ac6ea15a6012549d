// Package extract 提供 JSON 提取服务单元测试
package extract

import (
	"encoding/json"
	"testing"
)

// ========== Locate 测试 ==========

func TestLocate_FencedBlock(t *testing.T) {
	text := "Here is the assessment:\n```json\n{\"a\": 1}\n```\nDone."
	got := Locate(text)
	if got != `{"a": 1}` {
		t.Errorf("Locate() = %q, want %q", got, `{"a": 1}`)
	}
}

func TestLocate_FencedWithoutLanguage(t *testing.T) {
	text := "```\n{\"a\": 1}\n```"
	got := Locate(text)
	if got != `{"a": 1}` {
		t.Errorf("Locate() = %q, want %q", got, `{"a": 1}`)
	}
}

func TestLocate_BareObject(t *testing.T) {
	text := "Some preamble {\"key\": {\"nested\": true}} trailing text"
	got := Locate(text)
	if got != `{"key": {"nested": true}}` {
		t.Errorf("Locate() = %q, want %q", got, `{"key": {"nested": true}}`)
	}
}

func TestLocate_BareArray(t *testing.T) {
	text := "variants: [1, 2, 3] end"
	got := Locate(text)
	if got != `[1, 2, 3]` {
		t.Errorf("Locate() = %q, want %q", got, `[1, 2, 3]`)
	}
}

func TestLocate_PlainText(t *testing.T) {
	text := "  no json here  "
	got := Locate(text)
	if got != "no json here" {
		t.Errorf("Locate() = %q, want %q", got, "no json here")
	}
}

// ========== Scrub 测试 ==========

func TestScrub_LineComments(t *testing.T) {
	in := "{\n  \"a\": 1, // assay count\n  \"b\": 2\n}"
	got := Scrub(in)
	if !json.Valid([]byte(got)) {
		t.Errorf("Scrub() produced invalid json: %q", got)
	}
}

func TestScrub_BlockComments(t *testing.T) {
	in := `{"a": /* inline note */ 1}`
	got := Scrub(in)
	if !json.Valid([]byte(got)) {
		t.Errorf("Scrub() produced invalid json: %q", got)
	}
}

func TestScrub_IllegalEscape(t *testing.T) {
	in := `{"change": "p.\Delta508"}`
	got := Scrub(in)
	if !json.Valid([]byte(got)) {
		t.Errorf("Scrub() produced invalid json: %q", got)
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(got), &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if m["change"] != `p.\Delta508` {
		t.Errorf("change = %q, want %q", m["change"], `p.\Delta508`)
	}
}

func TestScrub_TrailingComma(t *testing.T) {
	in := `{"a": 1, "b": [1, 2,],}`
	got := Scrub(in)
	if !json.Valid([]byte(got)) {
		t.Errorf("Scrub() produced invalid json: %q", got)
	}
}

func TestScrub_ControlChars(t *testing.T) {
	in := "{\"a\": \"x\x01y\"}"
	got := Scrub(in)
	if !json.Valid([]byte(got)) {
		t.Errorf("Scrub() produced invalid json: %q", got)
	}
}

// ========== Balance 测试 ==========

func TestBalance_TruncatedObject(t *testing.T) {
	in := `{"a": {"b": [1, 2`
	got := Balance(in)
	if !json.Valid([]byte(got)) {
		t.Errorf("Balance() produced invalid json: %q", got)
	}
}

func TestBalance_UnclosedString(t *testing.T) {
	in := `{"a": "truncated mid sen`
	got := Balance(in)
	if !json.Valid([]byte(got)) {
		t.Errorf("Balance() produced invalid json: %q", got)
	}
}

func TestBalance_TrailingComma(t *testing.T) {
	in := `{"a": 1,`
	got := Balance(in)
	if got != `{"a": 1}` {
		t.Errorf("Balance() = %q, want %q", got, `{"a": 1}`)
	}
}

func TestBalance_AlreadyValid(t *testing.T) {
	in := `{"a": [1, 2]}`
	got := Balance(in)
	if got != in {
		t.Errorf("Balance() = %q, want unchanged input", got)
	}
}

func TestBalance_BracketInString(t *testing.T) {
	in := `{"note": "see [1]"}`
	got := Balance(in)
	if got != in {
		t.Errorf("Balance() = %q, want unchanged input", got)
	}
}

// ========== Extract 测试 ==========

func TestExtract_ValidFencedJSON(t *testing.T) {
	s := NewService()
	text := "The result:\n```json\n{\"Gene\": \"BRCA1\", \"Variants\": 3}\n```"
	v, err := s.Extract(text)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		t.Fatalf("Extract() returned %T, want map", v)
	}
	if m["Gene"] != "BRCA1" {
		t.Errorf("Gene = %v, want BRCA1", m["Gene"])
	}
}

func TestExtract_TruncatedOutput(t *testing.T) {
	s := NewService()
	text := `{"Step 1": {"Disease mechanism": "loss of function"}, "Step 2": {"Assay class": "enzy`
	v, err := s.Extract(text)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		t.Fatalf("Extract() returned %T, want map", v)
	}
	if _, ok := m["Step 1"]; !ok {
		t.Error("Step 1 should survive truncation repair")
	}
}

func TestExtract_CommentedJSON(t *testing.T) {
	s := NewService()
	text := "```json\n{\n  \"count\": 5, // number of assays\n  \"valid\": true\n}\n```"
	v, err := s.Extract(text)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	m := v.(map[string]interface{})
	if m["count"] != float64(5) {
		t.Errorf("count = %v, want 5", m["count"])
	}
}

func TestExtract_TopLevelArray(t *testing.T) {
	s := NewService()
	text := `[{"variant_id": "c.100A>G"}, {"variant_id": "c.200C>T"}]`
	v, err := s.Extract(text)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	arr, ok := v.([]interface{})
	if !ok {
		t.Fatalf("Extract() returned %T, want array", v)
	}
	if len(arr) != 2 {
		t.Errorf("len = %d, want 2", len(arr))
	}
}

func TestExtract_NoJSON(t *testing.T) {
	s := NewService()
	if _, err := s.Extract("I cannot provide an assessment for this paper."); err == nil {
		t.Error("Extract() should fail on plain prose")
	}
}

func TestExtract_SingleQuotedFallback(t *testing.T) {
	s := NewService()
	// 单引号 JSON 走 jsonrepair 兜底
	text := "{'Gene': 'TP53'}"
	v, err := s.Extract(text)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	m := v.(map[string]interface{})
	if m["Gene"] != "TP53" {
		t.Errorf("Gene = %v, want TP53", m["Gene"])
	}
}

// ========== ExtractObject 测试 ==========

func TestExtractObject_WrapsArray(t *testing.T) {
	s := NewService()
	text := `[{"variant_id": "c.100A>G"}]`
	m, err := s.ExtractObject(text)
	if err != nil {
		t.Fatalf("ExtractObject() error = %v", err)
	}
	arr, ok := m["functional_evidence_assessment"].([]interface{})
	if !ok {
		t.Fatal("array should be wrapped under functional_evidence_assessment")
	}
	if len(arr) != 1 {
		t.Errorf("len = %d, want 1", len(arr))
	}
}
