// Package normalize 提供规范化服务单元测试
package normalize

import (
	"strings"
	"testing"
)

// ========== CollectVariants 测试 ==========

func TestCollectVariants_WrappedList(t *testing.T) {
	v := map[string]interface{}{
		"functional_evidence_assessment": []interface{}{
			map[string]interface{}{"variant_id": map[string]interface{}{"HGVS": "c.100A>G"}},
			map[string]interface{}{"variant_id": map[string]interface{}{"HGVS": "c.200C>T"}},
		},
	}
	got := CollectVariants(v)
	if len(got) != 2 {
		t.Errorf("CollectVariants() len = %d, want 2", len(got))
	}
}

func TestCollectVariants_BareVariant(t *testing.T) {
	v := map[string]interface{}{
		"variant_id": map[string]interface{}{"HGVS": "c.100A>G"},
	}
	got := CollectVariants(v)
	if len(got) != 1 {
		t.Fatalf("CollectVariants() len = %d, want 1", len(got))
	}
}

func TestCollectVariants_TopLevelArray(t *testing.T) {
	v := []interface{}{
		map[string]interface{}{"variant_id": map[string]interface{}{"HGVS": "c.100A>G"}},
	}
	got := CollectVariants(v)
	if len(got) != 1 {
		t.Errorf("CollectVariants() len = %d, want 1", len(got))
	}
}

func TestCollectVariants_Unrecognized(t *testing.T) {
	got := CollectVariants(map[string]interface{}{"other": 1})
	if len(got) != 0 {
		t.Errorf("CollectVariants() len = %d, want 0", len(got))
	}
}

// ========== NormalizeVariant 测试 ==========

func TestNormalizeVariant_ProteinPosition(t *testing.T) {
	s := NewService()
	variant := map[string]interface{}{
		"variant_id": map[string]interface{}{
			"Protein_Change": map[string]interface{}{"ref": "R", "alt": "C", "position": "34"},
		},
	}
	got := s.NormalizeVariant(variant)
	protein := got["variant_id"].(map[string]interface{})["Protein_Change"].(map[string]interface{})
	if protein["position"] != 34 {
		t.Errorf("position = %v (%T), want 34", protein["position"], protein["position"])
	}
}

func TestNormalizeVariant_FloatPosition(t *testing.T) {
	s := NewService()
	variant := map[string]interface{}{
		"variant_id": map[string]interface{}{
			"Protein_Change": map[string]interface{}{"position": float64(508)},
		},
	}
	got := s.NormalizeVariant(variant)
	protein := got["variant_id"].(map[string]interface{})["Protein_Change"].(map[string]interface{})
	if protein["position"] != 508 {
		t.Errorf("position = %v, want 508", protein["position"])
	}
}

func TestNormalizeVariant_MissingStepsFilled(t *testing.T) {
	s := NewService()
	variant := map[string]interface{}{
		"assessment_steps": []interface{}{
			map[string]interface{}{
				"step_name": StepDefineMechanism,
				"judgment":  "Yes",
			},
		},
	}
	got := s.NormalizeVariant(variant)
	steps := got["assessment_steps"].([]interface{})
	if len(steps) != 4 {
		t.Fatalf("steps len = %d, want 4", len(steps))
	}
	second := steps[1].(map[string]interface{})
	if second["step_name"] != StepEvaluateClasses {
		t.Errorf("step 2 name = %v", second["step_name"])
	}
	if second["judgment"] != "Not evaluated" {
		t.Errorf("missing step judgment = %v, want Not evaluated", second["judgment"])
	}
	if second["reasoning"] != "No information provided in the paper" {
		t.Errorf("missing step reasoning = %v", second["reasoning"])
	}
}

func TestNormalizeVariant_MergeSubstepsAllYes(t *testing.T) {
	s := NewService()
	variant := map[string]interface{}{
		"assessment_steps": []interface{}{
			map[string]interface{}{
				"step_name":            "Step 3a: Basic Controls and Replicates",
				"extracted_paper_info": "controls present",
				"judgment":             "Yes",
				"reasoning":            "triplicates reported",
			},
			map[string]interface{}{
				"step_name":            "Step 3b: Appropriate Comparators",
				"extracted_paper_info": "wild type compared",
				"judgment":             "Yes",
				"reasoning":            "WT baseline",
			},
		},
	}
	got := s.NormalizeVariant(variant)
	steps := got["assessment_steps"].([]interface{})
	third := steps[2].(map[string]interface{})
	if third["step_name"] != StepEvaluateInstances {
		t.Fatalf("step 3 name = %v", third["step_name"])
	}
	if third["judgment"] != "Yes" {
		t.Errorf("merged judgment = %v, want Yes", third["judgment"])
	}
	info := third["extracted_paper_info"].(string)
	if !strings.Contains(info, "Step 3a") || !strings.Contains(info, "Step 3b") {
		t.Errorf("merged info missing substep names: %q", info)
	}
}

func TestNormalizeVariant_MergeSubstepsPartial(t *testing.T) {
	s := NewService()
	variant := map[string]interface{}{
		"assessment_steps": []interface{}{
			map[string]interface{}{
				"step_name": "Step 4a: OddsPath Calculation",
				"judgment":  "Yes",
			},
			map[string]interface{}{
				"step_name": "Step 4b: No OddsPath Calculation",
				"judgment":  "No",
			},
		},
	}
	got := s.NormalizeVariant(variant)
	steps := got["assessment_steps"].([]interface{})
	fourth := steps[3].(map[string]interface{})
	if fourth["judgment"] != "Partial" {
		t.Errorf("merged judgment = %v, want Partial", fourth["judgment"])
	}
}

func TestNormalizeVariant_StrengthCasing(t *testing.T) {
	s := NewService()
	variant := map[string]interface{}{
		"final_evidence_strength": map[string]interface{}{"type": "VERY STRONG"},
	}
	got := s.NormalizeVariant(variant)
	evidence := got["final_evidence_strength"].(map[string]interface{})
	if evidence["type"] != "Very strong" {
		t.Errorf("type = %v, want Very strong", evidence["type"])
	}
}

// ========== Normalize 测试 ==========

func TestNormalize_WrapsResult(t *testing.T) {
	s := NewService()
	v := []interface{}{
		map[string]interface{}{"variant_id": map[string]interface{}{"HGVS": "c.100A>G"}},
	}
	got := s.Normalize(v)
	wrapped, ok := got["functional_evidence_assessment"].([]interface{})
	if !ok {
		t.Fatal("result should be wrapped under functional_evidence_assessment")
	}
	if len(wrapped) != 1 {
		t.Errorf("len = %d, want 1", len(wrapped))
	}
}
