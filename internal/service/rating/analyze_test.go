package rating

import "testing"

func variantDoc() map[string]interface{} {
	return map[string]interface{}{
		"Variants Include": []interface{}{
			map[string]interface{}{
				"Gene": "BRCA1",
				"variants": []interface{}{
					map[string]interface{}{
						"HGVS": "c.100C>T",
						"Protein Change": map[string]interface{}{
							"ref":      "R",
							"alt":      "C",
							"position": float64(34),
						},
					},
					map[string]interface{}{
						"HGVS": "c.200G>A",
						"Protein Change": map[string]interface{}{
							"ref":      "G",
							"alt":      "D",
							"position": float64(67),
						},
					},
				},
			},
		},
	}
}

// ========== AnalyzeVariants 测试 ==========

func TestAnalyzeVariants_ListReadout(t *testing.T) {
	doc := variantDoc()
	assay := fullAssay()
	assay["Readout description"] = []interface{}{
		map[string]interface{}{
			"Variant":            "c.100C>T",
			"Conclusion":         "Abnormal",
			"Molecular Effect":   "Loss of function",
			"Result Description": "Activity reduced to 10%",
		},
		map[string]interface{}{
			"Variant":    "c.200G>A",
			"Conclusion": "Normal",
		},
	}
	doc["Experiment Method"] = []interface{}{assay}

	findings := AnalyzeVariants(doc)
	if len(findings) != 2 {
		t.Fatalf("AnalyzeVariants() returned %d findings, want 2", len(findings))
	}

	first := findings[0]
	if first.HGVS != "c.100C>T" {
		t.Errorf("findings[0].HGVS = %q, want c.100C>T (insertion order)", first.HGVS)
	}
	if first.Pathogenic == nil || !*first.Pathogenic {
		t.Error("findings[0] should be pathogenic")
	}
	if len(first.Conclusions) != 1 || first.Conclusions[0].MolecularEffect != "Loss of function" {
		t.Errorf("findings[0].Conclusions = %+v", first.Conclusions)
	}
	if first.Strength == StrengthNone {
		t.Errorf("findings[0].Strength = %q, variant is covered by a qualified assay", first.Strength)
	}

	second := findings[1]
	if second.Pathogenic == nil || *second.Pathogenic {
		t.Error("findings[1] should be benign")
	}
}

func TestAnalyzeVariants_DetailsReadout(t *testing.T) {
	doc := variantDoc()
	assay := fullAssay()
	assay["Readout description"] = "See details"
	assay["Readout details"] = map[string]interface{}{
		"BRCA1": map[string]interface{}{
			"R34C": "Reduced splicing efficiency",
		},
	}
	doc["Experiment Method"] = []interface{}{assay}

	findings := AnalyzeVariants(doc)
	first := findings[0]
	if len(first.Conclusions) != 1 {
		t.Fatalf("findings[0].Conclusions count = %d, want 1 (shorthand match)", len(first.Conclusions))
	}
	if first.Conclusions[0].Conclusion != "Abnormal" {
		t.Errorf("Conclusion = %q, want Abnormal for Reduced readout", first.Conclusions[0].Conclusion)
	}
	if len(findings[1].Conclusions) != 0 {
		t.Errorf("findings[1] should have no conclusions, got %+v", findings[1].Conclusions)
	}
}

func TestAnalyzeVariants_StringReadout(t *testing.T) {
	doc := variantDoc()
	assay := fullAssay()
	assay["Readout description"] = "Variant c.100C>T showed Increased degradation; c.200G>A behaved like wild type"
	doc["Experiment Method"] = []interface{}{assay}

	findings := AnalyzeVariants(doc)
	if c := findings[0].Conclusions; len(c) != 1 || c[0].Conclusion != "Abnormal" {
		t.Errorf("findings[0].Conclusions = %+v, want one Abnormal", c)
	}
	if c := findings[1].Conclusions; len(c) != 1 || c[0].Conclusion != "Normal" {
		t.Errorf("findings[1].Conclusions = %+v, want one Normal", c)
	}
}

func TestAnalyzeVariants_NoReadout(t *testing.T) {
	doc := variantDoc()
	assay := fullAssay()
	delete(assay, "Readout description")
	doc["Experiment Method"] = []interface{}{assay}

	findings := AnalyzeVariants(doc)
	first := findings[0]
	if first.Pathogenic != nil {
		t.Error("Pathogenic should be nil with no conclusions")
	}
	if first.Strength != StrengthNone {
		t.Errorf("Strength = %q, want %q when no assay mentions the variant", first.Strength, StrengthNone)
	}
}

// ========== judgePathogenicity 测试 ==========

func TestJudgePathogenicity(t *testing.T) {
	trueVal := true
	falseVal := false
	tests := []struct {
		name        string
		conclusions []Conclusion
		want        *bool
	}{
		{"空结论", nil, nil},
		{"全部 N.D.", []Conclusion{{Conclusion: "N.D."}, {Conclusion: "N.D."}}, nil},
		{"任一 Abnormal", []Conclusion{{Conclusion: "Normal"}, {Conclusion: "Abnormal"}}, &trueVal},
		{"全 Normal", []Conclusion{{Conclusion: "Normal"}}, &falseVal},
		{"N.D. 与 Normal 混合", []Conclusion{{Conclusion: "N.D."}, {Conclusion: "Normal"}}, &falseVal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := judgePathogenicity(tt.conclusions)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("judgePathogenicity() = %v, want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("judgePathogenicity() = %v, want %v", *got, *tt.want)
			}
		})
	}
}

// ========== Label / PathogenicityText 测试 ==========

func TestVariantFindingLabel(t *testing.T) {
	f := &VariantFinding{
		HGVS: "c.100C>T",
		ProteinChange: map[string]interface{}{
			"ref": "R", "alt": "C", "position": float64(34),
		},
	}
	if got := f.Label(); got != "c.100C>T (R34C)" {
		t.Errorf("Label() = %q, want %q", got, "c.100C>T (R34C)")
	}

	missing := &VariantFinding{HGVS: "c.5del"}
	if got := missing.Label(); got != "c.5del (?)" {
		t.Errorf("Label() = %q, want %q", got, "c.5del (?)")
	}
}

func TestPathogenicityText(t *testing.T) {
	trueVal := true
	falseVal := false
	if got := (&VariantFinding{}).PathogenicityText(); got != "Unknown" {
		t.Errorf("PathogenicityText() = %q, want Unknown", got)
	}
	if got := (&VariantFinding{Pathogenic: &trueVal}).PathogenicityText(); got != "Pathogenic" {
		t.Errorf("PathogenicityText() = %q, want Pathogenic", got)
	}
	if got := (&VariantFinding{Pathogenic: &falseVal}).PathogenicityText(); got != "Benign" {
		t.Errorf("PathogenicityText() = %q, want Benign", got)
	}
}
