package compare

import "testing"

func stdDoc() map[string]interface{} {
	return map[string]interface{}{
		"Described Disease": map[string]interface{}{
			"Described Disease": "Long QT syndrome",
			"MONDO":             "MONDO:0002442",
		},
		"Variants Include": []interface{}{
			map[string]interface{}{
				"Gene": "KCNQ1",
				"variants": []interface{}{
					map[string]interface{}{
						"HGVS": "c.100C>T",
						"cDNA Change": map[string]interface{}{
							"transcript": "NM_000218.3",
							"ref":        "C",
							"alt":        "T",
							"position":   "100",
						},
						"Protein Change": map[string]interface{}{
							"ref":      "Arg",
							"alt":      "Cys",
							"position": "34",
						},
					},
				},
			},
		},
		"Experiment Method": []interface{}{
			map[string]interface{}{
				"Assay Method": "Patch clamp",
				"Approved assay": map[string]interface{}{
					"Approved assay": "Yes",
				},
				"Biological replicates": map[string]interface{}{
					"Biological replicates": "Yes",
				},
			},
		},
	}
}

// ========== Compare 测试 ==========

func TestCompare_IdenticalDocuments(t *testing.T) {
	res := NewComparator(stdDoc()).Compare(stdDoc())

	// 6 个精确字段 + 2 个三元组 + 2 个布尔字段
	if res.StdTotal != 10 {
		t.Errorf("StdTotal = %d, want 10", res.StdTotal)
	}
	if res.ModelTotal != 10 {
		t.Errorf("ModelTotal = %d, want 10", res.ModelTotal)
	}
	if res.CorrectTotal != 10 {
		t.Errorf("CorrectTotal = %d, want 10", res.CorrectTotal)
	}
	if res.FalseAssertTotal != 0 {
		t.Errorf("FalseAssertTotal = %d, want 0", res.FalseAssertTotal)
	}
	if res.FieldOmissionsTotal != 0 {
		t.Errorf("FieldOmissionsTotal = %d, want 0", res.FieldOmissionsTotal)
	}
	if res.StdYesTotal != 2 || res.CorrectYesTotal != 2 {
		t.Errorf("yes counters = (%d, %d), want (2, 2)", res.StdYesTotal, res.CorrectYesTotal)
	}
	// 遗漏统计基数:蛋白三元组三个字段 + Assay Method
	if res.OmissionStdTotal != 4 {
		t.Errorf("OmissionStdTotal = %d, want 4", res.OmissionStdTotal)
	}
	if acc := res.Accuracy(); acc != 1.0 {
		t.Errorf("Accuracy() = %v, want 1.0", acc)
	}
}

func TestCompare_Degraded(t *testing.T) {
	std := map[string]interface{}{
		"Described Disease": map[string]interface{}{
			"Described Disease": "Long QT syndrome",
			"MONDO":             "MONDO:0002442",
		},
		"Experiment Method": []interface{}{
			map[string]interface{}{
				"Assay Method": "Patch clamp",
				"Approved assay": map[string]interface{}{
					"Approved assay": "Yes",
				},
			},
		},
	}
	model := map[string]interface{}{
		"Described Disease": map[string]interface{}{
			// 标点与大小写差异在清洗后仍视为一致
			"Described Disease": "long QT syndrome!",
			"MONDO":             "MONDO:0000000",
		},
		"Experiment Method": []interface{}{
			map[string]interface{}{
				"Assay Method": "N.D.",
				"Approved assay": map[string]interface{}{
					"Approved assay": "No",
				},
			},
		},
	}

	res := NewComparator(std).Compare(model)
	if res.StdTotal != 4 || res.ModelTotal != 4 {
		t.Errorf("totals = (%d, %d), want (4, 4)", res.StdTotal, res.ModelTotal)
	}
	if res.CorrectTotal != 1 {
		t.Errorf("CorrectTotal = %d, want 1 (only disease name)", res.CorrectTotal)
	}
	// MONDO 不匹配 + 布尔字段答反,N.D. 不算错答
	if res.FalseAssertTotal != 2 {
		t.Errorf("FalseAssertTotal = %d, want 2", res.FalseAssertTotal)
	}
	// Assay Method 答 N.D. 不计入遗漏
	if res.FieldOmissionsTotal != 0 {
		t.Errorf("FieldOmissionsTotal = %d, want 0", res.FieldOmissionsTotal)
	}
	if res.StdYesTotal != 1 || res.CorrectYesTotal != 0 {
		t.Errorf("yes counters = (%d, %d), want (1, 0)", res.StdYesTotal, res.CorrectYesTotal)
	}
}

func TestCompare_MissingFieldCountsAsOmission(t *testing.T) {
	std := map[string]interface{}{
		"Variants Include": []interface{}{
			map[string]interface{}{"Gene": "KCNQ1"},
		},
	}
	model := map[string]interface{}{}

	res := NewComparator(std).Compare(model)
	if res.StdTotal != 1 || res.ModelTotal != 0 {
		t.Errorf("totals = (%d, %d), want (1, 0)", res.StdTotal, res.ModelTotal)
	}
	if res.FieldOmissionsTotal != 1 {
		t.Errorf("FieldOmissionsTotal = %d, want 1", res.FieldOmissionsTotal)
	}
}

func TestCompare_ProteinGroupTuples(t *testing.T) {
	variant := func(ref, alt, pos string) map[string]interface{} {
		return map[string]interface{}{
			"Protein Change": map[string]interface{}{
				"ref":      ref,
				"alt":      alt,
				"position": pos,
			},
		}
	}
	wrap := func(variants ...interface{}) map[string]interface{} {
		return map[string]interface{}{
			"Variants Include": []interface{}{
				map[string]interface{}{"variants": variants},
			},
		}
	}

	std := wrap(variant("Arg", "Cys", "34"))
	// 第一个命中,第二个缺分量不算错答,第三个是无中生有
	model := wrap(
		variant("Arginine", "C", "p.34"),
		variant("Gly", "", "12"),
		variant("Leucine", "Trp", "99"),
	)

	res := NewComparator(std).Compare(model)
	m := res.FieldMetrics["Variants Include.variants.Protein Change.ref"]
	if m.StdCount != 1 {
		t.Errorf("group StdCount = %d, want 1", m.StdCount)
	}
	if m.ModelCount != 3 {
		t.Errorf("group ModelCount = %d, want 3", m.ModelCount)
	}
	if m.Correct != 1 {
		t.Errorf("group Correct = %d, want 1 (Arg/Cys/34 normalized match)", m.Correct)
	}
	if m.FalseAssert != 1 {
		t.Errorf("group FalseAssert = %d, want 1 (Leu/Trp/99 only)", m.FalseAssert)
	}
}

func TestCompare_CDNAGroupNormalization(t *testing.T) {
	variant := func(ref, alt, pos interface{}) map[string]interface{} {
		return map[string]interface{}{
			"cDNA Change": map[string]interface{}{
				"ref":      ref,
				"alt":      alt,
				"position": pos,
			},
		}
	}
	wrap := func(v map[string]interface{}) map[string]interface{} {
		return map[string]interface{}{
			"Variants Include": []interface{}{
				map[string]interface{}{"variants": []interface{}{v}},
			},
		}
	}

	std := wrap(variant("C", "T", "100"))
	// 全名碱基与带前缀的位置归一后等价,数值位置也一样
	model := wrap(variant("cytosine", "Thymine", float64(100)))

	res := NewComparator(std).Compare(model)
	m := res.FieldMetrics["Variants Include.variants.cDNA Change.ref"]
	if m.Correct != 1 {
		t.Errorf("group Correct = %d, want 1", m.Correct)
	}
	if m.FalseAssert != 0 {
		t.Errorf("group FalseAssert = %d, want 0", m.FalseAssert)
	}
}

func TestCompare_SkipFieldEquality(t *testing.T) {
	std := map[string]interface{}{
		"Experiment Method": []interface{}{
			map[string]interface{}{
				"Statistical analysis method": "Two-tailed t-test",
			},
		},
	}
	model := map[string]interface{}{
		"Experiment Method": []interface{}{
			map[string]interface{}{
				"Statistical analysis method": "two-tailed T-TEST",
			},
		},
	}

	res := NewComparator(std).Compare(model)
	m := res.FieldMetrics["Experiment Method.Statistical analysis method"]
	if m.Correct != 1 {
		t.Errorf("skip field Correct = %d, want 1 (case insensitive)", m.Correct)
	}
	if m.FalseAssert != 0 {
		t.Errorf("skip field FalseAssert = %d, want 0", m.FalseAssert)
	}
}

func TestCompare_ExactFieldContainment(t *testing.T) {
	std := map[string]interface{}{
		"Experiment Method": []interface{}{
			map[string]interface{}{"Assay Method": "Western blot"},
		},
	}
	model := map[string]interface{}{
		"Experiment Method": []interface{}{
			map[string]interface{}{"Assay Method": "Quantitative western blot analysis"},
		},
	}

	res := NewComparator(std).Compare(model)
	m := res.FieldMetrics["Experiment Method.Assay Method"]
	if m.Correct != 1 {
		t.Errorf("Correct = %d, want 1 (substring containment)", m.Correct)
	}
}
