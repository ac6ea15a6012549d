package rating

import (
	"fmt"
	"strings"
)

// Conclusion 某个实验对单一变异给出的读出结论
type Conclusion struct {
	Assay           string `json:"assay"`
	Conclusion      string `json:"conclusion"`
	MolecularEffect string `json:"molecular_effect"`
	Description     string `json:"description"`
}

// VariantFinding 单个变异的致病性与证据强度分析结果
type VariantFinding struct {
	HGVS          string                 `json:"hgvs"`
	ProteinChange map[string]interface{} `json:"protein_change"`
	Conclusions   []Conclusion           `json:"conclusions"`
	// Pathogenic 为 nil 表示所有读出均为 N.D.,无法判定
	Pathogenic *bool  `json:"pathogenic"`
	Strength   string `json:"strength"`
}

// Label 变异展示名,如 "c.100C>T (R34C)"
func (f *VariantFinding) Label() string {
	return fmt.Sprintf("%s (%s)", f.HGVS, f.changeDesc())
}

// PathogenicityText 致病性文字描述
func (f *VariantFinding) PathogenicityText() string {
	if f.Pathogenic == nil {
		return "Unknown"
	}
	if *f.Pathogenic {
		return "Pathogenic"
	}
	return "Benign"
}

func (f *VariantFinding) changeDesc() string {
	if f.ProteinChange == nil {
		return "?"
	}
	return componentString(f.ProteinChange, "ref") +
		componentString(f.ProteinChange, "position") +
		componentString(f.ProteinChange, "alt")
}

// AnalyzeVariants 逐变异分析致病性与证据强度
// 从 Variants Include 收集变异,再在各实验的读出中定位该变异的结论,
// 最后在提及该变异的实验子集上跑强度决策
func AnalyzeVariants(doc map[string]interface{}) []*VariantFinding {
	var order []string
	findings := make(map[string]*VariantFinding)

	for _, geneInfo := range listOf(doc, "Variants Include") {
		for _, item := range listOf(geneInfo, "variants") {
			hgvs, _ := item["HGVS"].(string)
			if hgvs == "" {
				continue
			}
			if _, seen := findings[hgvs]; seen {
				continue
			}
			protein, _ := item["Protein Change"].(map[string]interface{})
			findings[hgvs] = &VariantFinding{
				HGVS:          hgvs,
				ProteinChange: protein,
				Strength:      StrengthNone,
			}
			order = append(order, hgvs)
		}
	}

	collectConclusions(doc, findings)

	for _, hgvs := range order {
		f := findings[hgvs]
		f.Pathogenic = judgePathogenicity(f.Conclusions)
		subset := assaySubset(doc, f)
		if len(subset) > 0 {
			f.Strength = EvidenceStrength(map[string]interface{}{
				"Experiment Method": subset,
			})
		}
	}

	out := make([]*VariantFinding, 0, len(order))
	for _, hgvs := range order {
		out = append(out, findings[hgvs])
	}
	return out
}

// collectConclusions 从三种读出形态中收集每个变异的结论
func collectConclusions(doc map[string]interface{}, findings map[string]*VariantFinding) {
	for _, assay := range assays(doc) {
		assayName, _ := assay["Assay Method"].(string)
		if assayName == "" {
			assayName = "Unknown Assay"
		}
		readout := assay[FieldReadoutDescription]

		switch r := readout.(type) {
		case []interface{}:
			// 形态一：结构化列表,逐条带 Variant/Conclusion
			for _, item := range r {
				result, ok := item.(map[string]interface{})
				if !ok {
					continue
				}
				hgvs, _ := result["Variant"].(string)
				conclusion, _ := result["Conclusion"].(string)
				f, known := findings[hgvs]
				if !known || conclusion == "" {
					continue
				}
				effect, _ := result["Molecular Effect"].(string)
				desc, _ := result["Result Description"].(string)
				f.Conclusions = append(f.Conclusions, Conclusion{
					Assay:           assayName,
					Conclusion:      conclusion,
					MolecularEffect: effect,
					Description:     desc,
				})
			}
		default:
			if details, ok := assay[FieldReadoutDetails].(map[string]interface{}); ok {
				// 形态二：按基因分组的 Readout details 映射
				for _, geneData := range details {
					entries, ok := geneData.(map[string]interface{})
					if !ok {
						continue
					}
					for varDesc, raw := range entries {
						desc, _ := raw.(string)
						for hgvs, f := range findings {
							if varDesc != hgvs && varDesc != shorthand(f.ProteinChange) {
								continue
							}
							conclusion := "Unknown"
							if strings.Contains(desc, "Increased") || strings.Contains(desc, "Reduced") {
								conclusion = "Abnormal"
							}
							f.Conclusions = append(f.Conclusions, Conclusion{
								Assay:           assayName,
								Conclusion:      conclusion,
								MolecularEffect: desc,
								Description:     desc,
							})
						}
					}
				}
				continue
			}

			if r, ok := readout.(string); ok {
				// 形态三：自由文本,按 HGVS 子串匹配
				for hgvs, f := range findings {
					if !strings.Contains(r, hgvs) {
						continue
					}
					conclusion := "Normal"
					if strings.Contains(r, "Increased") || strings.Contains(r, "Reduced") {
						conclusion = "Abnormal"
					}
					f.Conclusions = append(f.Conclusions, Conclusion{
						Assay:           assayName,
						Conclusion:      conclusion,
						MolecularEffect: r,
						Description:     r,
					})
				}
			}
		}
	}
}

// assaySubset 选出提及指定变异的实验
func assaySubset(doc map[string]interface{}, f *VariantFinding) []interface{} {
	var subset []interface{}
	for _, assay := range assays(doc) {
		readout := assay[FieldReadoutDescription]
		if readout == nil || readout == "" {
			continue
		}

		found := false
		switch r := readout.(type) {
		case []interface{}:
			for _, item := range r {
				if result, ok := item.(map[string]interface{}); ok && result["Variant"] == f.HGVS {
					found = true
					break
				}
			}
		case string:
			found = strings.Contains(r, f.HGVS)
		}
		if !found {
			if details, ok := assay[FieldReadoutDetails].(map[string]interface{}); ok {
				for _, geneData := range details {
					if entries, ok := geneData.(map[string]interface{}); ok {
						if _, ok := entries[f.HGVS]; ok {
							found = true
							break
						}
					}
				}
			}
		}

		if found {
			subset = append(subset, map[string]interface{}(assay))
		}
	}
	return subset
}

// judgePathogenicity 全部 N.D. 或无结论时返回 nil,否则任一 Abnormal 即为致病
func judgePathogenicity(conclusions []Conclusion) *bool {
	allND := true
	anyAbnormal := false
	for _, c := range conclusions {
		if c.Conclusion != "N.D." {
			allND = false
		}
		if c.Conclusion == "Abnormal" {
			anyAbnormal = true
		}
	}
	if allND {
		return nil
	}
	return &anyAbnormal
}

// shorthand 蛋白改变的简写形式,如 R34C,缺失分量留空
func shorthand(protein map[string]interface{}) string {
	if protein == nil {
		return ""
	}
	var b strings.Builder
	for _, key := range []string{"ref", "position", "alt"} {
		if s := componentString(protein, key); s != "?" {
			b.WriteString(s)
		}
	}
	return b.String()
}

func componentString(m map[string]interface{}, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return "?"
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	case int:
		return fmt.Sprintf("%d", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func listOf(doc map[string]interface{}, key string) []map[string]interface{} {
	raw, ok := doc[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]map[string]interface{}, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}

