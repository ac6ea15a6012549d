// Package normalize 将不同模型输出的评估 JSON 归一到统一结构
package normalize

import (
	"fmt"
	"strconv"
	"strings"
)

// 评估流程的四个规范步骤
const (
	StepDefineMechanism   = "Step 1: Define the disease mechanism"
	StepEvaluateClasses   = "Step 2: Evaluate applicability of general classes of assay used in the field"
	StepEvaluateInstances = "Step 3: Evaluate validity of specific instances of assays"
	StepApplyEvidence     = "Step 4: Apply evidence to individual variant interpretation"
)

// RequiredSteps 规范步骤的固定顺序
var RequiredSteps = []string{
	StepDefineMechanism,
	StepEvaluateClasses,
	StepEvaluateInstances,
	StepApplyEvidence,
}

// substepMapping 部分模型会把第 3、4 步拆成子步骤输出
var substepMapping = map[string][]string{
	StepEvaluateInstances: {
		"Step 3a: Basic Controls and Replicates",
		"Step 3b: Appropriate Comparators",
		"Step 3c: Variant Controls",
	},
	StepApplyEvidence: {
		"Step 4a: OddsPath Calculation",
		"Step 4b: No OddsPath Calculation",
	},
}

// Service 应答结构规范化服务
type Service struct{}

// NewService 创建规范化服务
func NewService() *Service {
	return &Service{}
}

// Normalize 收集变异条目并逐条规范化,返回统一包装结构
func (s *Service) Normalize(v interface{}) map[string]interface{} {
	variants := CollectVariants(v)
	normalized := make([]interface{}, 0, len(variants))
	for _, variant := range variants {
		normalized = append(normalized, s.NormalizeVariant(variant))
	}
	return map[string]interface{}{
		"functional_evidence_assessment": normalized,
	}
}

// CollectVariants 从解析结果中收集变异条目
// 兼容三种结构：统一包装字段、裸 variant_id 对象、顶层数组
func CollectVariants(v interface{}) []map[string]interface{} {
	var variants []map[string]interface{}

	appendEntries := func(items []interface{}) {
		for _, item := range items {
			if m, ok := item.(map[string]interface{}); ok {
				variants = append(variants, m)
			}
		}
	}

	switch t := v.(type) {
	case map[string]interface{}:
		if wrapped, ok := t["functional_evidence_assessment"]; ok {
			switch w := wrapped.(type) {
			case []interface{}:
				appendEntries(w)
			case map[string]interface{}:
				variants = append(variants, w)
			}
		} else if _, ok := t["variant_id"]; ok {
			variants = append(variants, t)
		}
	case []interface{}:
		appendEntries(t)
	}

	return variants
}

// NormalizeVariant 规范化单个变异条目
func (s *Service) NormalizeVariant(variant map[string]interface{}) map[string]interface{} {
	s.normalizeVariantID(variant)
	s.normalizeSteps(variant)
	s.normalizeStrength(variant)
	return variant
}

// normalizeVariantID 确保蛋白位置为整数
func (s *Service) normalizeVariantID(variant map[string]interface{}) {
	id, ok := variant["variant_id"].(map[string]interface{})
	if !ok {
		return
	}
	protein, ok := id["Protein_Change"].(map[string]interface{})
	if !ok {
		return
	}
	if pos, ok := protein["position"]; ok {
		if n, err := toInt(pos); err == nil {
			protein["position"] = n
		}
	}
}

// normalizeSteps 按固定顺序补齐四个评估步骤,合并子步骤
func (s *Service) normalizeSteps(variant map[string]interface{}) {
	raw, ok := variant["assessment_steps"].([]interface{})
	if !ok {
		return
	}

	existing := make(map[string]map[string]interface{})
	for _, item := range raw {
		step, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		name, _ := step["step_name"].(string)
		existing[name] = step
	}

	standardized := make([]interface{}, 0, len(RequiredSteps))
	for _, name := range RequiredSteps {
		if step, ok := existing[name]; ok {
			standardized = append(standardized, step)
			continue
		}
		if merged := mergeSubsteps(existing, name); merged != nil {
			standardized = append(standardized, merged)
			continue
		}
		standardized = append(standardized, map[string]interface{}{
			"step_name":            name,
			"extracted_paper_info": "Not evaluated",
			"judgment":             "Not evaluated",
			"reasoning":            "No information provided in the paper",
		})
	}

	variant["assessment_steps"] = standardized
}

// mergeSubsteps 将子步骤合并为主步骤,全部 Yes 才判 Yes,否则 Partial
func mergeSubsteps(existing map[string]map[string]interface{}, target string) map[string]interface{} {
	var relevant []map[string]interface{}
	for _, name := range substepMapping[target] {
		if step, ok := existing[name]; ok {
			relevant = append(relevant, step)
		}
	}
	if len(relevant) == 0 {
		return nil
	}

	var infos, reasonings []string
	allYes := true
	for _, step := range relevant {
		name, _ := step["step_name"].(string)
		info := stringOr(step["extracted_paper_info"], "Not evaluated")
		reasoning := stringOr(step["reasoning"], "No reasoning provided")
		infos = append(infos, fmt.Sprintf("%s: %s", name, info))
		reasonings = append(reasonings, fmt.Sprintf("%s: %s", name, reasoning))
		if judgment, _ := step["judgment"].(string); judgment != "Yes" {
			allYes = false
		}
	}

	judgment := "Partial"
	if allYes {
		judgment = "Yes"
	}

	return map[string]interface{}{
		"step_name":            target,
		"extracted_paper_info": strings.Join(infos, "\n\n"),
		"judgment":             judgment,
		"reasoning":            strings.Join(reasonings, "\n\n"),
	}
}

// normalizeStrength 统一证据强度大小写,如 "VERY STRONG" -> "Very strong"
func (s *Service) normalizeStrength(variant map[string]interface{}) {
	evidence, ok := variant["final_evidence_strength"].(map[string]interface{})
	if !ok {
		return
	}
	if t, ok := evidence["type"].(string); ok && t != "" {
		evidence["type"] = Capitalize(t)
	}
}

// Capitalize 首字母大写,其余小写
func Capitalize(s string) string {
	s = strings.ToLower(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func toInt(v interface{}) (int, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case float64:
		return int(t), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(t))
	default:
		return 0, fmt.Errorf("cannot convert %T to int", v)
	}
}

func stringOr(v interface{}, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}
