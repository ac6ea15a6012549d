// Package rating 依据功能实验证据推导变异的 PS3/BS3 证据强度
package rating

import (
	"strconv"
	"strings"
)

// 证据强度等级
const (
	StrengthNone       = "No PS3/BS3"
	StrengthSupporting = "Supporting"
	StrengthModerate   = "Moderate"
	StrengthStrong     = "Strong"
	StrengthVeryStrong = "Very Strong"
)

// 实验方法里的判定字段
const (
	FieldApprovedAssay      = "Approved assay"
	FieldBasicPosControl    = "Basic positive control"
	FieldBasicNegControl    = "Basic negative control"
	FieldBioReplicates      = "Biological replicates"
	FieldTechReplicates     = "Technical replicates"
	FieldValidationPLP      = "Validation controls P/LP"
	FieldValidationBLB      = "Validation controls B/LB"
	FieldReadoutDescription = "Readout description"
	FieldReadoutDetails     = "Readout details"
)

// EvidenceStrength 多级决策推导证据强度
// 依次检查：方法是否获认可 -> 对照与重复 -> 已知致病/良性对照 -> OddsPath 可算性
func EvidenceStrength(doc map[string]interface{}) string {
	if !hasApprovedAssay(doc) {
		return StrengthNone
	}
	if !hasControlsAndReplicates(doc) {
		return StrengthNone
	}
	if !hasKnownVariantControls(doc) {
		return StrengthSupporting
	}

	if ok, odds, _ := ComputeOddsPath(doc); ok {
		return StrengthByOddsPath(odds)
	}

	abnormal, normal := CountConclusions(doc)
	if abnormal+normal > 10 {
		return StrengthModerate
	}
	return StrengthSupporting
}

// hasApprovedAssay 至少一个实验方法被领域认可
func hasApprovedAssay(doc map[string]interface{}) bool {
	for _, assay := range assays(doc) {
		if _, ok := assay[FieldApprovedAssay]; !ok {
			continue
		}
		if isYes(assay, FieldApprovedAssay) {
			return true
		}
	}
	return false
}

// hasControlsAndReplicates 同一实验中同时具备基本对照（正或负）与重复（生物学或技术）
func hasControlsAndReplicates(doc map[string]interface{}) bool {
	for _, assay := range assays(doc) {
		hasControl := isYes(assay, FieldBasicPosControl) || isYes(assay, FieldBasicNegControl)
		hasReplicates := isYes(assay, FieldBioReplicates) || isYes(assay, FieldTechReplicates)
		if hasControl && hasReplicates {
			return true
		}
	}
	return false
}

// hasKnownVariantControls 实验包含已知致病(P/LP)或良性(B/LB)变异对照
func hasKnownVariantControls(doc map[string]interface{}) bool {
	for _, assay := range assays(doc) {
		if isYes(assay, FieldValidationPLP) || isYes(assay, FieldValidationBLB) {
			return true
		}
	}
	return false
}

// CountConclusions 统计读出结论中的异常与正常数量
func CountConclusions(doc map[string]interface{}) (abnormal, normal int) {
	for _, assay := range assays(doc) {
		readout, ok := assay[FieldReadoutDescription].([]interface{})
		if !ok {
			// 字符串形式的读出无法区分变异,不计数
			continue
		}
		for _, item := range readout {
			result, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			switch result["Conclusion"] {
			case "Abnormal":
				abnormal++
			case "Normal":
				normal++
			}
		}
	}
	return abnormal, normal
}

// assays 取出实验方法列表
func assays(doc map[string]interface{}) []map[string]interface{} {
	raw, ok := doc["Experiment Method"].([]interface{})
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

// isYes 读取判定字段
// 字段有两种写法：裸字符串 "Yes",或与同名键嵌套的对象 {"<字段>": "Yes", "Counts": n}
func isYes(assay map[string]interface{}, field string) bool {
	v, ok := assay[field]
	if !ok || v == nil {
		return false
	}
	if m, ok := v.(map[string]interface{}); ok {
		return m[field] == "Yes"
	}
	return v == "Yes"
}

// counts 读取嵌套对象里的 Counts,裸字符串写法视为 0
func counts(assay map[string]interface{}, field string) int {
	m, ok := assay[field].(map[string]interface{})
	if !ok {
		return 0
	}
	switch v := m["Counts"].(type) {
	case float64:
		if v >= 0 && v == float64(int(v)) {
			return int(v)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 0 {
			return n
		}
	}
	return 0
}
