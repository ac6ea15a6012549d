package rating

// OddsPath 阈值,取自 ClinGen SVI 功能证据建议的对照表
const (
	oddsPathogenicVeryStrong = 350.0
	oddsPathogenicStrong     = 18.7
	oddsPathogenicModerate   = 4.3
	oddsBenignVeryStrong     = 0.0029
	oddsBenignStrong         = 0.053
	oddsBenignModerate       = 0.23
)

// StrengthByOddsPath 按 OddsPath 数值落点给出强度
func StrengthByOddsPath(odds float64) string {
	switch {
	case odds < oddsBenignVeryStrong || odds > oddsPathogenicVeryStrong:
		return StrengthVeryStrong
	case (odds >= oddsBenignVeryStrong && odds < oddsBenignStrong) ||
		(odds > oddsPathogenicStrong && odds <= oddsPathogenicVeryStrong):
		return StrengthStrong
	case (odds >= oddsBenignStrong && odds < oddsBenignModerate) ||
		(odds > oddsPathogenicModerate && odds <= oddsPathogenicStrong):
		return StrengthModerate
	default:
		return StrengthSupporting
	}
}

// ComputeOddsPath 依据验证对照计数计算 OddsPath
// 返回是否可计算、数值,以及读出是否完全二元（无 Indeterminate）
// 超过一个 Indeterminate 读出时视为不可计算
func ComputeOddsPath(doc map[string]interface{}) (bool, float64, bool) {
	pathogenic := 0
	benign := 0
	indeterminate := 0

	for _, assay := range assays(doc) {
		pathogenic += counts(assay, FieldValidationPLP)
		benign += counts(assay, FieldValidationBLB)

		readout, ok := assay[FieldReadoutDescription].([]interface{})
		if !ok {
			continue
		}
		for _, item := range readout {
			if result, ok := item.(map[string]interface{}); ok && result["Conclusion"] == "Indeterminate" {
				indeterminate++
			}
		}
	}

	total := pathogenic + benign
	if total == 0 {
		return false, 0, true
	}

	p1 := float64(pathogenic+1) / float64(total+2)
	p2 := float64(pathogenic+1) / float64(total+2)
	odds := (p2 * (1 - p1)) / ((1 - p2) * p1)

	switch indeterminate {
	case 0:
		return true, odds, true
	case 1:
		return true, odds, false
	default:
		return false, 0, true
	}
}
