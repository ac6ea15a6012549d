package compare

import (
	"github.com/acmgbench/varbench/internal/service/normalize"
	"github.com/acmgbench/varbench/internal/service/rating"
)

// FinalResult 最终评级的三个层层递进维度
// 致病性维度只在变异命中的子集上比,强度维度只在致病性命中的子集上比
type FinalResult struct {
	StdVariants          int `json:"std_variants"`
	ModelVariants        int `json:"model_variants"`
	VariantCorrect       int `json:"variant_correct"`
	PathogenicityCorrect int `json:"pathogenicity_correct"`
	StrengthCorrect      int `json:"strength_correct"`
}

// IdentificationRate 变异识别率
func (r *FinalResult) IdentificationRate() float64 {
	if r.StdVariants == 0 {
		return 0
	}
	return float64(r.VariantCorrect) / float64(r.StdVariants)
}

// PathogenicityRate 命中变异中致病性判断的正确率
func (r *FinalResult) PathogenicityRate() float64 {
	if r.VariantCorrect == 0 {
		return 0
	}
	return float64(r.PathogenicityCorrect) / float64(r.VariantCorrect)
}

// StrengthRate 致病性正确的变异中证据强度的正确率
func (r *FinalResult) StrengthRate() float64 {
	if r.PathogenicityCorrect == 0 {
		return 0
	}
	return float64(r.StrengthCorrect) / float64(r.PathogenicityCorrect)
}

type variantVerdict struct {
	pathogenicity string
	strength      string
}

// CompareFindings 按氨基酸改变对齐两侧的变异分析结果
func CompareFindings(model, std []*rating.VariantFinding) *FinalResult {
	stdVerdicts := verdictsByChange(std)
	modelVerdicts := verdictsByChange(model)

	res := &FinalResult{
		StdVariants:   len(stdVerdicts),
		ModelVariants: len(modelVerdicts),
	}

	for aa, mv := range modelVerdicts {
		sv, ok := stdVerdicts[aa]
		if !ok {
			continue
		}
		res.VariantCorrect++
		if mv.pathogenicity != sv.pathogenicity {
			continue
		}
		res.PathogenicityCorrect++
		if mv.strength == sv.strength {
			res.StrengthCorrect++
		}
	}
	return res
}

// verdictsByChange 以归一化的氨基酸改变为键,同键后者覆盖前者
func verdictsByChange(findings []*rating.VariantFinding) map[string]variantVerdict {
	out := make(map[string]variantVerdict, len(findings))
	for _, f := range findings {
		aa := normalize.AminoAcidChange(f.Label())
		if aa == "" {
			continue
		}
		out[aa] = variantVerdict{
			pathogenicity: f.PathogenicityText(),
			strength:      f.Strength,
		}
	}
	return out
}
