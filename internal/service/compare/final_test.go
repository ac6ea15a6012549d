package compare

import (
	"testing"

	"github.com/acmgbench/varbench/internal/service/rating"
)

func finding(hgvs, ref, alt string, pos float64, pathogenic *bool, strength string) *rating.VariantFinding {
	return &rating.VariantFinding{
		HGVS: hgvs,
		ProteinChange: map[string]interface{}{
			"ref":      ref,
			"alt":      alt,
			"position": pos,
		},
		Pathogenic: pathogenic,
		Strength:   strength,
	}
}

// ========== CompareFindings 测试 ==========

func TestCompareFindings(t *testing.T) {
	trueVal := true
	falseVal := false

	std := []*rating.VariantFinding{
		finding("c.100C>T", "R", "C", 34, &trueVal, rating.StrengthModerate),
		finding("c.200G>A", "G", "D", 67, &falseVal, rating.StrengthSupporting),
	}
	model := []*rating.VariantFinding{
		// 变异与致病性命中,强度不符
		finding("c.100C>T", "R", "C", 34, &trueVal, rating.StrengthSupporting),
		// 无中生有的变异
		finding("c.300T>C", "Y", "H", 99, &trueVal, rating.StrengthModerate),
	}

	res := CompareFindings(model, std)
	if res.StdVariants != 2 || res.ModelVariants != 2 {
		t.Errorf("variant counts = (%d, %d), want (2, 2)", res.StdVariants, res.ModelVariants)
	}
	if res.VariantCorrect != 1 {
		t.Errorf("VariantCorrect = %d, want 1", res.VariantCorrect)
	}
	if res.PathogenicityCorrect != 1 {
		t.Errorf("PathogenicityCorrect = %d, want 1", res.PathogenicityCorrect)
	}
	if res.StrengthCorrect != 0 {
		t.Errorf("StrengthCorrect = %d, want 0", res.StrengthCorrect)
	}
}

func TestCompareFindings_StopCodonAliases(t *testing.T) {
	trueVal := true
	std := []*rating.VariantFinding{
		finding("c.102C>A", "R", "TER", 34, &trueVal, rating.StrengthStrong),
	}
	model := []*rating.VariantFinding{
		finding("c.102C>A", "R", "*", 34, &trueVal, rating.StrengthStrong),
	}

	res := CompareFindings(model, std)
	if res.VariantCorrect != 1 {
		t.Errorf("VariantCorrect = %d, STOP/TER and * should align", res.VariantCorrect)
	}
	if res.StrengthCorrect != 1 {
		t.Errorf("StrengthCorrect = %d, want 1", res.StrengthCorrect)
	}
}

func TestCompareFindings_UnknownPathogenicityMatches(t *testing.T) {
	std := []*rating.VariantFinding{
		finding("c.100C>T", "R", "C", 34, nil, rating.StrengthNone),
	}
	model := []*rating.VariantFinding{
		finding("c.100C>T", "R", "C", 34, nil, rating.StrengthNone),
	}

	res := CompareFindings(model, std)
	if res.PathogenicityCorrect != 1 {
		t.Errorf("PathogenicityCorrect = %d, two Unknown verdicts should match", res.PathogenicityCorrect)
	}
}

func TestCompareFindings_Rates(t *testing.T) {
	res := &FinalResult{
		StdVariants:          4,
		ModelVariants:        3,
		VariantCorrect:       2,
		PathogenicityCorrect: 1,
		StrengthCorrect:      1,
	}
	if got := res.IdentificationRate(); got != 0.5 {
		t.Errorf("IdentificationRate() = %v, want 0.5", got)
	}
	if got := res.PathogenicityRate(); got != 0.5 {
		t.Errorf("PathogenicityRate() = %v, want 0.5", got)
	}
	if got := res.StrengthRate(); got != 1.0 {
		t.Errorf("StrengthRate() = %v, want 1.0", got)
	}

	empty := &FinalResult{}
	if empty.IdentificationRate() != 0 || empty.PathogenicityRate() != 0 || empty.StrengthRate() != 0 {
		t.Error("zero-division rates should be 0")
	}
}
