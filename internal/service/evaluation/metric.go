package evaluation

import "github.com/acmgbench/varbench/internal/model"

// MetricInput 指标计算的输入,由一次运行的全部文献级结果构成
type MetricInput struct {
	Results []*model.ArticleResult
}

// Metric 评估指标接口
type Metric interface {
	// Compute 计算指标值
	Compute(input *MetricInput) float64
	// Name 指标名称
	Name() string
}

// ===== 字段准确率 =====

// FieldAccuracyMetric 命中字段数占金标准字段总数的比例
type FieldAccuracyMetric struct{}

func NewFieldAccuracyMetric() *FieldAccuracyMetric {
	return &FieldAccuracyMetric{}
}

func (m *FieldAccuracyMetric) Compute(input *MetricInput) float64 {
	correct, std := 0, 0
	for _, r := range input.Results {
		correct += r.CorrectFields
		std += r.StdFields
	}
	if std == 0 {
		return 0.0
	}
	return float64(correct) / float64(std)
}

func (m *FieldAccuracyMetric) Name() string {
	return "field_accuracy"
}

// ===== 幻觉率 =====

// FalseAssertionRateMetric 错误断言占模型输出字段总数的比例,衡量幻觉程度
type FalseAssertionRateMetric struct{}

func NewFalseAssertionRateMetric() *FalseAssertionRateMetric {
	return &FalseAssertionRateMetric{}
}

func (m *FalseAssertionRateMetric) Compute(input *MetricInput) float64 {
	falseAsserts, output := 0, 0
	for _, r := range input.Results {
		falseAsserts += r.FalseAsserts
		output += r.ModelFields
	}
	if output == 0 {
		return 0.0
	}
	return float64(falseAsserts) / float64(output)
}

func (m *FalseAssertionRateMetric) Name() string {
	return "false_assertion_rate"
}

// ===== 漏答率 =====

// OmissionRateMetric 漏答字段占金标准字段总数的比例,衡量信息完整性
type OmissionRateMetric struct{}

func NewOmissionRateMetric() *OmissionRateMetric {
	return &OmissionRateMetric{}
}

func (m *OmissionRateMetric) Compute(input *MetricInput) float64 {
	omissions, std := 0, 0
	for _, r := range input.Results {
		omissions += r.FieldOmissions
		std += r.StdFields
	}
	if std == 0 {
		return 0.0
	}
	return float64(omissions) / float64(std)
}

func (m *OmissionRateMetric) Name() string {
	return "omission_rate"
}

// ===== 布尔字段敏感性 =====

// SensitivityMetric 金标准为 yes 的布尔字段中模型答对的比例
type SensitivityMetric struct{}

func NewSensitivityMetric() *SensitivityMetric {
	return &SensitivityMetric{}
}

func (m *SensitivityMetric) Compute(input *MetricInput) float64 {
	correct, std := 0, 0
	for _, r := range input.Results {
		correct += r.CorrectYes
		std += r.StdYes
	}
	if std == 0 {
		return 0.0
	}
	return float64(correct) / float64(std)
}

func (m *SensitivityMetric) Name() string {
	return "sensitivity"
}

// ===== 布尔字段特异性 =====

// SpecificityMetric 金标准为 no 的布尔字段中模型答对的比例
type SpecificityMetric struct{}

func NewSpecificityMetric() *SpecificityMetric {
	return &SpecificityMetric{}
}

func (m *SpecificityMetric) Compute(input *MetricInput) float64 {
	correct, std := 0, 0
	for _, r := range input.Results {
		correct += r.CorrectNo
		std += r.StdNo
	}
	if std == 0 {
		return 0.0
	}
	return float64(correct) / float64(std)
}

func (m *SpecificityMetric) Name() string {
	return "specificity"
}

// ===== 字段级 F1 =====

// F1Metric 字段级精确率与召回率的调和平均
type F1Metric struct{}

func NewF1Metric() *F1Metric {
	return &F1Metric{}
}

func (m *F1Metric) Compute(input *MetricInput) float64 {
	correct, std, output := 0, 0, 0
	for _, r := range input.Results {
		correct += r.CorrectFields
		std += r.StdFields
		output += r.ModelFields
	}
	if std == 0 || output == 0 {
		return 0.0
	}
	precision := float64(correct) / float64(output)
	recall := float64(correct) / float64(std)
	if precision+recall == 0 {
		return 0.0
	}
	return 2 * precision * recall / (precision + recall)
}

func (m *F1Metric) Name() string {
	return "f1"
}

// ===== 变异识别率 =====

// IdentificationRateMetric 模型识别出的变异占金标准变异总数的比例
type IdentificationRateMetric struct{}

func NewIdentificationRateMetric() *IdentificationRateMetric {
	return &IdentificationRateMetric{}
}

func (m *IdentificationRateMetric) Compute(input *MetricInput) float64 {
	identified, total := 0, 0
	for _, r := range input.Results {
		identified += r.VariantsIdentified
		total += r.VariantsTotal
	}
	if total == 0 {
		return 0.0
	}
	return float64(identified) / float64(total)
}

func (m *IdentificationRateMetric) Name() string {
	return "identification_rate"
}

// ===== 致病性一致率 =====

// PathogenicityRateMetric 已识别变异中致病性判定一致的比例
type PathogenicityRateMetric struct{}

func NewPathogenicityRateMetric() *PathogenicityRateMetric {
	return &PathogenicityRateMetric{}
}

func (m *PathogenicityRateMetric) Compute(input *MetricInput) float64 {
	matches, identified := 0, 0
	for _, r := range input.Results {
		matches += r.PathogenicityMatches
		identified += r.VariantsIdentified
	}
	if identified == 0 {
		return 0.0
	}
	return float64(matches) / float64(identified)
}

func (m *PathogenicityRateMetric) Name() string {
	return "pathogenicity_rate"
}

// ===== 证据强度一致率 =====

// StrengthRateMetric 致病性一致的变异中证据强度也一致的比例
type StrengthRateMetric struct{}

func NewStrengthRateMetric() *StrengthRateMetric {
	return &StrengthRateMetric{}
}

func (m *StrengthRateMetric) Compute(input *MetricInput) float64 {
	matches, base := 0, 0
	for _, r := range input.Results {
		matches += r.StrengthMatches
		base += r.PathogenicityMatches
	}
	if base == 0 {
		return 0.0
	}
	return float64(matches) / float64(base)
}

func (m *StrengthRateMetric) Name() string {
	return "strength_rate"
}

// ===== 平均问答耗时 =====

// AvgQATimeMetric 有耗时记录的文献的平均问答耗时,单位秒
type AvgQATimeMetric struct{}

func NewAvgQATimeMetric() *AvgQATimeMetric {
	return &AvgQATimeMetric{}
}

func (m *AvgQATimeMetric) Compute(input *MetricInput) float64 {
	sum := 0.0
	timed := 0
	for _, r := range input.Results {
		if r.QATime > 0 {
			sum += r.QATime
			timed++
		}
	}
	if timed == 0 {
		return 0.0
	}
	return sum / float64(timed)
}

func (m *AvgQATimeMetric) Name() string {
	return "avg_qa_time"
}

// AllMetrics 返回全部指标,顺序固定
func AllMetrics() []Metric {
	return []Metric{
		NewFieldAccuracyMetric(),
		NewFalseAssertionRateMetric(),
		NewOmissionRateMetric(),
		NewSensitivityMetric(),
		NewSpecificityMetric(),
		NewF1Metric(),
		NewIdentificationRateMetric(),
		NewPathogenicityRateMetric(),
		NewStrengthRateMetric(),
		NewAvgQATimeMetric(),
	}
}
