// Package model 提供评估相关的数据模型
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EvaluationKind 评估类型
type EvaluationKind string

const (
	EvaluationKindFineGrained EvaluationKind = "fine_grained" // 中间信息逐字段比对
	EvaluationKindFinalRating EvaluationKind = "final_rating" // 变异级 PS3/BS3 结论比对
)

// EvaluationRunStatus 评估任务状态
type EvaluationRunStatus string

const (
	EvaluationStatusPending   EvaluationRunStatus = "pending"   // 待执行
	EvaluationStatusRunning   EvaluationRunStatus = "running"   // 执行中
	EvaluationStatusCompleted EvaluationRunStatus = "completed" // 已完成
	EvaluationStatusFailed    EvaluationRunStatus = "failed"    // 失败
	EvaluationStatusCancelled EvaluationRunStatus = "cancelled" // 用户取消
)

// EvaluationRun 一次针对单个模型的评估任务
type EvaluationRun struct {
	ID             string              `json:"id" gorm:"type:varchar(36);primaryKey"`
	LLMModelID     string              `json:"llm_model_id" gorm:"type:varchar(36);not null;index"`
	Kind           EvaluationKind      `json:"kind" gorm:"type:varchar(20);not null"`
	Status         EvaluationRunStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	Progress       int                 `json:"progress" gorm:"default:0"`        // 进度 0-100
	TotalArticles  int                 `json:"total_articles" gorm:"default:0"`  // 文献总数
	CompletedCount int                 `json:"completed_count" gorm:"default:0"` // 已完成文献数

	// 汇总结果
	Summary *EvaluationSummary `json:"summary,omitempty" gorm:"embedded;embeddedPrefix:summary_"`

	// 错误信息
	ErrorMsg string `json:"error_msg,omitempty" gorm:"type:text"`

	// 时间戳
	CreatedAt   time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	StartedAt   *time.Time     `json:"started_at,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// EvaluationSummary 全部文献的汇总指标
type EvaluationSummary struct {
	// 逐字段比对
	StdFields      int     `json:"std_fields"`      // 金标准字段总数
	ModelFields    int     `json:"model_fields"`    // 模型字段总数
	CorrectFields  int     `json:"correct_fields"`  // 命中字段数
	FalseAsserts   int     `json:"false_asserts"`   // 模型多答且错误的字段数
	FieldOmissions int     `json:"field_omissions"` // 模型漏答的字段数
	Accuracy       float64 `json:"accuracy"`        // CorrectFields / StdFields

	// 布尔字段敏感性/特异性
	StdYes     int `json:"std_yes"`     // 金标准为 yes 的布尔字段数
	CorrectYes int `json:"correct_yes"` // 其中模型答对的
	StdNo      int `json:"std_no"`      // 金标准为 no 的布尔字段数
	CorrectNo  int `json:"correct_no"`  // 其中模型答对的

	Sensitivity float64 `json:"sensitivity"` // CorrectYes / StdYes
	Specificity float64 `json:"specificity"` // CorrectNo / StdNo
	F1          float64 `json:"f1"`          // 字段级精确率与召回率的调和平均

	// 变异级结论比对
	VariantsTotal        int     `json:"variants_total"`        // 金标准变异总数
	VariantsIdentified   int     `json:"variants_identified"`   // 模型识别出的变异数
	PathogenicityMatches int     `json:"pathogenicity_matches"` // 异常/正常判定一致数
	StrengthMatches      int     `json:"strength_matches"`      // 证据强度一致数
	IdentificationRate   float64 `json:"identification_rate"`
	PathogenicityRate    float64 `json:"pathogenicity_rate"`
	StrengthRate         float64 `json:"strength_rate"`

	AvgQATime float64 `json:"avg_qa_time"` // 平均问答耗时(秒)
}

// BeforeCreate GORM 钩子，创建前生成 UUID
func (e *EvaluationRun) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// TableName 指定表名
func (EvaluationRun) TableName() string {
	return "evaluation_runs"
}

// ArticleResult 单篇文献的评估结果
type ArticleResult struct {
	ID    string `json:"id" gorm:"type:varchar(36);primaryKey"`
	RunID string `json:"run_id" gorm:"type:varchar(36);not null;index"`
	PMID  string `json:"pmid" gorm:"type:varchar(16);not null;index"`

	// 逐字段比对计数
	StdFields      int `json:"std_fields" gorm:"default:0"`
	ModelFields    int `json:"model_fields" gorm:"default:0"`
	CorrectFields  int `json:"correct_fields" gorm:"default:0"`
	FalseAsserts   int `json:"false_asserts" gorm:"default:0"`
	FieldOmissions int `json:"field_omissions" gorm:"default:0"`
	StdYes         int `json:"std_yes" gorm:"default:0"`
	CorrectYes     int `json:"correct_yes" gorm:"default:0"`
	StdNo          int `json:"std_no" gorm:"default:0"`
	CorrectNo      int `json:"correct_no" gorm:"default:0"`

	// 变异级结论比对计数
	VariantsTotal        int `json:"variants_total" gorm:"default:0"`
	VariantsIdentified   int `json:"variants_identified" gorm:"default:0"`
	PathogenicityMatches int `json:"pathogenicity_matches" gorm:"default:0"`
	StrengthMatches      int `json:"strength_matches" gorm:"default:0"`

	QATime float64 `json:"qa_time" gorm:"default:0"` // 问答耗时(秒)

	// 逐变异明细,便于页面下钻
	Detail JSONArray `json:"detail,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate GORM 钩子
func (r *ArticleResult) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// TableName 指定表名
func (ArticleResult) TableName() string {
	return "article_results"
}
