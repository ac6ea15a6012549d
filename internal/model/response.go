// Package model 提供模型应答相关的数据模型
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResponseStatus 应答解析状态
type ResponseStatus string

const (
	ResponseStatusRaw        ResponseStatus = "raw"        // 仅有原始文本
	ResponseStatusExtracted  ResponseStatus = "extracted"  // 已提取出 JSON
	ResponseStatusNormalized ResponseStatus = "normalized" // 已完成规范化
	ResponseStatusFailed     ResponseStatus = "failed"     // 无法解析
)

// ModelResponse 模型对单篇文献的一次应答
type ModelResponse struct {
	ID         string         `json:"id" gorm:"type:varchar(36);primaryKey"`
	LLMModelID string         `json:"llm_model_id" gorm:"type:varchar(36);not null;index"`
	ArticleID  string         `json:"article_id" gorm:"type:varchar(36);not null;index"`
	PMID       string         `json:"pmid" gorm:"type:varchar(16);not null;index"`
	RawText    string         `json:"raw_text" gorm:"type:text"`       // 模型原始输出
	Extracted  JSON           `json:"extracted" gorm:"type:jsonb"`     // 提取出的 JSON
	Normalized JSON           `json:"normalized" gorm:"type:jsonb"`    // 四步结构规范化后的 JSON
	QATime     float64        `json:"qa_time" gorm:"default:0"`        // 问答耗时(秒)
	SourceFile string         `json:"source_file" gorm:"type:varchar(500)"`
	Status     ResponseStatus `json:"status" gorm:"type:varchar(20);default:'raw'"`
	ErrorMsg   string         `json:"error_msg,omitempty" gorm:"type:text"`
	CreatedAt  time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate GORM 钩子
func (r *ModelResponse) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// TableName 指定表名
func (ModelResponse) TableName() string {
	return "model_responses"
}
