// Package model 提供文献与提示词相关的数据模型
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Article 功能实验文献,每篇对应一个 PMID 与一份金标准注释
type Article struct {
	ID           string         `json:"id" gorm:"type:varchar(36);primaryKey"`
	PMID         string         `json:"pmid" gorm:"type:varchar(16);uniqueIndex;not null"` // PubMed ID,8 位数字
	Title        string         `json:"title" gorm:"type:text"`
	Gene         string         `json:"gene" gorm:"type:varchar(100);index"`
	GoldStandard JSON           `json:"gold_standard" gorm:"type:jsonb"` // 专家标注的规范化 JSON
	SourceFile   string         `json:"source_file" gorm:"type:varchar(500)"`
	CreatedAt    time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate GORM 钩子
func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName 指定表名
func (Article) TableName() string {
	return "articles"
}

// PromptStage 提示词用途
type PromptStage string

const (
	PromptStageAssessment PromptStage = "assessment" // 功能证据评估提示词
	PromptStageFormat     PromptStage = "format"     // JSON 规范化提示词
)

// PromptTemplate 评测使用的提示词模板
type PromptTemplate struct {
	ID        string         `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(255);not null"`
	Stage     PromptStage    `json:"stage" gorm:"type:varchar(20);not null;index"`
	Version   int            `json:"version" gorm:"default:1"`
	Content   string         `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate GORM 钩子
func (p *PromptTemplate) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName 指定表名
func (PromptTemplate) TableName() string {
	return "prompt_templates"
}
