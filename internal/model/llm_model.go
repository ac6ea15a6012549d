// Package model 提供被测模型相关的数据模型
package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Deployment 模型部署方式
type Deployment string

const (
	DeploymentLocal Deployment = "local" // 本地部署 (Ollama / vLLM)
	DeploymentAPI   Deployment = "api"   // 远程 API
)

// RAGMode 检索增强模式
type RAGMode string

const (
	RAGModeNone      RAGMode = "none"      // 纯模型,无检索
	RAGModeGuideline RAGMode = "guideline" // 指南文档检索增强
)

// LLMModelStatus 模型状态
type LLMModelStatus string

const (
	LLMModelStatusActive   LLMModelStatus = "active"   // 可用
	LLMModelStatusDisabled LLMModelStatus = "disabled" // 停用
)

// LLMModel 参与评测的大语言模型
type LLMModel struct {
	ID            string         `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name          string         `json:"name" gorm:"type:varchar(255);uniqueIndex;not null"`
	Provider      string         `json:"provider" gorm:"type:varchar(100)"`                 // openai / alibaba / deepseek / ollama
	Deployment    Deployment     `json:"deployment" gorm:"type:varchar(20);not null"`       // 部署方式
	ParameterSize string         `json:"parameter_size" gorm:"type:varchar(50)"`            // 参数规模 (如 "70B")
	RAGMode       RAGMode        `json:"rag_mode" gorm:"type:varchar(20);default:'none'"`   // 检索增强模式
	Description   string         `json:"description" gorm:"type:text"`
	Parameters    JSON           `json:"parameters" gorm:"type:jsonb"`                      // base_url / api_key / 温度等
	Status        LLMModelStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	CreatedAt     int64          `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     int64          `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate GORM 钩子，创建前生成 UUID
func (m *LLMModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// TableName 指定表名
func (LLMModel) TableName() string {
	return "llm_models"
}
