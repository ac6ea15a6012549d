// Package model 提供指南文档相关的数据模型
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GuidelineStatus 指南文档处理状态
type GuidelineStatus string

const (
	GuidelineStatusPending    GuidelineStatus = "pending"    // 待处理
	GuidelineStatusProcessing GuidelineStatus = "processing" // 解析分块中
	GuidelineStatusIndexed    GuidelineStatus = "indexed"    // 已入 ES 索引
	GuidelineStatusFailed     GuidelineStatus = "failed"     // 处理失败
)

// GuidelineDocument 一份 ACMG/ClinGen 指南文档
type GuidelineDocument struct {
	ID         string          `json:"id" gorm:"type:varchar(36);primaryKey"`
	Title      string          `json:"title" gorm:"type:varchar(255);not null"`
	FileName   string          `json:"file_name" gorm:"type:varchar(255);not null"`
	FilePath   string          `json:"file_path" gorm:"type:varchar(500)"`
	FileSize   int64           `json:"file_size" gorm:"default:0"`
	Source     string          `json:"source" gorm:"type:varchar(255)"` // 发布机构,如 ClinGen SVI
	ChunkCount int             `json:"chunk_count" gorm:"default:0"`
	Status     GuidelineStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	ErrorMsg   string          `json:"error_msg,omitempty" gorm:"type:text"`
	CreatedAt  time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt  `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate GORM 钩子
func (d *GuidelineDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

// GuidelineChunk 指南文档的一个分块,与 ES 中的向量文档一一对应
type GuidelineChunk struct {
	ID         string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	DocumentID string    `json:"document_id" gorm:"type:varchar(36);not null;index"`
	ChunkIndex int       `json:"chunk_index" gorm:"index"`
	Content    string    `json:"content" gorm:"type:text"`
	Metadata   JSON      `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate GORM 钩子
func (c *GuidelineChunk) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
