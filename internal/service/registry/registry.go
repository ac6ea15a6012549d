// Package registry 提供被测模型与提示词模板的管理服务
package registry

import (
	"context"
	"fmt"

	"github.com/acmgbench/varbench/internal/model"
	"github.com/acmgbench/varbench/internal/repository"
)

// Service 注册表服务
type Service struct {
	repo *repository.Repositories
}

// NewService 创建注册表服务
func NewService(repo *repository.Repositories) *Service {
	return &Service{
		repo: repo,
	}
}

// ========== 被测模型 ==========

// CreateModel 登记被测模型
func (s *Service) CreateModel(ctx context.Context, m *model.LLMModel) error {
	if m.Deployment != model.DeploymentLocal && m.Deployment != model.DeploymentAPI {
		return fmt.Errorf("unknown deployment: %s", m.Deployment)
	}
	if m.RAGMode == "" {
		m.RAGMode = model.RAGModeNone
	}
	if m.RAGMode != model.RAGModeNone && m.RAGMode != model.RAGModeGuideline {
		return fmt.Errorf("unknown rag mode: %s", m.RAGMode)
	}
	if existing, err := s.repo.LLMModel.GetByName(ctx, m.Name); err == nil && existing != nil {
		return fmt.Errorf("model %q already registered", m.Name)
	}
	return s.repo.LLMModel.Create(ctx, m)
}

// GetModelByID 根据 ID 获取被测模型
func (s *Service) GetModelByID(ctx context.Context, id string) (*model.LLMModel, error) {
	return s.repo.LLMModel.GetByID(ctx, id)
}

// ListModels 列出被测模型,可按部署方式与检索模式过滤
func (s *Service) ListModels(ctx context.Context, deployment *model.Deployment, ragMode *model.RAGMode) ([]*model.LLMModel, error) {
	return s.repo.LLMModel.List(ctx, deployment, ragMode)
}

// UpdateModel 更新被测模型
func (s *Service) UpdateModel(ctx context.Context, m *model.LLMModel) error {
	if _, err := s.repo.LLMModel.GetByID(ctx, m.ID); err != nil {
		return err
	}
	return s.repo.LLMModel.Update(ctx, m)
}

// DeleteModel 删除被测模型
func (s *Service) DeleteModel(ctx context.Context, id string) error {
	return s.repo.LLMModel.Delete(ctx, id)
}

// ListProviders 列出支持的模型提供商
func (s *Service) ListProviders(ctx context.Context) []Provider {
	return []Provider{
		{
			Name:        "openai",
			DisplayName: "OpenAI",
			Description: "OpenAI 官方 API",
			Deployments: []model.Deployment{model.DeploymentAPI},
		},
		{
			Name:        "alibaba",
			DisplayName: "阿里云 DashScope",
			Description: "阿里云通义千问 API",
			Deployments: []model.Deployment{model.DeploymentAPI},
		},
		{
			Name:        "deepseek",
			DisplayName: "DeepSeek",
			Description: "DeepSeek API",
			Deployments: []model.Deployment{model.DeploymentAPI},
		},
		{
			Name:        "ollama",
			DisplayName: "本地模型",
			Description: "通过 Ollama / vLLM 的 OpenAI 兼容接口运行的本地模型",
			Deployments: []model.Deployment{model.DeploymentLocal},
		},
	}
}

// Provider 模型提供商信息
type Provider struct {
	Name        string             `json:"name"`
	DisplayName string             `json:"display_name"`
	Description string             `json:"description"`
	Deployments []model.Deployment `json:"deployments"`
}

// ========== 提示词模板 ==========

// CreatePrompt 新建提示词模板,版本号在同名同用途模板上自动递增
func (s *Service) CreatePrompt(ctx context.Context, p *model.PromptTemplate) error {
	if p.Stage != model.PromptStageAssessment && p.Stage != model.PromptStageFormat {
		return fmt.Errorf("unknown prompt stage: %s", p.Stage)
	}
	if p.Content == "" {
		return fmt.Errorf("prompt content is required")
	}
	if p.Version == 0 {
		latest, err := s.repo.Prompt.GetLatestByStage(ctx, p.Stage)
		if err == nil && latest != nil {
			p.Version = latest.Version + 1
		} else {
			p.Version = 1
		}
	}
	return s.repo.Prompt.Create(ctx, p)
}

// GetPromptByID 根据 ID 获取提示词模板
func (s *Service) GetPromptByID(ctx context.Context, id string) (*model.PromptTemplate, error) {
	return s.repo.Prompt.GetByID(ctx, id)
}

// ListPrompts 列出提示词模板,可按用途过滤
func (s *Service) ListPrompts(ctx context.Context, stage *model.PromptStage) ([]*model.PromptTemplate, error) {
	return s.repo.Prompt.List(ctx, stage)
}

// UpdatePrompt 更新提示词模板
func (s *Service) UpdatePrompt(ctx context.Context, p *model.PromptTemplate) error {
	if _, err := s.repo.Prompt.GetByID(ctx, p.ID); err != nil {
		return err
	}
	return s.repo.Prompt.Update(ctx, p)
}

// DeletePrompt 删除提示词模板
func (s *Service) DeletePrompt(ctx context.Context, id string) error {
	return s.repo.Prompt.Delete(ctx, id)
}
