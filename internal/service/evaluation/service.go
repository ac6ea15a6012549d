// Package evaluation 组织评估运行:遍历文献,将模型输出与金标准比对并累计指标
package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/acmgbench/varbench/internal/model"
	"github.com/acmgbench/varbench/internal/repository"
	"github.com/acmgbench/varbench/internal/service/compare"
	"github.com/acmgbench/varbench/internal/service/event"
	"github.com/acmgbench/varbench/internal/service/progress"
	"github.com/acmgbench/varbench/internal/service/rating"
)

// Service 评估服务
type Service struct {
	repo    *repository.Repositories
	tracker *progress.Tracker
	events  event.Store
}

// NewService 创建评估服务
func NewService(repo *repository.Repositories, tracker *progress.Tracker, events event.Store) *Service {
	if tracker == nil {
		tracker = progress.NewTracker(nil)
	}
	if events == nil {
		events = event.NewMemoryStore()
	}
	return &Service{
		repo:    repo,
		tracker: tracker,
		events:  events,
	}
}

// StartRunRequest 发起评估请求
type StartRunRequest struct {
	LLMModelID string               `json:"llm_model_id" binding:"required"`
	Kind       model.EvaluationKind `json:"kind" binding:"required"`
	// PMIDs 非空时只评估这些文献
	PMIDs []string `json:"pmids"`
}

// StartRun 创建评估任务并异步执行
func (s *Service) StartRun(ctx context.Context, req *StartRunRequest) (*model.EvaluationRun, error) {
	if req.Kind != model.EvaluationKindFineGrained && req.Kind != model.EvaluationKindFinalRating {
		return nil, fmt.Errorf("unknown evaluation kind: %s", req.Kind)
	}
	if _, err := s.repo.LLMModel.GetByID(ctx, req.LLMModelID); err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}

	responses, err := s.repo.Response.ListByModel(ctx, req.LLMModelID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}
	responses = filterByPMIDs(responses, req.PMIDs)
	if len(responses) == 0 {
		return nil, fmt.Errorf("model %s has no imported responses to evaluate", req.LLMModelID)
	}

	run := &model.EvaluationRun{
		LLMModelID:    req.LLMModelID,
		Kind:          req.Kind,
		Status:        model.EvaluationStatusPending,
		TotalArticles: len(responses),
	}
	if err := s.repo.Evaluation.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	go s.execute(context.Background(), run, responses)

	return run, nil
}

// execute 逐篇文献比对,期间持续回写进度
func (s *Service) execute(ctx context.Context, run *model.EvaluationRun, responses []*model.ModelResponse) {
	now := time.Now()
	run.Status = model.EvaluationStatusRunning
	run.StartedAt = &now
	if err := s.repo.Evaluation.UpdateRun(ctx, run); err != nil {
		log.Printf("evaluation run %s: failed to mark running: %v", run.ID, err)
		return
	}

	recorder, _ := event.NewRecorder(run.ID, s.events)
	_ = recorder.OnStart(ctx, len(responses))

	summary := &model.EvaluationSummary{}
	completed := 0
	timed := 0

	for _, resp := range responses {
		if s.tracker.IsCancelled(ctx, run.ID) {
			_ = recorder.OnCancelled(ctx)
			s.finish(ctx, run, summary, timed, completed, model.EvaluationStatusCancelled, "cancelled")
			return
		}

		result, err := s.evaluateArticle(ctx, run, resp)
		if err != nil {
			log.Printf("evaluation run %s: pmid %s: %v", run.ID, resp.PMID, err)
			_ = recorder.OnError(ctx, resp.PMID, err)
			continue
		}
		if err := s.repo.Evaluation.CreateArticleResult(ctx, result); err != nil {
			log.Printf("evaluation run %s: pmid %s: save result: %v", run.ID, resp.PMID, err)
			_ = recorder.OnError(ctx, resp.PMID, err)
			continue
		}

		accumulate(summary, result)
		if result.QATime > 0 {
			summary.AvgQATime += result.QATime
			timed++
		}
		_ = recorder.OnArticle(ctx, resp.PMID)

		completed++
		pct := completed * 100 / len(responses)
		if err := s.repo.Evaluation.UpdateProgress(ctx, run.ID, pct, completed, model.EvaluationStatusRunning); err != nil {
			log.Printf("evaluation run %s: update progress: %v", run.ID, err)
		}
		s.tracker.Update(ctx, run.ID, string(model.EvaluationStatusRunning), pct, completed, len(responses))
	}

	status := model.EvaluationStatusCompleted
	errMsg := ""
	if completed == 0 {
		status = model.EvaluationStatusFailed
		errMsg = "no article could be evaluated"
	}
	_ = recorder.OnEnd(ctx, string(status))
	s.finish(ctx, run, summary, timed, completed, status, errMsg)
}

// finish 汇总并落终态
func (s *Service) finish(ctx context.Context, run *model.EvaluationRun, summary *model.EvaluationSummary,
	timed, completed int, status model.EvaluationRunStatus, errMsg string) {
	finalize(summary, timed)

	done := time.Now()
	run.Status = status
	run.CompletedCount = completed
	run.Summary = summary
	run.CompletedAt = &done
	run.ErrorMsg = errMsg
	if status == model.EvaluationStatusCompleted {
		run.Progress = 100
	}
	if err := s.repo.Evaluation.UpdateRun(ctx, run); err != nil {
		log.Printf("evaluation run %s: failed to finish: %v", run.ID, err)
	}
	s.tracker.Update(ctx, run.ID, string(status), run.Progress, completed, run.TotalArticles)
}

// filterByPMIDs 按 PMID 子集过滤应答,子集为空时全量返回
func filterByPMIDs(responses []*model.ModelResponse, pmids []string) []*model.ModelResponse {
	if len(pmids) == 0 {
		return responses
	}
	keep := make(map[string]bool, len(pmids))
	for _, pmid := range pmids {
		keep[pmid] = true
	}
	var out []*model.ModelResponse
	for _, resp := range responses {
		if keep[resp.PMID] {
			out = append(out, resp)
		}
	}
	return out
}

// evaluateArticle 比对单篇文献
func (s *Service) evaluateArticle(ctx context.Context, run *model.EvaluationRun, resp *model.ModelResponse) (*model.ArticleResult, error) {
	if resp.Status == model.ResponseStatusFailed || resp.Extracted == nil {
		return nil, fmt.Errorf("response has no usable json (status %s)", resp.Status)
	}

	article, err := s.repo.Article.GetByPMID(ctx, resp.PMID)
	if err != nil {
		return nil, fmt.Errorf("failed to load gold standard: %w", err)
	}
	if article.GoldStandard == nil {
		return nil, fmt.Errorf("article %s has no gold standard document", resp.PMID)
	}

	std := map[string]interface{}(article.GoldStandard)
	modelDoc := map[string]interface{}(resp.Extracted)

	result := &model.ArticleResult{
		RunID:  run.ID,
		PMID:   resp.PMID,
		QATime: resp.QATime,
	}

	switch run.Kind {
	case model.EvaluationKindFineGrained:
		cmp := compare.NewComparator(std).Compare(modelDoc)
		result.StdFields = cmp.StdTotal
		result.ModelFields = cmp.ModelTotal
		result.CorrectFields = cmp.CorrectTotal
		result.FalseAsserts = cmp.FalseAssertTotal
		result.FieldOmissions = cmp.FieldOmissionsTotal
		result.StdYes = cmp.StdYesTotal
		result.CorrectYes = cmp.CorrectYesTotal
		result.StdNo = cmp.StdNoTotal
		result.CorrectNo = cmp.CorrectNoTotal
		result.Detail = fieldDetail(cmp)

	case model.EvaluationKindFinalRating:
		stdFindings := rating.AnalyzeVariants(std)
		modelFindings := rating.AnalyzeVariants(modelDoc)
		final := compare.CompareFindings(modelFindings, stdFindings)
		result.VariantsTotal = final.StdVariants
		result.VariantsIdentified = final.VariantCorrect
		result.PathogenicityMatches = final.PathogenicityCorrect
		result.StrengthMatches = final.StrengthCorrect
		result.Detail = findingDetail(modelFindings)
	}

	return result, nil
}

// fieldDetail 逐字段计数明细,供字段难度分析使用
func fieldDetail(cmp *compare.Result) model.JSONArray {
	paths := make([]string, 0, len(cmp.FieldMetrics))
	for path := range cmp.FieldMetrics {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	detail := make(model.JSONArray, 0, len(paths))
	for _, path := range paths {
		m := cmp.FieldMetrics[path]
		if m.StdCount == 0 && m.ModelCount == 0 {
			continue
		}
		detail = append(detail, map[string]interface{}{
			"field":        path,
			"std_count":    m.StdCount,
			"model_count":  m.ModelCount,
			"correct":      m.Correct,
			"false_assert": m.FalseAssert,
		})
	}
	return detail
}

// findingDetail 变异明细,便于页面下钻
func findingDetail(findings []*rating.VariantFinding) model.JSONArray {
	detail := make(model.JSONArray, 0, len(findings))
	for _, f := range findings {
		raw, err := json.Marshal(f)
		if err != nil {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal(raw, &m); err != nil {
			continue
		}
		m["label"] = f.Label()
		m["pathogenicity"] = f.PathogenicityText()
		detail = append(detail, m)
	}
	return detail
}

func accumulate(summary *model.EvaluationSummary, r *model.ArticleResult) {
	summary.StdFields += r.StdFields
	summary.ModelFields += r.ModelFields
	summary.CorrectFields += r.CorrectFields
	summary.FalseAsserts += r.FalseAsserts
	summary.FieldOmissions += r.FieldOmissions
	summary.StdYes += r.StdYes
	summary.CorrectYes += r.CorrectYes
	summary.StdNo += r.StdNo
	summary.CorrectNo += r.CorrectNo

	summary.VariantsTotal += r.VariantsTotal
	summary.VariantsIdentified += r.VariantsIdentified
	summary.PathogenicityMatches += r.PathogenicityMatches
	summary.StrengthMatches += r.StrengthMatches
}

// finalize 由累计计数推出比率,调用前 AvgQATime 存放的是耗时总和
func finalize(summary *model.EvaluationSummary, timed int) {
	if summary.StdFields > 0 {
		summary.Accuracy = float64(summary.CorrectFields) / float64(summary.StdFields)
	}
	if summary.StdYes > 0 {
		summary.Sensitivity = float64(summary.CorrectYes) / float64(summary.StdYes)
	}
	if summary.StdNo > 0 {
		summary.Specificity = float64(summary.CorrectNo) / float64(summary.StdNo)
	}
	if summary.ModelFields > 0 && summary.StdFields > 0 {
		precision := float64(summary.CorrectFields) / float64(summary.ModelFields)
		recall := summary.Accuracy
		if precision+recall > 0 {
			summary.F1 = 2 * precision * recall / (precision + recall)
		}
	}
	if summary.VariantsTotal > 0 {
		summary.IdentificationRate = float64(summary.VariantsIdentified) / float64(summary.VariantsTotal)
	}
	if summary.VariantsIdentified > 0 {
		summary.PathogenicityRate = float64(summary.PathogenicityMatches) / float64(summary.VariantsIdentified)
	}
	if summary.PathogenicityMatches > 0 {
		summary.StrengthRate = float64(summary.StrengthMatches) / float64(summary.PathogenicityMatches)
	}
	if timed > 0 {
		summary.AvgQATime /= float64(timed)
	}
}

// GetRun 查询评估任务
func (s *Service) GetRun(ctx context.Context, id string) (*model.EvaluationRun, error) {
	return s.repo.Evaluation.GetRunByID(ctx, id)
}

// ListRuns 列出评估任务
func (s *Service) ListRuns(ctx context.Context, modelID string, kind *model.EvaluationKind, limit, offset int) ([]*model.EvaluationRun, int64, error) {
	return s.repo.Evaluation.ListRuns(ctx, modelID, kind, limit, offset)
}

// DeleteRun 删除评估任务及其文献级结果
func (s *Service) DeleteRun(ctx context.Context, id string) error {
	_ = s.events.ClearEvents(ctx, id)
	s.tracker.Clear(ctx, id)
	return s.repo.Evaluation.DeleteRun(ctx, id)
}

// Events 列出任务的生命周期事件
func (s *Service) Events(ctx context.Context, runID string) ([]*event.Event, error) {
	return s.events.GetEvents(ctx, runID)
}

// Cancel 请求取消运行中的评估,在下一篇文献前生效
func (s *Service) Cancel(ctx context.Context, runID string) error {
	run, err := s.repo.Evaluation.GetRunByID(ctx, runID)
	if err != nil {
		return err
	}
	if run.Status != model.EvaluationStatusPending && run.Status != model.EvaluationStatusRunning {
		return fmt.Errorf("run %s is %s, cannot cancel", runID, run.Status)
	}
	s.tracker.Cancel(ctx, runID)
	return nil
}

// Progress 查询评估进度,优先取进度跟踪器的实时状态
func (s *Service) Progress(ctx context.Context, runID string) (*progress.Status, error) {
	if st, ok := s.tracker.Get(ctx, runID); ok {
		return st, nil
	}
	run, err := s.repo.Evaluation.GetRunByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	return &progress.Status{
		RunID:     run.ID,
		Status:    string(run.Status),
		Progress:  run.Progress,
		Completed: run.CompletedCount,
		Total:     run.TotalArticles,
	}, nil
}

// ListArticleResults 列出任务下的文献级结果
func (s *Service) ListArticleResults(ctx context.Context, runID string) ([]*model.ArticleResult, error) {
	return s.repo.Evaluation.ListArticleResults(ctx, runID)
}
