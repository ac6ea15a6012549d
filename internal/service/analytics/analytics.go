// Package analytics 基于 DuckDB 的评估结果分析:模型榜单与字段难度排行。
// 数据从 postgres 结果表加载进 DuckDB 内存库,聚合一律用固定 SQL
package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/acmgbench/varbench/internal/config"
	"github.com/acmgbench/varbench/internal/model"
	"github.com/acmgbench/varbench/internal/repository"
)

// Service 结果分析服务
type Service struct {
	repo *repository.Repositories
	db   *sql.DB
	mu   sync.Mutex // DuckDB 刷新与查询串行化
}

// NewService 创建分析服务,cfg.Analytics.Path 为空时使用内存库
func NewService(repo *repository.Repositories, cfg *config.Config) (*Service, error) {
	db, err := sql.Open("duckdb", cfg.Analytics.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}

	s := &Service{repo: repo, db: db}
	if err := s.createTables(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close 关闭 DuckDB 连接
func (s *Service) Close() error {
	return s.db.Close()
}

func (s *Service) createTables(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id VARCHAR,
			model_id VARCHAR,
			model_name VARCHAR,
			kind VARCHAR,
			completed_at TIMESTAMP,
			std_fields INTEGER,
			model_fields INTEGER,
			correct_fields INTEGER,
			false_asserts INTEGER,
			field_omissions INTEGER,
			variants_total INTEGER,
			variants_identified INTEGER,
			pathogenicity_matches INTEGER,
			strength_matches INTEGER,
			avg_qa_time DOUBLE
		)`,
		`CREATE TABLE IF NOT EXISTS field_stats (
			run_id VARCHAR,
			model_id VARCHAR,
			pmid VARCHAR,
			field VARCHAR,
			std_count INTEGER,
			model_count INTEGER,
			correct INTEGER,
			false_assert INTEGER
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create analytics table: %w", err)
		}
	}
	return nil
}

// Refresh 重新从 postgres 加载完成的评估结果
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	runs, err := s.repo.Evaluation.GetRunsByStatus(ctx, model.EvaluationStatusCompleted)
	if err != nil {
		return fmt.Errorf("failed to load completed runs: %w", err)
	}

	modelNames, err := s.modelNames(ctx)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin duckdb tx: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM runs", "DELETE FROM field_stats"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear analytics tables: %w", err)
		}
	}

	for _, run := range runs {
		if run.Summary == nil {
			continue
		}
		sum := run.Summary
		_, err := tx.ExecContext(ctx,
			`INSERT INTO runs VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, run.LLMModelID, modelNames[run.LLMModelID], string(run.Kind), run.CompletedAt,
			sum.StdFields, sum.ModelFields, sum.CorrectFields, sum.FalseAsserts, sum.FieldOmissions,
			sum.VariantsTotal, sum.VariantsIdentified, sum.PathogenicityMatches, sum.StrengthMatches,
			sum.AvgQATime)
		if err != nil {
			return fmt.Errorf("failed to insert run row: %w", err)
		}

		if run.Kind == model.EvaluationKindFineGrained {
			if err := s.insertFieldStats(ctx, tx, run); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// insertFieldStats 展开逐字段明细
func (s *Service) insertFieldStats(ctx context.Context, tx *sql.Tx, run *model.EvaluationRun) error {
	results, err := s.repo.Evaluation.ListArticleResults(ctx, run.ID)
	if err != nil {
		return fmt.Errorf("failed to load article results for run %s: %w", run.ID, err)
	}

	for _, result := range results {
		for _, item := range result.Detail {
			row, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			field, _ := row["field"].(string)
			if field == "" {
				continue
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO field_stats VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				run.ID, run.LLMModelID, result.PMID, field,
				intValue(row["std_count"]), intValue(row["model_count"]),
				intValue(row["correct"]), intValue(row["false_assert"]))
			if err != nil {
				return fmt.Errorf("failed to insert field stat: %w", err)
			}
		}
	}
	return nil
}

func (s *Service) modelNames(ctx context.Context) (map[string]string, error) {
	models, err := s.repo.LLMModel.List(ctx, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	names := make(map[string]string, len(models))
	for _, m := range models {
		names[m.ID] = m.Name
	}
	return names, nil
}

// LeaderboardRow 单模型榜单行,两类评估各取最近一次完成的运行
type LeaderboardRow struct {
	ModelID            string  `json:"model_id"`
	ModelName          string  `json:"model_name"`
	FieldAccuracy      float64 `json:"field_accuracy"`
	FalseAssertRate    float64 `json:"false_assert_rate"`
	OmissionRate       float64 `json:"omission_rate"`
	IdentificationRate float64 `json:"identification_rate"`
	PathogenicityRate  float64 `json:"pathogenicity_rate"`
	StrengthRate       float64 `json:"strength_rate"`
	AvgQATime          float64 `json:"avg_qa_time"`
}

// Leaderboard 模型榜单,按字段命中率降序。查询前需先 Refresh
func (s *Service) Leaderboard(ctx context.Context) ([]*LeaderboardRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	const query = `
		WITH latest AS (
			SELECT *, row_number() OVER (PARTITION BY model_id, kind ORDER BY completed_at DESC) AS rn
			FROM runs
		)
		SELECT
			model_id,
			any_value(model_name),
			coalesce(sum(correct_fields) FILTER (WHERE kind = 'fine_grained')
				/ nullif(sum(std_fields) FILTER (WHERE kind = 'fine_grained'), 0), 0),
			coalesce(sum(false_asserts) FILTER (WHERE kind = 'fine_grained')
				/ nullif(sum(model_fields) FILTER (WHERE kind = 'fine_grained'), 0), 0),
			coalesce(sum(field_omissions) FILTER (WHERE kind = 'fine_grained')
				/ nullif(sum(std_fields) FILTER (WHERE kind = 'fine_grained'), 0), 0),
			coalesce(sum(variants_identified) FILTER (WHERE kind = 'final_rating')
				/ nullif(sum(variants_total) FILTER (WHERE kind = 'final_rating'), 0), 0),
			coalesce(sum(pathogenicity_matches) FILTER (WHERE kind = 'final_rating')
				/ nullif(sum(variants_identified) FILTER (WHERE kind = 'final_rating'), 0), 0),
			coalesce(sum(strength_matches) FILTER (WHERE kind = 'final_rating')
				/ nullif(sum(pathogenicity_matches) FILTER (WHERE kind = 'final_rating'), 0), 0),
			coalesce(avg(avg_qa_time) FILTER (WHERE avg_qa_time > 0), 0)
		FROM latest
		WHERE rn = 1
		GROUP BY model_id
		ORDER BY 3 DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("leaderboard query failed: %w", err)
	}
	defer rows.Close()

	var board []*LeaderboardRow
	for rows.Next() {
		r := &LeaderboardRow{}
		if err := rows.Scan(&r.ModelID, &r.ModelName, &r.FieldAccuracy, &r.FalseAssertRate,
			&r.OmissionRate, &r.IdentificationRate, &r.PathogenicityRate, &r.StrengthRate,
			&r.AvgQATime); err != nil {
			return nil, fmt.Errorf("leaderboard scan failed: %w", err)
		}
		board = append(board, r)
	}
	return board, rows.Err()
}

// FieldDifficultyRow 字段难度行,命中率越低排名越靠前
type FieldDifficultyRow struct {
	Field        string  `json:"field"`
	StdCount     int     `json:"std_count"`
	ModelCount   int     `json:"model_count"`
	Correct      int     `json:"correct"`
	FalseAsserts int     `json:"false_asserts"`
	Accuracy     float64 `json:"accuracy"`
}

// FieldDifficulty 逐字段难度排行,各模型最近一次逐字段评估合并统计。查询前需先 Refresh
func (s *Service) FieldDifficulty(ctx context.Context) ([]*FieldDifficultyRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	const query = `
		WITH latest AS (
			SELECT run_id, row_number() OVER (PARTITION BY model_id, kind ORDER BY completed_at DESC) AS rn
			FROM runs WHERE kind = 'fine_grained'
		)
		SELECT
			field,
			sum(std_count),
			sum(model_count),
			sum(correct),
			sum(false_assert),
			coalesce(sum(correct) / nullif(sum(std_count), 0), 0) AS accuracy
		FROM field_stats
		WHERE run_id IN (SELECT run_id FROM latest WHERE rn = 1)
		GROUP BY field
		HAVING sum(std_count) > 0
		ORDER BY accuracy ASC, field ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("field difficulty query failed: %w", err)
	}
	defer rows.Close()

	var ranking []*FieldDifficultyRow
	for rows.Next() {
		r := &FieldDifficultyRow{}
		if err := rows.Scan(&r.Field, &r.StdCount, &r.ModelCount, &r.Correct,
			&r.FalseAsserts, &r.Accuracy); err != nil {
			return nil, fmt.Errorf("field difficulty scan failed: %w", err)
		}
		ranking = append(ranking, r)
	}
	return ranking, rows.Err()
}

// intValue jsonb 里的数字反序列化为 float64
func intValue(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}
