// Package analytics 提供分析服务单元测试
package analytics

import (
	"context"
	"database/sql"
	"math"
	"testing"
	"time"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// newTestService 构造直连内存 DuckDB 的服务,跳过 postgres 加载
func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := sql.Open("duckdb", "")
	if err != nil {
		t.Fatalf("open duckdb: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s := &Service{db: db}
	if err := s.createTables(context.Background()); err != nil {
		t.Fatalf("createTables() error = %v", err)
	}
	return s
}

func insertRun(t *testing.T, s *Service, runID, modelID, modelName, kind string,
	completedAt time.Time, std, modelFields, correct, falseAsserts, omissions,
	vTotal, vIdent, pMatch, sMatch int, qaTime float64) {
	t.Helper()
	_, err := s.db.Exec(`INSERT INTO runs VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, modelID, modelName, kind, completedAt,
		std, modelFields, correct, falseAsserts, omissions,
		vTotal, vIdent, pMatch, sMatch, qaTime)
	if err != nil {
		t.Fatalf("insert run: %v", err)
	}
}

// ========== Leaderboard 测试 ==========

func TestLeaderboard(t *testing.T) {
	s := newTestService(t)
	now := time.Now()

	// gpt-4o: 逐字段 + 变异级两类运行
	insertRun(t, s, "run-1", "m1", "gpt-4o", "fine_grained", now,
		100, 90, 80, 5, 20, 0, 0, 0, 0, 12.5)
	insertRun(t, s, "run-2", "m1", "gpt-4o", "final_rating", now,
		0, 0, 0, 0, 0, 10, 8, 6, 3, 11.5)
	// qwen: 仅逐字段
	insertRun(t, s, "run-3", "m2", "qwen-max", "fine_grained", now,
		100, 100, 50, 30, 50, 0, 0, 0, 0, 30.0)

	board, err := s.Leaderboard(context.Background())
	if err != nil {
		t.Fatalf("Leaderboard() error = %v", err)
	}
	if len(board) != 2 {
		t.Fatalf("Leaderboard() len = %d, want 2", len(board))
	}

	// 字段命中率降序,gpt-4o 在前
	top := board[0]
	if top.ModelName != "gpt-4o" {
		t.Fatalf("Leaderboard()[0] = %s, want gpt-4o", top.ModelName)
	}
	if !almostEqual(top.FieldAccuracy, 0.8) {
		t.Errorf("FieldAccuracy = %v, want 0.8", top.FieldAccuracy)
	}
	if !almostEqual(top.FalseAssertRate, 5.0/90.0) {
		t.Errorf("FalseAssertRate = %v, want %v", top.FalseAssertRate, 5.0/90.0)
	}
	if !almostEqual(top.OmissionRate, 0.2) {
		t.Errorf("OmissionRate = %v, want 0.2", top.OmissionRate)
	}
	if !almostEqual(top.IdentificationRate, 0.8) {
		t.Errorf("IdentificationRate = %v, want 0.8", top.IdentificationRate)
	}
	if !almostEqual(top.PathogenicityRate, 0.75) {
		t.Errorf("PathogenicityRate = %v, want 0.75", top.PathogenicityRate)
	}
	if !almostEqual(top.StrengthRate, 0.5) {
		t.Errorf("StrengthRate = %v, want 0.5", top.StrengthRate)
	}
	if !almostEqual(top.AvgQATime, 12.0) {
		t.Errorf("AvgQATime = %v, want 12.0", top.AvgQATime)
	}

	// qwen 无变异级运行,比率为 0
	second := board[1]
	if second.ModelName != "qwen-max" {
		t.Fatalf("Leaderboard()[1] = %s, want qwen-max", second.ModelName)
	}
	if !almostEqual(second.FieldAccuracy, 0.5) {
		t.Errorf("FieldAccuracy = %v, want 0.5", second.FieldAccuracy)
	}
	if second.IdentificationRate != 0 || second.StrengthRate != 0 {
		t.Errorf("final rating rates = %v/%v, want 0/0",
			second.IdentificationRate, second.StrengthRate)
	}
}

func TestLeaderboard_LatestRunWins(t *testing.T) {
	s := newTestService(t)
	old := time.Now().Add(-24 * time.Hour)
	recent := time.Now()

	insertRun(t, s, "run-old", "m1", "gpt-4o", "fine_grained", old,
		100, 100, 30, 0, 70, 0, 0, 0, 0, 10)
	insertRun(t, s, "run-new", "m1", "gpt-4o", "fine_grained", recent,
		100, 100, 90, 0, 10, 0, 0, 0, 0, 10)

	board, err := s.Leaderboard(context.Background())
	if err != nil {
		t.Fatalf("Leaderboard() error = %v", err)
	}
	if len(board) != 1 {
		t.Fatalf("Leaderboard() len = %d, want 1", len(board))
	}
	if !almostEqual(board[0].FieldAccuracy, 0.9) {
		t.Errorf("FieldAccuracy = %v, want 0.9 from the latest run", board[0].FieldAccuracy)
	}
}

func TestLeaderboard_Empty(t *testing.T) {
	s := newTestService(t)
	board, err := s.Leaderboard(context.Background())
	if err != nil {
		t.Fatalf("Leaderboard() error = %v", err)
	}
	if len(board) != 0 {
		t.Errorf("Leaderboard() len = %d, want 0", len(board))
	}
}

// ========== FieldDifficulty 测试 ==========

func TestFieldDifficulty(t *testing.T) {
	s := newTestService(t)
	now := time.Now()

	insertRun(t, s, "run-1", "m1", "gpt-4o", "fine_grained", now,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0)

	seed := []struct {
		pmid    string
		field   string
		std     int
		model   int
		correct int
		falseA  int
	}{
		{"30000001", "Variants Include.Gene", 1, 1, 1, 0},
		{"30000002", "Variants Include.Gene", 1, 1, 1, 0},
		{"30000001", "Experiment Method.Assay Method", 3, 2, 1, 1},
		{"30000002", "Experiment Method.Assay Method", 2, 2, 1, 0},
	}
	for _, row := range seed {
		_, err := s.db.Exec(`INSERT INTO field_stats VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			"run-1", "m1", row.pmid, row.field, row.std, row.model, row.correct, row.falseA)
		if err != nil {
			t.Fatalf("insert field stat: %v", err)
		}
	}

	ranking, err := s.FieldDifficulty(context.Background())
	if err != nil {
		t.Fatalf("FieldDifficulty() error = %v", err)
	}
	if len(ranking) != 2 {
		t.Fatalf("FieldDifficulty() len = %d, want 2", len(ranking))
	}

	// 命中率最低的字段排最前
	hardest := ranking[0]
	if hardest.Field != "Experiment Method.Assay Method" {
		t.Fatalf("hardest field = %s", hardest.Field)
	}
	if hardest.StdCount != 5 || hardest.Correct != 2 || hardest.FalseAsserts != 1 {
		t.Errorf("hardest counts = %d/%d/%d", hardest.StdCount, hardest.Correct, hardest.FalseAsserts)
	}
	if !almostEqual(hardest.Accuracy, 0.4) {
		t.Errorf("hardest accuracy = %v, want 0.4", hardest.Accuracy)
	}

	if ranking[1].Field != "Variants Include.Gene" || !almostEqual(ranking[1].Accuracy, 1.0) {
		t.Errorf("easiest = %s accuracy %v", ranking[1].Field, ranking[1].Accuracy)
	}
}

func TestFieldDifficulty_ExcludesStaleRuns(t *testing.T) {
	s := newTestService(t)
	old := time.Now().Add(-24 * time.Hour)
	recent := time.Now()

	insertRun(t, s, "run-old", "m1", "gpt-4o", "fine_grained", old,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0)
	insertRun(t, s, "run-new", "m1", "gpt-4o", "fine_grained", recent,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0)

	for _, row := range []struct {
		runID   string
		correct int
	}{
		{"run-old", 0},
		{"run-new", 1},
	} {
		_, err := s.db.Exec(`INSERT INTO field_stats VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			row.runID, "m1", "30000001", "Variants Include.Gene", 1, 1, row.correct, 0)
		if err != nil {
			t.Fatalf("insert field stat: %v", err)
		}
	}

	ranking, err := s.FieldDifficulty(context.Background())
	if err != nil {
		t.Fatalf("FieldDifficulty() error = %v", err)
	}
	if len(ranking) != 1 {
		t.Fatalf("FieldDifficulty() len = %d, want 1", len(ranking))
	}
	if !almostEqual(ranking[0].Accuracy, 1.0) {
		t.Errorf("accuracy = %v, want 1.0 from the latest run only", ranking[0].Accuracy)
	}
}

// ========== intValue 测试 ==========

func TestIntValue(t *testing.T) {
	if got := intValue(float64(7)); got != 7 {
		t.Errorf("intValue(float64) = %d", got)
	}
	if got := intValue(3); got != 3 {
		t.Errorf("intValue(int) = %d", got)
	}
	if got := intValue("x"); got != 0 {
		t.Errorf("intValue(string) = %d", got)
	}
	if got := intValue(nil); got != 0 {
		t.Errorf("intValue(nil) = %d", got)
	}
}
