package maintenance

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

// testPruner implements SessionPruner for job tests.
type testPruner struct {
	pruneCalls atomic.Int32
	pruneFunc  func(maxIdle time.Duration) int
}

func (s *testPruner) Prune(maxIdle time.Duration) int {
	s.pruneCalls.Add(1)
	if s.pruneFunc != nil {
		return s.pruneFunc(maxIdle)
	}
	return 0
}

// testReporter implements KnowledgeReporter for job tests.
type testReporter struct {
	n int
}

func (r *testReporter) Len() int { return r.n }

func TestSessionPruneJob_Name(t *testing.T) {
	t.Parallel()
	j := &SessionPruneJob{Logger: slog.Default()}
	if j.Name() != "session_prune" {
		t.Errorf("name = %q, want %q", j.Name(), "session_prune")
	}
}

func TestSessionPruneJob_Schedule(t *testing.T) {
	t.Parallel()

	j := &SessionPruneJob{Logger: slog.Default()}
	if j.Schedule() != "*/10 * * * *" {
		t.Errorf("schedule = %q, want the default", j.Schedule())
	}

	j.ScheduleExpr = "*/5 * * * *"
	if j.Schedule() != "*/5 * * * *" {
		t.Errorf("schedule = %q, want the override", j.Schedule())
	}
}

func TestSessionPruneJob_Run(t *testing.T) {
	t.Parallel()

	store := &testPruner{
		pruneFunc: func(maxIdle time.Duration) int {
			if maxIdle != 30*time.Minute {
				t.Errorf("maxIdle = %v, want 30m", maxIdle)
			}
			return 3
		},
	}

	j := &SessionPruneJob{
		Store:   store,
		MaxIdle: 30 * time.Minute,
		Logger:  slog.Default(),
	}

	if err := j.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.pruneCalls.Load() != 1 {
		t.Errorf("prune calls = %d, want 1", store.pruneCalls.Load())
	}
}

func TestKnowledgeStatsJob_Name(t *testing.T) {
	t.Parallel()
	j := &KnowledgeStatsJob{Logger: slog.Default()}
	if j.Name() != "knowledge_stats" {
		t.Errorf("name = %q, want %q", j.Name(), "knowledge_stats")
	}
}

func TestKnowledgeStatsJob_Schedule(t *testing.T) {
	t.Parallel()
	j := &KnowledgeStatsJob{Logger: slog.Default()}
	if j.Schedule() != "0 * * * *" {
		t.Errorf("schedule = %q, want the default", j.Schedule())
	}
}

func TestKnowledgeStatsJob_Run(t *testing.T) {
	t.Parallel()
	j := &KnowledgeStatsJob{Store: &testReporter{n: 7}, Logger: slog.Default()}
	if err := j.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestKnowledgeStatsJob_CancelledContext(t *testing.T) {
	t.Parallel()
	j := &KnowledgeStatsJob{Store: &testReporter{}, Logger: slog.Default()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := j.Run(ctx); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
