package maintenance

import (
	"context"
	"log/slog"
	"time"
)

// SessionPruner is the subset of session.Store needed by the prune job.
// Defined here to avoid a dependency on the session package.
type SessionPruner interface {
	Prune(maxIdle time.Duration) int
}

// KnowledgeReporter is the subset of knowledge.Store needed by the stats job.
type KnowledgeReporter interface {
	Len() int
}

// SessionPruneJob removes conversation contexts idle longer than MaxIdle.
type SessionPruneJob struct {
	Store        SessionPruner
	MaxIdle      time.Duration
	Logger       *slog.Logger
	ScheduleExpr string // empty = default "*/10 * * * *"
}

// Compile-time interface check.
var _ Job = (*SessionPruneJob)(nil)

// Name implements Job.
func (j *SessionPruneJob) Name() string { return "session_prune" }

// Schedule implements Job.
func (j *SessionPruneJob) Schedule() string {
	if j.ScheduleExpr != "" {
		return j.ScheduleExpr
	}
	return "*/10 * * * *"
}

// Run prunes sessions idle longer than MaxIdle.
func (j *SessionPruneJob) Run(_ context.Context) error {
	pruned := j.Store.Prune(j.MaxIdle)
	if pruned > 0 {
		j.Logger.Info("maintenance: pruned idle sessions", "count", pruned)
	}
	return nil
}

// KnowledgeStatsJob periodically logs the knowledge store size, giving
// operators a heartbeat line in the logs even when traffic is quiet.
type KnowledgeStatsJob struct {
	Store        KnowledgeReporter
	Logger       *slog.Logger
	ScheduleExpr string // empty = default "0 * * * *"
}

// Compile-time interface check.
var _ Job = (*KnowledgeStatsJob)(nil)

// Name implements Job.
func (j *KnowledgeStatsJob) Name() string { return "knowledge_stats" }

// Schedule implements Job.
func (j *KnowledgeStatsJob) Schedule() string {
	if j.ScheduleExpr != "" {
		return j.ScheduleExpr
	}
	return "0 * * * *"
}

// Run logs the current store size.
func (j *KnowledgeStatsJob) Run(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	j.Logger.Info("maintenance: knowledge stats", "entries", j.Store.Len())
	return nil
}
