package jobs

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"
)

const ReconcileInterval = 1 * time.Hour

type ScoreReconciler interface {
	ReconcileScores() (int, error)
}

// ScoreReconcilerJob periodically rewrites every company score from its rates.
type ScoreReconcilerJob struct {
	reconciler ScoreReconciler
	interval   time.Duration
}

func NewScoreReconcilerJob(reconciler ScoreReconciler) *ScoreReconcilerJob {
	return &ScoreReconcilerJob{reconciler: reconciler, interval: ReconcileInterval}
}

func (j *ScoreReconcilerJob) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	log.Info("Score reconciler cron started")

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping score reconciler...")
			return
		case <-ticker.C:
			j.reconcile()
		}
	}
}

func (j *ScoreReconcilerJob) reconcile() {
	drifted, err := j.reconciler.ReconcileScores()
	if err != nil {
		log.Errorf("Reconciler: failed to recompute scores: %v", err)
		return
	}

	if drifted > 0 {
		log.Warnf("Reconciler: fixed %d drifted company scores", drifted)
	}
}
