package jobs

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"
)

const cleanupInterval = 5 * time.Minute

// StaleSweeper closes dead websocket connections.
type StaleSweeper interface {
	SweepStale(ctx context.Context) int
}

type ConnectionCleaner struct {
	sweeper  StaleSweeper
	interval time.Duration
}

func NewConnectionCleaner(sweeper StaleSweeper) *ConnectionCleaner {
	return &ConnectionCleaner{sweeper: sweeper, interval: cleanupInterval}
}

// Start blocks until ctx is cancelled, sweeping on every tick.
func (c *ConnectionCleaner) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	log.Info("Connection cleaner cron started")

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping connection cleaner...")
			return
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

func (c *ConnectionCleaner) cleanup(ctx context.Context) {
	if closed := c.sweeper.SweepStale(ctx); closed > 0 {
		log.Infof("Cleaner: closed %d stale connections", closed)
	}
}
