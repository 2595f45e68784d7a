package storage

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/voicify/voicify-api/internal/api/metrics"
	"github.com/voicify/voicify-api/internal/core/ports"
)

const (
	defaultRetention     = time.Hour
	defaultSweepInterval = 10 * time.Minute
)

// Cleaner periodically deletes artifacts older than the retention
// window. It runs on its own timer, independent of request traffic, so
// retention holds even when the service is idle. No artifact outlives
// retention + one sweep interval.
type Cleaner struct {
	store     ports.ArtifactStore
	retention time.Duration
	interval  time.Duration
	log       zerolog.Logger
}

func NewCleaner(store ports.ArtifactStore, retention, interval time.Duration, log zerolog.Logger) *Cleaner {
	if retention <= 0 {
		retention = defaultRetention
	}
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &Cleaner{store: store, retention: retention, interval: interval, log: log}
}

// Start launches the sweep loop in a goroutine. The loop stops when ctx
// is cancelled.
func (c *Cleaner) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Sweep(time.Now().UTC())
			}
		}
	}()
}

// Sweep deletes every artifact older than the retention window. A
// failed delete (e.g. a race with another removal) is logged and
// skipped; the sweep always visits the remaining artifacts.
func (c *Cleaner) Sweep(now time.Time) {
	artifacts, err := c.store.ListAll()
	if err != nil {
		c.log.Error().Err(err).Msg("cleanup sweep: listing failed")
		return
	}

	var swept int
	for _, a := range artifacts {
		if now.Sub(a.CreatedAt) <= c.retention {
			continue
		}
		if err := c.store.Delete(a.ID); err != nil {
			metrics.SweepErrorsTotal.Inc()
			c.log.Warn().Err(err).Str("artifact", a.ID).Msg("cleanup sweep: delete failed")
			continue
		}
		metrics.ArtifactsSweptTotal.Inc()
		swept++
	}

	if swept > 0 {
		c.log.Info().Int("swept", swept).Msg("cleanup sweep completed")
	}
}
