// Package checker drives the periodic scan cycle: plan windows, fetch and
// parse availability, drop already-seen slots, notify.
package checker

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/jhyun-dev/court-watcher/internal/court"
	"github.com/jhyun-dev/court-watcher/internal/notifier"
)

// Availability is the fetch side of the pipeline.
type Availability interface {
	FetchAll(ctx context.Context, targets []court.Target, windows []court.Window) []court.Slot
}

// Filter is the cross-cycle deduplication side of the pipeline.
type Filter interface {
	FilterNew(slots []court.Slot) []court.Slot
}

// Checker runs one scan cycle at a time over the configured watch targets.
type Checker struct {
	targets   []court.Target
	fetcher   Availability
	dedup     Filter
	notifiers []notifier.Notifier
	log       logrus.FieldLogger
	now       func() time.Time

	running atomic.Bool
}

// New creates a Checker.
func New(targets []court.Target, fetcher Availability, dedup Filter, notifiers []notifier.Notifier, log logrus.FieldLogger) *Checker {
	return &Checker{
		targets:   targets,
		fetcher:   fetcher,
		dedup:     dedup,
		notifiers: notifiers,
		log:       log,
		now:       time.Now,
	}
}

// RunCycle executes one full scan. Cycles never overlap: a tick that arrives
// while the previous cycle is still in flight is skipped.
func (c *Checker) RunCycle(ctx context.Context) {
	if !c.running.CompareAndSwap(false, true) {
		c.log.Warn("previous scan cycle still running, skipping this tick")
		return
	}
	defer c.running.Store(false)

	started := c.now()
	windows := court.Plan(started)
	c.log.WithFields(logrus.Fields{
		"windows": fmt.Sprintf("%d/%d, %d/%d", windows[0].Year, windows[0].Month, windows[1].Year, windows[1].Month),
		"targets": len(c.targets),
	}).Info("scan cycle started")

	slots := c.fetcher.FetchAll(ctx, c.targets, windows)
	fresh := c.dedup.FilterNew(slots)

	c.log.WithFields(logrus.Fields{
		"fetched":  len(slots),
		"new":      len(fresh),
		"duration": time.Since(started).String(),
	}).Info("scan cycle finished")

	if len(fresh) == 0 {
		return
	}

	for _, target := range c.targets {
		d := notifier.BuildDigest(target.Name, slotsOfType(fresh, target.CourtType))
		if d.Empty() {
			continue
		}
		notifier.FanOut(ctx, c.notifiers, d, c.log)
	}
}

// Start schedules RunCycle at the given interval and fires one immediate run.
// The returned cron must be stopped by the caller on shutdown.
func (c *Checker) Start(ctx context.Context, interval time.Duration) (*cron.Cron, error) {
	engine := cron.New(cron.WithLocation(time.Local))
	if _, err := engine.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		c.RunCycle(ctx)
	}); err != nil {
		return nil, fmt.Errorf("scheduling scan cycle: %w", err)
	}
	engine.Start()

	go c.RunCycle(ctx)

	return engine, nil
}

func slotsOfType(slots []court.Slot, courtType string) []court.Slot {
	var out []court.Slot
	for _, s := range slots {
		if s.CourtType == courtType {
			out = append(out, s)
		}
	}
	return out
}
