package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/yukikurage/video-task-dashboard/internal/models"
)

// OverduePoller periodically checks whether the cutoff hour has passed while
// today still has pending tasks, and bumps its generation when it has.
type OverduePoller struct {
	tasks      *TaskService
	cutoffHour int
	interval   time.Duration
	loc        *time.Location
	now        Clock

	generation atomic.Uint64

	mu     sync.Mutex
	cron   *cron.Cron
	stopCh chan struct{}
}

// NewOverduePoller creates a poller that is not yet running
func NewOverduePoller(tasks *TaskService, cutoffHour int, interval time.Duration, loc *time.Location, now Clock) *OverduePoller {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &OverduePoller{
		tasks:      tasks,
		cutoffHour: cutoffHour,
		interval:   interval,
		loc:        loc,
		now:        now,
	}
}

// Generation returns the number of ticks that found overdue work
func (p *OverduePoller) Generation() uint64 {
	return p.generation.Load()
}

// Start schedules the check and stops it when ctx is cancelled.
func (p *OverduePoller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cron != nil {
		return fmt.Errorf("overdue poller already started")
	}

	c := cron.New(cron.WithLocation(p.loc))
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", p.interval), func() { p.Check() }); err != nil {
		return fmt.Errorf("failed to schedule overdue check: %w", err)
	}
	c.Start()

	stopCh := make(chan struct{})
	p.cron = c
	p.stopCh = stopCh

	go func() {
		select {
		case <-ctx.Done():
			p.Stop()
		case <-stopCh:
		}
	}()

	log.Printf("[overdue] polling every %s, cutoff hour %d", p.interval, p.cutoffHour)
	return nil
}

// Stop cancels the schedule and waits for a running check to finish
func (p *OverduePoller) Stop() {
	p.mu.Lock()
	c := p.cron
	stopCh := p.stopCh
	p.cron = nil
	p.stopCh = nil
	p.mu.Unlock()

	if c == nil {
		return
	}
	close(stopCh)

	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
		log.Printf("[overdue] stop timeout waiting for running check")
	}
	log.Printf("[overdue] stopped")
}

// Check runs one poll. It reports whether the generation moved.
func (p *OverduePoller) Check() bool {
	now := p.now().In(p.loc)
	if !IsOverdueWindow(now, p.cutoffHour) {
		return false
	}

	today := models.DayKey(now, p.loc)
	for _, task := range p.tasks.Tasks() {
		if task.IsPending() && task.DayKey(p.loc) == today {
			p.generation.Add(1)
			return true
		}
	}
	return false
}
