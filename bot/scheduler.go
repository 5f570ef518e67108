package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultQuantum  = 3 * time.Second
	DefaultCooldown = 10 * time.Second
)

// Task is a unit of periodic work. A task is due when it has never run or
// Interval has elapsed since its last start.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

type slot struct {
	task Task
	last time.Time
}

// Scheduler drives every task from a single loop that wakes each quantum.
// Tasks run one at a time in the order they were added.
type Scheduler struct {
	slots    []*slot
	quantum  time.Duration
	cooldown time.Duration
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
	log      zerolog.Logger
}

func NewScheduler(quantum, cooldown time.Duration, log zerolog.Logger) *Scheduler {
	if quantum <= 0 {
		quantum = DefaultQuantum
	}
	if cooldown < 0 {
		cooldown = DefaultCooldown
	}
	return &Scheduler{
		quantum:  quantum,
		cooldown: cooldown,
		now:      time.Now,
		sleep:    sleepCtx,
		log:      log.With().Str("component", "scheduler").Logger(),
	}
}

func (s *Scheduler) Add(t Task) {
	s.slots = append(s.slots, &slot{task: t})
}

// Tasks returns the registered task names.
func (s *Scheduler) Tasks() []string {
	names := make([]string, len(s.slots))
	for i, sl := range s.slots {
		names[i] = sl.task.Name
	}
	return names
}

// Run loops until ctx is cancelled. It never returns early on a task
// failure: errors and panics are logged and followed by the cooldown.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info().Strs("tasks", s.Tasks()).Dur("quantum", s.quantum).Msg("scheduler started")
	for {
		if failed := s.Tick(ctx); failed > 0 && ctx.Err() == nil {
			if err := s.sleep(ctx, s.cooldown); err != nil {
				break
			}
		}
		if err := s.sleep(ctx, s.quantum); err != nil {
			break
		}
	}
	s.log.Info().Msg("scheduler stopped")
	return nil
}

// Tick runs every due task once and returns how many failed.
func (s *Scheduler) Tick(ctx context.Context) int {
	failed := 0
	for _, sl := range s.slots {
		if ctx.Err() != nil {
			return failed
		}
		now := s.now()
		if !sl.last.IsZero() && now.Sub(sl.last) < sl.task.Interval {
			continue
		}
		sl.last = now

		start := time.Now()
		// An in-flight task finishes its transitions even after an interrupt.
		err := s.runTask(context.WithoutCancel(ctx), sl.task)
		if err != nil {
			failed++
			s.log.Error().Err(err).Str("task", sl.task.Name).Msg("task failed")
			continue
		}
		s.log.Debug().Str("task", sl.task.Name).Dur("took", time.Since(start)).Msg("task done")
	}
	return failed
}

func (s *Scheduler) runTask(ctx context.Context, t Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", t.Name, r)
		}
	}()
	return t.Run(ctx)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
