// Copyright 2019-present Kuei-chun Chen. All rights reserved.
// poller.go

package timeline

import (
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// DefaultInterval is the default poll interval
const DefaultInterval = time.Minute

// Poller runs a task at a fixed interval. A tick that comes due while the
// previous run is still going is rescheduled rather than run concurrently.
type Poller struct {
	sync.Mutex
	name      string
	interval  time.Duration
	task      func()
	scheduler gocron.Scheduler
	job       gocron.Job
	logger    *zap.SugaredLogger
}

// NewPoller returns a started scheduler without any job; call Resume to begin
func NewPoller(name string, interval time.Duration, task func(), logger *zap.SugaredLogger) (*Poller, error) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	scheduler.Start()
	return &Poller{name: name, interval: interval, task: task, scheduler: scheduler, logger: logger}, nil
}

// Running returns true if the task is scheduled
func (p *Poller) Running() bool {
	p.Lock()
	defer p.Unlock()
	return p.job != nil
}

// Resume schedules the task; resuming a running poller does nothing
func (p *Poller) Resume() error {
	p.Lock()
	defer p.Unlock()
	if p.job != nil {
		return nil
	}
	job, err := p.scheduler.NewJob(
		gocron.DurationJob(p.interval),
		gocron.NewTask(p.task),
		gocron.WithName(p.name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}
	p.job = job
	p.logger.Debugw("poll resumed", "graph", p.name, "interval", p.interval.String())
	return nil
}

// Pause removes the scheduled task. A run already in progress completes.
func (p *Poller) Pause() error {
	p.Lock()
	defer p.Unlock()
	if p.job == nil {
		return nil
	}
	err := p.scheduler.RemoveJob(p.job.ID())
	p.job = nil
	p.logger.Debugw("poll paused", "graph", p.name)
	return err
}

// Stop shuts the scheduler down
func (p *Poller) Stop() error {
	p.Lock()
	defer p.Unlock()
	p.job = nil
	return p.scheduler.Shutdown()
}
