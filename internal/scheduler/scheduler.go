package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Service owns the cron that fires repeatable jobs, the per-class worker
// pools, and the registered-job set. It is created once at process start
// and injected into every caller; Start and Stop are the only lifecycle
// entry points.
type Service struct {
	mu         sync.Mutex
	logger     zerolog.Logger
	dispatcher Dispatcher

	c     *cron.Cron
	jobs  map[string]*registration
	pools map[JobClass]*pool

	tmu    sync.Mutex
	timers map[string]*time.Timer

	runCtx    context.Context
	runCancel context.CancelFunc
	workerWG  sync.WaitGroup
	started   bool
}

type registration struct {
	key      string
	class    JobClass
	entityID string
	payload  Payload
	interval time.Duration
	entryID  cron.EntryID
	state    *runState
}

func New(logger zerolog.Logger) *Service {
	return &Service{
		logger: logger.With().Str("component", "scheduler").Logger(),
		jobs:   map[string]*registration{},
		timers: map[string]*time.Timer{},
	}
}

// SetDispatcher must be called before Start.
func (s *Service) SetDispatcher(d Dispatcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatcher = d
}

func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	if s.dispatcher == nil {
		return errors.New("scheduler: dispatcher not set")
	}

	s.runCtx, s.runCancel = context.WithCancel(context.Background())
	s.c = cron.New()
	s.pools = newPools()

	for class, p := range s.pools {
		for i := 0; i < p.workers; i++ {
			s.workerWG.Add(1)
			go s.worker(s.runCtx, class, p)
		}
	}

	s.c.Start()
	s.started = true
	s.logger.Info().Msg("scheduler started")
	return nil
}

func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	cronStop := s.c.Stop()
	s.runCancel()
	s.mu.Unlock()

	s.tmu.Lock()
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = map[string]*time.Timer{}
	s.tmu.Unlock()

	<-cronStop.Done()
	s.workerWG.Wait()
	s.logger.Info().Msg("scheduler stopped")
}

// ScheduleRepeating registers a repeatable job under its deterministic
// key. Re-registering an existing key is a no-op.
func (s *Service) ScheduleRepeating(p Payload, interval time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return errors.New("scheduler: not started")
	}

	key := KeyFor(p)
	if _, ok := s.jobs[key]; ok {
		return nil
	}

	reg := &registration{
		key:      key,
		class:    p.Class(),
		entityID: p.EntityID(),
		payload:  p,
		interval: interval,
		state:    &runState{},
	}

	entryID, err := s.c.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		s.enqueue(reg.class, work{key: reg.key, payload: reg.payload, state: reg.state})
	})
	if err != nil {
		return fmt.Errorf("scheduler: failed to register %s: %w", key, err)
	}
	reg.entryID = entryID
	s.jobs[key] = reg

	s.logger.Debug().
		Str("key", key).
		Dur("interval", interval).
		Msg("repeatable job registered")
	return nil
}

// ScheduleOnce fires a single job after the given delay.
func (s *Service) ScheduleOnce(p Payload, delay time.Duration) {
	handle := KeyFor(p) + ":" + uuid.NewString()

	s.tmu.Lock()
	s.timers[handle] = time.AfterFunc(delay, func() {
		s.tmu.Lock()
		delete(s.timers, handle)
		s.tmu.Unlock()
		s.enqueue(p.Class(), work{key: KeyFor(p), payload: p})
	})
	s.tmu.Unlock()

	s.logger.Debug().
		Str("key", KeyFor(p)).
		Dur("delay", delay).
		Msg("one-shot job scheduled")
}

// Remove unregisters a repeatable job by key. Removing an unknown key is
// a no-op.
func (s *Service) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.jobs[key]
	if !ok {
		return
	}
	s.c.Remove(reg.entryID)
	delete(s.jobs, key)
	s.logger.Debug().Str("key", key).Msg("repeatable job removed")
}

// Obliterate clears every repeatable job of one class.
func (s *Service) Obliterate(class JobClass) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, reg := range s.jobs {
		if reg.class == class {
			s.c.Remove(reg.entryID)
			delete(s.jobs, key)
		}
	}
}

// ObliterateAll clears the whole registered-job set. Run at process start
// so no stale interval survives a deploy with a changed cadence.
func (s *Service) ObliterateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, reg := range s.jobs {
		s.c.Remove(reg.entryID)
		delete(s.jobs, key)
	}
	s.logger.Info().Msg("all repeatable jobs cleared")
}

// RegisteredEntities returns the entity ids currently registered for a
// class; the roster synchronizer diffs this against the live roster.
func (s *Service) RegisteredEntities(class JobClass) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, reg := range s.jobs {
		if reg.class == class {
			out = append(out, reg.entityID)
		}
	}
	return out
}
