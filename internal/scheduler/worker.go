package scheduler

import (
	"context"

	"bootcamp-tracker/internal/constants"
)

type work struct {
	key     string
	payload Payload
	state   *runState
}

type pool struct {
	queue   chan work
	workers int
}

// Pool sizes mirror the call cost of each class against the upstream
// services; the cap is enforced by the worker count itself.
func newPools() map[JobClass]*pool {
	caps := map[JobClass]int{
		ClassGameState:   constants.GameStateWorkers,
		ClassRankCurrent: constants.RankWorkers,
		ClassRankPeak:    constants.RankWorkers,
		ClassStream:      constants.StreamWorkers,
		ClassDisplayName: constants.DisplayNameWorkers,
		ClassMatchDetail: constants.MatchDetailWorkers,
		ClassPlayrate:    constants.PlayrateWorkers,
		ClassRosterSync:  constants.ReconcileWorkers,
		ClassStaleSweep:  constants.ReconcileWorkers,
	}

	pools := make(map[JobClass]*pool, len(caps))
	for class, n := range caps {
		pools[class] = &pool{queue: make(chan work, 64), workers: n}
	}
	return pools
}

func (s *Service) enqueue(class JobClass, w work) {
	s.mu.Lock()
	p := s.pools[class]
	s.mu.Unlock()
	if p == nil {
		return
	}
	select {
	case p.queue <- w:
	default:
		s.logger.Warn().
			Str("class", string(class)).
			Str("key", w.key).
			Msg("queue full, dropping job")
	}
}

func (s *Service) worker(ctx context.Context, class JobClass, p *pool) {
	defer s.workerWG.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case w := <-p.queue:
			s.execOne(ctx, class, w)
		}
	}
}

func (s *Service) execOne(ctx context.Context, class JobClass, w work) {
	if !w.state.tryAcquire() {
		s.logger.Debug().Str("key", w.key).Msg("previous run still in flight, skipping")
		return
	}
	defer w.state.release()

	runCtx, cancel := context.WithTimeout(ctx, constants.JobTimeout)
	defer cancel()

	if err := s.dispatcher.Dispatch(runCtx, w.payload); err != nil {
		// A single entity's failure never halts the pool; the next
		// interval retries naturally.
		s.logger.Error().
			Err(err).
			Str("class", string(class)).
			Str("entity", w.payload.EntityID()).
			Msg("job failed")
	}
}
