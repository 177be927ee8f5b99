package jobs

import (
	"context"
	"fmt"

	"bootcamp-tracker/internal/scheduler"
	"bootcamp-tracker/internal/service"
)

// Dispatcher is the worker entry point: it maps each payload variant of
// the closed job set onto its handler.
type Dispatcher struct {
	games     *service.GameService
	ranks     *service.RankService
	streams   *service.StreamService
	names     *service.NameService
	details   *service.MatchDetailService
	playrates *service.PlayrateService
	roster    *service.RosterService
	stale     *service.StaleReconciler
}

func NewDispatcher(
	games *service.GameService,
	ranks *service.RankService,
	streams *service.StreamService,
	names *service.NameService,
	details *service.MatchDetailService,
	playrates *service.PlayrateService,
	roster *service.RosterService,
	stale *service.StaleReconciler,
) *Dispatcher {
	return &Dispatcher{
		games:     games,
		ranks:     ranks,
		streams:   streams,
		names:     names,
		details:   details,
		playrates: playrates,
		roster:    roster,
		stale:     stale,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, p scheduler.Payload) error {
	switch job := p.(type) {
	case scheduler.GameStatePollJob:
		return d.games.HandlePoll(ctx, job)
	case scheduler.RankPollJob:
		return d.ranks.UpdateCurrent(ctx, job.PlayerID, job.Puuid, job.Region)
	case scheduler.PeakRankPollJob:
		return d.ranks.UpdatePeak(ctx, job.PlayerID, job.Puuid, job.Region)
	case scheduler.StreamPollJob:
		return d.streams.HandlePoll(ctx, job)
	case scheduler.DisplayNamePollJob:
		return d.names.HandlePoll(ctx, job)
	case scheduler.MatchDetailJob:
		return d.details.Handle(ctx, job)
	case scheduler.PlayrateRefreshJob:
		return d.playrates.Refresh(ctx)
	case scheduler.RosterReconcileJob:
		return d.roster.Reconcile(ctx)
	case scheduler.StaleSweepJob:
		return d.stale.Sweep(ctx)
	default:
		return fmt.Errorf("jobs: unknown payload %T", p)
	}
}
