package main

import (
	"context"
	"database/sql"

	"bootcamp-tracker/internal/constants"
	fxmodules "bootcamp-tracker/internal/fx"
	"bootcamp-tracker/internal/jobs"
	"bootcamp-tracker/internal/scheduler"
	"bootcamp-tracker/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runTracker),
	).Run()
}

func runTracker(
	lc fx.Lifecycle,
	sched *scheduler.Service,
	dispatcher *jobs.Dispatcher,
	playrates *service.PlayrateService,
	db *sql.DB,
	logger zerolog.Logger,
) {
	sched.SetDispatcher(dispatcher)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := playrates.Warm(ctx); err != nil {
				logger.Warn().Err(err).Msg("playrate cache warmup failed")
			}

			if err := sched.Start(); err != nil {
				return err
			}

			// A deploy may change polling cadences; clear everything and
			// rebuild from the current roster.
			sched.ObliterateAll()

			sched.ScheduleOnce(scheduler.StaleSweepJob{}, constants.StaleSweepStartDelay)
			sched.ScheduleOnce(scheduler.RosterReconcileJob{}, constants.RosterReconcileStartDelay)
			sched.ScheduleOnce(scheduler.PlayrateRefreshJob{}, constants.PlayrateRefreshStartDelay)

			if err := sched.ScheduleRepeating(scheduler.StaleSweepJob{}, constants.StaleSweepInterval); err != nil {
				return err
			}
			if err := sched.ScheduleRepeating(scheduler.RosterReconcileJob{}, constants.RosterReconcileInterval); err != nil {
				return err
			}
			if err := sched.ScheduleRepeating(scheduler.PlayrateRefreshJob{}, constants.PlayrateRefreshInterval); err != nil {
				return err
			}

			logger.Info().Msg("tracker started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			sched.Stop()
			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
			logger.Info().Msg("tracker stopped gracefully")
			return nil
		},
	})
}
