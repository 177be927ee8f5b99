package fx

import (
	"bootcamp-tracker/internal/config"
	"bootcamp-tracker/internal/database"
	"bootcamp-tracker/internal/jobs"
	"bootcamp-tracker/internal/logger"
	"bootcamp-tracker/internal/meraki"
	"bootcamp-tracker/internal/repository"
	"bootcamp-tracker/internal/riot"
	"bootcamp-tracker/internal/scheduler"
	"bootcamp-tracker/internal/service"
	"bootcamp-tracker/internal/twitch"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewSessionRepository),
	fx.Provide(repository.NewRankRepository),
	fx.Provide(repository.NewPlayrateRepository),
	// api clients
	fx.Provide(riot.NewClient),
	fx.Provide(twitch.NewClient),
	fx.Provide(meraki.NewClient),
	// scheduler
	fx.Provide(scheduler.New),
	// svc
	fx.Provide(service.NewRoleClassifier),
	fx.Provide(service.NewPlayrateService),
	fx.Provide(service.NewRankService),
	fx.Provide(service.NewGameService),
	fx.Provide(service.NewStreamService),
	fx.Provide(service.NewNameService),
	fx.Provide(service.NewMatchDetailService),
	fx.Provide(service.NewRosterService),
	fx.Provide(service.NewStaleReconciler),
	// job dispatch
	fx.Provide(jobs.NewDispatcher),
)
