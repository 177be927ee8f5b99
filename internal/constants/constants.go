package constants

import "time"

// Poll intervals per job class.
const (
	GameStatePollInterval   = 60 * time.Second
	StreamPollInterval      = 60 * time.Second
	RankPollInterval        = 300 * time.Second
	PeakPollInterval        = 300 * time.Second
	DisplayNamePollInterval = 3600 * time.Second
	PlayrateRefreshInterval = 24 * time.Hour

	RosterReconcileInterval = 120 * time.Second
	StaleSweepInterval      = 300 * time.Second
)

// Startup kicks.
const (
	RosterReconcileStartDelay = 10 * time.Second
	StaleSweepStartDelay      = 1 * time.Second
	PlayrateRefreshStartDelay = 15 * time.Second
)

// Post-game follow-up delays; the upstream ranked ladder updates
// asynchronously after a game ends, so the rank checks trail the
// match-detail fetch.
const (
	MatchDetailDelay = 60 * time.Second
	PeakCheckDelay   = 90 * time.Second
	RankRefreshDelay = 95 * time.Second
	InitialRankDelay = 5 * time.Second
	InitialPeakDelay = 10 * time.Second
)

// Worker pool caps per job class, sized to upstream call cost.
const (
	GameStateWorkers   = 5
	MatchDetailWorkers = 2
	RankWorkers        = 3
	StreamWorkers      = 3
	DisplayNameWorkers = 2
	PlayrateWorkers    = 1
	ReconcileWorkers   = 1
)

const (
	ExternalAPITimeout = 10 * time.Second
	JobTimeout         = 30 * time.Second
)

// Riot API quota: an application-wide window plus a short burst window,
// both enforced client-side before every call.
const (
	RiotAppRatePerSec    = 0.8
	RiotAppBurst         = 100
	RiotMethodRatePerSec = 20
	RiotMethodBurst      = 20
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)
