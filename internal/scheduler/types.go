package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"sync"
)

// JobClass identifies one of the fixed poll/react loops. Each class owns
// its own worker pool and concurrency cap.
type JobClass string

const (
	ClassGameState   JobClass = "game-state"
	ClassRankCurrent JobClass = "rank-current"
	ClassRankPeak    JobClass = "rank-peak"
	ClassStream      JobClass = "stream"
	ClassDisplayName JobClass = "display-name"
	ClassMatchDetail JobClass = "match-detail"
	ClassPlayrate    JobClass = "playrate"
	ClassRosterSync  JobClass = "roster-sync"
	ClassStaleSweep  JobClass = "stale-sweep"
)

// PlayerClasses are the repeatable per-player classes the roster
// synchronizer reconciles; the remaining classes are global or one-shot.
func PlayerClasses() []JobClass {
	return []JobClass{ClassGameState, ClassRankCurrent, ClassRankPeak, ClassStream, ClassDisplayName}
}

// Payload is the closed set of job payloads. Each variant knows its class
// and its entity id; the worker entry point dispatches on the concrete
// type.
type Payload interface {
	Class() JobClass
	EntityID() string
}

type GameStatePollJob struct {
	PlayerID int64
	Puuid    string
	Region   string
}

func (GameStatePollJob) Class() JobClass { return ClassGameState }
func (j GameStatePollJob) EntityID() string {
	return strconv.FormatInt(j.PlayerID, 10)
}

type RankPollJob struct {
	PlayerID int64
	Puuid    string
	Region   string
}

func (RankPollJob) Class() JobClass { return ClassRankCurrent }
func (j RankPollJob) EntityID() string {
	return strconv.FormatInt(j.PlayerID, 10)
}

type PeakRankPollJob struct {
	PlayerID int64
	Puuid    string
	Region   string
}

func (PeakRankPollJob) Class() JobClass { return ClassRankPeak }
func (j PeakRankPollJob) EntityID() string {
	return strconv.FormatInt(j.PlayerID, 10)
}

type StreamPollJob struct {
	PlayerID    int64
	TwitchLogin string
}

func (StreamPollJob) Class() JobClass { return ClassStream }
func (j StreamPollJob) EntityID() string {
	return strconv.FormatInt(j.PlayerID, 10)
}

type DisplayNamePollJob struct {
	PlayerID int64
	Puuid    string
	Region   string
}

func (DisplayNamePollJob) Class() JobClass { return ClassDisplayName }
func (j DisplayNamePollJob) EntityID() string {
	return strconv.FormatInt(j.PlayerID, 10)
}

type MatchDetailJob struct {
	PlayerID int64
	GameID   string
	Region   string
}

func (MatchDetailJob) Class() JobClass { return ClassMatchDetail }
func (j MatchDetailJob) EntityID() string {
	return fmt.Sprintf("%d-%s", j.PlayerID, j.GameID)
}

type PlayrateRefreshJob struct{}

func (PlayrateRefreshJob) Class() JobClass  { return ClassPlayrate }
func (PlayrateRefreshJob) EntityID() string { return "global" }

type RosterReconcileJob struct{}

func (RosterReconcileJob) Class() JobClass  { return ClassRosterSync }
func (RosterReconcileJob) EntityID() string { return "global" }

type StaleSweepJob struct{}

func (StaleSweepJob) Class() JobClass  { return ClassStaleSweep }
func (StaleSweepJob) EntityID() string { return "global" }

// Dispatcher executes one job payload. The jobs package provides the
// exhaustive implementation; the scheduler never imports the services.
type Dispatcher interface {
	Dispatch(ctx context.Context, p Payload) error
}

// runState gates overlap: the deterministic key guarantees at most one
// scheduled instance, and runState guarantees at most one in flight.
type runState struct {
	mu       sync.Mutex
	inflight bool
}

func (s *runState) tryAcquire() bool {
	if s == nil {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight {
		return false
	}
	s.inflight = true
	return true
}

func (s *runState) release() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.inflight = false
	s.mu.Unlock()
}
