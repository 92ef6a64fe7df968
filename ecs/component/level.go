package component

import "time"

// LevelInfo describes the running level instance.
type LevelInfo struct {
	Number    int
	StartedAt time.Time
	// FinishedAt is zero until the level is completed.
	FinishedAt time.Time
}

// ElapsedSeconds is floor((now-start)/1s), frozen once the level finishes.
func (l *LevelInfo) ElapsedSeconds(now time.Time) int {
	if l == nil || l.StartedAt.IsZero() {
		return 0
	}
	end := now
	if !l.FinishedAt.IsZero() {
		end = l.FinishedAt
	}
	ms := end.Sub(l.StartedAt).Milliseconds()
	if ms < 0 {
		return 0
	}
	return int(ms / 1000)
}

var LevelInfoComponent = NewComponent[LevelInfo]()
