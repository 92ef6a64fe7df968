package component

import "fmt"

// ScoreCounter tracks collected pickups for the level.
type ScoreCounter struct {
	Collected    int
	Total        int
	Completed    bool
	RenderedText string
}

// Text renders the counter as "collected / total".
func (s *ScoreCounter) Text() string {
	if s == nil {
		return ""
	}
	return fmt.Sprintf("%d / %d", s.Collected, s.Total)
}

var ScoreCounterComponent = NewComponent[ScoreCounter]()
