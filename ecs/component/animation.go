package component

// AnimationDef describes one clip on a sprite sheet. Sheet names the sheet
// kind (walk, jump, fall); the skin is resolved at draw time so a skin change
// keeps the clip and frame.
type AnimationDef struct {
	Name       string
	Sheet      string
	ColStart   int // start column (frame 0)
	FrameCount int
	FrameW     int
	FrameH     int
	FPS        float64
	Loop       bool
}

type Animation struct {
	Defs    map[string]AnimationDef
	Current string
	Frame   int
	// Elapsed is the time spent on Frame, in seconds.
	Elapsed float64
	Playing bool
}

// Play switches to name, restarting it only if it is not already current.
func (a *Animation) Play(name string) {
	if a == nil || a.Current == name {
		return
	}
	if _, ok := a.Defs[name]; !ok {
		return
	}
	a.Current = name
	a.Frame = 0
	a.Elapsed = 0
	a.Playing = true
}

var AnimationComponent = NewComponent[Animation]()
