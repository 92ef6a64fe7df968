package component

// Input is the raw key state sampled by the host for one frame.
type Input struct {
	Left    bool
	Right   bool
	Jump    bool
	Restart bool
}

// PlayerInput is Input after edge detection for the entity that owns it.
type PlayerInput struct {
	MoveX       float64
	Jump        bool
	JumpPressed bool
	JumpWasDown bool
}

var PlayerInputComponent = NewComponent[PlayerInput]()
