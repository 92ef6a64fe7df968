package component

// PlayerTag marks the controllable hedgehog. A level holds exactly one.
type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// CounterTag marks the HUD entity holding the ScoreCounter.
type CounterTag struct{}

var CounterTagComponent = NewComponent[CounterTag]()
