package ecs

// System updates a world once per frame.
type System interface {
	Update(w *World, f *Frame)
}

// SystemFunc adapts a function to System.
type SystemFunc func(w *World, f *Frame)

func (fn SystemFunc) Update(w *World, f *Frame) {
	if fn != nil {
		fn(w, f)
	}
}

// Scheduler runs systems in registration order.
type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, system := range systems {
		s.Add(system)
	}
	return s
}

func (s *Scheduler) Add(system System) {
	if s == nil || system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

func (s *Scheduler) Update(w *World, f *Frame) {
	if s == nil || w == nil {
		return
	}
	for _, system := range s.systems {
		system.Update(w, f)
	}
}

func (s *Scheduler) Systems() []System {
	if s == nil {
		return nil
	}
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
