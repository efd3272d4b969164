package ecs

type System interface {
	Update(w *World)
}

// Resetter is a system holding state outside the component tables, such as
// engine handles, that must be dropped when the world is rebuilt.
type Resetter interface {
	Reset(w *World)
}

// Scheduler runs systems in the order they were added. It is itself a
// System, so a stage can own a nested schedule.
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
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

func (s *Scheduler) Len() int {
	if s == nil {
		return 0
	}
	return len(s.systems)
}

func (s *Scheduler) Update(w *World) {
	if s == nil || w == nil {
		return
	}
	for _, system := range s.systems {
		system.Update(w)
	}
}

// Reset calls Reset on each system implementing Resetter, in schedule order.
func (s *Scheduler) Reset(w *World) {
	if s == nil {
		return
	}
	for _, system := range s.systems {
		if r, ok := system.(Resetter); ok {
			r.Reset(w)
		}
	}
}
