package targets

import (
	"math/rand"
)

// Store holds the live targets of one engine. It is owned by the engine's
// loop goroutine and is not safe for concurrent use.
type Store struct {
	targets []*Target
	nextID  int
	rng     *rand.Rand
}

func NewStore(rng *rand.Rand) *Store {
	return &Store{
		nextID: 1,
		rng:    rng,
	}
}

// Spawn adds a target on a random side at a random height with a speed drawn
// uniformly from [speedMin, speedMax).
func (s *Store) Spawn(f Field, speedMin, speedMax float64, reward int64, at float64) *Target {
	id := s.nextID
	s.nextID++

	side := SideRight
	x := f.Width + f.Margin
	if s.rng.Float64() > 0.5 {
		side = SideLeft
		x = -f.Margin
	}
	target := &Target{
		ID:        id,
		Side:      side,
		X:         x,
		Y:         f.MinY + s.rng.Float64()*(f.MaxY-f.MinY),
		Speed:     speedMin + s.rng.Float64()*(speedMax-speedMin),
		Reward:    reward,
		SpawnedAt: at,
	}
	s.targets = append(s.targets, target)
	return target
}

// Advance counts down the grace delay of clicked targets and, when move is
// set, moves the rest toward the opposite side. It returns the targets that
// left the field unclicked and the clicked ones whose grace delay ran out.
func (s *Store) Advance(dt float64, f Field, move bool) (exited, expired []Target) {
	kept := s.targets[:0]
	for _, t := range s.targets {
		if t.Clicked {
			t.RemoveIn -= dt
			if t.RemoveIn <= 0 {
				expired = append(expired, *t)
				continue
			}
			kept = append(kept, t)
			continue
		}
		if move {
			if t.Side == SideLeft {
				t.X += t.Speed * dt
			} else {
				t.X -= t.Speed * dt
			}
			if t.exited(f) {
				exited = append(exited, *t)
				continue
			}
		}
		kept = append(kept, t)
	}
	clear(s.targets[len(kept):])
	s.targets = kept
	return exited, expired
}

// Hit marks an unclicked target as clicked and starts its removal countdown.
// Hitting an unknown or already clicked target reports false.
func (s *Store) Hit(id int, grace float64) (Target, bool) {
	for _, t := range s.targets {
		if t.ID != id {
			continue
		}
		if t.Clicked {
			return Target{}, false
		}
		t.Clicked = true
		t.RemoveIn = grace
		return *t, true
	}
	return Target{}, false
}

func (s *Store) Get(id int) (Target, bool) {
	for _, t := range s.targets {
		if t.ID == id {
			return *t, true
		}
	}
	return Target{}, false
}

// GetList returns copies of all targets in spawn order.
func (s *Store) GetList() []Target {
	list := make([]Target, 0, len(s.targets))
	for _, t := range s.targets {
		list = append(list, *t)
	}
	return list
}

// Oldest returns the earliest spawned target that has not been clicked.
func (s *Store) Oldest() (Target, bool) {
	for _, t := range s.targets {
		if !t.Clicked {
			return *t, true
		}
	}
	return Target{}, false
}

func (s *Store) Len() int {
	return len(s.targets)
}

func (s *Store) Clear() {
	clear(s.targets)
	s.targets = s.targets[:0]
	s.nextID = 1
}
