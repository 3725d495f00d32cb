// Package gesture implements the per-card drag state machine: pointer
// offset and velocity in, commit/spring-back decisions and animation
// parameters out. Transitions are pure; the business swipe callback is
// only invoked on animation completion so a rapid re-render can never
// double-fire a decision.
package gesture

import (
	"errors"

	"github.com/swipenest/swipenest/internal/entity"
)

type State uint

const (
	StateIdle State = iota
	StateDragging
	StateCommitted
	StateSpringingBack
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateCommitted:
		return "committed"
	case StateSpringingBack:
		return "springing_back"
	default:
		return "unknown"
	}
}

var ErrNotDraggable = errors.New("card is not in a draggable state")

type Config struct {
	// DistanceThreshold is the horizontal offset (px) past which a
	// release commits regardless of velocity.
	DistanceThreshold float64

	// VelocityThreshold is the horizontal velocity (px/s) past which a
	// release with any nonzero offset commits. Velocity adjudicates
	// magnitude only; direction always comes from the offset sign.
	VelocityThreshold float64

	// ExitOffset is the target X of the exit animation.
	ExitOffset float64

	SpringStiffness float64
	SpringDamping   float64
}

func DefaultConfig() Config {
	return Config{
		DistanceThreshold: 120,
		VelocityThreshold: 400,
		ExitOffset:        1000,
		SpringStiffness:   300,
		SpringDamping:     30,
	}
}

// Animation describes what the rendering layer should run after a
// release: either an exit toward ±ExitOffset or a velocity-seeded
// spring back to zero.
type Animation struct {
	TargetX     float64
	InitialV    float64
	Stiffness   float64
	Damping     float64
	Haptic      bool
	ExitsScreen bool
	Direction   entity.Direction
}

// Machine is one card's drag state machine. Only the top-of-stack card
// should own a machine; cards beneath are inert.
type Machine struct {
	cfg      Config
	state    State
	offset   float64
	velocity float64

	onCommit func(entity.Direction)
	pending  entity.Direction
	fired    bool
}

func NewMachine(cfg Config, onCommit func(entity.Direction)) *Machine {
	return &Machine{cfg: cfg, onCommit: onCommit}
}

func (m *Machine) State() State    { return m.state }
func (m *Machine) Offset() float64 { return m.offset }

// Begin transitions Idle -> Dragging on pointer-down.
func (m *Machine) Begin() error {
	if m.state != StateIdle {
		return ErrNotDraggable
	}
	m.state = StateDragging
	m.offset = 0
	m.velocity = 0
	return nil
}

// Move tracks the current pointer offset while dragging.
func (m *Machine) Move(offset, velocity float64) {
	if m.state != StateDragging {
		return
	}
	m.offset = offset
	m.velocity = velocity
}

// Release decides the outcome of a drag. Meeting either threshold
// commits; otherwise the card springs back to zero.
func (m *Machine) Release(offset, velocity float64) (Animation, error) {
	if m.state != StateDragging {
		return Animation{}, ErrNotDraggable
	}
	m.offset = offset
	m.velocity = velocity

	if committed(m.cfg, offset, velocity) {
		return m.commit(directionOf(offset)), nil
	}

	m.state = StateSpringingBack
	return Animation{
		TargetX:   0,
		InitialV:  velocity,
		Stiffness: m.cfg.SpringStiffness,
		Damping:   m.cfg.SpringDamping,
	}, nil
}

// Swipe synthesizes the committed path without a drag, for button
// presses and non-touch input.
func (m *Machine) Swipe(direction entity.Direction) (Animation, error) {
	if m.state != StateIdle {
		return Animation{}, ErrNotDraggable
	}
	return m.commit(direction), nil
}

// AnimationDone must be called when the exit or spring-back animation
// finishes. For a committed swipe this is the single point where the
// swipe callback fires.
func (m *Machine) AnimationDone() {
	switch m.state {
	case StateCommitted:
		if !m.fired && m.onCommit != nil {
			m.fired = true
			m.onCommit(m.pending)
		}
		m.state = StateIdle
	case StateSpringingBack:
		m.state = StateIdle
	}
}

func (m *Machine) commit(direction entity.Direction) Animation {
	m.state = StateCommitted
	m.pending = direction
	m.fired = false

	target := m.cfg.ExitOffset
	if direction == entity.DirectionLeft {
		target = -m.cfg.ExitOffset
	}
	return Animation{
		TargetX:     target,
		InitialV:    m.velocity,
		Stiffness:   m.cfg.SpringStiffness,
		Damping:     m.cfg.SpringDamping,
		Haptic:      true,
		ExitsScreen: true,
		Direction:   direction,
	}
}

func committed(cfg Config, offset, velocity float64) bool {
	if abs(offset) > cfg.DistanceThreshold {
		return true
	}
	return abs(velocity) > cfg.VelocityThreshold && offset != 0
}

func directionOf(offset float64) entity.Direction {
	if offset < 0 {
		return entity.DirectionLeft
	}
	return entity.DirectionRight
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
