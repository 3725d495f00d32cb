package gesture

import (
	"errors"
	"testing"

	"github.com/swipenest/swipenest/internal/entity"
	"gotest.tools/assert"
)

func TestDistanceThresholdCommitsRegardlessOfVelocity(t *testing.T) {
	// Scenario: released at 150px with slow velocity (100px/s), above
	// the 120px distance threshold.
	var committed entity.Direction
	m := NewMachine(DefaultConfig(), func(d entity.Direction) { committed = d })

	assert.NilError(t, m.Begin())
	anim, err := m.Release(150, 100)
	assert.NilError(t, err)

	assert.Assert(t, anim.ExitsScreen)
	assert.Equal(t, anim.Direction, entity.DirectionRight)
	assert.Assert(t, anim.Haptic)

	// The business callback fires on animation completion, not on
	// release.
	assert.Equal(t, committed, entity.Direction(0))
	m.AnimationDone()
	assert.Equal(t, committed, entity.DirectionRight)
	assert.Equal(t, m.State(), StateIdle)
}

func TestVelocityThresholdCommitsWithAnyNonzeroOffset(t *testing.T) {
	m := NewMachine(DefaultConfig(), nil)

	assert.NilError(t, m.Begin())
	anim, err := m.Release(10, 800)
	assert.NilError(t, err)

	assert.Assert(t, anim.ExitsScreen)
	assert.Equal(t, anim.Direction, entity.DirectionRight)
}

func TestDirectionComesFromOffsetSignNotVelocity(t *testing.T) {
	m := NewMachine(DefaultConfig(), nil)

	assert.NilError(t, m.Begin())
	// Fast rightward fling released while the card sits left of center:
	// velocity only adjudicates magnitude.
	anim, err := m.Release(-30, 900)
	assert.NilError(t, err)

	assert.Assert(t, anim.ExitsScreen)
	assert.Equal(t, anim.Direction, entity.DirectionLeft)
}

func TestBelowBothThresholdsSpringsBack(t *testing.T) {
	m := NewMachine(DefaultConfig(), func(entity.Direction) {
		t.Fatal("spring-back must not fire the swipe callback")
	})

	assert.NilError(t, m.Begin())
	anim, err := m.Release(80, 200)
	assert.NilError(t, err)

	assert.Assert(t, !anim.ExitsScreen)
	assert.Equal(t, anim.TargetX, 0.0)
	assert.Equal(t, anim.InitialV, 200.0)
	assert.Equal(t, m.State(), StateSpringingBack)

	m.AnimationDone()
	assert.Equal(t, m.State(), StateIdle)
}

func TestZeroOffsetNeverCommits(t *testing.T) {
	m := NewMachine(DefaultConfig(), nil)

	assert.NilError(t, m.Begin())
	anim, err := m.Release(0, 2000)
	assert.NilError(t, err)

	assert.Assert(t, !anim.ExitsScreen)
}

func TestProgrammaticSwipe(t *testing.T) {
	var committed entity.Direction
	m := NewMachine(DefaultConfig(), func(d entity.Direction) { committed = d })

	anim, err := m.Swipe(entity.DirectionLeft)
	assert.NilError(t, err)

	assert.Assert(t, anim.ExitsScreen)
	assert.Equal(t, anim.TargetX, -DefaultConfig().ExitOffset)

	m.AnimationDone()
	assert.Equal(t, committed, entity.DirectionLeft)
}

func TestCallbackFiresOnce(t *testing.T) {
	fired := 0
	m := NewMachine(DefaultConfig(), func(entity.Direction) { fired++ })

	assert.NilError(t, m.Begin())
	_, err := m.Release(200, 0)
	assert.NilError(t, err)

	// A rapid re-render may report animation completion twice.
	m.AnimationDone()
	m.AnimationDone()
	assert.Equal(t, fired, 1)
}

func TestNoDragWhileAnimating(t *testing.T) {
	m := NewMachine(DefaultConfig(), nil)

	assert.NilError(t, m.Begin())
	_, err := m.Release(200, 0)
	assert.NilError(t, err)

	assert.Assert(t, errors.Is(m.Begin(), ErrNotDraggable))

	_, err = m.Swipe(entity.DirectionRight)
	assert.Assert(t, errors.Is(err, ErrNotDraggable))
}

func TestMoveTracksOffsetOnlyWhileDragging(t *testing.T) {
	m := NewMachine(DefaultConfig(), nil)

	m.Move(50, 0)
	assert.Equal(t, m.Offset(), 0.0)

	assert.NilError(t, m.Begin())
	m.Move(50, 10)
	assert.Equal(t, m.Offset(), 50.0)
}
