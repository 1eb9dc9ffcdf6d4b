// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package carousel

import (
	"math"
	"testing"
	"time"
)

// recorder captures machine events.
type recorder struct {
	states          []State
	angles          []float64
	spinsStarted    []SpinKind
	spinsCompleted  []int
	nudgesStarted   []Direction
	nudgesCompleted []int
}

func (r *recorder) StateChanged(_, to State) { r.states = append(r.states, to) }
func (r *recorder) AngleChanged(a float64) { r.angles = append(r.angles, a) }
func (r *recorder) SpinStarted(kind SpinKind, _ int) { r.spinsStarted = append(r.spinsStarted, kind) }
func (r *recorder) SpinCompleted(i int) { r.spinsCompleted = append(r.spinsCompleted, i) }
func (r *recorder) NudgeStarted(d Direction) { r.nudgesStarted = append(r.nudgesStarted, d) }
func (r *recorder) NudgeCompleted(i int) { r.nudgesCompleted = append(r.nudgesCompleted, i) }

const runLimit = 100000

func newTestMachine(t *testing.T, items int) (*Machine, *VirtualScheduler, *recorder) {
	t.Helper()
	sched := NewVirtualScheduler(epoch, 0)
	rec := &recorder{}
	m := NewMachine(DefaultConfig(), sched, rec)
	m.Reset(items)
	return m, sched, rec
}

// stoppedAt spins to index and runs the spin to completion.
func stoppedAt(t *testing.T, m *Machine, sched *VirtualScheduler, index int) {
	t.Helper()
	if !m.StartSpin(index) {
		t.Fatalf("StartSpin(%d) = false", index)
	}
	if !sched.RunUntilIdle(runLimit) {
		t.Fatal("spin did not finish")
	}
}

func TestMachine_StartSpinLandsOnTarget(t *testing.T) {
	t.Parallel()

	m, sched, rec := newTestMachine(t, 8)
	if m.State() != StateIdle {
		t.Fatalf("initial state = %v, want idle", m.State())
	}

	if !m.StartSpin(5) {
		t.Fatal("StartSpin(5) = false, want true")
	}
	if m.State() != StateSpinning {
		t.Errorf("state after StartSpin = %v, want spinning", m.State())
	}
	if _, ok := m.SelectedIndex(); ok {
		t.Error("selection should be cleared while spinning")
	}

	sched.RunUntilIdle(runLimit)

	if m.State() != StateStopped {
		t.Errorf("state = %v, want stopped", m.State())
	}
	if idx, ok := m.SelectedIndex(); !ok || idx != 5 {
		t.Errorf("SelectedIndex() = %d, %v, want 5", idx, ok)
	}
	if len(rec.spinsCompleted) != 1 || rec.spinsCompleted[0] != 5 {
		t.Errorf("SpinCompleted calls = %v, want [5]", rec.spinsCompleted)
	}
	if got, want := NormalizeAngle(m.Angle()), RestingAngle(5, 8, 40); math.Abs(got-want) > eps {
		t.Errorf("final angle = %v, want %v", got, want)
	}
	if got := IndexAtAngle(m.Angle(), 8, 40); got != 5 {
		t.Errorf("IndexAtAngle(final) = %d, want 5", got)
	}

	elapsed := m.sched.Now().Sub(epoch)
	if elapsed < DefaultConfig().SpinDuration {
		t.Errorf("spin finished after %v, want >= %v", elapsed, DefaultConfig().SpinDuration)
	}
}

func TestMachine_SpinIsMonotonicWithExtraTurns(t *testing.T) {
	t.Parallel()

	m, sched, rec := newTestMachine(t, 8)
	start := m.Angle()
	stoppedAt(t, m, sched, 3)

	travel := m.Angle() - start
	if math.Abs(travel) < 3*FullTurn {
		t.Errorf("travel = %v, want at least 3 turns", travel)
	}

	sign := math.Copysign(1, travel)
	prev := start
	for i, a := range rec.angles {
		if (a-prev)*sign < -eps {
			t.Fatalf("angle %d moved backwards: %v -> %v", i, prev, a)
		}
		prev = a
	}
}

func TestMachine_FinalAngleDeterministic(t *testing.T) {
	t.Parallel()

	a, sa, _ := newTestMachine(t, 12)
	b, sb, _ := newTestMachine(t, 12)
	stoppedAt(t, a, sa, 7)
	stoppedAt(t, b, sb, 7)

	if a.Angle() != b.Angle() {
		t.Errorf("final angles differ: %v vs %v", a.Angle(), b.Angle())
	}
}

func TestMachine_RedundantRequestsIgnored(t *testing.T) {
	t.Parallel()

	m, sched, rec := newTestMachine(t, 8)
	m.StartSpin(2)
	sched.Advance(time.Second)

	angle := m.Angle()
	if m.StartSpin(4) || m.StartContinuousSpin() || m.StopAndLand(1) || m.Nudge(Left, nil) {
		t.Error("request while spinning was accepted")
	}
	if m.State() != StateSpinning || m.Angle() != angle {
		t.Error("redundant request changed the machine")
	}
	if target, _ := m.Target(); target != 2 {
		t.Errorf("Target() = %d, want 2", target)
	}

	sched.RunUntilIdle(runLimit)
	if len(rec.spinsCompleted) != 1 || rec.spinsCompleted[0] != 2 {
		t.Errorf("SpinCompleted calls = %v, want [2]", rec.spinsCompleted)
	}
}

func TestMachine_ZeroItems(t *testing.T) {
	t.Parallel()

	m, sched, rec := newTestMachine(t, 0)

	if m.StartSpin(0) || m.StartContinuousSpin() || m.StopAndLand(0) || m.Nudge(Right, nil) {
		t.Error("request with zero items was accepted")
	}
	if sched.Pending() != 0 || len(rec.states) != 0 {
		t.Error("zero-item request scheduled work or changed state")
	}
}

func TestMachine_OutOfRangeTarget(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestMachine(t, 4)
	if m.StartSpin(-1) || m.StartSpin(4) {
		t.Error("out-of-range StartSpin accepted")
	}
	if m.State() != StateIdle {
		t.Errorf("state = %v, want idle", m.State())
	}
}

func TestMachine_StopAndLandOnlyFromContinuous(t *testing.T) {
	t.Parallel()

	m, sched, _ := newTestMachine(t, 8)

	if m.StopAndLand(3) {
		t.Error("StopAndLand from idle accepted")
	}
	if m.State() != StateIdle {
		t.Errorf("state = %v, want idle", m.State())
	}

	stoppedAt(t, m, sched, 1)
	if m.StopAndLand(3) {
		t.Error("StopAndLand from stopped accepted")
	}
	if m.State() != StateStopped {
		t.Errorf("state = %v, want stopped", m.State())
	}
	if idx, _ := m.SelectedIndex(); idx != 1 {
		t.Errorf("SelectedIndex() = %d, want 1", idx)
	}
}

func TestMachine_ContinuousSpin(t *testing.T) {
	t.Parallel()

	m, sched, rec := newTestMachine(t, 8)
	start := m.Angle()

	if !m.StartContinuousSpin() {
		t.Fatal("StartContinuousSpin() = false")
	}
	if m.State() != StateContinuous {
		t.Fatalf("state = %v, want continuous", m.State())
	}

	sched.Advance(time.Second)
	travel := m.Angle() - start
	if travel < 340 || travel > 360 {
		t.Errorf("travel after 1s = %v, want about 360", travel)
	}
	if sched.RunUntilIdle(50) {
		t.Error("continuous spin drained the scheduler")
	}
	if len(rec.spinsCompleted) != 0 {
		t.Error("continuous spin fired a completion")
	}
	if len(rec.spinsStarted) != 1 || rec.spinsStarted[0] != SpinContinuous {
		t.Errorf("SpinStarted = %v, want [continuous]", rec.spinsStarted)
	}
}

func TestMachine_StopAndLand(t *testing.T) {
	t.Parallel()

	m, sched, rec := newTestMachine(t, 8)
	m.StartContinuousSpin()
	sched.Advance(730 * time.Millisecond)

	if !m.StopAndLand(3) {
		t.Fatal("StopAndLand(3) = false")
	}
	if m.State() != StateSpinning {
		t.Errorf("state while landing = %v, want spinning", m.State())
	}
	landStart := m.Angle()
	before := len(rec.angles)

	sched.RunUntilIdle(runLimit)

	if m.State() != StateStopped {
		t.Errorf("state = %v, want stopped", m.State())
	}
	if idx, _ := m.SelectedIndex(); idx != 3 {
		t.Errorf("SelectedIndex() = %d, want 3", idx)
	}
	if len(rec.spinsCompleted) != 1 || rec.spinsCompleted[0] != 3 {
		t.Errorf("SpinCompleted = %v, want [3]", rec.spinsCompleted)
	}
	if travel := m.Angle() - landStart; travel < DefaultConfig().MinLandDistance || travel >= FullTurn+DefaultConfig().MinLandDistance {
		t.Errorf("landing travel = %v, want forward in [90, 450)", travel)
	}
	prev := landStart
	for _, a := range rec.angles[before:] {
		if a < prev-eps {
			t.Fatalf("landing moved backwards: %v -> %v", prev, a)
		}
		prev = a
	}
	want := []SpinKind{SpinContinuous, SpinLand}
	if len(rec.spinsStarted) != 2 || rec.spinsStarted[0] != want[0] || rec.spinsStarted[1] != want[1] {
		t.Errorf("SpinStarted = %v, want %v", rec.spinsStarted, want)
	}
}

func TestMachine_Nudge(t *testing.T) {
	t.Parallel()

	m, sched, rec := newTestMachine(t, 8)
	stoppedAt(t, m, sched, 0)

	tests := []struct {
		dir  Direction
		want int
	}{
		{Right, 7},
		{Right, 6},
		{Left, 7},
		{Left, 0},
		{Left, 1},
	}

	for _, tt := range tests {
		calls := 0
		before := m.Angle()
		if !m.Nudge(tt.dir, func() { calls++ }) {
			t.Fatalf("Nudge(%v) = false", tt.dir)
		}
		if m.State() != StateNudging {
			t.Errorf("state = %v, want nudging", m.State())
		}
		if m.Nudge(tt.dir, nil) {
			t.Error("Nudge while nudging accepted")
		}
		if calls != 0 {
			t.Error("onComplete fired before motion finished")
		}

		sched.RunUntilIdle(runLimit)

		if calls != 1 {
			t.Errorf("onComplete calls = %d, want 1", calls)
		}
		if idx, _ := m.SelectedIndex(); idx != tt.want {
			t.Errorf("after %v: SelectedIndex() = %d, want %d", tt.dir, idx, tt.want)
		}
		if moved := m.Angle() - before; math.Abs(moved-tt.dir.sign()*45) > eps {
			t.Errorf("nudge %v moved %v, want %v", tt.dir, moved, tt.dir.sign()*45)
		}
		if m.State() != StateStopped {
			t.Errorf("state = %v, want stopped", m.State())
		}
	}

	if len(rec.nudgesCompleted) != len(tests) {
		t.Errorf("NudgeCompleted calls = %d, want %d", len(rec.nudgesCompleted), len(tests))
	}
}

func TestMachine_NudgeOnlyFromStopped(t *testing.T) {
	t.Parallel()

	m, sched, _ := newTestMachine(t, 8)
	if m.Nudge(Right, nil) {
		t.Error("Nudge from idle accepted")
	}
	m.StartContinuousSpin()
	sched.Advance(100 * time.Millisecond)
	if m.Nudge(Right, nil) {
		t.Error("Nudge from continuous accepted")
	}
	if m.Nudge(Direction(0), nil) {
		t.Error("Nudge with invalid direction accepted")
	}
}

func TestMachine_CloseDropsPendingCompletion(t *testing.T) {
	t.Parallel()

	m, sched, rec := newTestMachine(t, 8)
	m.StartSpin(4)
	sched.Advance(time.Second)
	m.Close()
	sched.RunUntilIdle(runLimit)

	if len(rec.spinsCompleted) != 0 {
		t.Errorf("SpinCompleted after Close = %v, want none", rec.spinsCompleted)
	}
	if m.StartSpin(1) {
		t.Error("StartSpin after Close accepted")
	}
}

func TestMachine_ResetDropsMotion(t *testing.T) {
	t.Parallel()

	m, sched, rec := newTestMachine(t, 8)
	m.StartSpin(4)
	sched.Advance(time.Second)
	m.Reset(5)
	sched.RunUntilIdle(runLimit)

	if m.State() != StateIdle {
		t.Errorf("state = %v, want idle", m.State())
	}
	if len(rec.spinsCompleted) != 0 {
		t.Errorf("SpinCompleted after Reset = %v, want none", rec.spinsCompleted)
	}
	if a := m.Angle(); a < 0 || a >= 360 {
		t.Errorf("angle after Reset = %v, want normalized", a)
	}
	if m.ItemCount() != 5 {
		t.Errorf("ItemCount() = %d, want 5", m.ItemCount())
	}
	if !m.StartSpin(4) {
		t.Error("machine not reusable after Reset")
	}
}

func TestMachine_SpinFromStoppedReuses(t *testing.T) {
	t.Parallel()

	m, sched, rec := newTestMachine(t, 6)
	stoppedAt(t, m, sched, 2)
	stoppedAt(t, m, sched, 2)
	stoppedAt(t, m, sched, 5)

	if len(rec.spinsCompleted) != 3 {
		t.Errorf("SpinCompleted calls = %d, want 3", len(rec.spinsCompleted))
	}
	if idx, _ := m.SelectedIndex(); idx != 5 {
		t.Errorf("SelectedIndex() = %d, want 5", idx)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero spin duration", func(c *Config) { c.SpinDuration = 0 }},
		{"negative revolutions", func(c *Config) { c.ExtraRevolutions = -1 }},
		{"zero velocity", func(c *Config) { c.ContinuousVelocity = 0 }},
		{"zero land duration", func(c *Config) { c.LandDuration = 0 }},
		{"land distance full turn", func(c *Config) { c.MinLandDistance = 360 }},
		{"zero nudge duration", func(c *Config) { c.NudgeDuration = 0 }},
		{"negative chain delay", func(c *Config) { c.ChainStepDelay = -time.Millisecond }},
		{"nan selection", func(c *Config) { c.SelectionAngle = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
