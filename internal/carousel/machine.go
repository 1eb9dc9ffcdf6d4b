// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package carousel

import (
	"math"
	"time"
)

type animKind int

const (
	animTimed animKind = iota
	animContinuous
	animLand
	animNudge
)

// animation is one motion of the wheel. The machine drives at most one at
// a time; a frame callback whose animation is no longer current is dropped.
type animation struct {
	kind     animKind
	from     float64
	end      float64
	start    time.Time
	duration time.Duration
	ease     Easing
	velocity float64
	target   int
	dir      Direction
	onDone   func()
}

// Machine owns the wheel angle and spin state. All methods must be called
// from the goroutine that runs the scheduler's callbacks.
//
// Requests made in the wrong state, or with no items, return false and
// change nothing.
type Machine struct {
	cfg   Config
	sched Scheduler
	obs   Observer

	state     State
	angle     float64 // unbounded; geometry uses it mod 360
	itemCount int
	selected  int // -1 when nothing is selected
	target    int // -1 when no target
	anim      *animation
	startedAt time.Time
	closed    bool
	gen       uint64 // bumped by Reset and Close
}

// NewMachine creates an idle machine with no items. A nil observer is allowed.
//
//nolint:gocritic // hugeParam: config is copied once at construction
func NewMachine(cfg Config, sched Scheduler, obs Observer) *Machine {
	if obs == nil {
		obs = NopObserver{}
	}
	return &Machine{
		cfg:      cfg,
		sched:    sched,
		obs:      obs,
		state:    StateIdle,
		angle:    NormalizeAngle(cfg.SelectionAngle),
		selected: -1,
		target:   -1,
	}
}

// Config returns the machine configuration.
func (m *Machine) Config() Config { return m.cfg }

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Angle returns the current unbounded wheel angle.
func (m *Machine) Angle() float64 { return m.angle }

// ItemCount returns the number of cards on the wheel.
func (m *Machine) ItemCount() int { return m.itemCount }

// SelectedIndex returns the selected card, if any.
func (m *Machine) SelectedIndex() (int, bool) {
	return m.selected, m.selected >= 0
}

// Target returns the index the current spin or landing is heading to, if any.
func (m *Machine) Target() (int, bool) {
	return m.target, m.target >= 0
}

// Generation changes whenever Reset or Close discards in-flight motion.
func (m *Machine) Generation() uint64 { return m.gen }

// StartedAt returns when the most recent motion began.
func (m *Machine) StartedAt() time.Time { return m.startedAt }

// Reset discards any motion and selection and sets the item count. The
// angle is kept, normalized.
func (m *Machine) Reset(itemCount int) {
	if itemCount < 0 {
		itemCount = 0
	}
	m.anim = nil
	m.gen++
	m.itemCount = itemCount
	m.selected = -1
	m.target = -1
	m.angle = NormalizeAngle(m.angle)
	m.setState(StateIdle)
}

// Close stops all motion. Pending frame callbacks become no-ops and no
// further completion callbacks fire.
func (m *Machine) Close() {
	m.closed = true
	m.gen++
	m.anim = nil
	m.target = -1
}

func (m *Machine) ready() bool {
	return !m.closed && m.itemCount > 0
}

// StartSpin begins an eased spin that lands target on the selection angle.
// Valid from idle or stopped.
func (m *Machine) StartSpin(target int) bool {
	if !m.ready() || target < 0 || target >= m.itemCount {
		return false
	}
	if m.state != StateIdle && m.state != StateStopped {
		return false
	}

	resting := RestingAngle(target, m.itemCount, m.cfg.SelectionAngle)
	delta := ShortestDelta(m.angle, resting)
	sign := 1.0
	if delta < 0 {
		sign = -1
	}
	end := snapTo(m.angle+delta+sign*FullTurn*float64(m.cfg.ExtraRevolutions), resting)

	m.selected = -1
	m.target = target
	m.setState(StateSpinning)
	m.obs.SpinStarted(SpinTimed, target)
	m.begin(&animation{
		kind:     animTimed,
		from:     m.angle,
		end:      end,
		duration: m.cfg.SpinDuration,
		ease:     EaseInOutCubic,
		target:   target,
	})
	return true
}

// StartContinuousSpin begins unbounded rotation in the positive direction.
// Valid from idle or stopped.
func (m *Machine) StartContinuousSpin() bool {
	if !m.ready() {
		return false
	}
	if m.state != StateIdle && m.state != StateStopped {
		return false
	}

	m.selected = -1
	m.target = -1
	m.setState(StateContinuous)
	m.obs.SpinStarted(SpinContinuous, -1)
	m.begin(&animation{
		kind:     animContinuous,
		from:     m.angle,
		velocity: m.cfg.ContinuousVelocity,
		target:   -1,
	})
	return true
}

// StopAndLand decelerates a continuous spin onto target. Valid only from
// continuous. The landing reports StateSpinning.
func (m *Machine) StopAndLand(target int) bool {
	if !m.ready() || target < 0 || target >= m.itemCount {
		return false
	}
	if m.state != StateContinuous || m.anim == nil {
		return false
	}

	// Catch the angle up to now; frames may lag the request.
	current := m.anim.from + m.anim.velocity*m.sched.Now().Sub(m.anim.start).Seconds()
	m.setAngle(current)

	resting := RestingAngle(target, m.itemCount, m.cfg.SelectionAngle)
	distance := ForwardDelta(current, resting)
	if distance < m.cfg.MinLandDistance {
		distance += FullTurn
	}

	m.target = target
	m.setState(StateSpinning)
	m.obs.SpinStarted(SpinLand, target)
	m.begin(&animation{
		kind:     animLand,
		from:     current,
		end:      snapTo(current+distance, resting),
		duration: m.cfg.LandDuration,
		ease:     EaseOutCubic,
		target:   target,
	})
	return true
}

// Nudge moves the wheel one slot in dir. Valid only from stopped.
// onComplete, if non-nil, runs once after the wheel reaches its new angle.
func (m *Machine) Nudge(dir Direction, onComplete func()) bool {
	if !m.ready() || m.state != StateStopped || m.selected < 0 {
		return false
	}
	if dir != Left && dir != Right {
		return false
	}

	next := WrapIndex(m.selected+dir.indexStep(), m.itemCount)
	resting := RestingAngle(next, m.itemCount, m.cfg.SelectionAngle)
	end := snapTo(m.angle+dir.sign()*SlotAngle(m.itemCount), resting)

	m.setState(StateNudging)
	m.obs.NudgeStarted(dir)
	m.begin(&animation{
		kind:     animNudge,
		from:     m.angle,
		end:      end,
		duration: m.cfg.NudgeDuration,
		ease:     EaseInOutCubic,
		target:   next,
		dir:      dir,
		onDone:   onComplete,
	})
	return true
}

func (m *Machine) begin(a *animation) {
	a.start = m.sched.Now()
	m.startedAt = a.start
	m.anim = a
	m.scheduleTick(a)
}

func (m *Machine) scheduleTick(a *animation) {
	m.sched.ScheduleFrame(func(now time.Time) {
		m.tick(a, now)
	})
}

func (m *Machine) tick(a *animation, now time.Time) {
	if m.closed || m.anim != a {
		return
	}
	elapsed := now.Sub(a.start)
	if elapsed < 0 {
		elapsed = 0
	}

	if a.kind == animContinuous {
		m.setAngle(a.from + a.velocity*elapsed.Seconds())
		m.scheduleTick(a)
		return
	}

	if elapsed >= a.duration {
		m.finish(a)
		return
	}
	progress := float64(elapsed) / float64(a.duration)
	m.setAngle(a.from + (a.end-a.from)*a.ease(progress))
	m.scheduleTick(a)
}

func (m *Machine) finish(a *animation) {
	m.anim = nil
	m.setAngle(a.end)
	m.selected = a.target
	m.target = -1
	m.setState(StateStopped)

	if a.kind == animNudge {
		m.obs.NudgeCompleted(a.target)
		if a.onDone != nil {
			a.onDone()
		}
		return
	}
	m.obs.SpinCompleted(a.target)
}

func (m *Machine) setState(s State) {
	if m.state == s {
		return
	}
	from := m.state
	m.state = s
	m.obs.StateChanged(from, s)
}

func (m *Machine) setAngle(angle float64) {
	m.angle = angle
	m.obs.AngleChanged(angle)
}

// snapTo returns the angle congruent to resting (mod 360) nearest approx,
// so final angles are exact regardless of float drift in the path.
func snapTo(approx, resting float64) float64 {
	turns := math.Round((approx - resting) / FullTurn)
	return resting + turns*FullTurn
}
