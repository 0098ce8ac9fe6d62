package motion

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Loop selects what [Controller.Update] does when playback reaches an
// end of the timeline.
type Loop uint8

const (
	// LoopNone stops at the boundary; [Controller.Done] reports true.
	LoopNone Loop = iota
	// LoopRestart jumps back to the far end and keeps playing. The jump
	// repositions silently: no markers fire on the way back.
	LoopRestart
	// LoopPingPong reverses direction and keeps playing.
	LoopPingPong
)

// ControllerConfig configures [NewController]. The zero value plays the
// motion once, forward, from no initial value.
type ControllerConfig struct {
	// Initial is the value the motion starts from; see [PrepareConfig].
	Initial Value
	// Duration overrides the motion's own duration, in time units.
	Duration float64
	// Loop is the end-of-timeline behavior for [Controller.Update].
	Loop Loop
	// Now overrides the wall clock for [Synced] children (tests).
	Now func() float64
}

type subscriber struct {
	id int
	fn func(Value)
}

// Controller owns the one piece of mutable state in this package: a
// progress position over a prepared motion. It recompiles when handed a
// structurally different motion, fires the side effects a move crosses,
// and pushes values to subscribers.
//
// Like the rest of the package a Controller is single-threaded: drive it
// from one goroutine, typically the game loop.
type Controller struct {
	cfg      ControllerConfig
	motion   Motion
	prepared *Prepared
	err      error

	progress float64
	value    Value

	clock     *gween.Tween
	clockDur  float32
	clockTime float32
	reverse   bool
	loop      Loop
	done      bool

	subs     []subscriber
	nextID   int
	disposed bool
}

// NewController prepares m and starts at progress 0, paused until the
// first [Controller.Update] or [Controller.SetProgress]. A resolution
// problem does not fail construction; it is reported by
// [Controller.Err] and playback runs in the degraded form.
func NewController(m Motion, cfg ControllerConfig) *Controller {
	c := &Controller{cfg: cfg, loop: cfg.Loop}
	c.compile(m)
	return c
}

func (c *Controller) compile(m Motion) {
	c.motion = m
	c.prepared, c.err = Prepare(m, PrepareConfig{
		Initial:  c.cfg.Initial,
		Duration: c.cfg.Duration,
		Now:      c.cfg.Now,
	})
	if c.err != nil && globalDebug {
		debugLog("controller: degraded schedule for %s: %v", m, c.err)
	}
	dur, known := c.prepared.Duration()
	if !known || dur <= 0 {
		dur = DefaultDuration
	}
	c.clockDur = float32(dur)
	c.clock = gween.New(0, 1, c.clockDur, ease.Linear)
	c.clockTime = float32(clamp01(c.progress)) * c.clockDur
	c.clock.Set(c.clockTime)
	v, err := c.prepared.At(c.progress)
	if err != nil {
		if c.err == nil {
			c.err = err
		}
		return
	}
	c.value = v
}

// Motion returns the motion currently driving the controller.
func (c *Controller) Motion() Motion { return c.motion }

// Prepared returns the compiled schedule, or nil after [Controller.Dispose].
func (c *Controller) Prepared() *Prepared { return c.prepared }

// Err returns the most recent resolution or sampling error, or nil.
func (c *Controller) Err() error { return c.err }

// Progress returns the current position, normally within [0, 1].
func (c *Controller) Progress() float64 { return c.progress }

// Value returns the value at the current progress. It is recomputed on
// every move, never on read.
func (c *Controller) Value() Value { return c.value }

// Done reports whether playback hit a timeline end under [LoopNone].
// Flipping direction or repositioning clears it.
func (c *Controller) Done() bool { return c.done }

// SetMotion swaps the motion the controller drives. A motion equal to
// the current one (see [Motion.Equal]) is a no-op, so immediate-mode
// callers may rebuild and hand over the tree every frame. A changed
// motion recompiles, resamples at the preserved progress, and notifies
// subscribers; no side effects fire.
func (c *Controller) SetMotion(m Motion) error {
	if err := c.checkDisposed("SetMotion"); err != nil {
		return err
	}
	if m == nil {
		panic("motion: SetMotion with nil motion")
	}
	if c.motion.Equal(m) {
		return nil
	}
	if globalDebug {
		debugLog("controller: motion changed, recompiling %s", m)
	}
	c.compile(m)
	c.notify()
	return c.err
}

// SetProgress moves to progress p, recomputes the value, fires the
// side effects the move crossed in order, then notifies subscribers.
// Moving backward fires the backward window; see [Prepared.Effects].
//
// A sampling failure (shape mismatch against the initial value) leaves
// the previous value in place and fires nothing.
func (c *Controller) SetProgress(p float64) error {
	if err := c.checkDisposed("SetProgress"); err != nil {
		return err
	}
	old := c.progress
	c.progress = p
	c.done = false
	c.clockTime = float32(clamp01(p)) * c.clockDur
	c.clock.Set(c.clockTime)
	v, err := c.prepared.At(p)
	if err != nil {
		c.err = err
		return err
	}
	c.value = v
	for _, e := range c.prepared.Effects(old, p) {
		e.Invoke()
	}
	c.notify()
	return nil
}

// Update advances playback by dt time units in the current direction
// and applies the configured [Loop] behavior at the timeline ends. Call
// it once per frame; it is a no-op while [Controller.Done].
//
// When the motion's duration is unknown the clock runs over
// [DefaultDuration], so an unanchored motion plays out in one time unit.
func (c *Controller) Update(dt float64) error {
	if err := c.checkDisposed("Update"); err != nil {
		return err
	}
	if c.done || dt == 0 {
		return nil
	}
	// The tween only runs forward, so the controller keeps the clock
	// time itself and drives the tween through Set. Reverse playback is
	// the same clock walked toward zero.
	t := c.clockTime
	finished := false
	if c.reverse {
		t -= float32(dt)
		if t <= 0 {
			t = 0
			finished = true
		}
	} else {
		t += float32(dt)
		if t >= c.clockDur {
			t = c.clockDur
			finished = true
		}
	}
	val, _ := c.clock.Set(t)
	c.clockTime = t
	if err := c.SetProgress(float64(val)); err != nil {
		return err
	}
	if !finished {
		return nil
	}
	switch c.loop {
	case LoopNone:
		c.done = true
	case LoopRestart:
		if c.reverse {
			c.jumpTo(1)
		} else {
			c.jumpTo(0)
		}
	case LoopPingPong:
		c.reverse = !c.reverse
	}
	return nil
}

// jumpTo repositions without firing effects: loop rewinds are cuts, not
// playback.
func (c *Controller) jumpTo(p float64) {
	c.progress = p
	c.clockTime = float32(p) * c.clockDur
	c.clock.Set(c.clockTime)
	v, err := c.prepared.At(p)
	if err != nil {
		c.err = err
		return
	}
	c.value = v
	c.notify()
}

// Forward makes Update play toward progress 1 and clears Done.
func (c *Controller) Forward() {
	if c.checkDisposed("Forward") != nil {
		return
	}
	c.reverse = false
	c.done = false
}

// Reverse makes Update play toward progress 0 and clears Done.
func (c *Controller) Reverse() {
	if c.checkDisposed("Reverse") != nil {
		return
	}
	c.reverse = true
	c.done = false
}

// Reversed reports whether Update is playing toward 0.
func (c *Controller) Reversed() bool { return c.reverse }

// SetLoop changes the end-of-timeline behavior from the next boundary on.
func (c *Controller) SetLoop(l Loop) { c.loop = l }

// Subscribe registers fn to run after every value change, synchronously
// on the driving goroutine. It returns the unsubscribe function.
// Callbacks may subscribe and unsubscribe freely, including from inside
// a callback.
func (c *Controller) Subscribe(fn func(Value)) func() {
	if fn == nil {
		panic("motion: Subscribe with nil func")
	}
	if c.disposed {
		panic("motion: Subscribe on disposed Controller")
	}
	id := c.nextID
	c.nextID++
	c.subs = append(c.subs, subscriber{id: id, fn: fn})
	return func() { c.unsubscribe(id) }
}

func (c *Controller) unsubscribe(id int) {
	for i, s := range c.subs {
		if s.id != id {
			continue
		}
		// Copy on remove so a notify in flight keeps its snapshot.
		out := make([]subscriber, 0, len(c.subs)-1)
		out = append(out, c.subs[:i]...)
		out = append(out, c.subs[i+1:]...)
		c.subs = out
		return
	}
}

func (c *Controller) notify() {
	subs := c.subs
	for _, s := range subs {
		s.fn(c.value)
	}
}

// Dispose detaches the controller: subscribers and the compiled
// schedule are released and every further mutating call reports
// [ErrDisposed]. The last value and progress stay readable. Disposing
// twice is an error, matching the rest of the lifecycle contract.
func (c *Controller) Dispose() error {
	if c.disposed {
		return ErrDisposed
	}
	c.disposed = true
	c.subs = nil
	c.prepared = nil
	c.clock = nil
	return nil
}

// IsDisposed reports whether Dispose has been called.
func (c *Controller) IsDisposed() bool { return c.disposed }

// checkDisposed guards mutating methods. In debug mode a disposed use
// panics at the call site instead of surfacing later as a quiet
// ErrDisposed.
func (c *Controller) checkDisposed(op string) error {
	if !c.disposed {
		return nil
	}
	if globalDebug {
		panic("motion debug: " + op + " on disposed Controller")
	}
	return ErrDisposed
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
