package app

import (
	"time"

	"golang.org/x/exp/rand"

	"particle-life/internal/logger"
	"particle-life/internal/preset"
	"particle-life/internal/sim"
)

// FrameConsumer receives the current-role position buffer for one frame. The
// buffer is fully written, read-only, and stable until the consumer returns:
// the buffer-role swap happens inside Tick, never during Frame.
type FrameConsumer interface {
	Frame(positions []float32, types []int32, typeCount int)
}

// App is the simulation context object. It owns the body store, the stepper,
// and the run configuration, and is passed explicitly wherever simulation
// state is needed; there is no package-level state. Created once, reset many
// times.
//
// App is driven from a single goroutine (the frame loop). The parallelism
// lives inside Stepper.Step, behind its own barrier.
type App struct {
	cfg     preset.Preset
	log     *logger.Logger
	store   *sim.Store
	stepper *sim.Stepper

	paused   bool
	ticks    uint64
	lastStep time.Duration
}

// New returns an app with the given configuration and no body state. Call
// Reset before the first Tick; Tick and Frame are harmless no-ops until then.
// log may be nil.
func New(cfg preset.Preset, log *logger.Logger) *App {
	return &App{cfg: cfg, log: log}
}

// Reset rebuilds all body state from the configured body and type counts.
func (a *App) Reset() error {
	return a.ResetTo(a.cfg.Bodies, a.cfg.Types)
}

// ResetTo rebuilds all body state for the given counts: new position buffers,
// velocities, types and matrix, plus a fresh stepper. On error (bad counts)
// nothing is replaced and any previous state keeps running. Safe to call at
// any time, including before the first initialization.
func (a *App) ResetTo(bodies, typeCount int) error {
	var rng *rand.Rand
	if a.cfg.Seed != 0 {
		rng = rand.New(rand.NewSource(a.cfg.Seed))
	}
	store, err := sim.NewStore(bodies, typeCount, rng)
	if err != nil {
		a.logf("reset rejected: %v", err)
		return err
	}
	stepper, err := sim.NewStepper(a.cfg.Batch)
	if err != nil {
		a.logf("reset rejected: %v", err)
		return err
	}
	stepper.Damping = a.cfg.Damping
	stepper.MinDistance = a.cfg.MinDistance

	a.store = store
	a.stepper = stepper
	a.cfg.Bodies = bodies
	a.cfg.Types = typeCount
	a.ticks = 0
	a.logf("reset: %d bodies, %d types, batch %d", bodies, typeCount, a.cfg.Batch)
	return nil
}

// TogglePause flips the pause flag and returns the new value. Pausing only
// suppresses step dispatch in Tick; it reads and writes no simulation state,
// so pause/unpause with no ticks in between leaves every buffer bit-identical.
func (a *App) TogglePause() bool {
	a.paused = !a.paused
	a.logf("paused: %v", a.paused)
	return a.paused
}

// Paused reports whether step dispatch is currently suppressed.
func (a *App) Paused() bool { return a.paused }

// SetBatchSize rebuilds only the stepper with a new batch size. Body state
// (positions, velocities, types, matrix) persists across the rebuild. On
// error the previous stepper stays in place.
func (a *App) SetBatchSize(batch int) error {
	stepper, err := sim.NewStepper(batch)
	if err != nil {
		a.logf("batch size rejected: %v", err)
		return err
	}
	stepper.Damping = a.cfg.Damping
	stepper.MinDistance = a.cfg.MinDistance
	a.stepper = stepper
	a.cfg.Batch = batch
	a.logf("batch size: %d", batch)
	return nil
}

// Tick advances the simulation by one step unless paused or uninitialized, in
// which case it does nothing and returns nil. One invocation is one unit
// step; the caller controls the invocation rate.
func (a *App) Tick() error {
	if a.paused || a.store == nil {
		return nil
	}
	t0 := time.Now()
	if err := a.stepper.Step(a.store, a.cfg.Dt); err != nil {
		return err
	}
	a.lastStep = time.Since(t0)
	a.ticks++
	return nil
}

// Frame hands the current position buffer to the consumer. No-op before the
// first successful Reset.
func (a *App) Frame(c FrameConsumer) {
	if a.store == nil {
		return
	}
	c.Frame(a.store.Current(), a.store.Types(), a.store.TypeCount())
}

// Store exposes the body store for inspection (tests, HUD). Nil before the
// first successful Reset.
func (a *App) Store() *sim.Store { return a.store }

// Bodies returns the current body count, 0 before the first Reset.
func (a *App) Bodies() int {
	if a.store == nil {
		return 0
	}
	return a.store.Len()
}

// BatchSize returns the configured batch size.
func (a *App) BatchSize() int { return a.cfg.Batch }

// Ticks returns how many steps have run since the last reset.
func (a *App) Ticks() uint64 { return a.ticks }

// StepTime returns the wall time of the most recent step.
func (a *App) StepTime() time.Duration { return a.lastStep }

func (a *App) logf(format string, args ...any) {
	if a.log != nil {
		a.log.Logf(format, args...)
	}
}
