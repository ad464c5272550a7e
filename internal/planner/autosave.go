package planner

import (
	"context"
	"log"
	"sync"
	"time"
)

const (
	// DefaultAutosaveDelay is the quiet period after the last edit before a
	// draft is written.
	DefaultAutosaveDelay = 1500 * time.Millisecond
	// DefaultSavedDisplay is how long StateSaved lasts before returning to idle.
	DefaultSavedDisplay = 2 * time.Second
)

// SaveState is the autosave indicator shown next to the form.
type SaveState int

const (
	StateIdle SaveState = iota
	StatePending
	StateSaving
	StateSaved
)

func (s SaveState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSaving:
		return "saving"
	case StateSaved:
		return "saved"
	}
	return "idle"
}

// AutosaveConfig tunes an Autosaver.
type AutosaveConfig struct {
	Delay        time.Duration
	SavedDisplay time.Duration
	Logger       *log.Logger

	// OnStateChange is called after every transition, outside any lock.
	// err is set when a save just failed.
	OnStateChange func(state SaveState, err error)
}

// DefaultAutosaveConfig returns the production timings.
func DefaultAutosaveConfig() AutosaveConfig {
	return AutosaveConfig{
		Delay:        DefaultAutosaveDelay,
		SavedDisplay: DefaultSavedDisplay,
		Logger:       log.Default(),
	}
}

// SaveFunc persists one snapshot as a draft.
type SaveFunc func(ctx context.Context, snap Snapshot) error

// GateFunc decides whether a snapshot is worth saving.
type GateFunc func(snap Snapshot) bool

// Autosaver coalesces edits into debounced draft saves.
//
// idle/saved -> pending on a qualifying edit; pending -> pending restarts the
// timer; pending -> saving when it fires; saving -> saved -> idle on success;
// saving -> idle on failure. At most one save runs at a time. An edit that
// arrives while saving is kept and, once the save settles, re-armed if it
// still passes the gate. Failures are never retried on their own.
type Autosaver struct {
	cfg  AutosaveConfig
	save SaveFunc
	gate GateFunc

	mu       sync.Mutex
	state    SaveState
	latest   Snapshot
	dirty    bool   // latest has not been handed to save yet
	gen      uint64 // bumped on every arm/cancel; stale timers compare against it
	timer    *time.Timer
	display  *time.Timer
	inflight chan struct{} // closed when the running save settles
	lastErr  error
	closed   bool
}

// NewAutosaver creates an idle Autosaver. A nil gate lets every edit through.
func NewAutosaver(save SaveFunc, gate GateFunc, cfg AutosaveConfig) *Autosaver {
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultAutosaveDelay
	}
	if cfg.SavedDisplay <= 0 {
		cfg.SavedDisplay = DefaultSavedDisplay
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if gate == nil {
		gate = func(Snapshot) bool { return true }
	}
	return &Autosaver{cfg: cfg, save: save, gate: gate}
}

// Edit reports a committed edit. Only the snapshot current when the timer
// fires is saved.
func (a *Autosaver) Edit(snap Snapshot) {
	snap = snap.Clone()
	qualifies := a.gate(snap)

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	if a.state == StateSaving {
		// Re-gated against the new baseline when the save settles.
		a.latest = snap
		a.dirty = true
		a.mu.Unlock()
		return
	}
	if !qualifies {
		a.dirty = false
		changed := a.state == StatePending
		if changed {
			a.stopTimersLocked()
			a.state = StateIdle
		}
		a.mu.Unlock()
		if changed {
			a.notify(StateIdle, nil)
		}
		return
	}
	a.latest = snap
	a.dirty = true
	a.armLocked()
	a.mu.Unlock()
	a.notify(StatePending, nil)
}

// SaveNow cancels any pending timer and saves snap immediately, after
// waiting for a running save to settle.
func (a *Autosaver) SaveNow(ctx context.Context, snap Snapshot) error {
	snap = snap.Clone()
	for {
		a.mu.Lock()
		if a.closed {
			a.mu.Unlock()
			return ErrEditorClosed
		}
		if a.state != StateSaving {
			break
		}
		done := a.inflight
		a.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	a.stopTimersLocked()
	a.latest = snap
	a.dirty = false
	done := a.beginSaveLocked()
	a.mu.Unlock()
	a.notify(StateSaving, nil)

	err := a.save(ctx, snap)
	a.settle(err, done)
	return err
}

// Cancel drops a pending save without touching a running one.
func (a *Autosaver) Cancel() {
	a.mu.Lock()
	changed := a.state == StatePending
	a.stopTimersLocked()
	a.dirty = false
	if changed {
		a.state = StateIdle
	}
	a.mu.Unlock()
	if changed {
		a.notify(StateIdle, nil)
	}
}

// Wait blocks until no save is running.
func (a *Autosaver) Wait(ctx context.Context) error {
	for {
		a.mu.Lock()
		done := a.inflight
		a.mu.Unlock()
		if done == nil {
			return nil
		}
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close cancels a pending save. A save already running is left to finish.
func (a *Autosaver) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	a.dirty = false
	a.stopTimersLocked()
	if a.state == StatePending {
		a.state = StateIdle
	}
}

func (a *Autosaver) State() SaveState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// LastError returns the error of the most recent save, nil after a success.
func (a *Autosaver) LastError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

func (a *Autosaver) armLocked() {
	a.stopTimersLocked()
	gen := a.gen
	a.state = StatePending
	a.timer = time.AfterFunc(a.cfg.Delay, func() { a.fire(gen) })
}

func (a *Autosaver) stopTimersLocked() {
	a.gen++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	if a.display != nil {
		a.display.Stop()
		a.display = nil
	}
}

func (a *Autosaver) beginSaveLocked() chan struct{} {
	done := make(chan struct{})
	a.inflight = done
	a.state = StateSaving
	return done
}

func (a *Autosaver) fire(gen uint64) {
	a.mu.Lock()
	if a.closed || gen != a.gen || a.state != StatePending {
		a.mu.Unlock()
		return
	}
	a.timer = nil
	snap := a.latest
	a.dirty = false
	done := a.beginSaveLocked()
	a.mu.Unlock()
	a.notify(StateSaving, nil)

	// No cancellation reaches a save once it started.
	err := a.save(context.Background(), snap)
	a.settle(err, done)
}

func (a *Autosaver) settle(err error, done chan struct{}) {
	a.mu.Lock()
	close(done)
	a.inflight = nil
	if err != nil {
		a.lastErr = err
		a.state = StateIdle
		a.cfg.Logger.Printf("WARN: autosave failed, edits kept locally: %v", err)
	} else {
		a.lastErr = nil
		a.state = StateSaved
		if a.closed {
			// No display timer runs after Close.
			a.state = StateIdle
		}
	}
	state := a.state
	followUp := a.dirty && !a.closed
	next := a.latest
	a.mu.Unlock()
	a.notify(state, err)

	if followUp && a.gate(next) {
		a.mu.Lock()
		if a.closed || a.state == StateSaving || a.state == StatePending {
			a.mu.Unlock()
			return
		}
		a.armLocked()
		a.mu.Unlock()
		a.notify(StatePending, nil)
		return
	}

	a.mu.Lock()
	if followUp {
		a.dirty = false
	}
	if a.state == StateSaved && !a.closed {
		a.stopTimersLocked()
		gen := a.gen
		a.display = time.AfterFunc(a.cfg.SavedDisplay, func() { a.expireSaved(gen) })
	}
	a.mu.Unlock()
}

func (a *Autosaver) expireSaved(gen uint64) {
	a.mu.Lock()
	if gen != a.gen || a.state != StateSaved {
		a.mu.Unlock()
		return
	}
	a.display = nil
	a.state = StateIdle
	a.mu.Unlock()
	a.notify(StateIdle, nil)
}

func (a *Autosaver) notify(state SaveState, err error) {
	if a.cfg.OnStateChange != nil {
		a.cfg.OnStateChange(state, err)
	}
}
