// Package page implements the lifecycle shared by every record page:
// resolve a record, accept edits, submit one mutation. The machine is
// independent of the rendering layer; handlers drive it per page visit.
package page

import (
	"context"
	"errors"
	"sync"
)

const (
	PhaseResolving  = "resolving"
	PhaseReady      = "ready"
	PhaseSubmitting = "submitting"
	PhaseDone       = "done"
	PhaseError      = "error"
)

var (
	// ErrNotReady is returned when a submit is attempted outside Ready.
	ErrNotReady = errors.New("page is not ready for submission")

	// ErrSubmitInFlight guards against double submission.
	ErrSubmitInFlight = errors.New("submission already in flight")

	// ErrAlreadyResolved is returned for a second resolution attempt.
	ErrAlreadyResolved = errors.New("page record already resolved")
)

// Machine tracks one page visit through
// Resolving -> Ready -> {Submitting -> Done | Error}.
// A failed submit returns to Ready; a failed resolve is terminal.
type Machine struct {
	mu      sync.Mutex
	phase   string
	fetches int
	writes  int
	lastErr error
}

// New returns a machine in the Resolving phase.
func New() *Machine {
	return &Machine{phase: PhaseResolving}
}

// ResolveFromHandoff promotes the page to Ready without a remote read.
// Used when the record arrived through a navigation hand-off.
func (m *Machine) ResolveFromHandoff() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != PhaseResolving {
		return ErrAlreadyResolved
	}
	m.phase = PhaseReady
	return nil
}

// Resolve issues the single remote read for the page. Failure is
// terminal: the page lands in Error and never reaches Ready.
func (m *Machine) Resolve(ctx context.Context, fetch func(context.Context) error) error {
	m.mu.Lock()
	if m.phase != PhaseResolving {
		m.mu.Unlock()
		return ErrAlreadyResolved
	}
	m.fetches++
	m.mu.Unlock()

	err := fetch(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.phase = PhaseError
		m.lastErr = err
		return err
	}
	m.phase = PhaseReady
	return nil
}

// CanSubmit reports whether the submit affordance is enabled: Ready
// phase and no missing required fields.
func (m *Machine) CanSubmit(missing []string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase == PhaseReady && len(missing) == 0
}

// BeginSubmit transitions Ready -> Submitting. While Submitting, a
// second call fails, so double-invoking submit issues one write.
func (m *Machine) BeginSubmit() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.phase {
	case PhaseSubmitting:
		return ErrSubmitInFlight
	case PhaseReady:
		m.phase = PhaseSubmitting
		return nil
	default:
		return ErrNotReady
	}
}

// FinishSubmit records the outcome of the write: success is terminal
// (Done), failure returns the page to Ready with the error visible so
// the user can correct and resubmit.
func (m *Machine) FinishSubmit(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != PhaseSubmitting {
		return
	}
	if err != nil {
		m.phase = PhaseReady
		m.lastErr = err
		return
	}
	m.phase = PhaseDone
	m.lastErr = nil
}

// Submit runs the full submission protocol around a single write.
func (m *Machine) Submit(ctx context.Context, write func(context.Context) error) error {
	if err := m.BeginSubmit(); err != nil {
		return err
	}

	m.mu.Lock()
	m.writes++
	m.mu.Unlock()

	err := write(ctx)
	m.FinishSubmit(err)
	return err
}

// Phase returns the current lifecycle phase.
func (m *Machine) Phase() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Err returns the last resolution or submission error, if any.
func (m *Machine) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Fetches returns how many remote reads the page has issued.
func (m *Machine) Fetches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetches
}

// Writes returns how many remote writes the page has issued.
func (m *Machine) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
