package mutate

import "context"

// State is the lifecycle of one optimistic mutation.
type State int

const (
	AppliedLocally State = iota
	Confirmed
	RolledBack
)

func (s State) String() string {
	switch s {
	case AppliedLocally:
		return "applied_locally"
	case Confirmed:
		return "confirmed"
	case RolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == Confirmed || s == RolledBack
}

// Attempt is a locally applied change waiting for the remote outcome.
// K identifies the entity being mutated (e.g. a goal or task key).
//
// Attempts are not safe for concurrent use; settle them from the same
// goroutine that applied them.
type Attempt[K comparable] struct {
	Key K

	state    State
	err      error
	rollback func()
}

// Begin runs apply immediately and returns the attempt in AppliedLocally.
func Begin[K comparable](key K, apply, rollback func()) *Attempt[K] {
	if apply != nil {
		apply()
	}
	return &Attempt[K]{Key: key, state: AppliedLocally, rollback: rollback}
}

// Settle records the remote outcome. A nil error confirms the attempt; any
// other error runs rollback. Settling a terminal attempt returns its state
// unchanged.
func (a *Attempt[K]) Settle(err error) State {
	if a.state.Terminal() {
		return a.state
	}
	if err == nil {
		a.state = Confirmed
		return a.state
	}
	a.err = err
	if a.rollback != nil {
		a.rollback()
	}
	a.state = RolledBack
	return a.state
}

func (a *Attempt[K]) State() State { return a.state }

// Err is the remote error that caused a rollback, if any.
func (a *Attempt[K]) Err() error { return a.err }

// Run is Begin + remote + Settle for synchronous callers.
func Run[K comparable](ctx context.Context, key K, apply func(), remote func(context.Context) error, rollback func()) (State, error) {
	a := Begin(key, apply, rollback)
	var err error
	if remote != nil {
		err = remote(ctx)
	}
	return a.Settle(err), err
}
