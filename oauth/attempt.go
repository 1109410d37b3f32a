package oauth

import "sync"

// Phase is the lifecycle of a single sign-in attempt.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseBrowserOpened
	PhaseAwaitingCallback
	PhaseExchanged
	PhaseFailed
	PhaseTimedOut
	PhaseCancelled
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseBrowserOpened:
		return "browser-opened"
	case PhaseAwaitingCallback:
		return "awaiting-callback"
	case PhaseExchanged:
		return "exchanged"
	case PhaseFailed:
		return "failed"
	case PhaseTimedOut:
		return "timed-out"
	case PhaseCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// callbackResult is what the loopback callback (or Cancel) hands to the
// waiting attempt.
type callbackResult struct {
	code      string
	state     string
	errCode   string
	errDetail string
	cancelled bool
}

// attempt tracks one sign-in. Exactly one delivery reaches the waiting
// flow; later deliveries are dropped, which makes duplicate or late
// callbacks harmless.
type attempt struct {
	state    string // CSRF state parameter
	nonce    string
	verifier string

	mu        sync.Mutex
	phase     Phase
	delivered bool
	done      chan callbackResult
}

func newAttempt(state, nonce, verifier string) *attempt {
	return &attempt{
		state:    state,
		nonce:    nonce,
		verifier: verifier,
		phase:    PhaseIdle,
		done:     make(chan callbackResult, 1),
	}
}

// deliver hands a result to the attempt. It reports whether this was the
// first delivery; every subsequent call is ignored.
func (a *attempt) deliver(res callbackResult) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.delivered {
		return false
	}
	a.delivered = true
	a.done <- res
	return true
}

func (a *attempt) setPhase(p Phase) {
	a.mu.Lock()
	a.phase = p
	a.mu.Unlock()
}

func (a *attempt) currentPhase() Phase {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.phase
}
