// Package mirror holds the client-side view of profile completion:
// a cached mirror of the server's derived state and the session-scoped
// gate deciding whether to show the completion prompt.
package mirror

import "interviewgenie-backend/service"

// State is the completion-prompt gate state for one session.
type State int

const (
	// StateUnknown means no profile data has been evaluated yet.
	StateUnknown State = iota
	// StateShouldPrompt means the completion prompt should be shown.
	StateShouldPrompt
	// StateSuppressed means the prompt stays hidden for the rest of
	// the session.
	StateSuppressed
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateShouldPrompt:
		return "should_prompt"
	case StateSuppressed:
		return "suppressed"
	default:
		return "invalid"
	}
}

// Event is a gate input. One of ProfileLoaded, PromptDismissed,
// ProgressUpdated or SessionReset.
type Event interface {
	isGateEvent()
}

// ProfileLoaded carries the first server state seen this session.
// HasProfile is false when the session has no profile data yet.
type ProfileLoaded struct {
	Progress   int
	HasProfile bool
}

// PromptDismissed fires when the user closes the prompt, whether or
// not they saved changes.
type PromptDismissed struct{}

// ProgressUpdated carries the new progress after a successful update.
type ProgressUpdated struct {
	Progress int
}

// SessionReset fires on logout or user change.
type SessionReset struct{}

func (ProfileLoaded) isGateEvent()   {}
func (PromptDismissed) isGateEvent() {}
func (ProgressUpdated) isGateEvent() {}
func (SessionReset) isGateEvent()    {}

// Next is the pure gate transition function. The gate only evaluates
// loaded data once per session (from StateUnknown), so navigation
// after a dismissal never re-prompts. Crossing the completion
// threshold suppresses the prompt for the rest of the session.
func Next(s State, e Event) State {
	switch ev := e.(type) {
	case SessionReset:
		return StateUnknown

	case ProfileLoaded:
		if s != StateUnknown {
			return s
		}
		if !ev.HasProfile || !service.IsComplete(ev.Progress) {
			return StateShouldPrompt
		}
		return StateSuppressed

	case PromptDismissed:
		if s == StateShouldPrompt {
			return StateSuppressed
		}
		return s

	case ProgressUpdated:
		if service.IsComplete(ev.Progress) {
			return StateSuppressed
		}
		return s
	}

	return s
}
