package service

import "fmt"

// SessionPhase is the lifecycle phase of a live interview session. Every
// session moves through these phases in one direction only; Completed and
// Errored are terminal.
type SessionPhase string

const (
	PhaseIdle         SessionPhase = "idle"
	PhaseInitializing SessionPhase = "initializing"
	PhaseActive       SessionPhase = "active"
	PhaseCompleted    SessionPhase = "completed"
	PhaseErrored      SessionPhase = "errored"
)

// sessionEvent names a lifecycle transition request.
type sessionEvent string

const (
	eventInitialize sessionEvent = "initialize"
	eventActivate   sessionEvent = "activate"
	eventComplete   sessionEvent = "complete"
	eventFail       sessionEvent = "fail"
)

// transition returns the phase that results from applying ev to current.
// Illegal transitions return an error and leave the caller's state untouched.
func transition(current SessionPhase, ev sessionEvent) (SessionPhase, error) {
	switch current {
	case PhaseIdle:
		if ev == eventInitialize {
			return PhaseInitializing, nil
		}
	case PhaseInitializing:
		switch ev {
		case eventActivate:
			return PhaseActive, nil
		case eventFail:
			return PhaseErrored, nil
		case eventComplete:
			return PhaseCompleted, nil
		}
	case PhaseActive:
		switch ev {
		case eventComplete:
			return PhaseCompleted, nil
		case eventFail:
			return PhaseErrored, nil
		}
	}

	return current, fmt.Errorf("illegal session transition: %s on %s", ev, current)
}

// Terminal reports whether no further transitions are possible.
func (p SessionPhase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseErrored
}
