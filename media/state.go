// Package media defines the engine-neutral playback vocabulary shared by adapters and hosts:
// playback states, status snapshots, static configuration and normalized errors.
package media

import (
	"fmt"
	"strings"
)

// State represents the normalized playback state of an adapter.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StatePlaying
	StatePaused
	StateEnded
	StateError
)

var stateNames = map[State]string{
	StateUninitialized: "UNINITIALIZED",
	StateLoading:       "LOADING",
	StateReady:         "READY",
	StatePlaying:       "PLAYING",
	StatePaused:        "PAUSED",
	StateEnded:         "ENDED",
	StateError:         "ERROR",
}

// States returns every state in lifecycle order.
func States() []State {
	return []State{
		StateUninitialized,
		StateLoading,
		StateReady,
		StatePlaying,
		StatePaused,
		StateEnded,
		StateError,
	}
}

// String returns the upper-case name of the state.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// Terminal reports whether no transition leaves the state other than disposal.
func (s State) Terminal() bool {
	return s == StateEnded || s == StateError
}

// Active reports whether media is loaded and controllable.
func (s State) Active() bool {
	return s == StateReady || s == StatePlaying || s == StatePaused
}

func (s State) MarshalText() ([]byte, error) {
	if _, ok := stateNames[s]; !ok {
		return nil, fmt.Errorf("invalid state %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	name := strings.ToUpper(strings.TrimSpace(string(text)))
	for state, n := range stateNames {
		if n == name {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", string(text))
}
