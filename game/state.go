/*
 * Quickdraw for Raspberry Pi Pico
 * Go version
 *
 * @authors     smittytone
 * @copyright   2023, Tony Smith
 * @licence     MIT
 *
 */
package game

import "quickdraw/clock"

// State is everything the main loop and the button handler share.
type State struct {
	Phase  Phase
	Winner Player

	// Time of each player's most recent button edge.
	PressedAt [2]uint32

	// When the go signal fires. Only meaningful while Playing.
	Deadline uint32

	LastTransitionAt uint32
	FalseStart       bool
}

// Transition is one phase change.
type Transition struct {
	From Phase
	To   Phase
	At   uint32
}

func initialState(now uint32) State {
	return State{Phase: Startup, Winner: None, LastTransitionAt: now}
}

// transition moves s to the given phase if the graph has that edge.
// Leaving the result phases clears the winner; entering PrePlay also clears
// the false start.
func (s *State) transition(to Phase, now uint32) bool {
	if !CanTransition(s.Phase, to) {
		return false
	}
	s.Phase = to
	s.LastTransitionAt = now
	if to != Scoring && to != PostScoring {
		s.Winner = None
	}
	if to == PrePlay {
		s.FalseStart = false
	}
	return true
}

// A pressRule decides what an edge from p means in one phase. It reports
// whether the phase changed.
type pressRule func(s *State, p Player, now, debounce uint32) bool

var pressRules = [phaseCount]pressRule{
	Ready:       restartRound,
	Playing:     falseStart,
	Reacting:    react,
	Scoring:     restartRound,
	PostScoring: restartRound,
}

// press records the edge and applies the rule for the current phase.
func (s *State) press(p Player, now, debounce uint32) bool {
	if p != Player1 && p != Player2 {
		return false
	}
	s.PressedAt[p] = now
	rule := pressRules[s.Phase]
	if rule == nil {
		return false
	}
	return rule(s, p, now, debounce)
}

// The go signal has not been given yet, so whoever pressed loses.
func falseStart(s *State, p Player, now, _ uint32) bool {
	if !s.transition(Scoring, now) {
		return false
	}
	s.FalseStart = true
	s.Winner = p.Other()
	return true
}

func react(s *State, p Player, now, _ uint32) bool {
	if !s.transition(Scoring, now) {
		return false
	}
	s.Winner = p
	return true
}

// restartRound starts a new round when both players pressed within the
// debounce window, unless the phase itself changed less than a debounce ago.
func restartRound(s *State, _ Player, now, debounce uint32) bool {
	if !s.Phase.idle() {
		return false
	}
	if clock.Distance(s.PressedAt[Player1], s.PressedAt[Player2]) >= debounce {
		return false
	}
	if clock.Elapsed(now, s.LastTransitionAt) < debounce {
		return false
	}
	return s.transition(PrePlay, now)
}
