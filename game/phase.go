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

// Phase is the current state of the referee.
type Phase uint8

const (
	Startup Phase = iota
	Ready
	PrePlay
	Playing
	Reacting
	Scoring
	PostScoring

	phaseCount
)

var phaseNames = [phaseCount]string{
	Startup:     "startup",
	Ready:       "ready",
	PrePlay:     "pre-play",
	Playing:     "playing",
	Reacting:    "reacting",
	Scoring:     "scoring",
	PostScoring: "post-scoring",
}

func (p Phase) String() string {
	if p >= phaseCount {
		return "unknown"
	}
	return phaseNames[p]
}

// idle reports whether a joint press may start a new round from p.
func (p Phase) idle() bool {
	return p == Ready || p == Scoring || p == PostScoring
}

// Edges of the phase graph. Anything not listed here is refused.
var edges = [phaseCount][phaseCount]bool{
	Startup:     {Ready: true},
	Ready:       {PrePlay: true},
	PrePlay:     {Playing: true},
	Playing:     {Reacting: true, Scoring: true},
	Reacting:    {Scoring: true},
	Scoring:     {PostScoring: true, PrePlay: true},
	PostScoring: {Ready: true, PrePlay: true},
}

// CanTransition reports whether from -> to is an edge of the phase graph.
func CanTransition(from, to Phase) bool {
	if from >= phaseCount || to >= phaseCount {
		return false
	}
	return edges[from][to]
}

// Player identifies a button/indicator pair. None is the "no winner" value.
type Player uint8

const (
	Player1 Player = iota
	Player2
	None
)

func (p Player) String() string {
	switch p {
	case Player1:
		return "player 1"
	case Player2:
		return "player 2"
	}
	return "none"
}

// Other returns the opposing player. None has no opponent.
func (p Player) Other() Player {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	return None
}
