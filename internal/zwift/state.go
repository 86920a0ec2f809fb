// Package zwift interprets the Zwift game client's activity log.
//
// The package has three pieces: a pattern registry naming the log markers of
// interest (patterns.go), a pure state machine that folds log lines into a
// typed activity state ([Transition]), and a byte-offset poller that tails
// the append-only log file ([Poller]).
package zwift

import (
	"regexp"
	"strings"
)

// ///////////////////////////////////////////////
// Activity State
// ///////////////////////////////////////////////

// Kind identifies the player's current activity variant.
type Kind int

const (
	// KindFreeRide is an unstructured ride.
	KindFreeRide Kind = iota
	// KindWorkout is a structured workout.
	KindWorkout
	// KindRoboPacer is a ride with an AI pace partner.
	KindRoboPacer
	// KindEvent is an organized group event or race.
	KindEvent
)

// String returns the display name for a Kind.
func (k Kind) String() string {
	switch k {
	case KindFreeRide:
		return "FreeRide"
	case KindWorkout:
		return "Workout"
	case KindRoboPacer:
		return "RoboPacer"
	case KindEvent:
		return "Event"
	default:
		return "Unknown"
	}
}

// State is the player's current in-game activity. A nil *State means no
// activity is active.
//
// Exactly one of WorkoutName/PacerName/EventName is meaningful at a time,
// selected by Kind; the transition rules clear the others when Kind changes.
// An empty string means the field is absent.
type State struct {
	Kind        Kind
	World       string
	Route       string
	WorkoutName string
	PacerName   string
	EventName   string
}

// Equal reports whether two activity states are the same, treating nil as
// "no activity".
func Equal(a, b *State) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// clone returns a copy of s so transition rules never mutate a caller's state.
func (s *State) clone() *State {
	c := *s
	return &c
}

// ///////////////////////////////////////////////
// Field Extraction
// ///////////////////////////////////////////////

// worldRe captures the map name from a save line's embedded activity name,
// e.g. "{name: Zwift - Watopia, uploadTo3P: False}" yields "Watopia".
var worldRe = regexp.MustCompile(`Zwift - ([^,]*),`)

// extractWorld pulls the world name out of a save-activity line. Returns
// "Unknown" when the line does not carry the expected pattern.
func extractWorld(line string) string {
	m := worldRe.FindStringSubmatch(line)
	if m == nil {
		return "Unknown"
	}
	return strings.TrimSpace(m[1])
}

// extractParen returns the text inside the call parentheses following marker,
// trimmed of whitespace and surrounding quotes. Returns "" when the line has
// no closing parenthesis.
func extractParen(line, marker string) string {
	i := strings.Index(line, marker)
	if i < 0 {
		return ""
	}
	rest := line[i+len(marker):]
	j := strings.Index(rest, ")")
	if j < 0 {
		return ""
	}
	return strings.Trim(strings.TrimSpace(rest[:j]), `"`)
}

// extractAfter returns the trimmed text following marker, or "" when the
// marker is absent or nothing follows it.
func extractAfter(line, marker string) string {
	i := strings.Index(line, marker)
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(line[i+len(marker):])
}

// extractPacer returns the pacer name following the join marker, dropping an
// optional trailing parenthetical like "(C)" or "(route info)".
func extractPacer(line string) string {
	name := extractAfter(line, MarkerPacerJoin)
	if j := strings.Index(name, "("); j >= 0 {
		name = name[:j]
	}
	return strings.TrimSpace(name)
}

// ///////////////////////////////////////////////
// Transition
// ///////////////////////////////////////////////

// Transition folds log lines, in order, into a new activity state starting
// from prior. A nil prior (and a nil result) means no activity is active.
//
// Transition is pure: it never mutates prior and has no side effects, which
// is what lets the zwiftlog replay tool re-run it over saved logs.
func Transition(lines []string, prior *State) *State {
	state := prior
	for _, line := range lines {
		state = applyLine(line, state)
	}
	return state
}

// applyLine applies a single log line to state. The first matching rule wins;
// unmatched lines leave the state untouched.
func applyLine(line string, state *State) *State {
	switch {
	case strings.Contains(line, MarkerDiscardActivity),
		strings.Contains(line, MarkerEndActivity):
		// Unconditional: the ride is over even if we never saw it start.
		return nil

	case strings.Contains(line, MarkerSaveActivity):
		// Only the periodic autosave variant carries activity info worth
		// reading; the final upload after an end marker is ignored.
		if !strings.Contains(line, MarkerAutosave) {
			return state
		}
		world := extractWorld(line)
		if state == nil {
			return &State{Kind: KindFreeRide, World: world}
		}
		// Autosave lines arrive mid-workout and mid-pacer-ride too.
		// They update the world only and must not revert Kind, or the
		// presence would flap back to FreeRide on every autosave.
		next := state.clone()
		next.World = world
		return next

	case strings.Contains(line, MarkerWorkoutLoad):
		name := extractParen(line, MarkerWorkoutLoad)
		if state == nil {
			return &State{Kind: KindWorkout, WorkoutName: name}
		}
		next := state.clone()
		next.Kind = KindWorkout
		next.WorkoutName = name
		next.PacerName = ""
		next.EventName = ""
		return next

	case strings.Contains(line, MarkerWorkoutDone):
		if state == nil || state.Kind != KindWorkout {
			return state
		}
		next := state.clone()
		next.Kind = KindFreeRide
		next.WorkoutName = ""
		return next

	case strings.Contains(line, MarkerPacerJoin):
		// A join with no active state is stray cleanup noise.
		if state == nil {
			return nil
		}
		next := state.clone()
		next.Kind = KindRoboPacer
		next.PacerName = extractPacer(line)
		next.WorkoutName = ""
		next.EventName = ""
		return next

	case strings.Contains(line, MarkerPacerLeave):
		if state == nil || state.Kind != KindRoboPacer {
			return state
		}
		next := state.clone()
		next.Kind = KindFreeRide
		next.PacerName = ""
		return next

	case strings.Contains(line, MarkerEventJoin):
		if state == nil {
			return nil
		}
		next := state.clone()
		next.Kind = KindEvent
		next.EventName = extractAfter(line, MarkerEventJoin)
		next.WorkoutName = ""
		next.PacerName = ""
		return next

	case strings.Contains(line, MarkerEventLeave):
		if state == nil || state.Kind != KindEvent {
			return state
		}
		next := state.clone()
		next.Kind = KindFreeRide
		next.EventName = ""
		return next

	case strings.Contains(line, MarkerRouteChange):
		// Route lines are known to trail after shutdown as cleanup
		// noise; they must not resurrect a cleared activity.
		if state == nil {
			return nil
		}
		next := state.clone()
		next.Route = extractAfter(line, MarkerRouteChange)
		return next
	}
	return state
}
