package zwift

// ///////////////////////////////////////////////
// Pattern Registry
// ///////////////////////////////////////////////

// Log line markers identifying the event categories the state machine reacts
// to. Matching is plain substring containment — the Zwift log is noisy and
// line prefixes vary between releases, so full parsing would be brittle.
const (
	// MarkerDiscardActivity appears when the player discards the ride
	// without saving.
	MarkerDiscardActivity = "Discarding Activity"

	// MarkerEndActivity appears when the player ends the ride and heads
	// to the save screen.
	MarkerEndActivity = "Ending Activity"

	// MarkerSaveActivity appears both on periodic autosaves and on the
	// final upload after an end marker. The two are told apart by
	// MarkerAutosave.
	MarkerSaveActivity = "Saving Activity"

	// MarkerAutosave is present on the periodic autosave variant of a
	// save line. Its absence means the save is the final upload and must
	// be ignored (the activity is already over).
	MarkerAutosave = "uploadTo3P: False"

	// MarkerWorkoutLoad appears when a structured workout starts. The
	// workout name sits inside the call parentheses.
	MarkerWorkoutLoad = "loadWorkout("

	// MarkerWorkoutDone appears when a structured workout completes.
	MarkerWorkoutDone = "Workout complete"

	// MarkerPacerJoin appears when the player joins a RoboPacer (logged
	// under the older "pace partner" name). The pacer name follows "for".
	MarkerPacerJoin = "Pace partner ride initialized for"

	// MarkerPacerLeave appears when the player drops off a RoboPacer.
	MarkerPacerLeave = "Pace partner ride ended"

	// MarkerRouteChange prefixes the route name whenever a route is set.
	MarkerRouteChange = "Setting Route:"

	// MarkerEventJoin appears when the player enters an organized event.
	// The event name follows the marker.
	MarkerEventJoin = "Joining event:"

	// MarkerEventLeave appears when the player leaves an organized event.
	MarkerEventLeave = "Leaving event"
)
