// Package presence turns an activity state into the Discord Rich Presence
// payload. Building a payload is a pure transform; the orchestrator owns the
// start timestamp so it stays constant across updates of one logical
// activity.
package presence

import (
	"time"

	"tools.zach/dev/zwiftcord/internal/discord"
	"tools.zach/dev/zwiftcord/internal/zwift"
)

// ///////////////////////////////////////////////
// Asset Configuration
// ///////////////////////////////////////////////

// AssetConfig holds the Discord asset keys applied to every payload. Fields
// left empty are omitted from the wire format entirely.
type AssetConfig struct {
	LargeImage string
	LargeText  string
	SmallImage string
	SmallText  string
}

// ///////////////////////////////////////////////
// Payload Building
// ///////////////////////////////////////////////

// Build converts an activity state into a [discord.Activity]. A nil state
// yields nil, which the client sends as an explicit "no activity" payload.
// start is the wall-clock beginning of the logical activity; a zero time
// omits the timestamp.
func Build(st *zwift.State, assets AssetConfig, start time.Time) *discord.Activity {
	if st == nil {
		return nil
	}

	a := &discord.Activity{
		Details: detailsLine(st),
		State:   stateLine(st),
	}
	if !start.IsZero() {
		a.Timestamps = &discord.Timestamps{Start: start.Unix()}
	}
	if assets != (AssetConfig{}) {
		a.Assets = &discord.Assets{
			LargeImage: assets.LargeImage,
			LargeText:  assets.LargeText,
			SmallImage: assets.SmallImage,
			SmallText:  assets.SmallText,
		}
	}
	return a
}

// detailsLine renders the primary presence line from the activity kind.
func detailsLine(st *zwift.State) string {
	switch st.Kind {
	case zwift.KindWorkout:
		if st.WorkoutName != "" {
			return "Workout: " + st.WorkoutName
		}
		return "Doing a workout"
	case zwift.KindRoboPacer:
		if st.PacerName != "" {
			return "Riding with " + st.PacerName
		}
		return "Riding with a RoboPacer"
	case zwift.KindEvent:
		if st.EventName != "" {
			return "Event: " + st.EventName
		}
		return "Riding an event"
	default:
		if st.World != "" {
			return "Free riding in " + st.World
		}
		return "Free riding"
	}
}

// stateLine renders the secondary presence line: the route when known,
// otherwise the world for kinds that do not already show it in the details.
func stateLine(st *zwift.State) string {
	if st.Route != "" {
		return "on " + st.Route
	}
	if st.Kind != zwift.KindFreeRide && st.World != "" {
		return "in " + st.World
	}
	return ""
}
