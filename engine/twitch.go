package engine

import (
	"time"

	"github.com/tvxlabs/mediabridge/media"
)

// TwitchErrors covers the few failure signals the live embed exposes.
var TwitchErrors = media.NewTable(
	map[string]int{
		"EMBED":    1,
		"PLAYBACK": 2,
	},
	map[string]int{
		"CHANNEL_NOT_FOUND":   1,
		"UNAUTHORIZED":        2,
		"CONTENT_UNAVAILABLE": 3,
		"GEOBLOCKED":          4,
		"PLAYER_CRASHED":      5,
	},
)

// Twitch is the live-stream embed widget. It becomes ready on its own after being
// mounted, gives no explicit "unsupported" signal and may sit paused waiting for a user
// gesture when autoplay is blocked.
var Twitch = register(Profile{
	Name:  "twitch",
	Label: "Twitch",
	Events: Events{
		Ready:   "ready",
		Playing: "playing",
		Paused:  "pause",
		Ended:   []string{"ended"},
		Error:   "error",
	},
	Errors:         TwitchErrors,
	Load:           LoadAssign,
	ArmOnInit:      true,
	StallDetection: true,
	SeekDelay:      10 * time.Second,
})

// TwitchOffline is Twitch with the channel going offline treated as the end of playback.
var TwitchOffline = register(func() Profile {
	p := Twitch
	p.Name = "twitch-offline"
	p.Events.Ended = []string{"ended", "offline"}
	return p
}())
