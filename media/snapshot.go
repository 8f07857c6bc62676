package media

import "github.com/samber/mo"

// Snapshot is a point-in-time read of the engine reported to the host on every poll.
// State is only present when the adapter detected a state-worthy condition during this poll.
type Snapshot struct {
	Position float64          `json:"position" jsonschema:"minimum=0"`
	Duration float64          `json:"duration" jsonschema:"minimum=0"`
	Speed    float64          `json:"speed" jsonschema:"exclusiveMinimum=0"`
	State    mo.Option[State] `json:"state"`
}

// Size is the payload of a quality change: the intrinsic dimensions of the rendered video.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}
