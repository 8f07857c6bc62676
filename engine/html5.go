package engine

import "github.com/tvxlabs/mediabridge/media"

// HTML5Errors mirrors the media element error codes. The element reports no category;
// every error belongs to MEDIA_ELEMENT.
var HTML5Errors = media.NewTable(
	map[string]int{
		"MEDIA_ELEMENT": 0,
	},
	map[string]int{
		"MEDIA_ERR_ABORTED":           1,
		"MEDIA_ERR_NETWORK":           2,
		"MEDIA_ERR_DECODE":            3,
		"MEDIA_ERR_SRC_NOT_SUPPORTED": 4,
	},
)

// HTML5 is a plain media element: the source is assigned and readiness is signalled by
// canplay. The element has no stop primitive.
var HTML5 = register(Profile{
	Name:  "html5",
	Label: "Html5",
	Events: Events{
		Ready:   "canplay",
		Playing: "playing",
		Paused:  "pause",
		Ended:   []string{"ended"},
		Error:   "error",
	},
	Errors: HTML5Errors,
	Load:   LoadAssign,
})
