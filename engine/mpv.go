package engine

import "github.com/tvxlabs/mediabridge/media"

// MpvErrors holds libmpv's error codes as reported in end-file events.
var MpvErrors = media.NewTable(
	map[string]int{
		"END_FILE": 1,
		"COMMAND":  2,
	},
	map[string]int{
		"INVALID_PARAMETER":    -4,
		"OPTION_NOT_FOUND":     -5,
		"OPTION_FORMAT":        -6,
		"OPTION_ERROR":         -7,
		"PROPERTY_NOT_FOUND":   -8,
		"PROPERTY_FORMAT":      -9,
		"PROPERTY_UNAVAILABLE": -10,
		"PROPERTY_ERROR":       -11,
		"COMMAND":              -12,
		"LOADING_FAILED":       -13,
		"AO_INIT_FAILED":       -14,
		"VO_INIT_FAILED":       -15,
		"NOTHING_TO_PLAY":      -16,
		"UNKNOWN_FORMAT":       -17,
		"UNSUPPORTED":          -18,
		"NOT_IMPLEMENTED":      -19,
		"GENERIC":              -20,
	},
)

// Mpv is the mpv player driven over its JSON-IPC socket. Unlike media elements it has a
// real stop command.
var Mpv = register(Profile{
	Name:  "mpv",
	Label: "mpv",
	Events: Events{
		Ready:          "file-loaded",
		Playing:        "unpause",
		Paused:         "pause",
		Ended:          []string{"eof"},
		Error:          "error",
		QualityChanged: "video-reconfig",
	},
	Errors:  MpvErrors,
	Load:    LoadPromise,
	CanStop: true,
})
