package engine

import "github.com/tvxlabs/mediabridge/media"

// ShakaErrors mirrors the adaptive-streaming engine's error enumerations.
var ShakaErrors = media.NewTable(
	map[string]int{
		"NETWORK":   1,
		"TEXT":      2,
		"MEDIA":     3,
		"MANIFEST":  4,
		"STREAMING": 5,
		"DRM":       6,
		"PLAYER":    7,
		"CAST":      8,
		"STORAGE":   9,
		"ADS":       10,
	},
	map[string]int{
		"UNSUPPORTED_SCHEME":      1000,
		"BAD_HTTP_STATUS":         1001,
		"HTTP_ERROR":              1002,
		"TIMEOUT":                 1003,
		"MALFORMED_DATA_URI":      1004,
		"REQUEST_FILTER_ERROR":    1006,
		"RESPONSE_FILTER_ERROR":   1007,
		"MALFORMED_TEST_URI":      1008,
		"UNEXPECTED_TEST_REQUEST": 1009,
		"ATTEMPTS_EXHAUSTED":      1010,
		"SEGMENT_MISSING":         1011,

		"INVALID_TEXT_HEADER":              2000,
		"INVALID_TEXT_CUE":                 2001,
		"UNABLE_TO_DETECT_ENCODING":        2003,
		"BAD_ENCODING":                     2004,
		"INVALID_XML":                      2005,
		"INVALID_MP4_TTML":                 2007,
		"INVALID_MP4_VTT":                  2008,
		"UNABLE_TO_EXTRACT_CUE_START_TIME": 2009,

		"BUFFER_READ_OUT_OF_BOUNDS":                3000,
		"JS_INTEGER_OVERFLOW":                      3001,
		"EBML_OVERFLOW":                            3002,
		"EBML_BAD_FLOATING_POINT_SIZE":             3003,
		"MP4_SIDX_WRONG_BOX_TYPE":                  3004,
		"MP4_SIDX_INVALID_TIMESCALE":               3005,
		"MP4_SIDX_TYPE_NOT_SUPPORTED":              3006,
		"WEBM_CUES_ELEMENT_MISSING":                3007,
		"WEBM_EBML_HEADER_ELEMENT_MISSING":         3008,
		"WEBM_SEGMENT_ELEMENT_MISSING":             3009,
		"WEBM_INFO_ELEMENT_MISSING":                3010,
		"WEBM_DURATION_ELEMENT_MISSING":            3011,
		"WEBM_CUE_TRACK_POSITIONS_ELEMENT_MISSING": 3012,
		"WEBM_CUE_TIME_ELEMENT_MISSING":            3013,
		"MEDIA_SOURCE_OPERATION_FAILED":            3014,
		"MEDIA_SOURCE_OPERATION_THREW":             3015,
		"VIDEO_ERROR":                              3016,
		"QUOTA_EXCEEDED_ERROR":                     3017,
		"TRANSMUXING_FAILED":                       3018,

		"UNABLE_TO_GUESS_MANIFEST_TYPE":           4000,
		"DASH_INVALID_XML":                        4001,
		"DASH_NO_SEGMENT_INFO":                    4002,
		"DASH_EMPTY_ADAPTATION_SET":               4003,
		"DASH_EMPTY_PERIOD":                       4004,
		"DASH_WEBM_MISSING_INIT":                  4005,
		"DASH_UNSUPPORTED_CONTAINER":              4006,
		"DASH_PSSH_BAD_ENCODING":                  4007,
		"DASH_NO_COMMON_KEY_SYSTEM":               4008,
		"DASH_MULTIPLE_KEY_IDS_NOT_SUPPORTED":     4009,
		"DASH_CONFLICTING_KEY_IDS":                4010,
		"RESTRICTIONS_CANNOT_BE_MET":              4012,
		"HLS_PLAYLIST_HEADER_MISSING":             4015,
		"INVALID_HLS_TAG":                         4016,
		"HLS_INVALID_PLAYLIST_HIERARCHY":          4017,
		"DASH_DUPLICATE_REPRESENTATION_ID":        4018,
		"HLS_MULTIPLE_MEDIA_INIT_SECTIONS_FOUND":  4020,
		"HLS_REQUIRED_ATTRIBUTE_MISSING":          4023,
		"HLS_REQUIRED_TAG_MISSING":                4024,
		"HLS_COULD_NOT_GUESS_CODECS":              4025,
		"HLS_KEYFORMATS_NOT_SUPPORTED":            4026,
		"DASH_UNSUPPORTED_XLINK_ACTUATE":          4027,
		"DASH_XLINK_DEPTH_LIMIT":                  4028,
		"CONTENT_UNSUPPORTED_BY_BROWSER":          4032,
		"CANNOT_ADD_EXTERNAL_TEXT_TO_LIVE_STREAM": 4033,

		"STREAMING_ENGINE_STARTUP_INVALID_STATE": 5006,

		"NO_RECOGNIZED_KEY_SYSTEMS":               6000,
		"REQUESTED_KEY_SYSTEM_CONFIG_UNAVAILABLE": 6001,
		"FAILED_TO_CREATE_CDM":                    6002,
		"FAILED_TO_ATTACH_TO_VIDEO":               6003,
		"INVALID_SERVER_CERTIFICATE":              6004,
		"FAILED_TO_CREATE_SESSION":                6005,
		"FAILED_TO_GENERATE_LICENSE_REQUEST":      6006,
		"LICENSE_REQUEST_FAILED":                  6007,
		"LICENSE_RESPONSE_REJECTED":               6008,
		"ENCRYPTED_CONTENT_WITHOUT_DRM_INFO":      6010,
		"NO_LICENSE_SERVER_GIVEN":                 6012,
		"OFFLINE_SESSION_REMOVED":                 6013,
		"EXPIRED":                                 6014,

		"LOAD_INTERRUPTED":   7000,
		"OPERATION_ABORTED":  7001,
		"NO_VIDEO_ELEMENT":   7002,
		"OBJECT_DESTROYED":   7003,
		"CONTENT_NOT_LOADED": 7004,

		"CAST_API_UNAVAILABLE":          8000,
		"NO_CAST_RECEIVERS":             8001,
		"ALREADY_CASTING":               8002,
		"UNEXPECTED_CAST_ERROR":         8003,
		"CAST_CANCELED_BY_USER":         8004,
		"CAST_CONNECTION_TIMED_OUT":     8005,
		"CAST_RECEIVER_APP_UNAVAILABLE": 8006,

		"STORAGE_NOT_SUPPORTED":           9000,
		"INDEXED_DB_ERROR":                9001,
		"DEPRECATED_OPERATION_ABORTED":    9002,
		"REQUESTED_ITEM_NOT_FOUND":        9003,
		"MALFORMED_OFFLINE_URI":           9004,
		"CANNOT_STORE_LIVE_OFFLINE":       9005,
		"NO_INIT_DATA_FOR_OFFLINE":        9007,
		"LOCAL_PLAYER_INSTANCE_REQUIRED":  9008,
		"NEW_KEY_OPERATION_NOT_SUPPORTED": 9011,
		"KEY_NOT_FOUND":                   9012,
		"MISSING_STORAGE_CELL":            9013,

		"CS_IMA_SDK_MISSING":               10000,
		"CS_AD_MANAGER_NOT_INITIALIZED":    10001,
		"SS_IMA_SDK_MISSING":               10002,
		"SS_AD_MANAGER_NOT_INITIALIZED":    10003,
		"CURRENT_DAI_REQUEST_NOT_FINISHED": 10004,
	},
)

// Shaka is the adaptive-streaming engine: an HTML media element driven by a DASH/HLS
// player library that loads manifests asynchronously.
var Shaka = register(Profile{
	Name:  "shaka",
	Label: "Shaka",
	Events: Events{
		Ready:          "canplay",
		Playing:        "playing",
		Paused:         "pause",
		Ended:          []string{"ended"},
		Error:          "error",
		QualityChanged: "mediaqualitychanged",
	},
	Errors:           ShakaErrors,
	Load:             LoadPromise,
	AcceleratedStart: true,
})
