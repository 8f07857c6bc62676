// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// DefinedFieldsCount is the number of registered configuration fields.
const DefinedFieldsCount = 19

// Playback - these keys configure the engine the command-line host drives and the state it persists.
const (
	PlayerEngine        = "player.engine"
	PlayerVolume        = "player.volume"
	PlayerMuted         = "player.muted"
	PlayerPollInterval  = "player.poll_interval"
	PlayerAudioLanguage = "player.audio_language"
	PlayerWidth         = "player.width"
	PlayerHeight        = "player.height"
	PlayerMount         = "player.mount"
)

// Adapter - these keys tune the lifecycle policy shared by every engine.
const (
	AdapterReadyTimeout     = "adapter.ready_timeout"
	AdapterAcceleratedStart = "adapter.accelerated_start"
)

// Control surface - these keys configure the optional HTTP interface started next to playback.
const (
	ControlEnable = "control.enable"
	ControlAddr   = "control.addr"
)

// Recent sources.
const (
	RecentRemember = "recent.remember"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-interactive application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
