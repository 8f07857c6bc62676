// Package icon renders UI symbols in the variant chosen by icons.variant: emoji,
// nerd-font glyphs, plain ASCII, kaomoji or Unicode squares.
package icon

import (
	"github.com/tvxlabs/mediabridge/key"
	"github.com/spf13/viper"
)

// Visual Variant Constants - these define the supported aesthetic styles for icon rendering.
const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants returns a slice of all registered icon style identifiers.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// iconDef encapsulates the visual representations of a single UI symbol across all supported variants.
type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

// Get retrieves the visual representation for the receiver Def based on the global icons variant configuration.
func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return ""
	}
}

// Icon identifies a UI symbol.
type Icon int

const (
	Success Icon = iota
	Fail
	Warn
	Progress
	Play
	Pause
	Stop
	Loading
	Engine
	Key
)

var icons = map[Icon]*iconDef{
	Success:  {emoji: "✅", nerd: "\uf00c", plain: "✓", kaomoji: "(^▽^)", squares: "🟩"},
	Fail:     {emoji: "❌", nerd: "\uf00d", plain: "✗", kaomoji: "(×_×)", squares: "🟥"},
	Warn:     {emoji: "⚠️", nerd: "\uf071", plain: "!", kaomoji: "(・_・;)", squares: "🟨"},
	Progress: {emoji: "⏳", nerd: "\uf110", plain: "...", kaomoji: "(・・ )?", squares: "🟦"},
	Play:     {emoji: "▶️", nerd: "\uf04b", plain: ">", kaomoji: "(ﾉ◕ヮ◕)ﾉ", squares: "🟩"},
	Pause:    {emoji: "⏸️", nerd: "\uf04c", plain: "||", kaomoji: "(－_－) zzZ", squares: "🟨"},
	Stop:     {emoji: "⏹️", nerd: "\uf04d", plain: "[]", kaomoji: "(-_-)", squares: "⬛"},
	Loading:  {emoji: "🔄", nerd: "\uf021", plain: "~", kaomoji: "(°ロ°)", squares: "🟪"},
	Engine:   {emoji: "🎬", nerd: "\uf008", plain: "#", kaomoji: "[¬º-°]¬", squares: "🟧"},
	Key:      {emoji: "🔑", nerd: "\uf084", plain: "*", kaomoji: "(⌐■_■)", squares: "🟫"},
}

// Get returns the rendered string for a specified Icon identifier from the global registry.
func Get(i Icon) string {
	def, ok := icons[i]
	if !ok {
		return ""
	}
	return def.Get()
}

// ForState returns the icon shown next to a playback state name.
func ForState(state string) Icon {
	switch state {
	case "PLAYING":
		return Play
	case "PAUSED", "READY":
		return Pause
	case "ENDED", "UNINITIALIZED":
		return Stop
	case "ERROR":
		return Fail
	default:
		return Loading
	}
}
