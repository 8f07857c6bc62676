// Package color holds the terminal colors of mediabridge: the ANSI colors used for CLI
// output and the color of every playback state.
package color

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/tvxlabs/mediabridge/media"
)

// New initializes a lipgloss.Color from a string value.
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

var (
	Red    = New("1")
	Green  = New("2")
	Yellow = New("3")
	Blue   = New("4")
	Purple = New("5")
	Cyan   = New("6")

	HiRed    = New("9")
	HiPurple = New("13")
)

// Catppuccin tones behind the state tags.
var (
	mauve   = New("#cba6f7")
	sky     = New("#89dceb")
	green   = New("#a6e3a1")
	red     = New("#f38ba8")
	overlay = New("#6c7086")
)

var states = map[media.State]lipgloss.Color{
	media.StateUninitialized: overlay,
	media.StateLoading:       mauve,
	media.StateReady:         sky,
	media.StatePlaying:       green,
	media.StatePaused:        sky,
	media.StateEnded:         overlay,
	media.StateError:         red,
}

// ForState returns the color a playback state is shown in. Unknown states get the
// loading color.
func ForState(s media.State) lipgloss.Color {
	if c, ok := states[s]; ok {
		return c
	}
	return mauve
}
