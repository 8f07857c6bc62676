package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/tvxlabs/mediabridge/key"
	"github.com/tvxlabs/mediabridge/media"
)

// Engine returns the static engine configuration assembled from the player keys.
// Clear keys are not part of the file configuration; they come from the keyring.
func Engine() media.Config {
	return media.Config{
		AudioLanguage: strings.TrimSpace(viper.GetString(key.PlayerAudioLanguage)),
		Width:         lo.Max([]int{viper.GetInt(key.PlayerWidth), 0}),
		Height:        lo.Max([]int{viper.GetInt(key.PlayerHeight), 0}),
	}
}

// ReadyTimeout returns the configured readiness timeout. Non-positive values yield zero,
// letting the adapter fall back to its default.
func ReadyTimeout() time.Duration {
	ms := viper.GetInt(key.AdapterReadyTimeout)
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

// PollInterval returns the status poll cadence, never below 50ms.
func PollInterval() time.Duration {
	ms := lo.Max([]int{viper.GetInt(key.PlayerPollInterval), 50})
	return time.Duration(ms) * time.Millisecond
}

// AcceleratedStart returns the accelerated start override, if any.
func AcceleratedStart() mo.Option[bool] {
	raw := strings.TrimSpace(viper.GetString(key.AdapterAcceleratedStart))
	if raw == "" {
		return mo.None[bool]()
	}

	b, err := strconv.ParseBool(raw)
	if err != nil {
		return mo.None[bool]()
	}
	return mo.Some(b)
}

// Volume returns the persisted host volume clamped to 0-100.
func Volume() float64 {
	return lo.Clamp(viper.GetFloat64(key.PlayerVolume), 0, 100)
}
