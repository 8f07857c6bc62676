package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/tvxlabs/mediabridge/media"
)

// LoadShape is how an engine accepts a source.
type LoadShape int

const (
	// LoadPromise engines load asynchronously and report completion later.
	LoadPromise LoadShape = iota
	// LoadAssign engines take the source as a property assignment that completes at once.
	LoadAssign
)

func (s LoadShape) String() string {
	switch s {
	case LoadPromise:
		return "promise"
	case LoadAssign:
		return "assign"
	default:
		return "unknown"
	}
}

func (s LoadShape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *LoadShape) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "promise", "":
		*s = LoadPromise
	case "assign":
		*s = LoadAssign
	default:
		return fmt.Errorf("unknown load shape %q", string(text))
	}
	return nil
}

// Events lists the native event names of an engine. Empty names are not subscribed.
type Events struct {
	Ready          string   `json:"ready" yaml:"ready"`
	Playing        string   `json:"playing,omitempty" yaml:"playing"`
	Paused         string   `json:"paused,omitempty" yaml:"paused"`
	Ended          []string `json:"ended" yaml:"ended"`
	Error          string   `json:"error,omitempty" yaml:"error"`
	QualityChanged string   `json:"quality_changed,omitempty" yaml:"quality_changed"`
}

// Names returns every non-empty event name.
func (e Events) Names() []string {
	names := append([]string{e.Ready, e.Playing, e.Paused, e.Error, e.QualityChanged}, e.Ended...)
	return lo.Uniq(lo.Compact(names))
}

// Profile parametrizes the generic adapter for one engine.
type Profile struct {
	// Name is the registry identifier.
	Name string `json:"name"`
	// Base names the built-in profile a user profile derives from. Empty for built-ins.
	Base string `json:"base,omitempty"`
	// Label prefixes every message reported to the host.
	Label  string       `json:"label"`
	Events Events       `json:"events"`
	Errors *media.Table `json:"-"`
	Load   LoadShape    `json:"load"`

	// CanStop is set when the engine has a stop primitive distinct from pause.
	CanStop bool `json:"can_stop"`

	// ArmOnInit arms the readiness watchdog at init instead of at the first load.
	ArmOnInit bool `json:"arm_on_init"`

	// ReadyTimeout overrides the configured readiness window when non-zero.
	ReadyTimeout time.Duration `json:"ready_timeout,omitempty"`

	// StallDetection enables the waiting-for-user inference on polls.
	StallDetection bool `json:"stall_detection"`

	// AcceleratedStart is passed to the host when playback starts.
	AcceleratedStart bool `json:"accelerated_start"`

	// SeekDelay is announced to the host at init when non-zero.
	SeekDelay time.Duration `json:"seek_delay,omitempty"`
}

// Validate reports profiles the adapter could not drive.
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name is empty")
	}
	if p.Events.Ready == "" {
		return fmt.Errorf("profile %s: ready event is required", p.Name)
	}
	if len(lo.Compact(p.Events.Ended)) == 0 {
		return fmt.Errorf("profile %s: at least one ended event is required", p.Name)
	}
	return nil
}

// Engine returns the built-in engine whose binding drives the profile.
func (p Profile) Engine() string {
	if p.Base != "" {
		return p.Base
	}
	return p.Name
}

// DisplayLabel returns Label, falling back to the name.
func (p Profile) DisplayLabel() string {
	if p.Label != "" {
		return p.Label
	}
	return p.Name
}

var builtins = map[string]Profile{}

func register(p Profile) Profile {
	if _, exists := builtins[p.Name]; exists {
		panic("duplicate engine profile: " + p.Name)
	}
	builtins[p.Name] = p
	return p
}

// Builtin returns a built-in profile by name.
func Builtin(name string) (Profile, bool) {
	p, ok := builtins[strings.ToLower(name)]
	return p, ok
}

// Builtins returns the built-in profiles sorted by name.
func Builtins() []Profile {
	profiles := lo.Values(builtins)
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Name < profiles[j].Name
	})
	return profiles
}
