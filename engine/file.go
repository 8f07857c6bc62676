package engine

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/tvxlabs/mediabridge/media"
	"gopkg.in/yaml.v3"
)

// profileFile is the YAML shape of user supplied profiles:
//
//	profiles:
//	  - name: mpv-quiet
//	    base: mpv
//	    events:
//	      ended: [eof, idle]
//	    ready_timeout: 45s
type profileFile struct {
	Profiles []profileSpec `yaml:"profiles"`
}

type profileSpec struct {
	Name             string  `yaml:"name"`
	Base             string  `yaml:"base"`
	Label            string  `yaml:"label"`
	Events           *Events `yaml:"events"`
	Load             string  `yaml:"load"`
	CanStop          *bool   `yaml:"can_stop"`
	ArmOnInit        *bool   `yaml:"arm_on_init"`
	ReadyTimeout     string  `yaml:"ready_timeout"`
	StallDetection   *bool   `yaml:"stall_detection"`
	AcceleratedStart *bool   `yaml:"accelerated_start"`
	SeekDelay        string  `yaml:"seek_delay"`
	Errors           *struct {
		Categories map[string]int `yaml:"categories"`
		Codes      map[string]int `yaml:"codes"`
	} `yaml:"errors"`
}

// LoadProfiles reads user profiles. Each profile derives from a built-in one (its base)
// and overrides the fields it sets; the base decides which engine binding drives it.
func LoadProfiles(r io.Reader) ([]Profile, error) {
	var file profileFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode profiles: %w", err)
	}

	profiles := make([]Profile, 0, len(file.Profiles))
	seen := make(map[string]bool)

	for i, spec := range file.Profiles {
		p, err := spec.build()
		if err != nil {
			return nil, fmt.Errorf("profile #%d: %w", i+1, err)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("profile %s: defined twice", p.Name)
		}
		seen[p.Name] = true
		profiles = append(profiles, p)
	}

	return profiles, nil
}

func (s profileSpec) build() (Profile, error) {
	name := strings.ToLower(strings.TrimSpace(s.Name))
	if name == "" {
		return Profile{}, fmt.Errorf("name is required")
	}
	if _, ok := Builtin(name); ok {
		return Profile{}, fmt.Errorf("%s shadows a built-in profile", name)
	}

	p, ok := Builtin(s.Base)
	if !ok {
		return Profile{}, fmt.Errorf("%s: unknown base %q (available: %s)", name, s.Base,
			strings.Join(lo.Map(Builtins(), func(p Profile, _ int) string { return p.Name }), ", "))
	}

	p.Base = p.Name
	p.Name = name
	p.Label = lo.Ternary(s.Label != "", s.Label, p.Label)

	if s.Events != nil {
		p.Events = mergeEvents(p.Events, *s.Events)
	}
	if s.Load != "" {
		if err := p.Load.UnmarshalText([]byte(s.Load)); err != nil {
			return Profile{}, fmt.Errorf("%s: %w", name, err)
		}
	}

	p.CanStop = lo.FromPtrOr(s.CanStop, p.CanStop)
	p.ArmOnInit = lo.FromPtrOr(s.ArmOnInit, p.ArmOnInit)
	p.StallDetection = lo.FromPtrOr(s.StallDetection, p.StallDetection)
	p.AcceleratedStart = lo.FromPtrOr(s.AcceleratedStart, p.AcceleratedStart)

	var err error
	if p.ReadyTimeout, err = duration(s.ReadyTimeout, p.ReadyTimeout); err != nil {
		return Profile{}, fmt.Errorf("%s: ready_timeout: %w", name, err)
	}
	if p.SeekDelay, err = duration(s.SeekDelay, p.SeekDelay); err != nil {
		return Profile{}, fmt.Errorf("%s: seek_delay: %w", name, err)
	}

	if s.Errors != nil {
		p.Errors = media.NewTable(s.Errors.Categories, s.Errors.Codes)
	}

	return p, p.Validate()
}

func mergeEvents(base, override Events) Events {
	merged := base
	merged.Ready = lo.Ternary(override.Ready != "", override.Ready, base.Ready)
	merged.Playing = lo.Ternary(override.Playing != "", override.Playing, base.Playing)
	merged.Paused = lo.Ternary(override.Paused != "", override.Paused, base.Paused)
	merged.Error = lo.Ternary(override.Error != "", override.Error, base.Error)
	merged.QualityChanged = lo.Ternary(override.QualityChanged != "", override.QualityChanged, base.QualityChanged)
	if len(override.Ended) > 0 {
		merged.Ended = override.Ended
	}
	return merged
}

func duration(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	return time.ParseDuration(raw)
}
