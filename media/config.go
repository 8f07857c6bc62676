package media

import (
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// Config is the static configuration applied to an engine when it is initialized.
// Values are passed through to the engine unchanged; ClearKeys maps a key-id to its key,
// both opaque strings.
type Config struct {
	ClearKeys     map[string]string `json:"clear_keys,omitempty" validate:"omitempty,dive,keys,required,endkeys,required"`
	AudioLanguage string            `json:"audio_language,omitempty" validate:"omitempty,bcp47_language_tag"`
	Width         int               `json:"width,omitempty" validate:"gte=0"`
	Height        int               `json:"height,omitempty" validate:"gte=0"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validate checks the configuration before it reaches an engine.
func (c Config) Validate() error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate.Struct(c)
}

// KeyIDs returns the configured key-ids in a stable order.
func (c Config) KeyIDs() []string {
	ids := lo.Keys(c.ClearKeys)
	sort.Strings(ids)
	return ids
}

// Empty reports whether no setting would be applied.
func (c Config) Empty() bool {
	return len(c.ClearKeys) == 0 && c.AudioLanguage == "" && c.Width == 0 && c.Height == 0
}
