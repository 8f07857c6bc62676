// Package recent remembers played sources and recalls them by fuzzy query.
package recent

import (
	"strings"
	"sync"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/tvxlabs/mediabridge/filesystem"
	"github.com/tvxlabs/mediabridge/key"
	"github.com/tvxlabs/mediabridge/where"
	"golang.org/x/exp/slices"
)

// Entry is a remembered source.
type Entry struct {
	Source   string    `json:"source"`
	Engine   string    `json:"engine"`
	Plays    int       `json:"plays"`
	LastPlay time.Time `json:"last_play"`
}

var (
	cacher     *gache.Cache[map[string]*Entry]
	cacherOnce sync.Once
)

func cache() *gache.Cache[map[string]*Entry] {
	cacherOnce.Do(func() {
		cacher = gache.New[map[string]*Entry](&gache.Options{
			Path:       where.Recent(),
			FileSystem: &filesystem.GacheFs{},
		})
	})
	return cacher
}

func load() map[string]*Entry {
	cached, expired, err := cache().Get()
	if expired || err != nil || cached == nil {
		return make(map[string]*Entry)
	}
	return cached
}

// Remember records a play of source with engine. Nothing is stored when recent.remember
// is disabled.
func Remember(source, engine string, at time.Time) error {
	if !viper.GetBool(key.RecentRemember) {
		return nil
	}

	source = strings.TrimSpace(source)
	if source == "" {
		return nil
	}

	entries := load()
	entry, ok := entries[source]
	if !ok {
		entry = &Entry{Source: source}
		entries[source] = entry
	}
	entry.Engine = engine
	entry.Plays++
	entry.LastPlay = at

	return cache().Set(entries)
}

// List returns every remembered source, most played first, ties broken by recency.
func List() []Entry {
	entries := lo.Map(lo.Values(load()), func(e *Entry, _ int) Entry { return *e })
	slices.SortFunc(entries, func(a, b Entry) int {
		if a.Plays != b.Plays {
			return b.Plays - a.Plays
		}
		return b.LastPlay.Compare(a.LastPlay)
	})
	return entries
}

// Recall returns the best remembered entry whose source fuzzily matches query.
func Recall(query string) mo.Option[Entry] {
	query = strings.ToLower(strings.TrimSpace(query))

	matches := lo.Filter(List(), func(e Entry, _ int) bool {
		return query == "" || fuzzy.MatchNormalizedFold(query, e.Source)
	})
	if len(matches) == 0 {
		return mo.None[Entry]()
	}
	return mo.Some(matches[0])
}

// Forget removes source. It reports whether the source was remembered.
func Forget(source string) (bool, error) {
	entries := load()
	if _, ok := entries[source]; !ok {
		return false, nil
	}
	delete(entries, source)
	return true, cache().Set(entries)
}
