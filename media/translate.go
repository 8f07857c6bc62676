package media

import (
	"errors"
	"math"
	"sort"
	"strconv"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Table holds an engine's error enumerations (name → numeric value) together with the
// reverse indexes used for translation.
type Table struct {
	categories map[string]int
	codes      map[string]int

	categoryNames map[int]string
	codeNames     map[int]string
}

// NewTable builds a translation table. When several names share a value the
// lexicographically smallest one wins, so lookups are deterministic.
func NewTable(categories, codes map[string]int) *Table {
	return &Table{
		categories:    lo.Assign(categories),
		codes:         lo.Assign(codes),
		categoryNames: reverse(categories),
		codeNames:     reverse(codes),
	}
}

func reverse(m map[string]int) map[int]string {
	names := lo.Keys(m)
	sort.Strings(names)

	out := make(map[int]string, len(m))
	for _, name := range names {
		if _, taken := out[m[name]]; !taken {
			out[m[name]] = name
		}
	}
	return out
}

// Categories returns the category names sorted by value.
func (t *Table) Categories() []string {
	if t == nil {
		return nil
	}
	return sortedByValue(t.categories)
}

// Codes returns the code names sorted by value.
func (t *Table) Codes() []string {
	if t == nil {
		return nil
	}
	return sortedByValue(t.codes)
}

// CategoryValue returns the numeric value of a category name.
func (t *Table) CategoryValue(name string) (int, bool) {
	if t == nil {
		return 0, false
	}
	v, ok := t.categories[name]
	return v, ok
}

// CodeValue returns the numeric value of a code name.
func (t *Table) CodeValue(name string) (int, bool) {
	if t == nil {
		return 0, false
	}
	v, ok := t.codes[name]
	return v, ok
}

func sortedByValue(m map[string]int) []string {
	names := lo.Keys(m)
	sort.Slice(names, func(i, j int) bool {
		if m[names[i]] == m[names[j]] {
			return names[i] < names[j]
		}
		return m[names[i]] < m[names[j]]
	})
	return names
}

// Search returns the code names fuzzily matching the query, best match first.
func (t *Table) Search(query string) []string {
	if t == nil {
		return nil
	}
	ranks := fuzzy.RankFindNormalizedFold(query, lo.Keys(t.codes))
	sort.Sort(ranks)
	return lo.Map(ranks, func(r fuzzy.Rank, _ int) string {
		return r.Target
	})
}

// Translate maps a native error payload to an ErrorInfo. It accepts nil, numeric codes,
// NativeError values, JSON-shaped maps (optionally wrapped in a "detail" field) and
// arbitrary errors. It never fails: anything it cannot read degrades to the unknown
// category and name, keeping the raw code when one is present.
func (t *Table) Translate(payload any) ErrorInfo {
	var (
		category mo.Option[int]
		code     = mo.None[int]()
		message  = mo.None[string]()
	)

	switch p := payload.(type) {
	case nil:
	case NativeError:
		category, code, message = mo.Some(p.Category), mo.Some(p.Code), nonEmpty(p.Message)
	case *NativeError:
		if p != nil {
			category, code, message = mo.Some(p.Category), mo.Some(p.Code), nonEmpty(p.Message)
		}
	case map[string]any:
		category, code, message = fromMap(p)
	case error:
		var native *NativeError
		if errors.As(p, &native) {
			category, code, message = mo.Some(native.Category), mo.Some(native.Code), nonEmpty(native.Message)
		} else {
			message = nonEmpty(p.Error())
		}
	default:
		code = number(p)
	}

	info := ErrorInfo{
		Category: UnknownCategory,
		Code:     code.OrElse(UnknownCode),
		Name:     UnknownError,
		Message:  message,
	}

	if t == nil {
		return info
	}

	if c, ok := category.Get(); ok {
		if name, ok := t.categoryNames[c]; ok {
			info.Category = name
		}
	}

	if c, ok := code.Get(); ok {
		if name, ok := t.codeNames[c]; ok {
			info.Name = name
		}
	}

	return info
}

func fromMap(m map[string]any) (category, code mo.Option[int], message mo.Option[string]) {
	if detail, ok := m["detail"].(map[string]any); ok && detail != nil {
		m = detail
	}

	category = number(m["category"])
	code = number(m["code"])

	switch msg := m["message"].(type) {
	case string:
		message = nonEmpty(msg)
	case error:
		message = nonEmpty(msg.Error())
	}
	return
}

func number(v any) mo.Option[int] {
	switch n := v.(type) {
	case int:
		return mo.Some(n)
	case int8:
		return mo.Some(int(n))
	case int16:
		return mo.Some(int(n))
	case int32:
		return mo.Some(int(n))
	case int64:
		return mo.Some(int(n))
	case uint:
		return mo.Some(int(n))
	case uint8:
		return mo.Some(int(n))
	case uint16:
		return mo.Some(int(n))
	case uint32:
		return mo.Some(int(n))
	case uint64:
		return mo.Some(int(n))
	case float32:
		return wholeNumber(float64(n))
	case float64:
		return wholeNumber(n)
	case string:
		if parsed, err := strconv.Atoi(n); err == nil {
			return mo.Some(parsed)
		}
	}
	return mo.None[int]()
}

func wholeNumber(f float64) mo.Option[int] {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return mo.None[int]()
	}
	return mo.Some(int(f))
}

func nonEmpty(s string) mo.Option[string] {
	if s == "" {
		return mo.None[string]()
	}
	return mo.Some(s)
}
