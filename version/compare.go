package version

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// release is a parsed tag such as v1.4.0 or 1.5.0-rc.2.
type release struct {
	parts [3]int
	pre   string
}

func parseRelease(s string) (release, error) {
	var r release

	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	s, _, _ = strings.Cut(s, "+")
	s, r.pre, _ = strings.Cut(s, "-")

	fields := strings.Split(s, ".")
	if len(fields) == 0 || len(fields) > 3 {
		return r, fmt.Errorf("malformed version %q", s)
	}

	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return r, fmt.Errorf("malformed version %q", s)
		}
		r.parts[i] = n
	}

	return r, nil
}

// Compare orders two release tags. It returns 1 if a is newer, -1 if b is newer and 0
// if they are the same release. Missing minor or patch numbers count as zero and a
// pre-release sorts before its final release.
func Compare(a, b string) (int, error) {
	ra, err := parseRelease(a)
	if err != nil {
		return 0, err
	}

	rb, err := parseRelease(b)
	if err != nil {
		return 0, err
	}

	for _, pair := range lo.Zip2(ra.parts[:], rb.parts[:]) {
		switch {
		case pair.A > pair.B:
			return 1, nil
		case pair.A < pair.B:
			return -1, nil
		}
	}

	switch {
	case ra.pre == rb.pre:
		return 0, nil
	case ra.pre == "":
		return 1, nil
	case rb.pre == "":
		return -1, nil
	case ra.pre > rb.pre:
		return 1, nil
	default:
		return -1, nil
	}
}

// Newer reports whether latest is a stable release ahead of current. Unparseable
// versions, such as development builds, never count as outdated.
func Newer(latest, current string) bool {
	r, err := parseRelease(latest)
	if err != nil || r.pre != "" {
		return false
	}

	n, err := Compare(latest, current)
	return err == nil && n > 0
}
