package filesystem

import (
	"os"
	"time"
)

// Prune removes the files under dir last modified before the ttl elapsed and returns
// how many were removed. Unreadable entries are skipped.
func Prune(dir string, ttl time.Duration, now time.Time) int {
	fs := API()
	removed := 0

	_ = fs.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if now.Sub(info.ModTime()) > ttl && fs.Remove(path) == nil {
			removed++
		}
		return nil
	})

	return removed
}
