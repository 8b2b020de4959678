// Glob pattern matching for KEYS, backed by github.com/gobwas/glob since
// no hand-rolled matcher belongs in a server that otherwise leans on the
// ecosystem for every other concern.
package redkit

import "github.com/gobwas/glob"

// matchGlob reports whether key matches the given Redis-style glob
// pattern (*, ?, [...]). An invalid pattern matches nothing rather than
// erroring, mirroring KEYS' tolerant behavior for odd patterns.
func matchGlob(pattern, key string) bool {
	g, err := glob.Compile(pattern)
	if err != nil {
		return false
	}
	return g.Match(key)
}
