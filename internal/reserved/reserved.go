// Package reserved provides the set of Unicode-standard emoji short codes
// that Slack refuses to shadow with custom emoji. Importing an archive
// entry whose name collides with this set would fail server-side, so the
// check happens locally before any upload is attempted.
//
// The set is compiled in from shortcodes.toml and is immutable; only
// membership queries are exposed.
package reserved

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/BurntSushi/toml"
)

//go:embed shortcodes.toml
var rawShortcodes []byte

// Set is an immutable collection of emoji short codes.
type Set struct {
	names map[string]struct{}
}

// Contains reports whether name is a reserved standard short code.
func (s *Set) Contains(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Len returns the number of short codes in the set.
func (s *Set) Len() int {
	return len(s.names)
}

// NewSet builds a Set from the given short codes. Used by tests; regular
// callers want Default.
func NewSet(names ...string) *Set {
	s := &Set{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		s.names[n] = struct{}{}
	}
	return s
}

var (
	defaultSet  *Set
	defaultOnce sync.Once
)

// Default returns the process-wide reserved set, parsing the embedded
// data on first use. Subsequent calls return the same instance.
func Default() *Set {
	defaultOnce.Do(func() {
		s, err := parse(rawShortcodes)
		if err != nil {
			// The data is compiled into the binary; failing to parse it
			// is a build defect, not a runtime condition.
			panic(fmt.Sprintf("reserved: embedded shortcodes.toml is invalid: %v", err))
		}
		defaultSet = s
	})
	return defaultSet
}

func parse(data []byte) (*Set, error) {
	var doc struct {
		Shortcodes []string `toml:"shortcodes"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Shortcodes) == 0 {
		return nil, fmt.Errorf("no shortcodes found")
	}
	return NewSet(doc.Shortcodes...), nil
}
