// Package ids generates opaque identifiers for kathas and entries.
package ids

import (
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const (
	KathaPrefix = "katha"
	EntryPrefix = "entry"
)

// Generator returns a fresh identifier carrying prefix.
type Generator func(prefix string) string

// New returns prefix_<random>, where the random part is a version 4 UUID
// without dashes.
func New(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	if prefix == "" {
		return raw
	}
	return prefix + "_" + raw
}

// Sequence returns a deterministic Generator yielding prefix_1, prefix_2, ...
func Sequence() Generator {
	var mu sync.Mutex
	n := map[string]int{}
	return func(prefix string) string {
		mu.Lock()
		defer mu.Unlock()
		n[prefix]++
		return prefix + "_" + strconv.Itoa(n[prefix])
	}
}
