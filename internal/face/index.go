package face

import (
	"math"
	"sort"
	"sync"
	"time"
)

// Entry pairs a student number with its enrolled encoding.
type Entry struct {
	StudentNumber string
	Encoding      Encoding
}

// Match is the closest index entry to a query encoding.
type Match struct {
	StudentNumber string
	Distance      float64
}

// Index is the in-memory list of enrolled encodings. Lookups are linear
// scans; the list is always replaced as a whole so readers never observe a
// partially rebuilt index.
type Index struct {
	mu       sync.RWMutex
	entries  []Entry
	loadedAt time.Time
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{}
}

// Replace swaps in a new set of entries.
func (x *Index) Replace(entries []Entry) {
	cp := make([]Entry, len(entries))
	copy(cp, entries)

	x.mu.Lock()
	x.entries = cp
	x.loadedAt = time.Now()
	x.mu.Unlock()
}

// Len returns the number of enrolled encodings.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries)
}

// LoadedAt returns when the index was last replaced.
func (x *Index) LoadedAt() time.Time {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.loadedAt
}

// Match returns the sorted, de-duplicated student numbers whose encoding lies
// within tolerance of any query encoding. Every entry within tolerance counts, not only
// the nearest one.
func (x *Index) Match(queries []Encoding, tolerance float64) []string {
	x.mu.RLock()
	defer x.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, p := range queries {
		for _, e := range x.entries {
			if Distance(p, e.Encoding) <= tolerance {
				seen[e.StudentNumber] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Nearest returns the closest entry within tolerance. Entries whose student
// number is in exclude are skipped.
func (x *Index) Nearest(query Encoding, tolerance float64, exclude ...string) (Match, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	best := Match{Distance: math.MaxFloat64}
	for _, e := range x.entries {
		if contains(exclude, e.StudentNumber) {
			continue
		}
		if d := Distance(query, e.Encoding); d < best.Distance {
			best = Match{StudentNumber: e.StudentNumber, Distance: d}
		}
	}
	if best.StudentNumber == "" || best.Distance > tolerance {
		return Match{}, false
	}
	return best, true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
