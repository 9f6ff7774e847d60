package face

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexMatchReturnsEveryEntryWithinTolerance(t *testing.T) {
	x := NewIndex()
	x.Replace([]Entry{
		{StudentNumber: "S2", Encoding: enc(0.1)},
		{StudentNumber: "S1", Encoding: enc(0.0)},
		{StudentNumber: "S3", Encoding: enc(2.0)},
	})

	got := x.Match([]Encoding{enc(0.05)}, 0.5)
	assert.Equal(t, []string{"S1", "S2"}, got)
}

func TestIndexMatchBoundaryIsInclusive(t *testing.T) {
	x := NewIndex()
	x.Replace([]Entry{{StudentNumber: "S1", Encoding: enc(0.5)}})

	assert.Equal(t, []string{"S1"}, x.Match([]Encoding{enc(0)}, 0.5))
	assert.Empty(t, x.Match([]Encoding{enc(0)}, 0.49))
}

func TestIndexMatchDeduplicatesAcrossQueries(t *testing.T) {
	x := NewIndex()
	x.Replace([]Entry{{StudentNumber: "S1", Encoding: enc(0)}})

	got := x.Match([]Encoding{enc(0.1), enc(-0.1)}, 0.5)
	assert.Equal(t, []string{"S1"}, got)
}

func TestIndexEmpty(t *testing.T) {
	x := NewIndex()
	assert.Zero(t, x.Len())
	assert.True(t, x.LoadedAt().IsZero())
	assert.Empty(t, x.Match([]Encoding{enc(0)}, 1))

	_, ok := x.Nearest(enc(0), 1)
	assert.False(t, ok)
}

func TestIndexNearest(t *testing.T) {
	x := NewIndex()
	x.Replace([]Entry{
		{StudentNumber: "S1", Encoding: enc(0.3)},
		{StudentNumber: "S2", Encoding: enc(0.1)},
	})

	m, ok := x.Nearest(enc(0), 0.6)
	assert.True(t, ok)
	assert.Equal(t, "S2", m.StudentNumber)
	assert.InDelta(t, 0.1, m.Distance, 1e-6)

	m, ok = x.Nearest(enc(0), 0.6, "S2")
	assert.True(t, ok)
	assert.Equal(t, "S1", m.StudentNumber)

	_, ok = x.Nearest(enc(5), 0.6)
	assert.False(t, ok)
}

func TestIndexReplaceCopiesInput(t *testing.T) {
	entries := []Entry{{StudentNumber: "S1", Encoding: enc(0)}}
	x := NewIndex()
	x.Replace(entries)
	entries[0].StudentNumber = "changed"

	assert.Equal(t, []string{"S1"}, x.Match([]Encoding{enc(0)}, 0.1))
	assert.False(t, x.LoadedAt().IsZero())
}

func TestIndexConcurrentReplaceAndMatch(t *testing.T) {
	x := NewIndex()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			x.Replace([]Entry{{StudentNumber: "S1", Encoding: enc(0)}})
		}()
		go func() {
			defer wg.Done()
			x.Match([]Encoding{enc(0)}, 0.5)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, x.Len())
}
