package id

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsSortable(t *testing.T) {
	t.Parallel()

	g := NewGenerator()
	ids := make([]string, 100)
	for i := range ids {
		ids[i] = g.New()
	}

	assert.True(t, sort.StringsAreSorted(ids))

	seen := map[string]bool{}
	for _, s := range ids {
		assert.Len(t, s, 26)
		assert.False(t, seen[s], "duplicate id %s", s)
		seen[s] = true
	}
}

func TestTimeRoundTrip(t *testing.T) {
	t.Parallel()

	before := time.Now().Add(-time.Second)
	s := New()
	got, err := Time(s)
	require.NoError(t, err)
	assert.True(t, got.After(before))
	assert.True(t, got.Before(time.Now().Add(time.Second)))
}

func TestTimeInvalid(t *testing.T) {
	t.Parallel()

	_, err := Time("not-a-ulid")
	assert.Error(t, err)
}
