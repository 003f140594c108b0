package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/jaskwallet/internal/record"
)

func TestStoreBasics(t *testing.T) {
	t.Parallel()

	s := New()
	require.False(t, s.Populated())
	require.Zero(t, s.Len())

	s.Put(record.Record{ID: "a", Base: "BTC"})
	s.Put(record.Record{ID: "b", Base: "ETH"})
	got, ok := s.Get("a")
	require.True(t, ok)
	require.Equal(t, "BTC", got.Base)
	require.False(t, s.Populated(), "single puts do not populate")

	s.Put(record.Record{ID: "a", Base: "XRP"})
	got, _ = s.Get("a")
	require.Equal(t, "XRP", got.Base)
	require.Equal(t, 2, s.Len())

	s.Remove("a")
	_, ok = s.Get("a")
	require.False(t, ok)

	s.Clear()
	require.Zero(t, s.Len())
}

func TestStoreReplacePopulates(t *testing.T) {
	t.Parallel()

	s := New()
	s.Put(record.Record{ID: "stale"})
	s.Replace([]record.Record{{ID: "x"}, {ID: "y"}})
	require.True(t, s.Populated())
	require.ElementsMatch(t, []string{"x", "y"}, idsOf(s.All()))

	s.Clear()
	require.True(t, s.Populated(), "clear keeps the populated flag")

	s.Replace(nil)
	require.True(t, s.Populated())
	require.Empty(t, s.All())
}

func TestStoreRemoveWhere(t *testing.T) {
	t.Parallel()

	s := New()
	s.Put(record.Record{ID: "1", Completed: true})
	s.Put(record.Record{ID: "2"})
	s.Put(record.Record{ID: "3", Completed: true})

	n := s.RemoveWhere(func(r record.Record) bool { return r.Completed })
	require.Equal(t, 2, n)
	require.Equal(t, []string{"2"}, idsOf(s.All()))
}

func TestStoreUpdate(t *testing.T) {
	t.Parallel()

	s := New()
	_, ok := s.Update("missing", func(r *record.Record) { r.Completed = true })
	require.False(t, ok)

	s.Put(record.Record{ID: "1"})
	r, ok := s.Update("1", func(r *record.Record) { r.Completed = true })
	require.True(t, ok)
	require.True(t, r.Completed)
	stored, _ := s.Get("1")
	require.True(t, stored.Completed)
}

func TestStoreConcurrentAccess(t *testing.T) {
	t.Parallel()

	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				id := fmt.Sprintf("%d-%d", n, j%10)
				s.Put(record.Record{ID: id, Base: "BTC", DisplayName: "Bitcoin"})
				if r, ok := s.Get(id); ok {
					assert.Equal(t, "Bitcoin", r.DisplayName)
				}
				_ = s.All()
				if j%7 == 0 {
					s.Remove(id)
				}
			}
		}(i)
	}
	wg.Wait()
	require.LessOrEqual(t, s.Len(), 80)
}

func idsOf(list []record.Record) []string {
	out := make([]string, 0, len(list))
	for _, r := range list {
		out = append(out, r.ID)
	}
	return out
}
