package record

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPredicates(t *testing.T) {
	t.Parallel()

	require.True(t, Record{}.IsEmpty())
	require.True(t, Record{Base: "BTC"}.IsEmpty())
	require.True(t, Record{DisplayName: "Bitcoin"}.IsEmpty())
	require.False(t, Record{Base: "BTC", DisplayName: "Bitcoin"}.IsEmpty())

	require.True(t, Record{}.IsActive())
	require.False(t, Record{Completed: true}.IsActive())
}

func TestNewGeneratesID(t *testing.T) {
	t.Parallel()

	a := New("BTC", "Bitcoin")
	b := New("BTC", "Bitcoin")
	require.NotEmpty(t, a.ID)
	require.NotEqual(t, a.ID, b.ID)
	require.False(t, a.Completed)
}

func TestEnsureID(t *testing.T) {
	t.Parallel()

	kept := EnsureID(Record{ID: "abc"}, func() string { return "new" })
	require.Equal(t, "abc", kept.ID)

	assigned := EnsureID(Record{}, func() string { return "new" })
	require.Equal(t, "new", assigned.ID)

	require.NotEmpty(t, EnsureID(Record{}, nil).ID)
}

func TestStableIDIgnoresCase(t *testing.T) {
	t.Parallel()

	require.Equal(t, StableID("btc", "usd"), StableID("BTC", "USD"))
	require.NotEqual(t, StableID("BTC", "USD"), StableID("BTC", "EUR"))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, Record{Base: "BTC"}.Validate(), ErrEmptyRecord)
	require.NoError(t, Record{Base: "BTC", DisplayName: "Bitcoin"}.Validate())
	require.NoError(t, Record{Base: "BTC", DisplayName: "Bitcoin", BuyPrice: "100.5", SellPrice: "101"}.Validate())

	err := Record{Base: "BTC", DisplayName: "Bitcoin", SellPrice: "abc"}.Validate()
	require.True(t, errors.Is(err, ErrInvalidPrice))
	require.Contains(t, err.Error(), "sell")
}

func TestSpread(t *testing.T) {
	t.Parallel()

	s, err := Record{BuyPrice: "64210.10", SellPrice: "64890.35"}.Spread()
	require.NoError(t, err)
	require.Equal(t, "680.25", s.String())

	_, err = Record{BuyPrice: "", SellPrice: "1"}.Spread()
	require.ErrorIs(t, err, ErrInvalidPrice)
}

func TestSorted(t *testing.T) {
	t.Parallel()

	in := []Record{{ID: "c"}, {ID: "a"}, {ID: "b"}}
	out := Sorted(in)
	require.Equal(t, []string{"a", "b", "c"}, ids(out))
	require.Equal(t, "c", in[0].ID, "input must not be reordered")
}

func TestPair(t *testing.T) {
	t.Parallel()

	require.Equal(t, "BTC/USD", Record{Base: "BTC", Counter: "USD"}.Pair())
	require.Equal(t, "BTC", Record{Base: "BTC"}.Pair())
}

func ids(list []Record) []string {
	out := make([]string, len(list))
	for i, r := range list {
		out[i] = r.ID
	}
	return out
}
