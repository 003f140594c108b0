package record

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Record is a single price entry tracked across the cache, local and remote tiers.
type Record struct {
	ID          string `json:"id,omitempty"`
	Base        string `json:"base"`
	Counter     string `json:"counter"`
	BuyPrice    string `json:"buy_price"`
	SellPrice   string `json:"sell_price"`
	Icon        string `json:"icon"`
	DisplayName string `json:"name"`
	Completed   bool   `json:"completed"`
}

// New builds a record with a freshly generated id.
func New(base, displayName string) Record {
	return Record{ID: uuid.NewString(), Base: base, DisplayName: displayName}
}

// IsEmpty reports whether the record lacks the fields required to persist it.
func (r Record) IsEmpty() bool {
	return r.Base == "" || r.DisplayName == ""
}

// IsActive is the inverse of Completed.
func (r Record) IsActive() bool {
	return !r.Completed
}

// Pair returns the "BASE/COUNTER" label.
func (r Record) Pair() string {
	if r.Counter == "" {
		return r.Base
	}
	return r.Base + "/" + r.Counter
}

// Validate checks the caller-facing rules applied before a write.
func (r Record) Validate() error {
	if r.IsEmpty() {
		return ErrEmptyRecord
	}
	for _, p := range []struct{ name, v string }{{"buy", r.BuyPrice}, {"sell", r.SellPrice}} {
		if p.v == "" {
			continue
		}
		if _, err := decimal.NewFromString(p.v); err != nil {
			return fmt.Errorf("%w: %s price %q", ErrInvalidPrice, p.name, p.v)
		}
	}
	return nil
}

// Spread returns sell minus buy. Both prices must be present.
func (r Record) Spread() (decimal.Decimal, error) {
	buy, err := decimal.NewFromString(r.BuyPrice)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: buy price %q", ErrInvalidPrice, r.BuyPrice)
	}
	sell, err := decimal.NewFromString(r.SellPrice)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: sell price %q", ErrInvalidPrice, r.SellPrice)
	}
	return sell.Sub(buy), nil
}

// EnsureID returns r with a new id when it has none.
func EnsureID(r Record, gen func() string) Record {
	if r.ID != "" {
		return r
	}
	if gen == nil {
		gen = uuid.NewString
	}
	r.ID = gen()
	return r
}

// StableID derives a deterministic id for a pair so repeated remote refreshes
// of rows that carry no id overwrite instead of duplicating.
func StableID(base, counter string) string {
	key := "record:" + strings.ToUpper(base) + "/" + strings.ToUpper(counter)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}

// SortByID sorts in place.
func SortByID(list []Record) {
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
}

// Sorted returns a copy of list ordered by id.
func Sorted(list []Record) []Record {
	out := make([]Record, len(list))
	copy(out, list)
	SortByID(out)
	return out
}
