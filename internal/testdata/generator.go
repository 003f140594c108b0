package testdata

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/jask/jaskwallet/internal/database/repository"
	"github.com/jask/jaskwallet/internal/record"
)

type coin struct {
	base, name string
	usd        int64
}

var coins = []coin{
	{"BTC", "Bitcoin", 67000},
	{"ETH", "Ethereum", 3400},
	{"XRP", "Ripple", 1},
	{"LTC", "Litecoin", 85},
	{"BCH", "Bitcoin Cash", 480},
	{"USDT", "Tether", 1},
}

var counters = map[string]decimal.Decimal{
	"USD": decimal.NewFromInt(1),
	"GBP": decimal.RequireFromString("0.79"),
	"EUR": decimal.RequireFromString("0.92"),
}

// SampleRecords returns BTC, ETH and XRP priced against USD, GBP and EUR.
// Ids are the stable pair ids, so repeated calls agree.
func SampleRecords() []record.Record {
	var out []record.Record
	for _, c := range coins[:3] {
		for _, counter := range []string{"USD", "GBP", "EUR"} {
			out = append(out, priced(c, counter, decimal.NewFromInt(c.usd)))
		}
	}
	return out
}

// RandomRecords builds n records with prices jittered around the sample
// values. The same seed yields the same records.
func RandomRecords(n int, seed int64) []record.Record {
	rng := rand.New(rand.NewSource(seed))
	names := []string{"USD", "GBP", "EUR"}
	out := make([]record.Record, 0, n)
	for i := 0; i < n; i++ {
		c := coins[rng.Intn(len(coins))]
		counter := names[rng.Intn(len(names))]
		jitter := decimal.NewFromFloat(0.9 + rng.Float64()*0.2)
		r := priced(c, counter, decimal.NewFromInt(c.usd).Mul(jitter))
		r.ID = fmt.Sprintf("rand-%04d", i)
		r.Completed = rng.Intn(5) == 0
		out = append(out, r)
	}
	return out
}

// Seed writes SampleRecords into an empty records table. It is idempotent
// and safe to run on every startup.
func Seed(ctx context.Context, repo *repository.RecordRepo) error {
	n, err := repo.Count(ctx)
	if err != nil || n > 0 {
		return err
	}
	for _, r := range SampleRecords() {
		if err := repo.Upsert(ctx, repository.RecordRow{
			ID:          r.ID,
			Base:        r.Base,
			Counter:     r.Counter,
			BuyPrice:    r.BuyPrice,
			SellPrice:   r.SellPrice,
			Icon:        r.Icon,
			DisplayName: r.DisplayName,
		}); err != nil {
			return err
		}
	}
	return nil
}

func priced(c coin, counter string, usd decimal.Decimal) record.Record {
	mid := usd.Mul(counters[counter])
	spread := mid.Mul(decimal.RequireFromString("0.005"))
	return record.Record{
		ID:          record.StableID(c.base, counter),
		Base:        c.base,
		Counter:     counter,
		BuyPrice:    mid.Sub(spread).StringFixed(2),
		SellPrice:   mid.Add(spread).StringFixed(2),
		Icon:        "https://example.invalid/icons/" + c.base + ".png",
		DisplayName: c.name,
	}
}
