// Package fixture generates illustrative market data for the chart, book,
// and tape endpoints. Output is deterministic for a given market id: the
// generator RNG is seeded with an FNV-1a hash of the id, so the same market
// always renders the same series.
package fixture

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/GurEtun/jupgate/internal/domain"
)

const (
	basePriceCents = 50.0
	minPriceCents  = 1.0
	maxPriceCents  = 99.0
)

// Seed derives the deterministic RNG seed for a market id.
func Seed(marketID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(marketID))
	return int64(h.Sum64())
}

// PriceHistory returns n price points spaced by interval, ending at the
// current time truncated to interval. Prices follow a random walk around the
// 50c base, clamped to [1,99].
func PriceHistory(marketID string, interval time.Duration, n int) []domain.PricePoint {
	rng := rand.New(rand.NewSource(Seed(marketID)))
	end := time.Now().UTC().Truncate(interval)

	points := make([]domain.PricePoint, n)
	price := basePriceCents
	for i := 0; i < n; i++ {
		price = clampPrice(price + rng.NormFloat64()*1.5)
		points[i] = domain.PricePoint{
			Time:  end.Add(-time.Duration(n-1-i) * interval),
			Price: round2(price),
		}
	}
	return points
}

// Orderbook returns a book snapshot with depth levels per side, centered on
// the final price of the market's fixture walk.
func Orderbook(marketID string, depth int) domain.Orderbook {
	rng := rand.New(rand.NewSource(Seed(marketID) + 1))

	mid := lastWalkPrice(marketID)
	book := domain.Orderbook{
		MarketID:  marketID,
		Bids:      make([]domain.BookLevel, 0, depth),
		Asks:      make([]domain.BookLevel, 0, depth),
		Timestamp: time.Now().UTC(),
	}

	for i := 0; i < depth; i++ {
		step := float64(i) + 1
		book.Bids = append(book.Bids, domain.BookLevel{
			Price: round2(clampPrice(mid - step)),
			Size:  round2(100 + rng.Float64()*900),
		})
		book.Asks = append(book.Asks, domain.BookLevel{
			Price: round2(clampPrice(mid + step)),
			Size:  round2(100 + rng.Float64()*900),
		})
	}
	return book
}

// RecentTrades returns the n most recent fixture tape entries, newest first.
func RecentTrades(marketID string, n int) []domain.Trade {
	rng := rand.New(rand.NewSource(Seed(marketID) + 2))

	now := time.Now().UTC().Truncate(time.Second)
	price := lastWalkPrice(marketID)

	trades := make([]domain.Trade, n)
	for i := 0; i < n; i++ {
		price = clampPrice(price + rng.NormFloat64()*0.5)

		outcome := domain.OutcomeYes
		if rng.Intn(2) == 1 {
			outcome = domain.OutcomeNo
		}
		side := domain.TradeSideBuy
		if rng.Intn(2) == 1 {
			side = domain.TradeSideSell
		}

		trades[i] = domain.Trade{
			ID:        fmt.Sprintf("%s-%d", marketID, n-i),
			MarketID:  marketID,
			Outcome:   outcome,
			Side:      side,
			Price:     round2(price),
			Shares:    round2(10 + rng.Float64()*490),
			Timestamp: now.Add(-time.Duration(i) * 15 * time.Second),
		}
	}
	return trades
}

// lastWalkPrice reproduces the final point of the default 64-step walk so
// the book and tape line up with the chart.
func lastWalkPrice(marketID string) float64 {
	rng := rand.New(rand.NewSource(Seed(marketID)))
	price := basePriceCents
	for i := 0; i < 64; i++ {
		price = clampPrice(price + rng.NormFloat64()*1.5)
	}
	return price
}

func clampPrice(p float64) float64 {
	if p < minPriceCents {
		return minPriceCents
	}
	if p > maxPriceCents {
		return maxPriceCents
	}
	return p
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
