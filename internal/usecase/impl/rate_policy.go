package impl

import (
	"sort"
	"strings"

	"storefront/internal/domain/entity"
)

// preferredCarrier biases the cheapest-rate pick toward USPS, which is
// consistently the best ground option for small parcels.
const preferredCarrier = "USPS"

// expeditedMaxDays bounds what counts as an expedited delivery estimate.
const expeditedMaxDays = 2

// selectCheapestRate returns the lowest-amount rate within the preferred
// carrier pool, falling back to all rates when the preferred carrier offered
// none. Ties keep the first rate seen; unparsable amounts never win.
func selectCheapestRate(rates []entity.RateQuote) *entity.RateQuote {
	pool := preferredPool(rates)
	if len(pool) == 0 {
		pool = rates
	}

	var (
		best    *entity.RateQuote
		bestAmt float64
	)

	for i := range pool {
		amt, ok := pool[i].AmountValue()
		if !ok {
			continue
		}

		if best == nil || amt < bestAmt {
			best = &pool[i]
			bestAmt = amt
		}
	}

	return best
}

// selectExpeditedRate returns the cheapest rate promising delivery within
// expeditedMaxDays across all carriers. When no rate qualifies it falls back
// to the second-cheapest rate overall, and to nil when there are fewer than
// two rates to choose from.
func selectExpeditedRate(rates []entity.RateQuote) *entity.RateQuote {
	var (
		fast    *entity.RateQuote
		fastAmt float64
	)

	for i := range rates {
		if rates[i].EstimatedDays <= 0 || rates[i].EstimatedDays > expeditedMaxDays {
			continue
		}

		amt, ok := rates[i].AmountValue()
		if !ok {
			continue
		}

		if fast == nil || amt < fastAmt {
			fast = &rates[i]
			fastAmt = amt
		}
	}

	if fast != nil {
		return fast
	}

	if len(rates) < 2 {
		return nil
	}

	sorted := make([]entity.RateQuote, len(rates))
	copy(sorted, rates)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, aok := sorted[i].AmountValue()
		b, bok := sorted[j].AmountValue()
		if aok != bok {
			return aok
		}

		return a < b
	})

	return &sorted[1]
}

func preferredPool(rates []entity.RateQuote) []entity.RateQuote {
	pool := make([]entity.RateQuote, 0, len(rates))
	for _, r := range rates {
		if strings.Contains(strings.ToUpper(r.Carrier), preferredCarrier) {
			pool = append(pool, r)
		}
	}

	return pool
}
