package engine

import "sort"

// budgets maps a size tier to the number of units still purchasable this
// cycle.
type budgets map[int]int

func newBudgets(offers []GpuOffer) budgets {
	out := make(budgets)

	for _, offer := range offers {
		if offer.StockStatus == StockUnavailable {
			continue
		}

		// A later offer for the same tier replaces an earlier one.
		out[offer.SizeTier] = offer.StockStatus.Budget()
	}

	return out
}

func (b budgets) tiers() []int {
	out := make([]int, 0, len(b))
	for tier := range b {
		out = append(out, tier)
	}
	sort.Ints(out)

	return out
}

// take returns a copy of b with one unit of tier consumed.
func (b budgets) take(tier int) budgets {
	out := make(budgets, len(b))
	for k, v := range b {
		out[k] = v
	}
	out[tier]--

	return out
}

// scaleUp buys the smallest available units until capacity reaches
// targetGPUs or the market runs dry. All creates reference the first offer.
func scaleUp(offers []GpuOffer, capacity, targetGPUs int) ([]ScalingOperation, int) {
	if len(offers) == 0 {
		return nil, capacity
	}

	offerID := offers[0].OfferID
	remaining := newBudgets(offers)
	tiers := remaining.tiers()

	var operations []ScalingOperation

	for capacity < targetGPUs {
		tier, ok := smallestAvailable(tiers, remaining)
		if !ok {
			break
		}

		operations = append(operations, ScalingOperation{
			TargetID: offerID,
			Kind:     OperationCreate,
			GPUCount: tier,
		})
		remaining = remaining.take(tier)
		capacity += tier
	}

	return operations, capacity
}

func smallestAvailable(tiers []int, remaining budgets) (int, bool) {
	for _, tier := range tiers {
		if tier > 0 && remaining[tier] > 0 {
			return tier, true
		}
	}

	return 0, false
}
