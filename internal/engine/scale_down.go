package engine

import "sort"

// scaleDown removes the fewest, largest workers it can without taking the
// fleet below targetGPUs. Workers without a GPU count are never removed here.
func scaleDown(workers []Worker, capacity, targetGPUs int) ([]ScalingOperation, int) {
	byTier := make(map[int][]Worker)

	for _, worker := range workers {
		if size := worker.Capacity(); size > 0 {
			byTier[size] = append(byTier[size], worker)
		}
	}

	tiers := make([]int, 0, len(byTier))
	for tier := range byTier {
		tiers = append(tiers, tier)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(tiers)))

	var operations []ScalingOperation

	for capacity > targetGPUs {
		removed := false

		for _, tier := range tiers {
			candidates := byTier[tier]
			if len(candidates) == 0 || capacity-tier < targetGPUs {
				continue
			}

			worker := candidates[len(candidates)-1]
			byTier[tier] = candidates[:len(candidates)-1]

			operations = append(operations, ScalingOperation{
				TargetID: worker.ID,
				Kind:     OperationDestroy,
			})
			capacity -= tier
			removed = true

			break
		}

		if !removed {
			break
		}
	}

	return operations, capacity
}
