package rank

import "math"

// Penalty returns the scaled footrule penalty |q/m − p/n| for an item found
// at 1-indexed position q of a ranking of length m, placed at 1-indexed
// position p of an output of n items.
func Penalty(q, m, p, n int) float64 {
	return math.Abs(float64(q)/float64(m) - float64(p)/float64(n))
}

// Decompose returns the per-ranking penalties of placing item at 1-indexed
// position p among n items. Entry k is zero when rankings[k] lacks the item.
func Decompose(item string, p, n int, rankings []Ranking) []float64 {
	parts := make([]float64, len(rankings))
	for k, r := range rankings {
		if q := r.Position(item); q >= 0 {
			parts[k] = Penalty(q+1, r.Len(), p, n)
		}
	}
	return parts
}

// Footrule returns the total scaled footrule penalty of placing item at
// 1-indexed position p among n items, summed over all rankings.
func Footrule(item string, p, n int, rankings []Ranking) float64 {
	var sum float64
	for _, v := range Decompose(item, p, n, rankings) {
		sum += v
	}
	return sum
}

// Distance returns the total scaled footrule distance between a complete
// output order and the input rankings: the sum, over every item of order, of
// its footrule at its position in order.
func Distance(order Ranking, rankings []Ranking) float64 {
	n := order.Len()
	var sum float64
	for i, item := range order {
		sum += Footrule(item, i+1, n, rankings)
	}
	return sum
}
