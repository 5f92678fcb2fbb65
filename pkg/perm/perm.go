// Package perm enumerates permutations with Heap's algorithm.
//
// [Each] visits every permutation of [0, n) in place without allocating per
// permutation, which is what the brute-force footrule solver needs. [Generate]
// collects them into fresh slices for tests and small inputs.
package perm

import "slices"

// Seq returns the sequence [0, 1, 2, ..., n-1].
// For n <= 0, Seq returns an empty slice.
func Seq(n int) []int {
	if n < 0 {
		n = 0
	}
	result := make([]int, n)
	for i := range result {
		result[i] = i
	}
	return result
}

// Factorial returns n!. For n <= 1, Factorial returns 1.
// 21! overflows int64; callers bound n well below that.
func Factorial(n int) int {
	result := 1
	for i := 2; i <= n; i++ {
		result *= i
	}
	return result
}

// Each calls visit with every permutation of [0, 1, ..., n-1] using Heap's
// algorithm, starting with the identity. The slice passed to visit is reused
// between calls and must not be retained; clone it to keep it. Returning false
// from visit stops the enumeration.
//
// For n == 0, visit is called once with an empty slice.
func Each(n int, visit func(p []int) bool) {
	p := Seq(n)
	if !visit(p) || n < 2 {
		return
	}

	state := make([]int, n)
	for i := 0; i < n; {
		if state[i] < i {
			if i&1 == 0 {
				p[0], p[i] = p[i], p[0]
			} else {
				p[state[i]], p[i] = p[i], p[state[i]]
			}
			if !visit(p) {
				return
			}
			state[i]++
			i = 0
		} else {
			state[i] = 0
			i++
		}
	}
}

// Generate returns permutations of [0, 1, ..., n-1] in Heap's order.
//
// If limit > 0, Generate returns at most limit permutations; otherwise it
// returns all n!. Each returned slice is a separate allocation.
//
// For n >= 13 the full set has billions of entries. Always pass a limit when n
// is large.
func Generate(n, limit int) [][]int {
	capacity := limit
	if capacity <= 0 || n <= 12 {
		capacity = Factorial(min(n, 12))
		if limit > 0 {
			capacity = min(capacity, limit)
		}
	}
	result := make([][]int, 0, capacity)
	Each(n, func(p []int) bool {
		result = append(result, slices.Clone(p))
		return limit <= 0 || len(result) < limit
	})
	return result
}
