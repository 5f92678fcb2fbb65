// Package hungarian solves the square assignment problem with a
// reduce-cover-adjust Hungarian method.
//
// Given an n×n cost matrix, the solver finds a bijection between rows and
// columns whose summed cost is minimal. The caller's matrix is never modified:
// the solver works on a clone and reports pairs, so the caller prices the
// assignment against its own pristine copy.
//
// # Phases
//
// The solver is an explicit state machine driven by [Solver.Step]:
//
//	INIT ──reduce──▶ REDUCED ──extract──▶ ASSIGNED
//	                    │                    ▲
//	                    └─cover─▶ COVERED ─adjust─▶ ADJUSTED ──extract──┘
//	                                  ▲                 │
//	                                  └──────cover──────┘
//
//   - REDUCED: every row minimum, then every column minimum, is subtracted.
//     Afterwards each row and each column holds at least one exact zero.
//   - extract: pairs of the previous round that still sit on zeros are kept,
//     unique zeros in rows and columns are committed greedily until none
//     remain, then an arbitrary remaining zero is forced and propagation
//     resumes. A partial result is grown along alternating zero paths before
//     the solver gives up on the round.
//   - COVERED: lines are drawn greedily through the row or column holding the
//     most uncovered zeros until none remain. When the greedy cover uses more
//     lines than the largest zero matching, it is replaced by the König cover
//     derived from that matching, which is minimal.
//   - ADJUSTED: the smallest uncovered value is subtracted from every uncovered
//     cell and added to every cell crossed by two lines.
//
// # Cost
//
// Every round (extract, cover, adjust) costs O(n²), and each augmenting path
// found costs at most O(n²) on top. On footrule cost matrices the number of
// rounds grows about linearly with n, giving roughly O(n³) per solve.
//
// # Ties
//
// When several optimal assignments exist, which one is returned is not
// specified. The total cost is.
//
// # Numerics
//
// Entries within [Epsilon] of zero count as zero and are snapped to exactly
// zero after each reduction or adjustment.
package hungarian
