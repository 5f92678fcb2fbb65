package hungarian

import "github.com/matzehuels/footrule/pkg/matrix"

// extract commits zero cells of m greedily, starting from the pairs of seed
// that still sit on zeros:
//
//  1. every free row with exactly one eligible zero commits it;
//  2. every free column with exactly one eligible zero commits it;
//  3. 1 and 2 repeat until nothing commits;
//  4. if rows remain free, the first eligible zero is forced and 1-3 resume.
//
// A zero is eligible while neither its row nor its column is committed. Rows
// and columns are tracked by their count of eligible zeros, so a whole
// extraction costs O(n²). The result may hold fewer than n pairs.
func extract(m *matrix.Dense, seed Assignment) Assignment {
	n := m.Rows()
	rowTaken := make([]bool, n)
	colTaken := make([]bool, n)
	a := make(Assignment, 0, n)

	for _, p := range seed {
		if rowTaken[p.Row] || colTaken[p.Col] || !isZero(m.Row(p.Row)[p.Col]) {
			continue
		}
		a = append(a, p)
		rowTaken[p.Row] = true
		colTaken[p.Col] = true
	}

	rowFree := make([]int, n)
	colFree := make([]int, n)
	for i := 0; i < n; i++ {
		if rowTaken[i] {
			continue
		}
		for j, v := range m.Row(i) {
			if !colTaken[j] && isZero(v) {
				rowFree[i]++
				colFree[j]++
			}
		}
	}

	var rowQueue, colQueue []int
	for i := 0; i < n; i++ {
		if !rowTaken[i] && rowFree[i] == 1 {
			rowQueue = append(rowQueue, i)
		}
		if !colTaken[i] && colFree[i] == 1 {
			colQueue = append(colQueue, i)
		}
	}

	commit := func(i, j int) {
		for jj, v := range m.Row(i) {
			if jj == j || colTaken[jj] || !isZero(v) {
				continue
			}
			if colFree[jj]--; colFree[jj] == 1 {
				colQueue = append(colQueue, jj)
			}
		}
		for ii := 0; ii < n; ii++ {
			if ii == i || rowTaken[ii] || !isZero(m.Row(ii)[j]) {
				continue
			}
			if rowFree[ii]--; rowFree[ii] == 1 {
				rowQueue = append(rowQueue, ii)
			}
		}
		a = append(a, Pair{Row: i, Col: j})
		rowTaken[i] = true
		colTaken[j] = true
	}

	eligibleInRow := func(i int) int {
		for j, v := range m.Row(i) {
			if !colTaken[j] && isZero(v) {
				return j
			}
		}
		return -1
	}

	eligibleInCol := func(j int) int {
		for i := 0; i < n; i++ {
			if !rowTaken[i] && isZero(m.Row(i)[j]) {
				return i
			}
		}
		return -1
	}

	// Counts only decrease, so a row skipped by the forcing scan never
	// becomes eligible again.
	next := 0
	for len(a) < n {
		for len(rowQueue) > 0 || len(colQueue) > 0 {
			if len(rowQueue) > 0 {
				i := rowQueue[0]
				rowQueue = rowQueue[1:]
				if rowTaken[i] || rowFree[i] != 1 {
					continue
				}
				commit(i, eligibleInRow(i))
				continue
			}
			j := colQueue[0]
			colQueue = colQueue[1:]
			if colTaken[j] || colFree[j] != 1 {
				continue
			}
			commit(eligibleInCol(j), j)
		}
		if len(a) == n {
			break
		}

		for next < n && (rowTaken[next] || rowFree[next] == 0) {
			next++
		}
		if next == n {
			break
		}
		commit(next, eligibleInRow(next))
	}
	return a
}

// augment grows a partial zero matching to a maximum one by searching
// alternating zero paths from every free row. Columns visited by a failed
// search stay marked until a search succeeds, since no free row can reach a
// free column through them while the matching is unchanged. Pairs come back
// ordered by row.
func augment(m *matrix.Dense, a Assignment) Assignment {
	n := m.Rows()
	colOf := make([]int, n)
	rowOf := make([]int, n)
	for i := range colOf {
		colOf[i], rowOf[i] = -1, -1
	}
	for _, p := range a {
		colOf[p.Row] = p.Col
		rowOf[p.Col] = p.Row
	}

	visited := make([]bool, n)
	var try func(i int) bool
	try = func(i int) bool {
		for j, v := range m.Row(i) {
			if visited[j] || !isZero(v) {
				continue
			}
			visited[j] = true
			if rowOf[j] < 0 || try(rowOf[j]) {
				rowOf[j] = i
				colOf[i] = j
				return true
			}
		}
		return false
	}

	for i := 0; i < n; i++ {
		if colOf[i] >= 0 {
			continue
		}
		if try(i) {
			clear(visited)
		}
	}

	out := make(Assignment, 0, n)
	for i, j := range colOf {
		if j >= 0 {
			out = append(out, Pair{Row: i, Col: j})
		}
	}
	return out
}
