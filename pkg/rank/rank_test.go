package rank

import (
	"math"
	"slices"
	"testing"
)

const eps = 1e-12

func approx(a, b float64) bool { return math.Abs(a-b) < eps }

func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		rankings []Ranking
		want     Ranking
	}{
		{"empty", nil, nil},
		{"empty rankings", []Ranking{{}, {}}, nil},
		{"single", []Ranking{{"c", "a", "b"}}, Ranking{"a", "b", "c"}},
		{"dedup across rankings", []Ranking{{"b", "a"}, {"c", "b"}}, Ranking{"a", "b", "c"}},
		{"byte order", []Ranking{{"b", "B", "a", "A"}}, Ranking{"A", "B", "a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := Merge(tt.rankings...)
			if u.Len() != len(tt.want) {
				t.Fatalf("Len() = %d, want %d", u.Len(), len(tt.want))
			}
			if !slices.Equal(u.Items(), tt.want) {
				t.Errorf("Items() = %v, want %v", u.Items(), tt.want)
			}
			for i, item := range tt.want {
				if got, ok := u.IndexOf(item); !ok || got != i {
					t.Errorf("IndexOf(%q) = %d, %v; want %d, true", item, got, ok, i)
				}
			}
		})
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	r := Ranking{"z", "y", "x"}
	u := Merge(r)
	if !slices.Equal(r, Ranking{"z", "y", "x"}) {
		t.Errorf("input mutated: %v", r)
	}
	items := u.Items()
	items[0] = "mutated"
	if u.Item(0) != "x" {
		t.Errorf("Items() should return a copy, got Item(0) = %q", u.Item(0))
	}
}

func TestUniverseEmpty(t *testing.T) {
	var u Universe
	if !u.Empty() || u.Len() != 0 {
		t.Errorf("zero Universe should be empty")
	}
	if _, ok := u.IndexOf("a"); ok {
		t.Errorf("IndexOf on empty universe should miss")
	}
}

func TestRankingPosition(t *testing.T) {
	r := Ranking{"a", "b", "c"}
	if got := r.Position("c"); got != 2 {
		t.Errorf("Position(c) = %d, want 2", got)
	}
	if got := r.Position("z"); got != -1 {
		t.Errorf("Position(z) = %d, want -1", got)
	}
	idx := r.Index()
	if idx["b"] != 1 || len(idx) != 3 {
		t.Errorf("Index() = %v", idx)
	}
}

func TestPenalty(t *testing.T) {
	tests := []struct {
		q, m, p, n int
		want       float64
	}{
		{1, 3, 1, 3, 0},
		{1, 2, 2, 2, 0.5},
		{3, 3, 1, 3, 2.0 / 3},
		{2, 4, 1, 2, 0},
	}
	for _, tt := range tests {
		if got := Penalty(tt.q, tt.m, tt.p, tt.n); !approx(got, tt.want) {
			t.Errorf("Penalty(%d,%d,%d,%d) = %v, want %v", tt.q, tt.m, tt.p, tt.n, got, tt.want)
		}
	}
}

func TestFootruleAbsentItemIsNeutral(t *testing.T) {
	rankings := []Ranking{{"a", "b"}, {"c"}}
	if got := Footrule("c", 1, 3, rankings[:1]); got != 0 {
		t.Errorf("Footrule of absent item = %v, want 0", got)
	}
	// c is last of one ranking of length 1: |1/1 - 1/3|
	if got := Footrule("c", 1, 3, rankings); !approx(got, 2.0/3) {
		t.Errorf("Footrule(c,1,3) = %v, want %v", got, 2.0/3)
	}
}

// An item present in only one of three rankings must get zero contribution
// from the other two, and the same contribution from the shared ranking as
// when it is present everywhere.
func TestDecomposePartialPresence(t *testing.T) {
	partial := []Ranking{
		{"A", "X", "B"},
		{"A", "B"},
		{"B", "A"},
	}
	full := []Ranking{
		{"A", "X", "B"},
		{"A", "X", "B"},
		{"B", "X", "A"},
	}
	n := Merge(partial...).Len()
	if n != Merge(full...).Len() {
		t.Fatalf("universes differ in size")
	}

	for p := 1; p <= n; p++ {
		got := Decompose("X", p, n, partial)
		ref := Decompose("X", p, n, full)
		if !approx(got[0], ref[0]) {
			t.Errorf("p=%d: shared ranking contribution = %v, want %v", p, got[0], ref[0])
		}
		if got[1] != 0 || got[2] != 0 {
			t.Errorf("p=%d: absent rankings contributed %v", p, got[1:])
		}
		if ref[1] == 0 && p != 2 {
			t.Errorf("p=%d: reference should be penalized by ranking 2", p)
		}
	}
}

func TestDistance(t *testing.T) {
	rankings := []Ranking{{"a", "b", "c"}}
	if got := Distance(Ranking{"a", "b", "c"}, rankings); !approx(got, 0) {
		t.Errorf("identical order distance = %v, want 0", got)
	}
	// reversed: |1/3-3/3| + |2/3-2/3| + |3/3-1/3| = 4/3
	if got := Distance(Ranking{"c", "b", "a"}, rankings); !approx(got, 4.0/3) {
		t.Errorf("reversed distance = %v, want %v", got, 4.0/3)
	}
}
