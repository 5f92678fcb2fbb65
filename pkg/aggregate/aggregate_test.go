package aggregate

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/footrule/pkg/errors"
	"github.com/matzehuels/footrule/pkg/hungarian"
	"github.com/matzehuels/footrule/pkg/matrix"
	"github.com/matzehuels/footrule/pkg/rank"
)

const tolerance = 1e-9

func TestAggregateSymmetricRankings(t *testing.T) {
	rankings := []rank.Ranking{{"A", "B", "C"}, {"C", "B", "A"}}

	for _, method := range Methods {
		t.Run(string(method), func(t *testing.T) {
			res, err := Aggregate(context.Background(), rankings, Options{Method: method})
			if err != nil {
				t.Fatal(err)
			}
			if res.Len() != 3 || res.Ranking[1] != "B" {
				t.Errorf("ranking = %v, want B in the middle", res.Ranking)
			}
			// A and C cost 2/3 anywhere; B costs 0 in the middle.
			if math.Abs(res.Distance-4.0/3.0) > tolerance {
				t.Errorf("distance = %v, want 4/3", res.Distance)
			}
		})
	}
}

func TestAggregateSingleRankingIsFixedPoint(t *testing.T) {
	tests := []rank.Ranking{
		{"A", "B", "C"},
		{"C", "A", "B"},
		{"x", "y", "z", "w", "v"},
	}
	for _, r := range tests {
		t.Run(fmt.Sprint(r), func(t *testing.T) {
			res, err := Aggregate(context.Background(), []rank.Ranking{r}, Options{})
			if err != nil {
				t.Fatal(err)
			}
			if !slices.Equal(res.Ranking, r) {
				t.Errorf("ranking = %v, want %v", res.Ranking, r)
			}
			if res.Distance > tolerance {
				t.Errorf("distance = %v, want 0", res.Distance)
			}
		})
	}
}

func TestAggregateSingleItem(t *testing.T) {
	res, err := Aggregate(context.Background(), []rank.Ranking{{"only"}, {"only"}}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(res.Ranking, rank.Ranking{"only"}) || res.Distance != 0 {
		t.Errorf("got %v (%v), want [only] (0)", res.Ranking, res.Distance)
	}
}

func TestAggregateEmptyUniverse(t *testing.T) {
	tests := map[string][]rank.Ranking{
		"no rankings":    nil,
		"empty rankings": {{}, {}},
	}
	for name, rankings := range tests {
		t.Run(name, func(t *testing.T) {
			res, err := Aggregate(context.Background(), rankings, Options{})
			if err != nil {
				t.Fatal(err)
			}
			if res.Len() != 0 || res.Distance != 0 || res.Ranking == nil {
				t.Errorf("got %#v, want empty non-nil ranking with distance 0", res)
			}
		})
	}
}

func TestAggregatePartialRankings(t *testing.T) {
	rankings := []rank.Ranking{
		{"a", "b", "c", "d"},
		{"b", "a"},
		{"d", "e"},
	}
	res, err := Aggregate(context.Background(), rankings, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Len() != 5 {
		t.Fatalf("ranking = %v, want all 5 items", res.Ranking)
	}
	sorted := slices.Sorted(slices.Values(res.Ranking))
	if !slices.Equal(sorted, rank.Ranking{"a", "b", "c", "d", "e"}) {
		t.Errorf("ranking %v is not a permutation of the universe", res.Ranking)
	}
	if got := rank.Distance(res.Ranking, rankings); math.Abs(got-res.Distance) > tolerance {
		t.Errorf("reported distance %v, recomputed %v", res.Distance, got)
	}
}

func TestHungarianMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(21, 42))
	pool := []string{"a", "b", "c", "d", "e", "f", "g"}

	for trial := 0; trial < 150; trial++ {
		k := 1 + rng.IntN(4)
		rankings := make([]rank.Ranking, k)
		for i := range rankings {
			items := slices.Clone(pool)
			rng.Shuffle(len(items), func(a, b int) { items[a], items[b] = items[b], items[a] })
			rankings[i] = items[:1+rng.IntN(len(items))]
		}

		hung, err := Aggregate(context.Background(), rankings, Options{Method: MethodHungarian})
		if err != nil {
			t.Fatalf("trial %d: hungarian: %v", trial, err)
		}
		brute, err := Aggregate(context.Background(), rankings, Options{Method: MethodBruteForce})
		if err != nil {
			t.Fatalf("trial %d: brute: %v", trial, err)
		}
		if math.Abs(hung.Distance-brute.Distance) > 1e-7 {
			t.Fatalf("trial %d: hungarian %v, brute force %v for %v", trial, hung.Distance, brute.Distance, rankings)
		}
	}
}

func TestAggregateIsStableInDistance(t *testing.T) {
	rankings := []rank.Ranking{
		{"a", "b", "c", "d", "e", "f"},
		{"f", "e", "d", "c", "b", "a"},
		{"c", "a", "f"},
	}
	first, err := Aggregate(context.Background(), rankings, Options{})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		res, err := Aggregate(context.Background(), rankings, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if res.Distance != first.Distance {
			t.Errorf("run %d: distance %v, first %v", i, res.Distance, first.Distance)
		}
	}
}

func TestAggregateErrors(t *testing.T) {
	big := make(rank.Ranking, MaxBruteForce+1)
	for i := range big {
		big[i] = fmt.Sprintf("item%02d", i)
	}

	tests := []struct {
		name     string
		rankings []rank.Ranking
		opts     Options
		code     errors.Code
	}{
		{"duplicate item", []rank.Ranking{{"a", "b", "a"}}, Options{}, errors.ErrCodeInvalidRanking},
		{"empty item", []rank.Ranking{{"a", ""}}, Options{}, errors.ErrCodeInvalidRanking},
		{"unknown method", []rank.Ranking{{"a"}}, Options{Method: "simplex"}, errors.ErrCodeInvalidMethod},
		{"brute force too large", []rank.Ranking{big}, Options{Method: MethodBruteForce}, errors.ErrCodeTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Aggregate(context.Background(), tt.rankings, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestAggregateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Aggregate(ctx, []rank.Ranking{{"a", "b"}}, Options{}); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestAggregateCanceledMidSolve(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rankings := []rank.Ranking{{"a", "b", "c", "d"}, {"d", "c", "b", "a"}, {"b", "d", "a", "c"}}
	_, err := Aggregate(ctx, rankings, Options{
		Trace: func(hungarian.Event) { cancel() },
	})
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestAggregateBruteForceHonorsDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	<-ctx.Done()

	big := make(rank.Ranking, MaxBruteForce)
	for i := range big {
		big[i] = string(rune('a' + i))
	}
	if _, err := bruteForce(ctx, mustCost(t, big)); !stderrors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want context.DeadlineExceeded", err)
	}
}

func mustCost(t *testing.T, r rank.Ranking) *matrix.Dense {
	t.Helper()
	reversed := slices.Clone(r)
	slices.Reverse(reversed)
	rankings := []rank.Ranking{r, reversed}
	cost, err := CostMatrix(rank.Merge(rankings...), rankings)
	if err != nil {
		t.Fatal(err)
	}
	return cost
}

func TestAggregateTrace(t *testing.T) {
	var events []hungarian.Event
	_, err := Aggregate(context.Background(),
		[]rank.Ranking{{"a", "b", "c"}, {"c", "b", "a"}},
		Options{Trace: func(e hungarian.Event) { events = append(events, e) }})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) == 0 || events[len(events)-1].State != hungarian.StateAssigned {
		t.Errorf("trace = %v, want transitions ending in assigned", events)
	}
}

func TestCostMatrix(t *testing.T) {
	rankings := []rank.Ranking{{"A", "B"}, {"B"}}
	u := rank.Merge(rankings...)
	cost, err := CostMatrix(u, rankings)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < u.Len(); i++ {
		for j := 0; j < u.Len(); j++ {
			want := rank.Footrule(u.Item(i), j+1, u.Len(), rankings)
			got, err := cost.At(i, j)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-want) > tolerance {
				t.Errorf("cost(%d,%d) = %v, want %v", i, j, got, want)
			}
		}
	}
	// B sits first in the one-item ranking: 1/1 vs 1/2 at position 1.
	got, err := cost.At(1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-(0.5+0.5)) > tolerance {
		t.Errorf("cost(B,1) = %v, want 1", got)
	}
}

func TestProjectRejectsPartialAssignment(t *testing.T) {
	u := rank.Merge(rank.Ranking{"a", "b"})
	cost, _ := CostMatrix(u, []rank.Ranking{{"a", "b"}})
	if _, err := Project(u, hungarian.Assignment{{Row: 0, Col: 0}}, cost); err == nil {
		t.Error("expected error for partial assignment")
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in   string
		want Method
		ok   bool
	}{
		{"", MethodHungarian, true},
		{"hungarian", MethodHungarian, true},
		{"brute", MethodBruteForce, true},
		{"Brute", "", false},
	}
	for _, tt := range tests {
		got, err := ParseMethod(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseMethod(%q) = %q, %v", tt.in, got, err)
		}
	}
}
