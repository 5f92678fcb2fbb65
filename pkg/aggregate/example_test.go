package aggregate_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/footrule/pkg/aggregate"
	"github.com/matzehuels/footrule/pkg/rank"
)

func ExampleAggregate() {
	rankings := []rank.Ranking{
		{"go", "rust", "zig"},
		{"go", "zig", "rust"},
		{"go", "rust"},
	}
	res, err := aggregate.Aggregate(context.Background(), rankings, aggregate.Options{})
	if err != nil {
		panic(err)
	}
	fmt.Println(res.Ranking[0])
	// Output: go
}

func ExampleCostMatrix() {
	rankings := []rank.Ranking{{"a", "b"}, {"b", "a"}}
	u := rank.Merge(rankings...)
	cost, _ := aggregate.CostMatrix(u, rankings)
	fmt.Print(cost)
	// Output:
	// [0.5, 0.5]
	// [0.5, 0.5]
}
