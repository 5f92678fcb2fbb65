// Package pkg provides the core libraries for footrule rank aggregation.
//
// # Overview
//
// Footrule merges several rankings of the same (or overlapping) items into
// the single consensus ranking that minimizes the total scaled footrule
// distance to all of them. Placing item i at position p of n contributes the
// cost sum over rankings of |q/m - p/n|, where q is the item's position in a
// ranking of length m. Choosing a position for every item is then an
// assignment problem, solved with the Hungarian method.
//
// The pkg directory is organized into three areas:
//
//  1. Domain logic: [rank], [matrix], [hungarian], [aggregate], [perm]
//  2. Infrastructure: [cache], [history], [observability], [errors]
//  3. Orchestration and surfaces: [io], [pipeline], [server]
//
// # Architecture
//
// The typical data flow through footrule:
//
//	Ranking files / JSON request
//	         ↓
//	    [io] package (parse whitespace-separated items)
//	         ↓
//	    [rank] package (merge into a universe, score positions)
//	         ↓
//	    [aggregate] package (build cost matrix, solve, project)
//	         ↓
//	    [hungarian] package (reduce, cover, adjust, extract)
//	         ↓
//	    text/JSON/DOT/SVG output
//
// # Quick Start
//
// Aggregate two rankings:
//
//	import (
//	    "context"
//	    "os"
//
//	    "github.com/matzehuels/footrule/pkg/aggregate"
//	    "github.com/matzehuels/footrule/pkg/io"
//	    "github.com/matzehuels/footrule/pkg/rank"
//	)
//
//	rankings := []rank.Ranking{
//	    {"A", "B", "C"},
//	    {"C", "B", "A"},
//	}
//	res, _ := aggregate.Aggregate(context.Background(), rankings, aggregate.Options{})
//	_ = io.WriteText(res, os.Stdout, io.PlaceFirst)
//
// For repeated runs with caching and history, use [pipeline.Runner], which
// is what both the CLI and the HTTP server are built on.
//
// [rank]: https://pkg.go.dev/github.com/matzehuels/footrule/pkg/rank
// [matrix]: https://pkg.go.dev/github.com/matzehuels/footrule/pkg/matrix
// [hungarian]: https://pkg.go.dev/github.com/matzehuels/footrule/pkg/hungarian
// [aggregate]: https://pkg.go.dev/github.com/matzehuels/footrule/pkg/aggregate
// [perm]: https://pkg.go.dev/github.com/matzehuels/footrule/pkg/perm
// [cache]: https://pkg.go.dev/github.com/matzehuels/footrule/pkg/cache
// [history]: https://pkg.go.dev/github.com/matzehuels/footrule/pkg/history
// [observability]: https://pkg.go.dev/github.com/matzehuels/footrule/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/footrule/pkg/errors
// [io]: https://pkg.go.dev/github.com/matzehuels/footrule/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/footrule/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/footrule/pkg/server
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/footrule/pkg/pipeline#Runner
package pkg
