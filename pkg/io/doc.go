// Package io reads rankings from text files and writes aggregation results.
//
// # Input Format
//
// A ranking file is a sequence of whitespace-separated tokens. Each token is
// one item; the order of tokens is the rank order, best first:
//
//	https://example.com/a
//	https://example.com/b   https://example.com/c
//
// Line breaks carry no meaning beyond separating tokens. An item may appear
// at most once per file.
//
// # Import
//
// Use [ImportRanking] to read a ranking from a file path, [ImportRankings] for
// several files, or [ReadRanking] to read from any io.Reader:
//
//	r, err := io.ImportRanking("engine-a.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// A missing file yields an error with code FILE_NOT_FOUND; a duplicate or
// malformed item yields INVALID_RANKING. Both carry the path.
//
// # Export
//
// Results are written in one of four formats ([Format]):
//
//   - text: the total distance formatted as %.6f, then one item per line in
//     consensus order. [Placement] moves the distance after the items or
//     drops it.
//   - json: ranking, distance, method, solver rounds and the assignment.
//   - dot: Graphviz source of the item → position assignment.
//   - svg: the dot output rendered in-process with go-graphviz.
//
// Use [Write] to dispatch on a format, or call [WriteText], [WriteJSON],
// [ToDOT] and [RenderSVG] directly.
package io
