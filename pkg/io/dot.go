package io

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/footrule/pkg/aggregate"
)

// ToDOT converts a result to Graphviz DOT: one node per item in universe
// order on the left, one node per output position on the right, and an edge
// for every committed (item, position) pair. The resulting DOT string can be
// rendered with [RenderSVG].
func ToDOT(res *aggregate.Result) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=1.5;\n")
	buf.WriteString("  nodesep=0.2;\n")
	fmt.Fprintf(&buf, "  label=%q;\n", fmt.Sprintf("distance %.6f", res.Distance))
	buf.WriteString("\n")

	buf.WriteString("  subgraph items {\n    rank=same;\n")
	for _, item := range res.Ranking {
		fmt.Fprintf(&buf, "    %q;\n", item)
	}
	buf.WriteString("  }\n")

	buf.WriteString("  subgraph positions {\n    rank=same;\n")
	for p := range res.Ranking {
		fmt.Fprintf(&buf, "    \"#%d\" [shape=circle, fillcolor=lightgrey];\n", p+1)
	}
	buf.WriteString("  }\n\n")

	for p, item := range res.Ranking {
		fmt.Fprintf(&buf, "  %q -> \"#%d\";\n", item, p+1)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag so the drawing scales from a
// zero-origin viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
