// Package render turns scan results into dependency graph visualizations.
//
// The graph has one node per installed package and one edge per declared
// requirement that resolves (after PEP 503 normalization) to another
// installed package. Output formats are Graphviz DOT and, via the embedded
// Graphviz engine, SVG.
package render

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/pipsleuth/pipsleuth/pkg/inspect"
)

// Options configures dependency graph rendering.
type Options struct {
	// Detailed includes version and license names in node labels.
	// When false, only the package name is shown.
	Detailed bool
}

// ToDOT converts scan results to Graphviz DOT format. The resulting DOT
// string can be rendered with [RenderSVG].
//
// Nodes appear in package order; edges are sorted per package for
// deterministic output. Requirements that do not resolve to an installed
// package produce no edge.
func ToDOT(packages []*inspect.PackageInfo, opts Options) string {
	installed := make(map[string]bool, len(packages))
	for _, pkg := range packages {
		installed[pkg.Name] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, pkg := range packages {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", pkg.Name, fmtLabel(pkg, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, pkg := range packages {
		for _, dep := range requirementEdges(pkg, installed) {
			fmt.Fprintf(&buf, "  %q -> %q;\n", pkg.Name, dep)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// requirementEdges resolves a package's requirement names against the
// installed set, deduplicated and sorted.
func requirementEdges(pkg *inspect.PackageInfo, installed map[string]bool) []string {
	seen := make(map[string]bool)
	var deps []string
	for _, spec := range pkg.Requirements.Sorted() {
		name := inspect.RequirementName(spec)
		if name == "" || name == pkg.Name || !installed[name] || seen[name] {
			continue
		}
		seen[name] = true
		deps = append(deps, name)
	}
	sort.Strings(deps)
	return deps
}

func fmtLabel(pkg *inspect.PackageInfo, detailed bool) string {
	if !detailed {
		return pkg.Name
	}

	parts := []string{pkg.Version}
	if names := pkg.LicenseNames.Sorted(); len(names) > 0 {
		parts = append(parts, strings.Join(names, ", "))
	}
	return pkg.Name + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using the embedded Graphviz engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
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
	return buf.Bytes(), nil
}
