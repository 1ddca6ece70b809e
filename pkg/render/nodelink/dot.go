// Package nodelink renders a scan report as a node-link diagram.
//
// Each visited package becomes a node colored by its license status;
// edges follow the on-disk node_modules nesting. The DOT output can be
// rasterized to SVG or PNG with Graphviz.
package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"licensetree/pkg/report"
	"licensetree/pkg/scan"
)

// Node fill colors by license status.
const (
	colorResolved   = "palegreen"
	colorReadme     = "khaki"
	colorNoFile     = "lightsalmon"
	colorUnlicensed = "indianred1"
)

// ToDOT converts a report to Graphviz DOT format. One node per record,
// identified by its local path, with an edge from each package to every
// dependency nested directly beneath it.
func ToDOT(rep *report.Report) string {
	var buf bytes.Buffer
	buf.WriteString("digraph licenses {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, rec := range rep.Records {
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%s];\n",
			nodeID(rec), nodeLabel(rec), fillColor(rec))
	}

	buf.WriteString("\n")
	for _, rec := range rep.Records {
		if rec.LocalPath == "" {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", parentID(rec), nodeID(rec))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(rec scan.Record) string {
	if rec.LocalPath == "" {
		return "."
	}
	return rec.LocalPath
}

func parentID(rec scan.Record) string {
	segs := strings.Split(rec.LocalPath, "/")
	if len(segs) < 3 {
		return "."
	}
	return strings.Join(segs[:len(segs)-2], "/")
}

func nodeLabel(rec scan.Record) string {
	label := rec.Name + "@" + rec.Version
	if rec.DeclaredLicense != "" {
		label += "\n" + rec.DeclaredLicense
	}
	return label
}

func fillColor(rec scan.Record) string {
	switch {
	case rec.Unlicensed():
		return colorUnlicensed
	case rec.ImproperlyLicensed():
		return colorNoFile
	case rec.License.Kind == scan.ResolutionReadme:
		return colorReadme
	default:
		return colorResolved
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
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
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
