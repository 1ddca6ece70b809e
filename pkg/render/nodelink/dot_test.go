package nodelink

import (
	"strings"
	"testing"

	"licensetree/pkg/report"
	"licensetree/pkg/scan"
)

func TestToDOT(t *testing.T) {
	rep := report.Build(&scan.Result{
		RootName: "app",
		Records: []scan.Record{
			{Name: "app", Version: "1.0.0", LocalPath: ""},
			{
				Name: "a", Version: "0.1.0", LocalPath: "node_modules/a",
				DeclaredLicense: "MIT",
				License:         scan.Resolution{Kind: scan.ResolutionFile, Text: "MIT"},
			},
			{Name: "b", Version: "0.0.1", LocalPath: "node_modules/a/node_modules/b"},
		},
	})

	dot := ToDOT(rep)

	for _, want := range []string{
		`"." [label="app@1.0.0"`,
		`"node_modules/a" [label="a@0.1.0\nMIT", fillcolor=palegreen]`,
		`"." -> "node_modules/a";`,
		`"node_modules/a" -> "node_modules/a/node_modules/b";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q in:\n%s", want, dot)
		}
	}

	if !strings.HasPrefix(dot, "digraph licenses {") {
		t.Errorf("unexpected DOT header: %q", dot[:30])
	}
}

func TestFillColor(t *testing.T) {
	tests := []struct {
		name string
		rec  scan.Record
		want string
	}{
		{"resolved file", scan.Record{License: scan.Resolution{Kind: scan.ResolutionFile, Text: "MIT"}}, colorResolved},
		{"readme excerpt", scan.Record{License: scan.Resolution{Kind: scan.ResolutionReadme, Text: "x"}}, colorReadme},
		{"declared but no file", scan.Record{DeclaredLicense: "MIT"}, colorNoFile},
		{"nothing at all", scan.Record{}, colorUnlicensed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fillColor(tt.rec); got != tt.want {
				t.Errorf("fillColor = %q, want %q", got, tt.want)
			}
		})
	}
}
