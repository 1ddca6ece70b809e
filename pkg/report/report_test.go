package report

import (
	"strings"
	"testing"

	"licensetree/pkg/scan"
)

func sampleResult() *scan.Result {
	return &scan.Result{
		RootName: "app",
		RootPath: "/tmp/app",
		Manager:  scan.Manager{Name: "npm", Lockfile: "package-lock.json"},
		Records: []scan.Record{
			{
				Name:      "b",
				Version:   "0.0.1",
				LocalPath: "node_modules/a/node_modules/b",
				License:   scan.Resolution{Kind: scan.ResolutionNotFound},
			},
			{
				Name:            "app",
				Version:         "1.0.0",
				LocalPath:       "",
				DeclaredLicense: "MIT",
				License:         scan.Resolution{Kind: scan.ResolutionNotFound},
			},
			{
				Name:            "a",
				Version:         "0.1.0",
				LocalPath:       "node_modules/a",
				DeclaredLicense: "MIT",
				License:         scan.Resolution{Kind: scan.ResolutionFile, Text: "MIT"},
			},
		},
	}
}

func TestBuildSortsAndCounts(t *testing.T) {
	rep := Build(sampleResult())

	if rep.ID == "" {
		t.Error("report should get a run ID")
	}
	if rep.Root != "app" {
		t.Errorf("Root = %q", rep.Root)
	}
	if rep.Records[0].LocalPath != "" || rep.Records[1].LocalPath != "node_modules/a" {
		t.Errorf("records not sorted by local path: %v", rep.Records)
	}

	if got := rep.Total(); got != 3 {
		t.Errorf("Total = %d, want 3", got)
	}
	// app declares MIT but has no file: improperly licensed, not unlicensed.
	// b has nothing at all: both.
	if got := rep.ImproperlyLicensed(); got != 2 {
		t.Errorf("ImproperlyLicensed = %d, want 2", got)
	}
	if got := rep.Unlicensed(); got != 1 {
		t.Errorf("Unlicensed = %d, want 1", got)
	}
}

func TestRenderText(t *testing.T) {
	rep := Build(sampleResult())
	out := rep.Render()

	if !strings.HasPrefix(out, "License report for app\n") {
		t.Errorf("missing header: %q", out[:40])
	}
	for _, want := range []string{
		"MODULE: app@1.0.0",
		"MODULE: a@0.1.0",
		"MODULE: b@0.0.1",
		"path: node_modules/a/node_modules/b",
		scan.NoLicenseFile,
		"declared: MIT",
		"Total modules: 3",
		"Improperly licensed: 2",
		"Unlicensed: 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestRenderJSON(t *testing.T) {
	rep := Build(sampleResult())
	data, err := rep.RenderJSON()
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"root": "app"`, `"kind": "file"`, `"kind": "not_found"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("JSON missing %s", want)
		}
	}
}

func TestRenderTree(t *testing.T) {
	rep := Build(sampleResult())

	var b strings.Builder
	if err := rep.RenderTree(&b); err != nil {
		t.Fatal(err)
	}
	out := b.String()

	for _, want := range []string{
		"app@1.0.0 [no license file]",
		"a@0.1.0 [ok]",
		"b@0.0.1 [unlicensed]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("tree missing %q in:\n%s", want, out)
		}
	}
}

func TestParentPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"node_modules/a", ""},
		{"node_modules/a/node_modules/b", "node_modules/a"},
	}
	for _, tt := range tests {
		if got := parentPath(tt.in); got != tt.want {
			t.Errorf("parentPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
