package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"licensetree/pkg/cache"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveDedicatedFileWinsOverReadme(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "LICENSE", "MIT License\n\nPermission is hereby granted...")
	writeFile(t, dir, "README.md", "# pkg\n\n## License\nApache-2.0")

	r := NewResolver(LineEndingLF, nil, nil)
	res := r.resolve(dir)

	if res.Kind != ResolutionFile {
		t.Fatalf("Kind = %v, want file", res.Kind)
	}
	if res.Text != "MIT License\n\nPermission is hereby granted..." {
		t.Errorf("Text = %q", res.Text)
	}
}

func TestResolveHigherPriorityFileWins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "LICENSE.md", "from LICENSE.md")
	writeFile(t, dir, "LICENCE", "from LICENCE")
	writeFile(t, dir, "MIT-LICENSE.txt", "from MIT-LICENSE.txt")

	r := NewResolver(LineEndingLF, nil, nil)
	res := r.resolve(dir)

	if res.Text != "from LICENCE" {
		t.Errorf("Text = %q, want the highest-priority candidate present", res.Text)
	}
}

func TestResolveReadmeFallback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "README.md", "# pkg\n\n## License\nApache-2.0")

	r := NewResolver(LineEndingLF, nil, nil)
	res := r.resolve(dir)

	if res.Kind != ResolutionReadme {
		t.Fatalf("Kind = %v, want readme", res.Kind)
	}
	want := "FROM README:\n## License\nApache-2.0"
	if res.Text != want {
		t.Errorf("Text = %q, want %q", res.Text, want)
	}
}

func TestResolveReadmeWithoutHeadingIsIgnored(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "README.md", "# pkg\n\nThis package is MIT licensed.")

	r := NewResolver(LineEndingLF, nil, nil)
	res := r.resolve(dir)

	if res.Found() {
		t.Errorf("resolution = %+v, want not found", res)
	}
}

func TestResolveNothingFound(t *testing.T) {
	dir := t.TempDir()

	r := NewResolver(LineEndingLF, nil, nil)
	res := r.resolve(dir)

	if res.Found() {
		t.Fatalf("resolution = %+v, want not found", res)
	}
	if res.Display() != NoLicenseFile {
		t.Errorf("Display() = %q, want %q", res.Display(), NoLicenseFile)
	}
}

func TestResolveNormalizesLineEndings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "LICENSE", "line one\r\nline two\rline three\n")

	r := NewResolver(LineEndingLF, nil, nil)
	res := r.resolve(dir)

	if res.Text != "line one\nline two\nline three\n" {
		t.Errorf("Text = %q", res.Text)
	}
}

func TestResolveUsesCache(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "LICENSE", "MIT")

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewResolver(LineEndingLF, c, nil)
	mf := &Manifest{Name: "pkg", Version: "1.0.0"}

	first := r.Resolve(context.Background(), dir, mf)
	if first.Text != "MIT" {
		t.Fatalf("first resolve = %+v", first)
	}

	// Remove the file; the cached resolution must still be served.
	if err := os.Remove(filepath.Join(dir, "LICENSE")); err != nil {
		t.Fatal(err)
	}
	second := r.Resolve(context.Background(), dir, mf)
	if second.Text != "MIT" {
		t.Errorf("second resolve = %+v, want cached text", second)
	}
}

func TestLicenseHeadingIndex(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  int
		found bool
	}{
		{"bare word", "License\nMIT", 0, true},
		{"markdown heading", "# pkg\n\n## License\nMIT", 7, true},
		{"british spelling", "Licence\n", 0, true},
		{"surrounding whitespace", "intro\n  license  \nMIT", 6, true},
		{"mixed case", "LICENSE\n", 0, true},
		{"not alone on line", "MIT License\n", 0, false},
		{"word with suffix", "## Licensed under MIT\n", 0, false},
		{"empty", "", 0, false},
		{"crlf separators", "# pkg\r\nLicense\r\nMIT", 7, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := LicenseHeadingIndex(tt.text)
			if found != tt.found {
				t.Fatalf("found = %v, want %v", found, tt.found)
			}
			if found && got != tt.want {
				t.Errorf("offset = %d, want %d", got, tt.want)
			}
		})
	}
}
