package scan

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "licensetree/pkg/errors"
)

func TestLoadManifestLicenseForms(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"string", `{"name": "p", "version": "1.0.0", "license": "MIT"}`, "MIT"},
		{"object", `{"name": "p", "version": "1.0.0", "license": {"type": "BSD-3-Clause"}}`, "BSD-3-Clause"},
		{"legacy array", `{"name": "p", "version": "1.0.0", "licenses": [{"type": "Apache-2.0"}, {"type": "MIT"}]}`, "Apache-2.0"},
		{"absent", `{"name": "p", "version": "1.0.0"}`, ""},
		{"padded string", `{"name": "p", "version": "1.0.0", "license": " ISC "}`, "ISC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, ManifestFile), []byte(tt.json), 0644); err != nil {
				t.Fatal(err)
			}
			mf, err := LoadManifest(dir)
			if err != nil {
				t.Fatalf("LoadManifest failed: %v", err)
			}
			if mf.License != tt.want {
				t.Errorf("License = %q, want %q", mf.License, tt.want)
			}
			if mf.Name != "p" || mf.Version != "1.0.0" {
				t.Errorf("manifest = %+v", mf)
			}
		})
	}
}

func TestLoadManifestMissing(t *testing.T) {
	_, err := LoadManifest(t.TempDir())
	if !apperrors.Is(err, apperrors.ErrCodeInvalidManifest) {
		t.Errorf("error = %v, want INVALID_MANIFEST", err)
	}
}

func TestLoadManifestUnparseable(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadManifest(dir)
	if !apperrors.Is(err, apperrors.ErrCodeInvalidManifest) {
		t.Errorf("error = %v, want INVALID_MANIFEST", err)
	}
}
