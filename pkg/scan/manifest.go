package scan

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	apperrors "licensetree/pkg/errors"
)

// Directory and file names of the npm on-disk layout.
const (
	NodeModulesDir = "node_modules"
	PnpmStoreDir   = ".pnpm"
	ManifestFile   = "package.json"
)

// Manifest is the parsed metadata of one package.json.
type Manifest struct {
	Name    string
	Version string

	// License is the declared license identifier, empty if the manifest
	// has no license information.
	License string
}

// manifestFile mirrors the package.json fields the scanner needs.
// The license field appears in the wild as a string, as an object with
// a type, and as the legacy plural array form.
type manifestFile struct {
	Name     string          `json:"name"`
	Version  string          `json:"version"`
	License  json.RawMessage `json:"license"`
	Licenses []licenseObject `json:"licenses"`
}

type licenseObject struct {
	Type string `json:"type"`
}

// LoadManifest reads and parses dir's package.json. A missing or
// unparseable manifest is reported with ErrCodeInvalidManifest, which
// the walker treats as fatal for the run.
func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidManifest, err, "read %s", path)
	}

	var mf manifestFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidManifest, err, "parse %s", path)
	}

	return &Manifest{
		Name:    mf.Name,
		Version: mf.Version,
		License: mf.declaredLicense(),
	}, nil
}

// declaredLicense extracts a license identifier from whichever form the
// manifest uses.
func (m manifestFile) declaredLicense() string {
	if len(m.License) > 0 {
		var s string
		if err := json.Unmarshal(m.License, &s); err == nil {
			return strings.TrimSpace(s)
		}
		var obj licenseObject
		if err := json.Unmarshal(m.License, &obj); err == nil && obj.Type != "" {
			return strings.TrimSpace(obj.Type)
		}
	}
	for _, l := range m.Licenses {
		if l.Type != "" {
			return strings.TrimSpace(l.Type)
		}
	}
	return ""
}
