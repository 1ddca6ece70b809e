// Package scan implements the concurrent dependency-tree license scanner.
//
// A scan walks a package directory and its nested node_modules tree,
// producing one Record per visited package with the package's resolved
// license text. Traversal is recursive and concurrent: every discovered
// child package is visited in its own goroutine, and a visit completes
// only when its own license resolution and all of its children have
// completed. The root Scan call returns after the whole tree is quiet.
package scan

import "fmt"

// NoLicenseFile is the sentinel rendered for packages whose resolution
// found no license text anywhere in the candidate set.
const NoLicenseFile = "NO LICENSE FILE"

// ResolutionKind distinguishes how license text was obtained.
type ResolutionKind int

const (
	// ResolutionNotFound means no candidate file yielded license text.
	ResolutionNotFound ResolutionKind = iota

	// ResolutionFile means a dedicated license file was read.
	ResolutionFile

	// ResolutionReadme means the text was mined from a README section.
	ResolutionReadme
)

var kindNames = map[ResolutionKind]string{
	ResolutionNotFound: "not_found",
	ResolutionFile:     "file",
	ResolutionReadme:   "readme",
}

// String returns the kind's identifier.
func (k ResolutionKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler so kinds serialize as
// identifiers rather than integers.
func (k ResolutionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ResolutionKind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown resolution kind: %q", text)
}

// Resolution is the tagged outcome of license-text resolution for one
// package. The not-found state is a distinct variant rather than a
// magic string, so license text that happens to equal the sentinel can
// never be mistaken for a failed resolution.
type Resolution struct {
	Kind ResolutionKind `json:"kind"`
	Text string         `json:"text,omitempty"`
}

// Found reports whether any license text was located.
func (r Resolution) Found() bool { return r.Kind != ResolutionNotFound }

// Display returns the resolved text, or the sentinel for not-found.
func (r Resolution) Display() string {
	if !r.Found() {
		return NoLicenseFile
	}
	return r.Text
}

// Record is one entry in the final report: a single traversal visit of
// a package directory. A package reachable via N distinct paths yields
// N independent records.
type Record struct {
	Name            string     `json:"name"`
	Version         string     `json:"version"`
	RegistryURL     string     `json:"registry_url"`
	LocalPath       string     `json:"local_path"`
	DeclaredLicense string     `json:"declared_license,omitempty"`
	License         Resolution `json:"license"`
}

// ImproperlyLicensed reports whether no license text was found for the
// package, regardless of what its manifest declares.
func (r Record) ImproperlyLicensed() bool { return !r.License.Found() }

// Unlicensed reports whether the package has neither license text nor a
// declared license in its manifest.
func (r Record) Unlicensed() bool {
	return !r.License.Found() && r.DeclaredLicense == ""
}

// RegistryURL derives the npm registry page for a package name.
func RegistryURL(name string) string {
	return "https://www.npmjs.com/package/" + name
}
