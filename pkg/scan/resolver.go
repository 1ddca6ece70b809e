package scan

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"licensetree/pkg/cache"
)

// License file candidates, highest priority first. A hit on any of
// these always beats README-derived text.
var licenseCandidates = []string{
	"LICENSE",
	"LICENCE",
	"LICENSE.md",
	"LICENSE.txt",
	"LICENSE-MIT",
	"LICENSE-BSD",
	"MIT-LICENSE.txt",
}

// README candidates, consulted only when no dedicated license file
// exists anywhere in the candidate set.
var readmeCandidates = []string{
	"Readme.md",
	"README.md",
	"README.markdown",
}

// readmePrefix marks report text that was mined from a README rather
// than read from a dedicated license file.
const readmePrefix = "FROM README:"

// Resolver locates a package's license text via the ordered candidate
// fallback chain.
type Resolver struct {
	ending LineEnding
	cache  cache.Cache
	logf   func(string, ...any)
}

// NewResolver creates a resolver. c may be nil to disable caching and
// logf may be nil to discard diagnostics.
func NewResolver(ending LineEnding, c cache.Cache, logf func(string, ...any)) *Resolver {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Resolver{ending: ending, cache: c, logf: logf}
}

// Resolve returns the license resolution for the package in dir.
// Results are cached by name and version; cache failures degrade to a
// fresh resolution.
func (r *Resolver) Resolve(ctx context.Context, dir string, mf *Manifest) Resolution {
	key := cache.LicenseKey(mf.Name, mf.Version, string(r.ending))

	if data, hit, err := r.cache.Get(ctx, key); err != nil {
		r.logf("cache get %s@%s: %v", mf.Name, mf.Version, err)
	} else if hit {
		var res Resolution
		if err := json.Unmarshal(data, &res); err == nil {
			return res
		}
	}

	res := r.resolve(dir)

	if data, err := json.Marshal(res); err == nil {
		if err := r.cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
			r.logf("cache set %s@%s: %v", mf.Name, mf.Version, err)
		}
	}
	return res
}

// ResolveUncached resolves without consulting or populating the cache.
// Used for the scan root: it is the developer's working tree, whose
// license files can change without a version bump, so a cached result
// keyed by name and version would go stale.
func (r *Resolver) ResolveUncached(dir string) Resolution {
	return r.resolve(dir)
}

// resolve runs the candidate fold. Candidates are evaluated from lowest
// to highest priority: README candidates contribute a result only while
// nothing has been found yet, while dedicated license files override
// whatever is accumulated so far, so the highest-priority dedicated
// file always wins.
func (r *Resolver) resolve(dir string) Resolution {
	res := Resolution{Kind: ResolutionNotFound}

	for i := len(readmeCandidates) - 1; i >= 0; i-- {
		if res.Found() {
			continue
		}
		data, ok := r.readCandidate(filepath.Join(dir, readmeCandidates[i]))
		if !ok {
			continue
		}
		text := r.ending.Normalize(string(data))
		if off, found := LicenseHeadingIndex(text); found {
			res = Resolution{
				Kind: ResolutionReadme,
				Text: readmePrefix + r.ending.Sequence() + text[off:],
			}
		}
	}

	for i := len(licenseCandidates) - 1; i >= 0; i-- {
		data, ok := r.readCandidate(filepath.Join(dir, licenseCandidates[i]))
		if !ok {
			continue
		}
		res = Resolution{
			Kind: ResolutionFile,
			Text: r.ending.Normalize(string(data)),
		}
	}

	return res
}

// readCandidate reads one candidate file. Absent files and read errors
// both report !ok; errors are logged and the candidate is treated as
// absent so resolution continues with the next one.
func (r *Resolver) readCandidate(path string) ([]byte, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logf("read candidate %s: %v", path, err)
		}
		return nil, false
	}
	return data, true
}

// licenseHeadingRe matches a line that is nothing but optional heading
// markers, the word "license" (either spelling), and whitespace.
var licenseHeadingRe = regexp.MustCompile(`(?i)^\s*#*\s*licen[cs]e\s*$`)

// LicenseHeadingIndex finds the byte offset of the first line in text
// that is a license heading. The second return is false when no such
// line exists. Pure function: text in, offset out.
func LicenseHeadingIndex(text string) (int, bool) {
	offset := 0
	for offset <= len(text) {
		rest := text[offset:]
		end := strings.IndexAny(rest, "\r\n")
		line := rest
		if end >= 0 {
			line = rest[:end]
		}
		if licenseHeadingRe.MatchString(line) {
			return offset, true
		}
		if end < 0 {
			break
		}
		adv := end + 1
		if rest[end] == '\r' && end+1 < len(rest) && rest[end+1] == '\n' {
			adv++
		}
		offset += adv
	}
	return 0, false
}
