// Package report turns a finished scan into its output forms.
//
// The aggregator consumes the record collection exactly once per run,
// computes the summary counts, and renders the report as plain text,
// JSON, or an ASCII dependency tree.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"licensetree/pkg/scan"
)

// Report is the aggregated outcome of one scan run.
type Report struct {
	ID          string        `json:"id"`
	Root        string        `json:"root"`
	RootPath    string        `json:"root_path"`
	Manager     scan.Manager  `json:"manager"`
	GeneratedAt time.Time     `json:"generated_at"`
	Records     []scan.Record `json:"records"`
}

// Build aggregates a scan result into a report. Records are ordered by
// local path so output is deterministic regardless of completion order.
func Build(res *scan.Result) *Report {
	records := make([]scan.Record, len(res.Records))
	copy(records, res.Records)
	sort.Slice(records, func(i, j int) bool {
		return records[i].LocalPath < records[j].LocalPath
	})

	return &Report{
		ID:          uuid.NewString(),
		Root:        res.RootName,
		RootPath:    res.RootPath,
		Manager:     res.Manager,
		GeneratedAt: time.Now().UTC(),
		Records:     records,
	}
}

// Total returns the number of records.
func (r *Report) Total() int { return len(r.Records) }

// ImproperlyLicensed counts records with no resolved license text.
func (r *Report) ImproperlyLicensed() int {
	n := 0
	for _, rec := range r.Records {
		if rec.ImproperlyLicensed() {
			n++
		}
	}
	return n
}

// Unlicensed counts records with neither resolved text nor a declared
// license.
func (r *Report) Unlicensed() int {
	n := 0
	for _, rec := range r.Records {
		if rec.Unlicensed() {
			n++
		}
	}
	return n
}

// Render produces the textual report: a header naming the root package,
// one section per record with the module's resolved license text, and
// the summary counts.
func (r *Report) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "License report for %s\n", r.Root)
	if r.Manager.Name != "" {
		fmt.Fprintf(&b, "Package manager: %s (%s)\n", r.Manager.Name, r.Manager.Lockfile)
	}
	fmt.Fprintf(&b, "Run %s, generated %s\n", r.ID, r.GeneratedAt.Format(time.RFC3339))

	for _, rec := range r.Records {
		b.WriteString("\n")
		b.WriteString(sectionRule)
		fmt.Fprintf(&b, "MODULE: %s@%s\n", rec.Name, rec.Version)
		if rec.LocalPath != "" {
			fmt.Fprintf(&b, "path: %s\n", rec.LocalPath)
		}
		fmt.Fprintf(&b, "registry: %s\n", rec.RegistryURL)
		if rec.DeclaredLicense != "" {
			fmt.Fprintf(&b, "declared: %s\n", rec.DeclaredLicense)
		}
		b.WriteString("\n")
		b.WriteString(rec.License.Display())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(sectionRule)
	fmt.Fprintf(&b, "Total modules: %d\n", r.Total())
	fmt.Fprintf(&b, "Improperly licensed: %d\n", r.ImproperlyLicensed())
	fmt.Fprintf(&b, "Unlicensed: %d\n", r.Unlicensed())

	return b.String()
}

const sectionRule = "--------------------------------------------------------------------\n"

// RenderJSON serializes the report.
func (r *Report) RenderJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
