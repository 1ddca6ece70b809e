package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/ddddddO/gtree"

	"licensetree/pkg/scan"
)

// Status markers used in tree output.
const (
	markOK     = "[ok]"
	markReadme = "[readme]"
	markNoFile = "[no license file]"
	markNoInfo = "[unlicensed]"
)

// RenderTree writes the dependency tree with a license status marker
// per package. Records are assumed sorted by local path (Build does
// this), which guarantees parents appear before their children.
func (r *Report) RenderTree(w io.Writer) error {
	nodes := make(map[string]*gtree.Node, len(r.Records))

	var root *gtree.Node
	for _, rec := range r.Records {
		label := treeLabel(rec)
		if rec.LocalPath == "" {
			root = gtree.NewRoot(label)
			nodes[""] = root
			continue
		}
		parent, ok := nodes[parentPath(rec.LocalPath)]
		if !ok {
			return fmt.Errorf("record %s has no parent in tree", rec.LocalPath)
		}
		nodes[rec.LocalPath] = parent.Add(label)
	}

	if root == nil {
		return fmt.Errorf("report has no root record")
	}
	return gtree.OutputProgrammably(w, root)
}

func treeLabel(rec scan.Record) string {
	mark := markOK
	switch {
	case rec.Unlicensed():
		mark = markNoInfo
	case rec.ImproperlyLicensed():
		mark = markNoFile
	case rec.License.Kind == scan.ResolutionReadme:
		mark = markReadme
	}
	return fmt.Sprintf("%s@%s %s", rec.Name, rec.Version, mark)
}

// parentPath strips the trailing node_modules/<name> segment pair, so
// "node_modules/a/node_modules/b" maps to "node_modules/a" and
// "node_modules/a" maps to the root's empty path.
func parentPath(localPath string) string {
	segs := strings.Split(localPath, "/")
	if len(segs) < 2 {
		return ""
	}
	return strings.Join(segs[:len(segs)-2], "/")
}
