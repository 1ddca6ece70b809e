package scan

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"licensetree/pkg/cache"
	apperrors "licensetree/pkg/errors"
)

// Options configures a scan.
type Options struct {
	LineEnding LineEnding           // newline style for resolved text (default: host OS)
	Cache      cache.Cache          // resolution cache (default: disabled)
	Logf       func(string, ...any) // non-fatal diagnostics (optional)
	Debugf     func(string, ...any) // verbose traversal tracing (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.LineEnding == "" {
		opts.LineEnding = DefaultLineEnding()
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	if opts.Logf == nil {
		opts.Logf = func(string, ...any) {}
	}
	if opts.Debugf == nil {
		opts.Debugf = func(string, ...any) {}
	}
	return opts
}

// Result is the finished collection of one scan run, handed to the
// report builder exactly once, after the whole tree has quiesced.
type Result struct {
	RootName string
	RootPath string
	Manager  Manager
	Records  []Record
}

// Walker performs the recursive concurrent traversal.
//
// Every visit runs in its own goroutine inside an errgroup. Child
// visits are registered with the group synchronously, at discovery
// time, before the visit itself can complete; the group's Wait is the
// completion signal, so the dynamically discovered fan-out joins into
// a single handle without any shared outstanding-operation counter.
type Walker struct {
	opts     Options
	filter   *Filter
	resolver *Resolver

	mu      sync.Mutex
	records []Record

	visited atomic.Int64
}

// NewWalker creates a walker for one run.
func NewWalker(opts Options) *Walker {
	opts = opts.WithDefaults()
	return &Walker{
		opts:     opts,
		filter:   NewFilter(opts.Logf),
		resolver: NewResolver(opts.LineEnding, opts.Cache, opts.Logf),
	}
}

// Visited returns the number of packages visited so far. Safe to poll
// from another goroutine for progress display.
func (w *Walker) Visited() int64 { return w.visited.Load() }

// Scan walks the package tree rooted at root and returns its result.
// Fatal errors (unparseable manifest, unlistable dependency directory)
// abort the whole run; everything else degrades and is logged.
func Scan(ctx context.Context, root string, opts Options) (*Result, error) {
	w := NewWalker(opts)
	return w.Run(ctx, root)
}

// Run executes the walker once. A Walker must not be reused.
func (w *Walker) Run(ctx context.Context, root string) (*Result, error) {
	root = filepath.Clean(root)
	if !w.filter.IsPackage(root) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidPath, "%s is not a package directory (no readable %s)", root, ManifestFile)
	}

	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error { return w.visit(ctx, root, "") })
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	res := &Result{
		RootPath: root,
		Manager:  DetectManager(root, w.opts.Logf),
		Records:  w.records,
	}
	for _, rec := range w.records {
		if rec.LocalPath == "" {
			res.RootName = rec.Name
			break
		}
	}
	return res, nil
}

// visit processes one package directory: it discovers and spawns child
// visits, resolves the package's own license concurrently with them,
// and returns once every spawned operation has settled.
func (w *Walker) visit(ctx context.Context, dir, rel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	mf, err := LoadManifest(dir)
	if err != nil {
		// The filter admitted this directory, so a manifest failure here
		// means the tree changed underneath us. Fatal.
		return err
	}
	w.opts.Debugf("visiting %s@%s (%s)", mf.Name, mf.Version, displayPath(rel))

	grp, ctx := errgroup.WithContext(ctx)

	nested := filepath.Join(dir, NodeModulesDir)
	entries, err := os.ReadDir(nested)
	switch {
	case os.IsNotExist(err):
		// Leaf package.
	case err != nil:
		return apperrors.Wrap(apperrors.ErrCodeDirectoryList, err, "list %s", nested)
	default:
		for _, entry := range entries {
			name := entry.Name()
			if strings.HasPrefix(name, ".") {
				// .bin, .pnpm and friends are tooling directories, not packages.
				w.opts.Debugf("skipping %s", path.Join(displayPath(rel), NodeModulesDir, name))
				continue
			}
			childDir := filepath.Join(nested, name)
			if !w.filter.IsPackage(childDir) {
				continue
			}
			childRel := path.Join(rel, NodeModulesDir, name)
			grp.Go(func() error { return w.visit(ctx, childDir, childRel) })
		}
	}

	grp.Go(func() error {
		var res Resolution
		if rel == "" {
			res = w.resolver.ResolveUncached(dir)
		} else {
			res = w.resolver.Resolve(ctx, dir, mf)
		}
		w.append(Record{
			Name:            mf.Name,
			Version:         mf.Version,
			RegistryURL:     RegistryURL(mf.Name),
			LocalPath:       rel,
			DeclaredLicense: mf.License,
			License:         res,
		})
		return nil
	})

	return grp.Wait()
}

func (w *Walker) append(rec Record) {
	w.mu.Lock()
	w.records = append(w.records, rec)
	w.mu.Unlock()
	w.visited.Add(1)
}

func displayPath(rel string) string {
	if rel == "" {
		return "."
	}
	return rel
}
