package filesystem

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/example/stubgen/internal/config"
	"github.com/example/stubgen/internal/ports/secondary"
)

// AutoloadResolver resolves classes through a PSR-4 style prefix table.
type AutoloadResolver struct {
	fs      secondary.ProjectFS
	root    string
	ext     string
	entries []config.AutoloadEntry
}

// NewAutoloadResolver creates a resolver for the project at root. Entries are
// tried longest namespace first.
func NewAutoloadResolver(fs secondary.ProjectFS, root, ext string, entries []config.AutoloadEntry) *AutoloadResolver {
	sorted := make([]config.AutoloadEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Namespace) > len(sorted[j].Namespace)
	})
	return &AutoloadResolver{fs: fs, root: root, ext: ext, entries: sorted}
}

// Resolve returns the source file of fqcn.
func (r *AutoloadResolver) Resolve(ctx context.Context, fqcn string) (string, bool, error) {
	fqcn = strings.TrimPrefix(strings.TrimSpace(fqcn), `\`)
	if fqcn == "" {
		return "", false, nil
	}

	for _, e := range r.entries {
		prefix := strings.Trim(e.Namespace, `\`) + `\`
		if !strings.HasPrefix(fqcn, prefix) {
			continue
		}
		rel := strings.ReplaceAll(strings.TrimPrefix(fqcn, prefix), `\`, string(filepath.Separator))
		dir := e.Directory
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(r.root, dir)
		}
		path := filepath.Join(dir, rel+r.ext)

		ok, err := r.fs.Exists(ctx, path)
		if err != nil {
			return "", false, err
		}
		if ok {
			return path, true, nil
		}
	}
	return "", false, nil
}

// Ensure AutoloadResolver implements the interface
var _ secondary.ClassResolver = (*AutoloadResolver)(nil)
