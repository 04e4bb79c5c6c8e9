package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/coursekit/media-gateway/services"
)

// ResolvedAsset is a media path mapped to a real file under the asset
// root. AbsolutePath is always a descendant of the canonical root.
type ResolvedAsset struct {
	AbsolutePath string
	SizeBytes    int64
	MimeType     string
}

// Resolver maps logical media paths onto the asset root directory and
// rejects any resolution that escapes it.
type Resolver struct {
	// root is absolute with symlinks resolved, so prefix checks against
	// it defeat both ..-based and symlink-based escapes.
	root string
}

// NewResolver creates a resolver rooted at the given directory. The
// directory must exist; its canonical form is fixed at construction.
func NewResolver(rootDir string) (*Resolver, error) {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolving asset root %s: %w", rootDir, err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("canonicalizing asset root %s: %w", abs, err)
	}
	return &Resolver{root: canonical}, nil
}

// Root returns the canonical asset root directory
func (r *Resolver) Root() string {
	return r.root
}

// Resolve maps a URL-decoded media path to a file under the asset root.
// Fails with a path_escape error when the canonicalized target leaves
// the root, and with not_found when the target is absent or a directory.
func (r *Resolver) Resolve(mediaPath string) (*ResolvedAsset, error) {
	if mediaPath == "" {
		return nil, services.ErrAssetNotFound
	}

	joined := filepath.Join(r.root, filepath.FromSlash(mediaPath))

	// Lexical containment first: a ..-escape must be rejected even when
	// the target does not exist, and before any filesystem access.
	if !r.contains(joined) {
		return nil, services.NewDomainError(services.ErrorTypePathEscape,
			"path resolves outside the asset root", nil).WithDetail("path", mediaPath)
	}

	// Symlink resolution, then the containment check again on the
	// canonical result. A symlink inside the root pointing outside it
	// fails here.
	resolved, err := filepath.EvalSymlinks(joined)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, services.ErrAssetNotFound
		}
		return nil, services.WrapInternal("canonicalizing asset path", err)
	}
	if !r.contains(resolved) {
		return nil, services.NewDomainError(services.ErrorTypePathEscape,
			"path resolves outside the asset root", nil).WithDetail("path", mediaPath)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, services.ErrAssetNotFound
		}
		return nil, services.WrapInternal("stat asset", err)
	}
	if info.IsDir() {
		return nil, services.ErrAssetNotFound
	}

	return &ResolvedAsset{
		AbsolutePath: resolved,
		SizeBytes:    info.Size(),
		MimeType:     ContentTypeFor(mediaPath),
	}, nil
}

// contains reports whether path equals the root or sits beneath it
func (r *Resolver) contains(path string) bool {
	if path == r.root {
		return true
	}
	return strings.HasPrefix(path, r.root+string(filepath.Separator))
}
