package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// CacheEnvVar overrides the directory git sources are checked out into.
const CacheEnvVar = "EXPRTREE_CACHE"

// DefaultCacheDir returns the cache root for fetched program sources.
func DefaultCacheDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(CacheEnvVar)); dir != "" {
		return dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache directory: %w", err)
	}
	return filepath.Join(base, "exprtree"), nil
}

// Checkout describes a program source materialised on disk.
type Checkout struct {
	// Dir is the program directory: the checkout root joined with SourceSpec.Path.
	Dir     string
	Version string
	Commit  string
}

// GitFetcher clones program sources into <cache>/src/<name>/<version>.
type GitFetcher struct {
	cacheDir string
}

// NewGitFetcher returns a fetcher rooted at cacheDir, or nil when cacheDir is empty.
func NewGitFetcher(cacheDir string) *GitFetcher {
	if cacheDir == "" {
		return nil
	}
	return &GitFetcher{cacheDir: cacheDir}
}

// CacheDir returns the root the fetcher writes into.
func (g *GitFetcher) CacheDir() string {
	if g == nil {
		return ""
	}
	return g.cacheDir
}

// gitPin is the revision a source asks for. ref is empty for a bare commit.
type gitPin struct {
	label string
	ref   plumbing.ReferenceName
}

func pinFromSource(src *SourceSpec) (gitPin, error) {
	switch {
	case strings.TrimSpace(src.Rev) != "":
		return gitPin{label: strings.TrimSpace(src.Rev)}, nil
	case strings.TrimSpace(src.Tag) != "":
		tag := strings.TrimSpace(src.Tag)
		return gitPin{label: tag, ref: plumbing.NewTagReferenceName(tag)}, nil
	case strings.TrimSpace(src.Branch) != "":
		branch := strings.TrimSpace(src.Branch)
		return gitPin{label: branch, ref: plumbing.NewBranchReferenceName(branch)}, nil
	default:
		return gitPin{}, errors.New("git sources require rev, tag, or branch")
	}
}

// Fetch makes the revision named by src available in the cache. A commit that
// is already cached is reused without touching the network.
func (g *GitFetcher) Fetch(name string, src *SourceSpec) (*Checkout, error) {
	if g == nil {
		return nil, errors.New("git fetcher unavailable")
	}
	if src == nil || strings.TrimSpace(src.Git) == "" {
		return nil, fmt.Errorf("program %q: git URL required", name)
	}
	pin, err := pinFromSource(src)
	if err != nil {
		return nil, err
	}

	root := filepath.Join(g.cacheDir, "src", sanitizePathSegment(name))
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	if pin.ref == "" {
		cached := filepath.Join(root, sanitizePathSegment(pin.label))
		if isDir(cached) {
			return newCheckout(cached, pin.label, pin.label, src.Path), nil
		}
	}

	staging, err := os.MkdirTemp(root, "git-fetch-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(staging)

	clone := filepath.Join(staging, "repo")
	commit, err := cloneAt(clone, strings.TrimSpace(src.Git), pin)
	if err != nil {
		return nil, err
	}
	version := pinnedVersion(pin.label, commit)
	target := filepath.Join(root, sanitizePathSegment(version))
	if !isDir(target) {
		if err := os.Rename(clone, target); err != nil {
			return nil, err
		}
	}
	return newCheckout(target, version, commit, src.Path), nil
}

// cloneAt clones url into dir and leaves the worktree at pin, returning the commit hash.
// Tags and branches are fetched shallow; a bare commit needs the full history to resolve.
func cloneAt(dir, url string, pin gitPin) (string, error) {
	opts := &git.CloneOptions{URL: url}
	if pin.ref != "" {
		opts.ReferenceName = pin.ref
		opts.SingleBranch = true
		opts.Depth = 1
	}
	repo, err := git.PlainClone(dir, false, opts)
	if err != nil {
		return "", fmt.Errorf("git clone %s: %w", url, err)
	}

	if pin.ref != "" {
		head, err := repo.Head()
		if err != nil {
			return "", fmt.Errorf("read HEAD of %s: %w", url, err)
		}
		return head.Hash().String(), nil
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(pin.label))
	if err != nil {
		return "", fmt.Errorf("resolve revision %s: %w", pin.label, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		return "", fmt.Errorf("git checkout %s: %w", pin.label, err)
	}
	return hash.String(), nil
}

func newCheckout(root, version, commit, sub string) *Checkout {
	dir := root
	if sub = strings.TrimSpace(sub); sub != "" {
		dir = filepath.Join(root, filepath.FromSlash(sub))
	}
	return &Checkout{Dir: dir, Version: version, Commit: commit}
}

// pinnedVersion names a checkout directory: the label, qualified by the commit
// when the label is a moving ref.
func pinnedVersion(label, commit string) string {
	switch {
	case commit == "":
		return label
	case label == "" || label == commit:
		return commit
	default:
		return label + "@" + commit
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, segment)
}
