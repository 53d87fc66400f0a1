package driver

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oeldar/simple-language-interpreter/pkg/ast"
)

// Module is a decoded AST file.
type Module struct {
	Path  string
	AST   *ast.Module
	Stats ast.Stats
}

// Program is the ordered set of modules evaluated in one Environment.
// Modules holds the setup modules followed by the entry module.
type Program struct {
	Name     string
	Entry    *Module
	Modules  []*Module
	MaxDepth int
	Manifest *Manifest
}

// Loader resolves program paths into decoded modules.
type Loader struct {
	fetcher *GitFetcher
}

// NewLoader returns a loader. fetcher may be nil when git sources are not needed.
func NewLoader(fetcher *GitFetcher) *Loader {
	return &Loader{fetcher: fetcher}
}

// Load accepts an AST file, a program manifest, or a directory holding a manifest.
func (l *Loader) Load(path string) (*Program, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	if info.IsDir() {
		manifestPath, err := FindManifest(path)
		if err != nil {
			return nil, fmt.Errorf("loader: %w", err)
		}
		return l.LoadManifest(manifestPath)
	}
	if IsManifestPath(path) {
		return l.LoadManifest(path)
	}
	mod, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &Program{Name: name, Entry: mod, Modules: []*Module{mod}}, nil
}

// LoadManifest loads the manifest at path and every module it names.
func (l *Loader) LoadManifest(path string) (*Program, error) {
	manifest, err := LoadManifest(path)
	if err != nil {
		return nil, err
	}
	root := manifest.Dir()
	if manifest.Source != nil {
		if l == nil || l.fetcher == nil {
			return nil, fmt.Errorf("loader: program %q has a git source but no cache is configured", manifest.Name)
		}
		checkout, err := l.fetcher.Fetch(manifest.Name, manifest.Source)
		if err != nil {
			return nil, fmt.Errorf("loader: fetch %s: %w", manifest.Name, err)
		}
		root = checkout.Dir
	}

	program := &Program{Name: manifest.Name, MaxDepth: manifest.Limits.MaxDepth, Manifest: manifest}
	for _, rel := range manifest.Setup {
		mod, err := LoadFile(resolvePath(root, rel))
		if err != nil {
			return nil, err
		}
		program.Modules = append(program.Modules, mod)
	}
	entry, err := LoadFile(resolvePath(root, manifest.Entry))
	if err != nil {
		return nil, err
	}
	program.Entry = entry
	program.Modules = append(program.Modules, entry)
	return program, nil
}

// LoadFile decodes one AST document. The format is chosen by extension.
func LoadFile(path string) (*Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}
	raw, err := unmarshalDocument(path, data)
	if err != nil {
		return nil, fmt.Errorf("loader: parse %s: %w", path, err)
	}
	mod, err := DecodeModule(raw)
	if err != nil {
		var decodeErr *DecodeError
		if errors.As(err, &decodeErr) {
			decodeErr.File = path
		}
		return nil, err
	}
	return &Module{Path: path, AST: mod, Stats: ast.Measure(mod)}, nil
}

func unmarshalDocument(path string, data []byte) (any, error) {
	var raw any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported file extension %q", filepath.Ext(path))
	}
	return raw, nil
}

func resolvePath(root, rel string) string {
	rel = filepath.FromSlash(strings.TrimSpace(rel))
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(root, rel)
}
