package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// ManifestFileNames lists the file names recognised as program manifests.
var ManifestFileNames = []string{"program.yml", "program.yaml"}

// Manifest represents the parsed contents of program.yml.
type Manifest struct {
	Path    string
	Name    string
	Version string
	Entry   string
	Setup   []string
	Limits  Limits
	Source  *SourceSpec
}

// Limits carries evaluation limits requested by the manifest.
type Limits struct {
	MaxDepth int
}

// SourceSpec points at a git repository holding the program files.
type SourceSpec struct {
	Git    string
	Rev    string
	Tag    string
	Branch string
	Path   string
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// IsManifestPath reports whether path names a program manifest file.
func IsManifestPath(path string) bool {
	base := filepath.Base(path)
	for _, name := range ManifestFileNames {
		if base == name {
			return true
		}
	}
	return false
}

// FindManifest returns the manifest path inside dir.
func FindManifest(dir string) (string, error) {
	for _, name := range ManifestFileNames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("manifest: no %s in %s: %w", strings.Join(ManifestFileNames, " or "), dir, os.ErrNotExist)
}

// LoadManifest parses program.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// Dir is the directory program paths are resolved against when no git source is set.
func (m *Manifest) Dir() string {
	return filepath.Dir(m.Path)
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if strings.TrimSpace(m.Name) == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if m.Version != "" && !semver.IsValid(canonicalVersion(m.Version)) {
		errs.Issues = append(errs.Issues, fmt.Sprintf("version %q is not a valid semantic version", m.Version))
	}
	if strings.TrimSpace(m.Entry) == "" {
		errs.Issues = append(errs.Issues, "entry must be provided")
	}
	for i, setup := range m.Setup {
		if strings.TrimSpace(setup) == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("setup[%d] must be a non-empty path", i))
		}
	}
	if m.Limits.MaxDepth < 0 {
		errs.Issues = append(errs.Issues, "limits.max_depth must not be negative")
	}
	if src := m.Source; src != nil {
		if strings.TrimSpace(src.Git) == "" {
			errs.Issues = append(errs.Issues, "source.git must be provided when source is set")
		}
		pins := 0
		for _, v := range []string{src.Rev, src.Tag, src.Branch} {
			if strings.TrimSpace(v) != "" {
				pins++
			}
		}
		if pins != 1 {
			errs.Issues = append(errs.Issues, "source requires exactly one of rev, tag, or branch")
		}
		if filepath.IsAbs(src.Path) || strings.HasPrefix(filepath.Clean(src.Path), "..") {
			errs.Issues = append(errs.Issues, "source.path must stay inside the repository")
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// canonicalVersion adds the "v" prefix semver expects.
func canonicalVersion(version string) string {
	version = strings.TrimSpace(version)
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}

type manifestFile struct {
	Name    string      `yaml:"name"`
	Version string      `yaml:"version"`
	Entry   string      `yaml:"entry"`
	Setup   []string    `yaml:"setup"`
	Limits  *limitsFile `yaml:"limits"`
	Source  *sourceFile `yaml:"source"`
}

type limitsFile struct {
	MaxDepth int `yaml:"max_depth"`
}

type sourceFile struct {
	Git    string `yaml:"git"`
	Rev    string `yaml:"rev"`
	Tag    string `yaml:"tag"`
	Branch string `yaml:"branch"`
	Path   string `yaml:"path"`
}

func (f manifestFile) toManifest(path string) *Manifest {
	m := &Manifest{
		Path:    path,
		Name:    strings.TrimSpace(f.Name),
		Version: strings.TrimSpace(f.Version),
		Entry:   strings.TrimSpace(f.Entry),
		Setup:   f.Setup,
	}
	if f.Limits != nil {
		m.Limits.MaxDepth = f.Limits.MaxDepth
	}
	if f.Source != nil {
		m.Source = &SourceSpec{
			Git:    strings.TrimSpace(f.Source.Git),
			Rev:    strings.TrimSpace(f.Source.Rev),
			Tag:    strings.TrimSpace(f.Source.Tag),
			Branch: strings.TrimSpace(f.Source.Branch),
			Path:   strings.TrimSpace(f.Source.Path),
		}
	}
	return m
}
