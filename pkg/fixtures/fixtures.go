// Package fixtures runs directories of AST programs against recorded
// expectations.
//
// A fixture directory holds manifest.json (or manifest.yml) and the module
// files it names. Without a manifest the directory is treated as a single
// module.json with no expectations.
package fixtures

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	goruntime "runtime"
	"slices"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/oeldar/simple-language-interpreter/pkg/driver"
	"github.com/oeldar/simple-language-interpreter/pkg/interpreter"
)

// ManifestFileNames lists the recognised fixture manifest names, in lookup order.
var ManifestFileNames = []string{"manifest.json", "manifest.yml", "manifest.yaml"}

const defaultEntry = "module.json"

// Manifest describes one fixture.
type Manifest struct {
	Description string      `json:"description" yaml:"description"`
	Entry       string      `json:"entry" yaml:"entry"`
	Setup       []string    `json:"setup" yaml:"setup"`
	MaxDepth    int         `json:"maxDepth" yaml:"maxDepth"`
	Expect      Expectation `json:"expect" yaml:"expect"`
}

// Expectation is what a fixture run must produce. Nil fields are not checked.
type Expectation struct {
	Result *int32   `json:"result" yaml:"result"`
	Stdout []string `json:"stdout" yaml:"stdout"`
	// Errors lists acceptable error kinds, e.g. "DivisionByZero".
	Errors []string `json:"errors" yaml:"errors"`
}

// Result records the outcome of one fixture run.
type Result struct {
	Dir         string
	Description string
	Value       int32
	Stdout      []string
	Err         error
	Mismatches  []string
}

// Passed reports whether the run matched every expectation.
func (r *Result) Passed() bool {
	return len(r.Mismatches) == 0
}

// ReadManifest loads the manifest in dir, falling back to defaults when none exists.
func ReadManifest(dir string) (Manifest, error) {
	for _, name := range ManifestFileNames {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Manifest{}, fmt.Errorf("read manifest %s: %w", path, err)
		}
		var manifest Manifest
		if strings.HasSuffix(name, ".json") {
			err = json.Unmarshal(data, &manifest)
		} else {
			err = yaml.Unmarshal(data, &manifest)
		}
		if err != nil {
			return Manifest{}, fmt.Errorf("parse manifest %s: %w", path, err)
		}
		if manifest.Entry == "" {
			manifest.Entry = defaultEntry
		}
		return manifest, nil
	}
	return Manifest{Entry: defaultEntry}, nil
}

// Load decodes the modules a fixture names into a program.
func Load(dir string, manifest Manifest) (*driver.Program, error) {
	program := &driver.Program{Name: filepath.Base(dir), MaxDepth: manifest.MaxDepth}
	for _, rel := range manifest.Setup {
		mod, err := driver.LoadFile(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return nil, err
		}
		program.Modules = append(program.Modules, mod)
	}
	entry, err := driver.LoadFile(filepath.Join(dir, filepath.FromSlash(manifest.Entry)))
	if err != nil {
		return nil, err
	}
	program.Entry = entry
	program.Modules = append(program.Modules, entry)
	return program, nil
}

// Run evaluates the fixture in dir. The returned error is reserved for
// fixtures that cannot be read; evaluation failures land in Result.Err.
func Run(dir string) (*Result, error) {
	manifest, err := ReadManifest(dir)
	if err != nil {
		return nil, err
	}
	program, err := Load(dir, manifest)
	if err != nil {
		return nil, err
	}

	var stdout bytes.Buffer
	interp := interpreter.New(
		interpreter.WithStdout(&stdout),
		interpreter.WithMaxDepth(manifest.MaxDepth),
	)
	value, evalErr := interp.EvaluateProgram(program)

	result := &Result{
		Dir:         dir,
		Description: manifest.Description,
		Value:       value,
		Stdout:      splitLines(stdout.String()),
		Err:         evalErr,
	}
	result.Mismatches = compare(manifest.Expect, result)
	return result, nil
}

func compare(expect Expectation, result *Result) []string {
	var mismatches []string
	if len(expect.Errors) > 0 {
		kind := interpreter.ErrorKind(result.Err)
		switch {
		case result.Err == nil:
			mismatches = append(mismatches, fmt.Sprintf("expected error %v, got none", expect.Errors))
		case !slices.Contains(expect.Errors, kind):
			mismatches = append(mismatches, fmt.Sprintf("expected error %v, got %v", expect.Errors, result.Err))
		}
	} else if result.Err != nil {
		mismatches = append(mismatches, fmt.Sprintf("unexpected error: %v", result.Err))
	}
	if expect.Result != nil && result.Err == nil && result.Value != *expect.Result {
		mismatches = append(mismatches, fmt.Sprintf("expected result %d, got %d", *expect.Result, result.Value))
	}
	if expect.Stdout != nil && !slices.Equal(expect.Stdout, result.Stdout) {
		mismatches = append(mismatches, fmt.Sprintf("expected stdout %q, got %q", expect.Stdout, result.Stdout))
	}
	return mismatches
}

func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{}
	}
	return strings.Split(text, "\n")
}

// Discover returns every fixture directory under roots, sorted.
func Discover(roots ...string) ([]string, error) {
	seen := make(map[string]struct{})
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !slices.Contains(ManifestFileNames, d.Name()) {
				return nil
			}
			seen[filepath.Dir(path)] = struct{}{}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("discover fixtures in %s: %w", root, err)
		}
	}
	dirs := make([]string, 0, len(seen))
	for dir := range seen {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs, nil
}

// RunAll runs the fixtures in dirs with at most parallelism running at once.
// Results keep the order of dirs. Each fixture gets its own interpreter.
func RunAll(ctx context.Context, dirs []string, parallelism int) ([]*Result, error) {
	if parallelism <= 0 {
		parallelism = goruntime.GOMAXPROCS(0)
	}
	results := make([]*Result, len(dirs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for idx, dir := range dirs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := Run(dir)
			if err != nil {
				return fmt.Errorf("fixture %s: %w", dir, err)
			}
			results[idx] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
