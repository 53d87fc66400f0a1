package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/oeldar/simple-language-interpreter/pkg/driver"
	"github.com/oeldar/simple-language-interpreter/pkg/fixtures"
	"github.com/oeldar/simple-language-interpreter/pkg/interpreter"
)

const cliToolVersion = "exprtree 0.1.0-dev"

// maxDepthEnvVar supplies the nesting limit when neither a flag nor the manifest sets one.
const maxDepthEnvVar = "EXPRTREE_MAX_DEPTH"

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return exitUsage
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage(stdout)
		return exitOK
	case "--version", "-V", "version":
		fmt.Fprintln(stdout, cliToolVersion)
		return exitOK
	case "run":
		return runProgram(args[1:], stdout, stderr)
	case "test":
		return runFixtures(args[1:], stdout, stderr)
	case "fetch":
		return runFetch(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		printUsage(stderr)
		return exitUsage
	}
}

func runProgram(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	trace := fs.Bool("trace", false, "log function definitions, calls and returns to stderr")
	maxDepth := fs.Int("max-depth", 0, "maximum evaluation depth (default from manifest, "+maxDepthEnvVar+", or built-in limit)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "exprtree run requires exactly one program path")
		return exitUsage
	}

	program, err := driver.NewLoader(newFetcher()).Load(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "failed to load program: %v\n", err)
		return exitFailure
	}

	depth, err := resolveMaxDepth(*maxDepth, program.MaxDepth)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return exitUsage
	}

	level := slog.LevelError
	if *trace {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	interp := interpreter.New(
		interpreter.WithStdout(stdout),
		interpreter.WithLogger(logger),
		interpreter.WithMaxDepth(depth),
	)
	logger.Debug("program loaded",
		slog.String("name", program.Name),
		slog.Int("modules", len(program.Modules)),
		slog.Int("nodes", program.Entry.Stats.Nodes),
		slog.Int("max_depth", interp.MaxDepth()),
	)
	if _, err := interp.EvaluateProgram(program); err != nil {
		fmt.Fprintln(stderr, interpreter.DescribeRuntimeError(err))
		return exitFailure
	}
	return exitOK
}

func runFixtures(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(stderr)
	parallel := fs.Int("parallel", 0, "number of fixtures to run at once (default GOMAXPROCS)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	roots := fs.Args()
	if len(roots) == 0 {
		roots = []string{"."}
	}

	dirs, err := fixtures.Discover(roots...)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return exitFailure
	}
	if len(dirs) == 0 {
		fmt.Fprintf(stderr, "no fixtures found under %s\n", strings.Join(roots, ", "))
		return exitFailure
	}

	results, err := fixtures.RunAll(context.Background(), dirs, *parallel)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return exitFailure
	}

	failed := 0
	for _, res := range results {
		if res.Passed() {
			fmt.Fprintf(stdout, "ok   %s\n", res.Dir)
			continue
		}
		failed++
		fmt.Fprintf(stdout, "FAIL %s\n", res.Dir)
		for _, mismatch := range res.Mismatches {
			fmt.Fprintf(stdout, "     %s\n", mismatch)
		}
	}
	fmt.Fprintf(stdout, "%d passed, %d failed\n", len(results)-failed, failed)
	if failed > 0 {
		return exitFailure
	}
	return exitOK
}

func runFetch(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "exprtree fetch requires a program.yml path")
		return exitUsage
	}
	manifest, err := driver.LoadManifest(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "failed to load manifest: %v\n", err)
		return exitFailure
	}
	if manifest.Source == nil {
		fmt.Fprintf(stdout, "%s has no git source; nothing to fetch\n", manifest.Name)
		return exitOK
	}
	fetcher := newFetcher()
	if fetcher == nil {
		fmt.Fprintln(stderr, "unable to determine cache directory; set "+driver.CacheEnvVar)
		return exitFailure
	}
	checkout, err := fetcher.Fetch(manifest.Name, manifest.Source)
	if err != nil {
		fmt.Fprintf(stderr, "fetch %s: %v\n", manifest.Name, err)
		return exitFailure
	}
	fmt.Fprintf(stdout, "fetched %s %s -> %s\n", manifest.Name, checkout.Version, checkout.Dir)
	return exitOK
}

func parseFlags(fs *flag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK, false
		}
		return exitUsage, false
	}
	return exitOK, true
}

func newFetcher() *driver.GitFetcher {
	dir, err := driver.DefaultCacheDir()
	if err != nil {
		return nil
	}
	return driver.NewGitFetcher(dir)
}

// resolveMaxDepth picks the first positive limit from the flag, the manifest,
// and the environment. Zero lets the interpreter apply its default.
func resolveMaxDepth(flagValue, manifestValue int) (int, error) {
	if flagValue < 0 {
		return 0, fmt.Errorf("--max-depth must not be negative")
	}
	if flagValue > 0 {
		return flagValue, nil
	}
	if manifestValue > 0 {
		return manifestValue, nil
	}
	raw := strings.TrimSpace(os.Getenv(maxDepthEnvVar))
	if raw == "" {
		return 0, nil
	}
	depth, err := strconv.Atoi(raw)
	if err != nil || depth < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", maxDepthEnvVar, raw)
	}
	return depth, nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `Usage:
  exprtree run [--trace] [--max-depth N] <file.json|file.yaml|program.yml|dir>
  exprtree test [--parallel N] [dir...]
  exprtree fetch <program.yml>
  exprtree version

Environment:
  EXPRTREE_CACHE      directory for fetched git sources
  EXPRTREE_MAX_DEPTH  default evaluation depth limit`)
}
