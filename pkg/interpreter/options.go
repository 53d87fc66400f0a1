package interpreter

import (
	"io"
	"log/slog"

	"github.com/oeldar/simple-language-interpreter/pkg/runtime"
)

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithStdout directs Print output to w.
func WithStdout(w io.Writer) Option {
	return func(i *Interpreter) {
		if w != nil {
			i.stdout = w
		}
	}
}

// WithLogger sets the logger used for call tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithMaxDepth sets the nesting limit. Values <= 0 select DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(i *Interpreter) {
		if depth <= 0 {
			depth = DefaultMaxDepth
		}
		i.maxDepth = depth
	}
}

// WithEnvironment evaluates against env instead of a fresh environment.
func WithEnvironment(env *runtime.Environment) Option {
	return func(i *Interpreter) {
		if env != nil {
			i.env = env
		}
	}
}
