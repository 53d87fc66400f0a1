package driver

import (
	"fmt"
	"strings"
)

// DecodeError reports a malformed node in an AST document.
type DecodeError struct {
	File    string
	Path    string
	Message string
}

func (e *DecodeError) Error() string {
	location := formatDecodeLocation(e.File, e.Path)
	if location == "" {
		return "decode: " + e.Message
	}
	return fmt.Sprintf("decode: %s: %s", location, e.Message)
}

func formatDecodeLocation(file, path string) string {
	file = strings.TrimSpace(file)
	path = strings.TrimSpace(path)
	switch {
	case file != "" && path != "":
		return fmt.Sprintf("%s#%s", file, path)
	case file != "":
		return file
	default:
		return path
	}
}

func decodeErrorf(path, format string, args ...any) error {
	return &DecodeError{Path: path, Message: fmt.Sprintf(format, args...)}
}

func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

func indexPath(base string, idx int) string {
	return fmt.Sprintf("%s[%d]", base, idx)
}
