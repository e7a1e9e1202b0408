// Package safety holds the heuristic guards the tools apply before touching
// the filesystem or spawning a shell. None of this is a jail: the checks are
// plain substring rules over the raw argument text.
package safety

import (
	"errors"
	"strings"
)

// Default byte caps for tool payloads.
const (
	MaxReadBytes   = 1_000_000
	MaxWriteBytes  = 1_000_000
	MaxOutputBytes = 1_000_000
)

var (
	ErrInvalidArguments = errors.New("invalid arguments")
	ErrPathTraversal    = errors.New("path traversal detected")
	ErrInvalidPath      = errors.New("invalid path")
	ErrEmptyCommand     = errors.New("empty command")
	ErrCommandBlocked   = errors.New("command not allowed")
	ErrFileTooLarge     = errors.New("file too large")
	ErrContentTooLarge  = errors.New("content too large")
	ErrOutputTooLarge   = errors.New("output too large")
)

// BlockedCommandSubstrings are rejected anywhere in a shell command.
var BlockedCommandSubstrings = []string{"sudo", "rm -rf /"}

// CheckReadPath rejects any path containing "..". The path is not cleaned or
// resolved first, so symlinks and absolute paths pass.
func CheckReadPath(path string) error {
	if strings.Contains(path, "..") {
		return ErrPathTraversal
	}
	return nil
}

// CheckWritePath rejects empty paths, "..", anything rooted ("/" or "\")
// and anything carrying a drive separator.
func CheckWritePath(path string) error {
	switch {
	case path == "":
		return ErrInvalidPath
	case strings.Contains(path, ".."):
		return ErrInvalidPath
	case strings.HasPrefix(path, "/"), strings.HasPrefix(path, `\`):
		return ErrInvalidPath
	case strings.Contains(path, ":"):
		return ErrInvalidPath
	}
	return nil
}

// CheckCommand applies the blocklist. It is trivially bypassed (quoting,
// variables, other binaries) and only stops the literal forms.
func CheckCommand(command string) error {
	if command == "" {
		return ErrEmptyCommand
	}
	for _, blocked := range BlockedCommandSubstrings {
		if strings.Contains(command, blocked) {
			return ErrCommandBlocked
		}
	}
	return nil
}
