package assistant

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reinhart/loopagent/internal/safety"
)

func args(t *testing.T, v map[string]any) Arguments {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return ParseArguments(string(b))
}

func TestReadFile(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile("notes.txt", []byte("hello notes"), 0o644))

	out, err := (&ReadFileTool{}).Execute(context.Background(), args(t, map[string]any{"path": "notes.txt"}))
	require.NoError(t, err)
	assert.Equal(t, "hello notes", out)
}

func TestReadFileValidation(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile("empty.txt", nil, 0o644))
	tool := &ReadFileTool{}

	tests := []struct {
		name string
		args Arguments
		err  error
	}{
		{"missing path", ParseArguments(`{}`), safety.ErrInvalidArguments},
		{"non-string path", ParseArguments(`{"path":7}`), safety.ErrInvalidArguments},
		{"invalid json", ParseArguments(`{"path"`), safety.ErrInvalidArguments},
		{"traversal to missing target", args(t, map[string]any{"path": "../nowhere/at/all"}), safety.ErrPathTraversal},
		{"open failure", args(t, map[string]any{"path": "missing.txt"}), ErrOpenFile},
		{"empty file", args(t, map[string]any{"path": "empty.txt"}), ErrFileSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tool.Execute(context.Background(), tt.args)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestReadFileSizeLimit(t *testing.T) {
	chdir(t, t.TempDir())
	exact := strings.Repeat("a", safety.MaxReadBytes)
	require.NoError(t, os.WriteFile("exact.txt", []byte(exact), 0o644))
	require.NoError(t, os.WriteFile("over.txt", []byte(exact+"a"), 0o644))
	tool := &ReadFileTool{}

	out, err := tool.Execute(context.Background(), args(t, map[string]any{"path": "exact.txt"}))
	require.NoError(t, err)
	assert.Len(t, out, safety.MaxReadBytes)

	_, err = tool.Execute(context.Background(), args(t, map[string]any{"path": "over.txt"}))
	require.ErrorIs(t, err, safety.ErrFileTooLarge)
	assert.True(t, strings.HasPrefix(ToolErrorText(err), "ERROR: file too large"))
}

func TestWriteFileRoundTrip(t *testing.T) {
	chdir(t, t.TempDir())
	content := strings.Repeat("z", safety.MaxWriteBytes)

	out, err := (&WriteFileTool{}).Execute(context.Background(), args(t, map[string]any{"path": "big.txt", "content": content}))
	require.NoError(t, err)
	assert.Equal(t, "SUCCESS: file written", out)

	read, err := (&ReadFileTool{}).Execute(context.Background(), args(t, map[string]any{"path": "big.txt"}))
	require.NoError(t, err)
	assert.Equal(t, content, read)
}

func TestWriteFileTruncates(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile("f.txt", []byte("a much longer original text"), 0o644))

	_, err := (&WriteFileTool{}).Execute(context.Background(), args(t, map[string]any{"path": "f.txt", "content": "short"}))
	require.NoError(t, err)

	b, err := os.ReadFile("f.txt")
	require.NoError(t, err)
	assert.Equal(t, "short", string(b))
}

func TestWriteFileOverLimitLeavesNoFile(t *testing.T) {
	chdir(t, t.TempDir())
	content := strings.Repeat("z", safety.MaxWriteBytes+1)

	_, err := (&WriteFileTool{}).Execute(context.Background(), args(t, map[string]any{"path": "big.txt", "content": content}))
	require.ErrorIs(t, err, safety.ErrContentTooLarge)

	_, statErr := os.Stat("big.txt")
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteFileValidation(t *testing.T) {
	chdir(t, t.TempDir())
	tool := &WriteFileTool{}

	tests := []struct {
		name string
		args Arguments
		err  error
	}{
		{"missing content", args(t, map[string]any{"path": "a.txt"}), safety.ErrInvalidArguments},
		{"non-string content", ParseArguments(`{"path":"a.txt","content":1}`), safety.ErrInvalidArguments},
		{"missing path", args(t, map[string]any{"content": "x"}), safety.ErrInvalidArguments},
		{"empty path", args(t, map[string]any{"path": "", "content": "x"}), safety.ErrInvalidPath},
		{"parent", args(t, map[string]any{"path": "../a.txt", "content": "x"}), safety.ErrInvalidPath},
		{"absolute", args(t, map[string]any{"path": "/tmp/a.txt", "content": "x"}), safety.ErrInvalidPath},
		{"drive", args(t, map[string]any{"path": "C:a.txt", "content": "x"}), safety.ErrInvalidPath},
		{"missing directory", args(t, map[string]any{"path": "no/such/dir/a.txt", "content": "x"}), ErrOpenForWrite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tool.Execute(context.Background(), tt.args)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestChangeSummary(t *testing.T) {
	ins, del := changeSummary("hello world", "hello there world")
	assert.Equal(t, 6, ins)
	assert.Equal(t, 0, del)

	ins, del = changeSummary("abc", "")
	assert.Equal(t, 0, ins)
	assert.Equal(t, 3, del)
}

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell tests use POSIX sh")
	}
}

func TestBashEnvelope(t *testing.T) {
	skipWithoutShell(t)

	out, err := (&BashTool{}).Execute(context.Background(), args(t, map[string]any{"command": "echo hi; echo oops 1>&2; exit 3"}))
	require.NoError(t, err)
	assert.Equal(t, "EXIT_CODE: 3\nOUTPUT:\nhi\n", out)
}

func TestBashValidation(t *testing.T) {
	tool := &BashTool{}

	_, err := tool.Execute(context.Background(), ParseArguments(`{}`))
	assert.ErrorIs(t, err, safety.ErrInvalidArguments)

	_, err = tool.Execute(context.Background(), args(t, map[string]any{"command": ""}))
	assert.ErrorIs(t, err, safety.ErrEmptyCommand)
}

func TestBashBlockedNeverRuns(t *testing.T) {
	skipWithoutShell(t)
	dir := t.TempDir()
	marker := filepath.Join(dir, "ran")

	_, err := (&BashTool{}).Execute(context.Background(), args(t, map[string]any{"command": "touch " + marker + " && sudo true"}))
	require.ErrorIs(t, err, safety.ErrCommandBlocked)
	assert.Equal(t, "ERROR: command not allowed", ToolErrorText(err))

	_, statErr := os.Stat(marker)
	assert.True(t, os.IsNotExist(statErr), "blocked command must not execute")
}

func TestBashOutputCap(t *testing.T) {
	skipWithoutShell(t)
	tool := &BashTool{MaxOutputBytes: 1000}

	out, err := tool.Execute(context.Background(), args(t, map[string]any{"command": "head -c 1000 /dev/zero"}))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "EXIT_CODE: 0\nOUTPUT:\n"))
	assert.Len(t, out, len("EXIT_CODE: 0\nOUTPUT:\n")+1000)

	_, err = tool.Execute(context.Background(), args(t, map[string]any{"command": "head -c 1001 /dev/zero"}))
	assert.ErrorIs(t, err, safety.ErrOutputTooLarge)
}

func TestBashOutputCapStopsEndlessWriter(t *testing.T) {
	skipWithoutShell(t)

	_, err := (&BashTool{}).Execute(context.Background(), args(t, map[string]any{"command": "yes"}))
	assert.ErrorIs(t, err, safety.ErrOutputTooLarge)
}
