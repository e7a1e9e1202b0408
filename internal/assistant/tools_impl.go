package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/reinhart/loopagent/internal/logger"
	"github.com/reinhart/loopagent/internal/safety"
)

var (
	ErrOpenFile     = errors.New("could not open file")
	ErrFileSize     = errors.New("could not determine file size")
	ErrReadFailed   = errors.New("file read failed")
	ErrOpenForWrite = errors.New("could not open file for writing")
	ErrWriteFailed  = errors.New("write failed")
	ErrExecFailed   = errors.New("failed to execute command")
)

const writeSuccessMessage = "SUCCESS: file written"

// --- File Access Tools ---

type ReadFileTool struct {
	MaxBytes int
}

type readFileRequest struct {
	Path string
}

func parseReadFileRequest(args Arguments) (readFileRequest, error) {
	path, ok := args.String("path")
	if !ok {
		return readFileRequest{}, safety.ErrInvalidArguments
	}
	return readFileRequest{Path: path}, nil
}

func (t *ReadFileTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "read_file",
		Description: "Read and return the contents of a file",
		Parameters: StringParams(
			Param{Name: "path", Description: "The path to the file to read"},
		),
	}
}

func (t *ReadFileTool) Execute(ctx context.Context, args Arguments) (string, error) {
	req, err := parseReadFileRequest(args)
	if err != nil {
		return "", err
	}
	if err := safety.CheckReadPath(req.Path); err != nil {
		return "", err
	}

	file, err := os.Open(req.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOpenFile, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil || info.Size() <= 0 {
		return "", ErrFileSize
	}

	limit := limitOr(t.MaxBytes, safety.MaxReadBytes)
	if info.Size() > int64(limit) {
		return "", fmt.Errorf("%w: %d bytes exceeds %d", safety.ErrFileTooLarge, info.Size(), limit)
	}

	content := make([]byte, info.Size())
	if _, err := io.ReadFull(file, content); err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadFailed, err)
	}
	return string(content), nil
}

type WriteFileTool struct {
	MaxBytes int
}

type writeFileRequest struct {
	Path    string
	Content string
}

func parseWriteFileRequest(args Arguments) (writeFileRequest, error) {
	path, okPath := args.String("path")
	content, okContent := args.String("content")
	if !okPath || !okContent {
		return writeFileRequest{}, safety.ErrInvalidArguments
	}
	return writeFileRequest{Path: path, Content: content}, nil
}

func (t *WriteFileTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "write_file",
		Description: "Write content to a file, replacing anything already there",
		Parameters: StringParams(
			Param{Name: "path", Description: "The relative path of the file to write"},
			Param{Name: "content", Description: "Content to write into the file"},
		),
	}
}

func (t *WriteFileTool) Execute(ctx context.Context, args Arguments) (string, error) {
	req, err := parseWriteFileRequest(args)
	if err != nil {
		return "", err
	}
	if err := safety.CheckWritePath(req.Path); err != nil {
		return "", err
	}

	limit := limitOr(t.MaxBytes, safety.MaxWriteBytes)
	if len(req.Content) > limit {
		return "", fmt.Errorf("%w: %d bytes exceeds %d", safety.ErrContentTooLarge, len(req.Content), limit)
	}

	if logger.DebugMode {
		logChange(req.Path, req.Content, limit)
	}

	// No temp file and rename: a failed write can leave the target truncated.
	file, err := os.OpenFile(req.Path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOpenForWrite, err)
	}
	_, writeErr := file.WriteString(req.Content)
	closeErr := file.Close()
	if writeErr != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteFailed, writeErr)
	}
	if closeErr != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteFailed, closeErr)
	}
	return writeSuccessMessage, nil
}

// logChange records how much of an existing file an overwrite changes.
func logChange(path, content string, limit int) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() > int64(limit) {
		logger.Debug("write_file %s: new file or unreadable, %d bytes", path, len(content))
		return
	}
	old, err := os.ReadFile(path)
	if err != nil {
		return
	}
	inserted, deleted := changeSummary(string(old), content)
	logger.Debug("write_file %s: +%d -%d chars", path, inserted, deleted)
}

// changeSummary counts inserted and deleted characters between two texts.
func changeSummary(oldText, newText string) (inserted, deleted int) {
	dmp := diffmatchpatch.New()
	for _, d := range dmp.DiffMain(oldText, newText, false) {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			inserted += len([]rune(d.Text))
		case diffmatchpatch.DiffDelete:
			deleted += len([]rune(d.Text))
		}
	}
	return inserted, deleted
}

// --- Shell Tool ---

type BashTool struct {
	MaxOutputBytes int
}

type bashRequest struct {
	Command string
}

func parseBashRequest(args Arguments) (bashRequest, error) {
	command, ok := args.String("command")
	if !ok {
		return bashRequest{}, safety.ErrInvalidArguments
	}
	return bashRequest{Command: command}, nil
}

func (t *BashTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "bash",
		Description: "Execute a shell command and return stdout and exit code",
		Parameters: StringParams(
			Param{Name: "command", Description: "Shell command to execute"},
		),
	}
}

func (t *BashTool) Execute(ctx context.Context, args Arguments) (string, error) {
	req, err := parseBashRequest(args)
	if err != nil {
		return "", err
	}
	if err := safety.CheckCommand(req.Command); err != nil {
		return "", err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	shell, flag := hostShell()
	cmd := exec.CommandContext(ctx, shell, flag, req.Command)
	// Stderr stays nil: only stdout is reported back.
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExecFailed, err)
	}
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExecFailed, err)
	}

	limit := limitOr(t.MaxOutputBytes, safety.MaxOutputBytes)
	out := safety.NewLimitedBuffer(limit)
	_, copyErr := io.Copy(out, stdout)
	if copyErr != nil {
		// Kill the child so Wait cannot block on a writer nobody reads.
		cancel()
	}
	waitErr := cmd.Wait()

	if out.Exceeded() {
		return "", fmt.Errorf("%w: more than %d bytes", safety.ErrOutputTooLarge, limit)
	}
	if copyErr != nil {
		return "", fmt.Errorf("%w: %v", ErrExecFailed, copyErr)
	}

	exitCode := 0
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return "", fmt.Errorf("%w: %v", ErrExecFailed, waitErr)
		}
		exitCode = exitErr.ExitCode()
	}
	logger.Debug("bash exited %d with %d bytes of output", exitCode, out.Len())

	return fmt.Sprintf("EXIT_CODE: %d\nOUTPUT:\n%s", exitCode, out.String()), nil
}

func hostShell() (string, string) {
	if runtime.GOOS == "windows" {
		return "cmd.exe", "/c"
	}
	return "/bin/sh", "-c"
}

func limitOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
