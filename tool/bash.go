package tool

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/hupe1980/agentcore/core"
)

const (
	defaultBashTimeout = 120 * time.Second
	maxBashTimeout     = 600 * time.Second

	// Command output beyond this many characters is truncated.
	maxBashOutput = 30000
)

// shellProc tracks a background shell started by the Bash tool.
type shellProc struct {
	command string
	cmd     *exec.Cmd
	buf     *syncBuffer
	done    chan struct{}
	err     error
}

// syncBuffer is a bytes.Buffer safe for a writer goroutine and concurrent
// readers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

// shellTable holds background shells shared between the Bash, BashOutput and
// KillBash tools.
type shellTable struct {
	mu    sync.Mutex
	procs map[string]*shellProc
}

func (t *shellTable) add(proc *shellProc) (string, error) {
	id, err := gonanoid.New(8)
	if err != nil {
		return "", err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.procs[id] = proc

	return id, nil
}

func (t *shellTable) get(id string) (*shellProc, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	proc, ok := t.procs[id]

	return proc, ok
}

func (t *shellTable) remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.procs, id)
}

// NewBashToolSet creates the Bash tool together with its BashOutput and
// KillBash companions. The three share one background shell table, so they
// must be registered together.
func NewBashToolSet() (*BashTool, *BashOutputTool, *KillBashTool) {
	table := &shellTable{procs: make(map[string]*shellProc)}

	return &BashTool{shells: table}, &BashOutputTool{shells: table}, &KillBashTool{shells: table}
}

// BashTool executes shell commands in the agent's working directory, either
// synchronously with a timeout or detached in the background.
type BashTool struct {
	shells *shellTable
}

// Name implements Tool.
func (t *BashTool) Name() string { return "Bash" }

// Description implements Tool.
func (t *BashTool) Description() string {
	return "Execute a shell command. Synchronous by default with a configurable timeout; set run_in_background to start a long-running process and poll it with BashOutput."
}

// Parameters implements Tool.
func (t *BashTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"command": map[string]any{
				"type":        "string",
				"description": "The shell command to execute.",
			},
			"timeout": map[string]any{
				"type":        "number",
				"description": "Timeout in milliseconds (default 120000, max 600000).",
			},
			"run_in_background": map[string]any{
				"type":        "boolean",
				"description": "Start the command in the background and return a shell id.",
			},
		},
		"required": []string{"command"},
	}
}

// Call implements Tool.
func (t *BashTool) Call(tc *core.ToolContext, args map[string]any) (any, error) {
	command, _ := args["command"].(string)
	if command == "" {
		return nil, NewToolError(t.Name(), "command is required", CodeValidation)
	}

	if background, _ := args["run_in_background"].(bool); background {
		return t.startBackground(tc, command)
	}

	timeout := defaultBashTimeout
	if ms, ok := args["timeout"].(float64); ok && ms > 0 {
		timeout = time.Duration(ms) * time.Millisecond
		if timeout > maxBashTimeout {
			timeout = maxBashTimeout
		}
	}

	ctx, cancel := context.WithTimeout(tc.Context(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = tc.WorkDir()

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	output := stdout.String()
	if stderr.Len() > 0 {
		output += "\n--- STDERR ---\n" + stderr.String()
	}

	output = truncateOutput(output)

	if ctx.Err() == context.DeadlineExceeded {
		return nil, NewToolError(t.Name(), fmt.Sprintf("command timed out after %s", timeout), CodeExecution)
	}

	if runErr != nil {
		return nil, NewToolError(t.Name(), fmt.Sprintf("command failed: %v\n%s", runErr, output), CodeExecution)
	}

	tc.Logger().Debug("bash command finished", "duration", elapsed, "bytes", len(output))

	if output == "" {
		output = "(no output)"
	}

	return output, nil
}

func (t *BashTool) startBackground(tc *core.ToolContext, command string) (any, error) {
	buf := &syncBuffer{}

	// Background shells outlive the tool call, so they must not inherit the
	// call's context.
	cmd := exec.Command("sh", "-c", command)
	cmd.Dir = tc.WorkDir()
	cmd.Stdout = buf
	cmd.Stderr = buf

	if err := cmd.Start(); err != nil {
		return nil, NewToolError(t.Name(), fmt.Sprintf("start command: %v", err), CodeExecution)
	}

	proc := &shellProc{
		command: command,
		cmd:     cmd,
		buf:     buf,
		done:    make(chan struct{}),
	}

	go func() {
		proc.err = cmd.Wait()
		close(proc.done)
	}()

	id, err := t.shells.add(proc)
	if err != nil {
		_ = cmd.Process.Kill()
		return nil, NewToolError(t.Name(), fmt.Sprintf("allocate shell id: %v", err), CodeExecution)
	}

	tc.Logger().Info("background shell started", "bash_id", id)

	return map[string]any{
		"bash_id": id,
		"status":  "running",
	}, nil
}

// BashOutputTool returns the accumulated output of a background shell.
type BashOutputTool struct {
	shells *shellTable
}

// Name implements Tool.
func (t *BashOutputTool) Name() string { return "BashOutput" }

// Description implements Tool.
func (t *BashOutputTool) Description() string {
	return "Retrieve the accumulated output of a background shell started with Bash."
}

// Parameters implements Tool.
func (t *BashOutputTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"bash_id": map[string]any{
				"type":        "string",
				"description": "Shell id returned by the Bash tool.",
			},
		},
		"required": []string{"bash_id"},
	}
}

// Call implements Tool.
func (t *BashOutputTool) Call(tc *core.ToolContext, args map[string]any) (any, error) {
	id, _ := args["bash_id"].(string)

	proc, ok := t.shells.get(id)
	if !ok {
		return nil, NewToolError(t.Name(), fmt.Sprintf("no background shell with id %q", id), CodeValidation)
	}

	status := "running"
	select {
	case <-proc.done:
		if proc.err != nil {
			status = fmt.Sprintf("exited with error: %v", proc.err)
		} else {
			status = "completed"
		}
	default:
	}

	return map[string]any{
		"bash_id": id,
		"status":  status,
		"output":  truncateOutput(proc.buf.String()),
	}, nil
}

// KillBashTool terminates a background shell and removes it from the table.
type KillBashTool struct {
	shells *shellTable
}

// Name implements Tool.
func (t *KillBashTool) Name() string { return "KillBash" }

// Description implements Tool.
func (t *KillBashTool) Description() string {
	return "Terminate a background shell started with Bash."
}

// Parameters implements Tool.
func (t *KillBashTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"bash_id": map[string]any{
				"type":        "string",
				"description": "Shell id returned by the Bash tool.",
			},
		},
		"required": []string{"bash_id"},
	}
}

// Call implements Tool.
func (t *KillBashTool) Call(tc *core.ToolContext, args map[string]any) (any, error) {
	id, _ := args["bash_id"].(string)

	proc, ok := t.shells.get(id)
	if !ok {
		return nil, NewToolError(t.Name(), fmt.Sprintf("no background shell with id %q", id), CodeValidation)
	}

	select {
	case <-proc.done:
		// Already finished, nothing to kill.
	default:
		if err := proc.cmd.Process.Kill(); err != nil {
			return nil, NewToolError(t.Name(), fmt.Sprintf("kill shell %q: %v", id, err), CodeExecution)
		}
	}

	t.shells.remove(id)

	return map[string]any{
		"bash_id": id,
		"status":  "killed",
		"output":  truncateOutput(proc.buf.String()),
	}, nil
}

func truncateOutput(s string) string {
	if len(s) <= maxBashOutput {
		return s
	}

	return s[:maxBashOutput] + fmt.Sprintf("\n... (output truncated at %d characters)", maxBashOutput)
}
