package agent

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/internal/util"
	"github.com/hupe1980/agentcore/session"
	"github.com/hupe1980/agentcore/tool"
)

const instructionTemplate = `You are {{.Name}}, {{.Description}}

# Capabilities
{{.Capabilities}}

# Environment
- Working directory: {{.WorkDir}}
- Platform: {{.Platform}}
- Date: {{.Date}}
- Git repository: {{.GitRepo}}

# Tools
You can call the following tools:
{{.Tools}}

# Calling tools
Call tools through the provider's native tool calling when available.
Otherwise, embed calls in your reply using one of these forms:
  <ToolName>{"param": "value"}</ToolName>
  [ToolName: {"param": "value"}]
  TOOL_CALL: ToolName {"param": "value"}
Tool results are reported back to you before your next turn.

# Finishing
When the task is done, call the Exit tool with status "success" (or
"failed" if it cannot be completed) and a short closing message. If you
reply without any tool call, your reply is treated as the final answer.
{{if .Manifest}}
# Project
{{.Manifest}}
{{end}}`

// BuildInstruction renders the system prompt for an agent: identity,
// environment facts, the tool listing and the tool call grammar, plus the
// project manifest when one was scanned.
func BuildInstruction(descriptor core.AgentDescriptor, registry *tool.Registry, project *session.Project, workDir string) string {
	state := map[string]any{
		"Name":         descriptor.Name,
		"Description":  descriptor.Description,
		"Capabilities": renderCapabilities(descriptor.Capabilities),
		"WorkDir":      absWorkDir(workDir),
		"Platform":     runtime.GOOS + "/" + runtime.GOARCH,
		"Date":         time.Now().Format("2006-01-02"),
		"GitRepo":      gitRepoStatus(workDir),
		"Tools":        renderToolList(descriptor, registry),
		"Manifest":     project.Manifest(),
	}

	rendered, err := util.RenderTemplate(instructionTemplate, state)
	if err != nil {
		// The template is static, so this only trips on malformed state.
		return "You are " + descriptor.Name + ", " + descriptor.Description
	}

	return strings.TrimSpace(rendered)
}

func renderCapabilities(capabilities []string) string {
	if len(capabilities) == 0 {
		return "- General purpose task execution"
	}

	var sb strings.Builder

	for _, c := range capabilities {
		sb.WriteString("- ")
		sb.WriteString(c)
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

func renderToolList(descriptor core.AgentDescriptor, registry *tool.Registry) string {
	var sb strings.Builder

	for _, def := range registry.Definitions(descriptor.Tools) {
		sb.WriteString("- ")
		sb.WriteString(def.Name)
		sb.WriteString(": ")
		sb.WriteString(def.Description)
		sb.WriteString("\n")
	}

	if sb.Len() == 0 {
		return "(no tools available)"
	}

	return strings.TrimRight(sb.String(), "\n")
}

func absWorkDir(workDir string) string {
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return workDir
	}

	return abs
}

func gitRepoStatus(workDir string) string {
	if info, err := os.Stat(filepath.Join(workDir, ".git")); err == nil && info.IsDir() {
		return "yes"
	}

	return "no"
}
