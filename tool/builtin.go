package tool

// NewBuiltinRegistry creates a registry pre-populated with the standard
// toolset: shell execution (Bash, BashOutput, KillBash), file access (Read,
// Write, Edit, MultiEdit), search (Glob, Grep, LS), WebFetch, task tracking
// (TodoWrite), delegation (Task) and the Exit terminator.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()

	bash, bashOutput, killBash := NewBashToolSet()

	for _, t := range []Tool{
		bash,
		bashOutput,
		killBash,
		NewReadTool(),
		NewWriteTool(),
		NewEditTool(),
		NewMultiEditTool(),
		NewTodoWriteTool(),
		NewGlobTool(),
		NewGrepTool(),
		NewLSTool(),
		NewWebFetchTool(),
		NewTaskTool(),
		NewExitTool(),
	} {
		r.MustRegister(t)
	}

	return r
}
