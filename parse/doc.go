// Package parse converts one raw model turn into display text plus an
// ordered list of tool-call intents. Two wire encodings coexist: the native
// structured list surfaced by a backend, and a legacy grammar that embeds
// calls in free text under three equivalent surface forms. Both normalize
// into the same core.ToolCallIntent value so the rest of the system stays
// encoding-agnostic.
package parse
