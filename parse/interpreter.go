package parse

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/logging"
	"github.com/tidwall/gjson"
)

// ParsedTurn is the normalized result of interpreting one model turn.
// Calls preserve order of appearance; DisplayText is the turn's text with
// every matched call span removed and residual markup cleaned up.
type ParsedTurn struct {
	DisplayText string
	Calls       []core.ToolCallIntent
}

// HasCalls reports whether the turn produced any tool-call intents.
func (p ParsedTurn) HasCalls() bool { return len(p.Calls) > 0 }

// Head patterns for the three legacy inline surface forms. The JSON body is
// extracted with a balanced-brace scan rather than a regex so nested
// objects survive.
var (
	tagHeadRe     = regexp.MustCompile(`<([A-Za-z]\w*)>\s*`)
	bracketHeadRe = regexp.MustCompile(`\[([A-Za-z]\w*):\s*`)
	keywordHeadRe = regexp.MustCompile(`TOOL_CALL:\s*([A-Za-z]\w*)\s*`)

	// kv fallback for inline bodies that fail JSON decoding.
	kvPairRe = regexp.MustCompile(`(\w+)\s*=\s*["']([^"']*)["']`)

	// Residual fragments removed during cleanup.
	emptyTagPairRe  = regexp.MustCompile(`<(\w+)>\s*</(\w+)>`)
	orphanKeywordRe = regexp.MustCompile(`(?m)^\s*TOOL_CALL:\s*\w*\s*$`)
	blankLinesRe    = regexp.MustCompile(`\n[ \t]*\n[\s]*\n*`)
)

// Interpreter converts raw model turns into ParsedTurn values. It never
// fails: malformed call syntax degrades locally to empty or partial
// parameter maps.
type Interpreter struct {
	logger logging.Logger
}

// NewInterpreter constructs an Interpreter. A nil logger is replaced by a
// no-op logger.
func NewInterpreter(logger logging.Logger) *Interpreter {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Interpreter{logger: logger}
}

// Interpret normalizes one turn. The two encodings are treated as mutually
// exclusive per turn: when the backend supplies a native call list the
// inline grammar is not additionally scanned.
func (i *Interpreter) Interpret(text string, native []core.ToolCall) ParsedTurn {
	if len(native) > 0 {
		return i.fromNative(text, native)
	}
	return i.fromInline(text)
}

// fromNative normalizes a backend-segmented call list. An argument string
// that fails to decode yields an empty parameter map rather than failing
// the turn; the id is always preserved for correlation.
func (i *Interpreter) fromNative(text string, native []core.ToolCall) ParsedTurn {
	calls := make([]core.ToolCallIntent, 0, len(native))
	for _, tc := range native {
		params := map[string]any{}
		if len(tc.Arguments) > 0 {
			if err := json.Unmarshal(tc.Arguments, &params); err != nil {
				i.logger.Warn("native tool call arguments are not valid JSON",
					"tool", tc.Name, "call_id", tc.ID)
				params = map[string]any{}
			}
		}
		calls = append(calls, core.ToolCallIntent{Name: tc.Name, Params: params, ID: tc.ID})
	}
	return ParsedTurn{DisplayText: strings.TrimSpace(text), Calls: calls}
}

// inlineMatch is one recognized call span in the turn text.
type inlineMatch struct {
	start, end int
	name       string
	body       string
}

// fromInline scans all three legacy grammars, preserving order of
// appearance across them, and strips matched spans from the display text.
func (i *Interpreter) fromInline(text string) ParsedTurn {
	matches := scanInline(text)

	calls := make([]core.ToolCallIntent, 0, len(matches))
	var sb strings.Builder
	prev := 0
	for _, m := range matches {
		calls = append(calls, core.ToolCallIntent{Name: m.name, Params: i.decodeBody(m.name, m.body)})
		sb.WriteString(text[prev:m.start])
		prev = m.end
	}
	sb.WriteString(text[prev:])

	return ParsedTurn{DisplayText: cleanDisplayText(sb.String()), Calls: calls}
}

// decodeBody decodes one inline JSON body. Invalid JSON falls back to
// key="value" pair extraction with primitive coercion instead of dropping
// the call.
func (i *Interpreter) decodeBody(name, body string) map[string]any {
	if gjson.Valid(body) {
		if m, ok := gjson.Parse(body).Value().(map[string]any); ok {
			return m
		}
	}
	i.logger.Debug("inline tool call body is not valid JSON, using kv fallback", "tool", name)
	return parseKVPairs(body)
}

// scanInline finds every call span under the three grammars, sorted by
// position with overlapping spans dropped (first match wins).
func scanInline(text string) []inlineMatch {
	var found []inlineMatch
	found = append(found, scanTagged(text)...)
	found = append(found, scanHead(text, bracketHeadRe, "]")...)
	found = append(found, scanHead(text, keywordHeadRe, "")...)

	sort.Slice(found, func(a, b int) bool { return found[a].start < found[b].start })

	out := found[:0]
	lastEnd := -1
	for _, m := range found {
		if m.start < lastEnd {
			continue
		}
		out = append(out, m)
		lastEnd = m.end
	}
	return out
}

// scanTagged handles <Name>{json}</Name>: the closing tag must repeat the
// opening name.
func scanTagged(text string) []inlineMatch {
	var out []inlineMatch
	for _, loc := range tagHeadRe.FindAllStringSubmatchIndex(text, -1) {
		name := text[loc[2]:loc[3]]
		bodyStart := loc[1]
		bodyEnd, ok := scanJSONObject(text, bodyStart)
		if !ok {
			continue
		}
		rest := text[bodyEnd:]
		trimmed := strings.TrimLeft(rest, " \t\r\n")
		closing := "</" + name + ">"
		if !strings.HasPrefix(trimmed, closing) {
			continue
		}
		end := bodyEnd + (len(rest) - len(trimmed)) + len(closing)
		out = append(out, inlineMatch{start: loc[0], end: end, name: name, body: text[bodyStart:bodyEnd]})
	}
	return out
}

// scanHead handles the bracket and keyword forms: a head regex followed by
// a balanced JSON object and an optional terminator.
func scanHead(text string, head *regexp.Regexp, terminator string) []inlineMatch {
	var out []inlineMatch
	for _, loc := range head.FindAllStringSubmatchIndex(text, -1) {
		name := text[loc[2]:loc[3]]
		bodyStart := loc[1]
		bodyEnd, ok := scanJSONObject(text, bodyStart)
		if !ok {
			continue
		}
		end := bodyEnd
		if terminator != "" {
			rest := text[bodyEnd:]
			trimmed := strings.TrimLeft(rest, " \t")
			if !strings.HasPrefix(trimmed, terminator) {
				continue
			}
			end = bodyEnd + (len(rest) - len(trimmed)) + len(terminator)
		}
		out = append(out, inlineMatch{start: loc[0], end: end, name: name, body: text[bodyStart:bodyEnd]})
	}
	return out
}

// scanJSONObject returns the end offset (exclusive) of the JSON object
// starting at start, honoring string literals and escapes.
func scanJSONObject(text string, start int) (int, bool) {
	if start >= len(text) || text[start] != '{' {
		return 0, false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

// parseKVPairs extracts key="value" pairs coercing boolean literals and
// integer strings to their primitive types.
func parseKVPairs(body string) map[string]any {
	params := map[string]any{}
	for _, m := range kvPairRe.FindAllStringSubmatch(body, -1) {
		key, value := m[1], m[2]
		switch {
		case strings.EqualFold(value, "true"):
			params[key] = true
		case strings.EqualFold(value, "false"):
			params[key] = false
		default:
			if n, err := strconv.Atoi(value); err == nil {
				params[key] = n
			} else {
				params[key] = value
			}
		}
	}
	return params
}

// cleanDisplayText strips residual markup fragments and collapses redundant
// blank lines after call extraction.
func cleanDisplayText(text string) string {
	text = emptyTagPairRe.ReplaceAllString(text, "")
	text = orphanKeywordRe.ReplaceAllString(text, "")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
